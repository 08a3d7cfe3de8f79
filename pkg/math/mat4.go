package math

import "github.com/chewxy/math32"

// Mat4 stores a 4x4 matrix column by column, the order glUniformMatrix4fv
// reads without transposing. Element col*4+row holds row, col.
type Mat4 [16]float32

// singularEpsilon is the determinant magnitude below which Inverse gives up.
const singularEpsilon = 1e-12

// Identity returns the matrix that changes nothing.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Perspective returns a right-handed perspective projection matrix mapping depth to [-1, 1].
// fovY is in radians, aspect is width/height.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovY/2)
	nf := 1 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// PerspectiveDegrees is Perspective with the field of view given in degrees.
func PerspectiveDegrees(fovYDegrees, aspect, near, far float32) Mat4 {
	return Perspective(Radians(fovYDegrees), aspect, near, far)
}

// Ortho maps the box [left,right]x[bottom,top]x[-near,-far] onto clip space.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	w, h, d := right-left, top-bottom, far-near
	return Mat4{
		2 / w, 0, 0, 0,
		0, 2 / h, 0, 0,
		0, 0, -2 / d, 0,
		-(right + left) / w, -(top + bottom) / h, -(far + near) / d, 1,
	}
}

// LookAt returns a right-handed view matrix looking from eye to center, -Z forward.
// If eye and center coincide the view looks down -Z. If up is parallel to the
// view direction, +Y is used instead, or +Z when looking straight up or down.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye)
	if f.Length() < 1e-6 {
		f = Vec3{0, 0, -1}
	}
	f = f.Normalize()

	s := f.Cross(up)
	if s.Length() < 1e-6 {
		fallback := Vec3UnitY
		if math32.Abs(f.Y) > 0.999 {
			fallback = Vec3UnitZ
		}
		s = f.Cross(fallback)
	}
	s = s.Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Translate returns a matrix that moves points by (x, y, z).
func Translate(x, y, z float32) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = x, y, z
	return m
}

// TranslateVec3 returns a translation matrix for v.
func TranslateVec3(v Vec3) Mat4 {
	return Translate(v.X, v.Y, v.Z)
}

// Scale returns a matrix scaling each axis independently.
func Scale(x, y, z float32) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = x, y, z
	return m
}

// ScaleVec3 returns a scale matrix for v.
func ScaleVec3(v Vec3) Mat4 {
	return Scale(v.X, v.Y, v.Z)
}

// RotateX rotates counter-clockwise about +X by angle radians.
func RotateX(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY rotates counter-clockwise about +Y by angle radians.
func RotateY(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ rotates counter-clockwise about +Z by angle radians.
func RotateZ(angle float32) Mat4 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)

	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// RotateAxis rotates by angle radians about axis, which need not be unit
// length. A zero axis yields identity.
func RotateAxis(axis Vec3, angle float32) Mat4 {
	axis = axis.Normalize()
	if axis == (Vec3{}) {
		return Identity()
	}

	c := math32.Cos(angle)
	s := math32.Sin(angle)
	t := 1 - c

	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// RotationDegrees is RotateAxis with the angle given in degrees.
func RotationDegrees(degrees float32, axis Vec3) Mat4 {
	return RotateAxis(axis, Radians(degrees))
}

// Mul returns m * o, the transform that applies o first and m second.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 16; c += 4 {
		v := m.MulVec4(Vec4{o[c], o[c+1], o[c+2], o[c+3]})
		out[c], out[c+1], out[c+2], out[c+3] = v.X, v.Y, v.Z, v.W
	}
	return out
}

// Transpose swaps rows and columns.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for i := range out {
		out[i] = m[(i%4)*4+i/4]
	}
	return out
}

// TransformPoint transforms a point by this matrix (w=1), dividing by the
// resulting w when the matrix is projective.
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	x := m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z := m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w := m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// TransformNormal transforms a direction vector (ignores translation).
// The result is not normalized.
func (m Mat4) TransformNormal(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// NormalMatrix returns the inverse transpose used to carry surface normals.
func (m Mat4) NormalMatrix() Mat4 {
	return m.Inverse().Transpose()
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Mat3x3 returns the rotation and scale block, column-major.
func (m Mat4) Mat3x3() [9]float32 {
	return [9]float32{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// FromMat3x3 embeds a column-major 3x3 block in an otherwise identity matrix.
func FromMat3x3(m3 [9]float32) Mat4 {
	return Mat4{
		m3[0], m3[1], m3[2], 0,
		m3[3], m3[4], m3[5], 0,
		m3[6], m3[7], m3[8], 0,
		0, 0, 0, 1,
	}
}

// Ptr returns the address of element 0 for gl.UniformMatrix4fv.
func (m *Mat4) Ptr() *float32 {
	return &m[0]
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// ApproxEqual reports whether every element is within eps of other.
func (m Mat4) ApproxEqual(other Mat4, eps float32) bool {
	for i := range m {
		if math32.Abs(m[i]-other[i]) > eps {
			return false
		}
	}
	return true
}

// Inverse returns the inverse by Laplace expansion over 2x2 minors, so
// projective matrices invert as well as affine ones. A singular matrix
// yields the identity.
func (m Mat4) Inverse() Mat4 {
	a00, a01, a02, a03 := m[0], m[1], m[2], m[3]
	a10, a11, a12, a13 := m[4], m[5], m[6], m[7]
	a20, a21, a22, a23 := m[8], m[9], m[10], m[11]
	a30, a31, a32, a33 := m[12], m[13], m[14], m[15]

	b00 := a00*a11 - a01*a10
	b01 := a00*a12 - a02*a10
	b02 := a00*a13 - a03*a10
	b03 := a01*a12 - a02*a11
	b04 := a01*a13 - a03*a11
	b05 := a02*a13 - a03*a12
	b06 := a20*a31 - a21*a30
	b07 := a20*a32 - a22*a30
	b08 := a20*a33 - a23*a30
	b09 := a21*a32 - a22*a31
	b10 := a21*a33 - a23*a31
	b11 := a22*a33 - a23*a32

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if math32.Abs(det) < singularEpsilon {
		return Identity()
	}
	k := 1 / det

	return Mat4{
		(a11*b11 - a12*b10 + a13*b09) * k,
		(a02*b10 - a01*b11 - a03*b09) * k,
		(a31*b05 - a32*b04 + a33*b03) * k,
		(a22*b04 - a21*b05 - a23*b03) * k,

		(a12*b08 - a10*b11 - a13*b07) * k,
		(a00*b11 - a02*b08 + a03*b07) * k,
		(a32*b02 - a30*b05 - a33*b01) * k,
		(a20*b05 - a22*b02 + a23*b01) * k,

		(a10*b10 - a11*b08 + a13*b06) * k,
		(a01*b08 - a00*b10 - a03*b06) * k,
		(a30*b04 - a31*b02 + a33*b00) * k,
		(a21*b02 - a20*b04 - a23*b00) * k,

		(a11*b07 - a10*b09 - a12*b06) * k,
		(a00*b09 - a01*b07 + a02*b06) * k,
		(a31*b01 - a30*b03 - a32*b00) * k,
		(a20*b03 - a21*b01 + a22*b00) * k,
	}
}

// Radians converts degrees to radians.
func Radians(degrees float32) float32 {
	return degrees * math32.Pi / 180
}

// Degrees converts radians to degrees.
func Degrees(radians float32) float32 {
	return radians * 180 / math32.Pi
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
