package math

import "github.com/chewxy/math32"

// Quat is a rotation quaternion with W as the scalar part, the component
// order glTF stores.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the quaternion that rotates nothing.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle returns a rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	sin, cos := math32.Sin(angle/2), math32.Cos(angle/2)
	a := axis.Normalize().Scale(sin)
	return Quat{X: a.X, Y: a.Y, Z: a.Z, W: cos}
}

func (q Quat) vec() Vec3 {
	return Vec3{X: q.X, Y: q.Y, Z: q.Z}
}

func (q Quat) scale(s float32) Quat {
	return Quat{X: q.X * s, Y: q.Y * s, Z: q.Z * s, W: q.W * s}
}

func (q Quat) add(o Quat) Quat {
	return Quat{X: q.X + o.X, Y: q.Y + o.Y, Z: q.Z + o.Z, W: q.W + o.W}
}

// Dot returns the four-component dot product.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Normalize returns q scaled to unit length. A degenerate quaternion
// becomes the identity.
func (q Quat) Normalize() Quat {
	l := math32.Sqrt(q.Dot(q))
	if l < 1e-6 {
		return QuatIdentity()
	}
	return q.scale(1 / l)
}

// Conjugate returns the inverse rotation of a unit quaternion.
func (q Quat) Conjugate() Quat {
	return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

// Mul returns the rotation that applies o first, then q.
func (q Quat) Mul(o Quat) Quat {
	u, v := q.vec(), o.vec()
	xyz := v.Scale(q.W).Add(u.Scale(o.W)).Add(u.Cross(v))
	return Quat{X: xyz.X, Y: xyz.Y, Z: xyz.Z, W: q.W*o.W - u.Dot(v)}
}

// Rotate applies the rotation to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	q = q.Normalize()
	u := q.vec()
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Slerp interpolates along the shorter arc from q to o.
func (q Quat) Slerp(o Quat, t float32) Quat {
	cos := q.Dot(o)
	if cos < 0 {
		o, cos = o.scale(-1), -cos
	}
	// Nearly parallel: sin(theta) is too small to divide by.
	if cos > 1-5e-4 {
		return q.scale(1 - t).add(o.scale(t)).Normalize()
	}
	theta := math32.Acos(cos)
	sin := math32.Sin(theta)
	return q.scale(math32.Sin((1-t)*theta) / sin).add(o.scale(math32.Sin(t*theta) / sin))
}

// ToMat4 returns the rotation as a matrix whose columns are the rotated
// basis axes.
func (q Quat) ToMat4() Mat4 {
	x := q.Rotate(Vec3UnitX)
	y := q.Rotate(Vec3UnitY)
	z := q.Rotate(Vec3UnitZ)
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		0, 0, 0, 1,
	}
}
