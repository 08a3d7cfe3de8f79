package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// CalcNormals recomputes vertex normals from face winding. Each triangle adds
// its unnormalized cross product, so larger faces weigh more, to the normals
// of its three vertices; the sums are then normalized. Vertices used by no
// face, or only by degenerate faces, end up with a zero normal.
func (m *Mesh) CalcNormals() {
	sums := make([]math.Vec3, len(m.vertices))
	for t := 0; t < len(m.indices); t += 3 {
		i1, i2, i3 := m.indices[t], m.indices[t+1], m.indices[t+2]
		p1 := m.vertices[i1].Position
		p2 := m.vertices[i2].Position
		p3 := m.vertices[i3].Position
		n := p2.Sub(p1).Cross(p3.Sub(p1))
		sums[i1] = sums[i1].Add(n)
		sums[i2] = sums[i2].Add(n)
		sums[i3] = sums[i3].Add(n)
	}
	for i := range m.vertices {
		m.vertices[i].Normal = sums[i].Normalize()
	}
	m.touch()
}

// faceNormal uses Newell's method, which tolerates concave and slightly
// non-planar polygons.
func (m *Mesh) faceNormal(face []int) math.Vec3 {
	var n math.Vec3
	for i := range face {
		a := m.vertices[face[i]].Position
		b := m.vertices[face[(i+1)%len(face)]].Position
		n.X += (a.Y - b.Y) * (a.Z + b.Z)
		n.Y += (a.Z - b.Z) * (a.X + b.X)
		n.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	return n.Normalize()
}

// FaceIsConvex reports whether face i turns the same way at every corner,
// which is when its fan triangulation is valid. Triangles are always convex.
func (m *Mesh) FaceIsConvex(i int) bool {
	face := m.faces[i]
	if len(face) == 3 {
		return true
	}
	n := m.faceNormal(face)
	if n == (math.Vec3{}) {
		return false
	}
	for k := range face {
		a := m.vertices[face[k]].Position
		b := m.vertices[face[(k+1)%len(face)]].Position
		c := m.vertices[face[(k+2)%len(face)]].Position
		if b.Sub(a).Cross(c.Sub(b)).Dot(n) < -1e-6 {
			return false
		}
	}
	return true
}

// CalcBounds returns the mesh-space box of every vertex referenced by a face.
func (m *Mesh) CalcBounds() geom.BoundingBox {
	b := geom.EmptyBoundingBox()
	for _, i := range m.indices {
		b = b.AddPoint(m.vertices[i].Position)
	}
	return b
}

// CalcTextureCoordinates assigns planar texture coordinates, one world unit
// per units of texture, projecting each face along its dominant normal axis.
// Vertices shared between faces take the projection of the last face.
func (m *Mesh) CalcTextureCoordinates(units float32) {
	if units == 0 {
		units = 1
	}
	for _, face := range m.faces {
		n := m.faceNormal(face)
		ax, ay, az := math32.Abs(n.X), math32.Abs(n.Y), math32.Abs(n.Z)
		for _, i := range face {
			p := m.vertices[i].Position
			var uv math.Vec2
			switch {
			case ax >= ay && ax >= az:
				uv = math.Vec2{X: p.Z, Y: p.Y}
			case ay >= az:
				uv = math.Vec2{X: p.X, Y: p.Z}
			default:
				uv = math.Vec2{X: p.X, Y: p.Y}
			}
			m.vertices[i].TexCoord = uv.Scale(1 / units)
		}
	}
	m.touch()
}

// boxSides lists each side's outward normal and two tangents with u x v = n.
var boxSides = [6][3]math.Vec3{
	{math.Vec3UnitX, math.Vec3UnitY, math.Vec3UnitZ},
	{math.Vec3UnitX.Neg(), math.Vec3UnitZ, math.Vec3UnitY},
	{math.Vec3UnitY, math.Vec3UnitZ, math.Vec3UnitX},
	{math.Vec3UnitY.Neg(), math.Vec3UnitX, math.Vec3UnitZ},
	{math.Vec3UnitZ, math.Vec3UnitX, math.Vec3UnitY},
	{math.Vec3UnitZ.Neg(), math.Vec3UnitY, math.Vec3UnitX},
}

// PushBox appends a box of the given size as six quad faces with their own
// vertices. rotation holds Euler angles in degrees applied Z, then Y, then X,
// before translating to position. When invert is set the faces point inward,
// which makes a room from the box.
func (m *Mesh) PushBox(size, position, rotation math.Vec3, invert bool) {
	xf := math.TranslateVec3(position).
		Mul(math.RotationDegrees(rotation.X, math.Vec3UnitX)).
		Mul(math.RotationDegrees(rotation.Y, math.Vec3UnitY)).
		Mul(math.RotationDegrees(rotation.Z, math.Vec3UnitZ))
	half := size.Scale(0.5)
	uvs := [4]math.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}

	for _, side := range boxSides {
		n, u, v := side[0], side[1].Mul(half), side[2].Mul(half)
		c := n.Mul(half)
		corners := [4]math.Vec3{
			c.Sub(u).Sub(v),
			c.Add(u).Sub(v),
			c.Add(u).Add(v),
			c.Sub(u).Add(v),
		}
		normal := xf.TransformNormal(n).Normalize()
		if invert {
			normal = normal.Neg()
		}
		var face [4]int
		for k, p := range corners {
			face[k] = m.PushVertex(render.Vertex{
				Position: xf.TransformPoint(p),
				TexCoord: uvs[k],
				Normal:   normal,
				Color:    math.White,
			})
		}
		m.PushFace(face[:], invert)
	}
}

// AccelGeometry returns world-space positions of every vertex and the
// triangle index list, the input expected by a light map tracer.
func (m *Mesh) AccelGeometry(model math.Mat4) ([]math.Vec3, []int) {
	positions := make([]math.Vec3, len(m.vertices))
	for i, v := range m.vertices {
		positions[i] = model.TransformPoint(v.Position)
	}
	indices := make([]int, len(m.indices))
	copy(indices, m.indices)
	return positions, indices
}
