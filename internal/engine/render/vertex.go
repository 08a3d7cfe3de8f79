package render

import "github.com/Faultbox/x3d/pkg/math"

// VertexFloats is the number of float32 values in a packed Vertex.
const VertexFloats = 14

// Vertex is the interleaved vertex shared by meshes, sprites and particles.
type Vertex struct {
	Position  math.Vec3
	TexCoord  math.Vec2
	TexCoord2 math.Vec2 // Light map coordinates
	Normal    math.Vec3
	Color     math.Vec4
}

// NewVertex builds a vertex from its components in packed order.
func NewVertex(x, y, z, s, t, u, v, nx, ny, nz, r, g, b, a float32) Vertex {
	return Vertex{
		Position:  math.Vec3{X: x, Y: y, Z: z},
		TexCoord:  math.Vec2{X: s, Y: t},
		TexCoord2: math.Vec2{X: u, Y: v},
		Normal:    math.Vec3{X: nx, Y: ny, Z: nz},
		Color:     math.Vec4{X: r, Y: g, Z: b, W: a},
	}
}

// Pack returns the vertex as position, uv, uv2, normal, colour.
func (v Vertex) Pack() [VertexFloats]float32 {
	return [VertexFloats]float32{
		v.Position.X, v.Position.Y, v.Position.Z,
		v.TexCoord.X, v.TexCoord.Y,
		v.TexCoord2.X, v.TexCoord2.Y,
		v.Normal.X, v.Normal.Y, v.Normal.Z,
		v.Color.X, v.Color.Y, v.Color.Z, v.Color.W,
	}
}

// UnpackVertex is the inverse of Pack.
func UnpackVertex(f [VertexFloats]float32) Vertex {
	return NewVertex(f[0], f[1], f[2], f[3], f[4], f[5], f[6], f[7], f[8], f[9], f[10], f[11], f[12], f[13])
}
