package glrender

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/math"
)

// vertexStride is the size in bytes of one packed render.Vertex.
const vertexStride = render.VertexFloats * 4

// attribute describes one shader input within the packed vertex.
type attribute struct {
	location uint32
	size     int32
	offset   int // In floats
}

var vertexLayout = []attribute{
	{0, 3, 0},  // Position
	{1, 2, 3},  // TexCoord
	{2, 2, 5},  // TexCoord2
	{3, 3, 7},  // Normal
	{4, 4, 10}, // Color
}

// packVertices appends the interleaved floats of vs to dst.
func packVertices(dst []float32, vs []render.Vertex) []float32 {
	for _, v := range vs {
		p := v.Pack()
		dst = append(dst, p[:]...)
	}
	return dst
}

// blendState returns whether blending is on and its factors.
func blendState(m render.Material) (enabled bool, src, dst uint32) {
	if !m.BlendEnabled {
		return false, gl.ONE, gl.ZERO
	}
	if m.AdditiveBlend {
		return true, gl.SRC_ALPHA, gl.ONE
	}
	return true, gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA
}

// cullState returns whether culling is on and which face is dropped.
// Counter-clockwise faces are front faces.
func cullState(m render.Material) (enabled bool, face uint32) {
	if !m.CullEnabled {
		return false, gl.BACK
	}
	if m.CullBack {
		return true, gl.BACK
	}
	return true, gl.FRONT
}

// samplerState returns the filter and wrap parameters for s. A zero sampler
// behaves like LinearRepeat.
func samplerState(s render.Sampler) (minFilter, magFilter, wrap int32) {
	if s == 0 {
		s = render.LinearRepeat
	}
	minFilter, magFilter = gl.NEAREST, gl.NEAREST
	if s.Linear() {
		minFilter, magFilter = gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	}
	wrap = gl.CLAMP_TO_EDGE
	if s.Repeat() {
		wrap = gl.REPEAT
	}
	return minFilter, magFilter, wrap
}

func primitiveMode(p render.Primitive) uint32 {
	if p == render.Lines {
		return gl.LINES
	}
	return gl.TRIANGLES
}

// normalMatrix returns the inverse transpose of the model's rotation part.
func normalMatrix(model math.Mat4) [9]float32 {
	return model.NormalMatrix().Mat3x3()
}
