// Package render defines the boundary between the scene graph and a GPU backend.
//
// Scene nodes carry an Encodable. Each frame the scene hands every visible
// encodable a Context holding the camera matrices, the node's model matrix and
// the packed light array. The encodable turns its geometry into Batches and
// submits them to the Context's Encoder. Backends implement Encoder; this
// package ships a Recorder used by tests and headless tools.
package render

import (
	"errors"

	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/pkg/math"
)

// ErrNoEncoder is returned when a Context without an Encoder is drawn to.
var ErrNoEncoder = errors.New("render: context has no encoder")

// Kind tags the encodable variants the scene knows how to place.
type Kind int

const (
	KindBasic Kind = iota
	KindMesh
	KindParticles
	KindSprite
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindParticles:
		return "particles"
	case KindSprite:
		return "sprite"
	default:
		return "basic"
	}
}

// Encodable is geometry that can issue draw commands.
// Sprites are drawn in screen space; every other kind uses the camera.
type Encodable interface {
	Kind() Kind
	Encode(ctx *Context) error
}

// Primitive selects how a batch's vertices are assembled.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
)

// Batch is one draw call. Vertices are already expanded, three per triangle
// or two per line segment.
type Batch struct {
	Primitive  Primitive
	Vertices   []Vertex
	Material   Material
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
	Lights     []lighting.Light
	Time       float32
}

// Encoder receives draw calls. Implementations must not retain b.Vertices
// after Draw returns.
type Encoder interface {
	Draw(b *Batch) error
}

// Context carries everything an Encodable needs to draw itself for one frame.
type Context struct {
	Encoder    Encoder
	Projection math.Mat4
	View       math.Mat4
	Model      math.Mat4
	Lights     []lighting.Light
	// Time is the scene clock in seconds, used by animated materials.
	Time float32
}

// Draw submits vertices with the context's matrices and lights.
func (c *Context) Draw(prim Primitive, vertices []Vertex, material Material) error {
	if c.Encoder == nil {
		return ErrNoEncoder
	}
	if len(vertices) == 0 {
		return nil
	}
	return c.Encoder.Draw(&Batch{
		Primitive:  prim,
		Vertices:   vertices,
		Material:   material,
		Projection: c.Projection,
		View:       c.View,
		Model:      c.Model,
		Lights:     c.Lights,
		Time:       c.Time,
	})
}
