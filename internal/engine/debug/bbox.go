// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// DefaultBBoxPadding is the default padding for selection boxes.
const DefaultBBoxPadding = 0.05

// boxEdges indexes Corners pairs: bottom face, top face, then verticals.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// AppendBoxLines appends the 12 edges of b as line vertices. Empty boxes
// append nothing.
func AppendBoxLines(dst []render.Vertex, b geom.BoundingBox, color math.Vec4) []render.Vertex {
	if b.IsEmpty() {
		return dst
	}
	corners := b.Corners()
	for _, e := range boxEdges {
		dst = append(dst,
			render.Vertex{Position: corners[e[0]], Color: color},
			render.Vertex{Position: corners[e[1]], Color: color},
		)
	}
	return dst
}

// Lines is an encodable list of world-space line segments.
type Lines struct {
	Material render.Material
	Vertices []render.Vertex
}

// NewLines creates an empty line list drawn unlit with vertex colours.
func NewLines() *Lines {
	mat := render.DefaultMaterial()
	mat.VertexColorEnabled = true
	mat.CullEnabled = false
	return &Lines{Material: mat}
}

// Kind implements render.Encodable.
func (l *Lines) Kind() render.Kind {
	return render.KindBasic
}

// Encode implements render.Encodable.
func (l *Lines) Encode(ctx *render.Context) error {
	return ctx.Draw(render.Lines, l.Vertices, l.Material)
}

// BoundsOverlay draws the world bounds of every visible node with geometry.
// Attach it to a node with an identity transform; Bounds is empty for
// encodables without geometry, so the overlay never boxes itself.
type BoundsOverlay struct {
	*Lines
	Color    math.Vec4
	Selected math.Vec4
	Padding  float32
}

// NewBoundsOverlay creates an overlay drawing boxes in green and the
// selected node in yellow.
func NewBoundsOverlay() *BoundsOverlay {
	return &BoundsOverlay{
		Lines:    NewLines(),
		Color:    math.Vec4{X: 0, Y: 1, Z: 0, W: 1},
		Selected: math.Vec4{X: 1, Y: 1, Z: 0, W: 1},
		Padding:  DefaultBBoxPadding,
	}
}

// Rebuild regenerates the boxes from root. Transforms must be current.
func (o *BoundsOverlay) Rebuild(root *scene.Node, selected *scene.Node) {
	o.Vertices = o.Vertices[:0]
	pad := math.Vec3{X: o.Padding, Y: o.Padding, Z: o.Padding}
	root.Traverse(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		color := o.Color
		if n == selected {
			color = o.Selected
		}
		o.Vertices = AppendBoxLines(o.Vertices, n.Bounds().Buffer(pad), color)
		return true
	})
}
