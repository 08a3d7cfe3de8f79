package scene

import (
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// Geometry is an encodable that also exposes triangles for collision and
// bounds. *mesh.Mesh implements it.
type Geometry interface {
	TriangleCount() int
	TriangleAt(i int) geom.Triangle
	CalcBounds() geom.BoundingBox
	Revision() int
}

// Node is an element of the scene tree.
//
// A node owns its children. The parent link is a back-reference only.
// Local transform setters mark the node dirty; CalcTransform recomputes
// dirty subtrees top-down and must run before Model, AbsolutePosition,
// Bounds or the triangle accessors are read.
type Node struct {
	Name    string
	Visible bool
	ZOrder  int

	// Collision
	Collidable  bool
	Dynamic     bool // geometry may change every frame; triangles are not cached
	TriangleTag int

	// Light is non-nil for light nodes. Point lights are placed at the node's
	// absolute position; directional vectors are rotated by the node's model.
	Light *lighting.Light

	// Light mapping
	LightMapEnabled bool
	CastsShadow     bool
	ReceivesShadow  bool

	Properties Properties

	// Data is a user slot never read by the engine.
	Data any

	encodable render.Encodable

	position math.Vec3
	scale    math.Vec3
	rotation math.Mat4

	localModel       math.Mat4
	model            math.Mat4
	absolutePosition math.Vec3

	dirty     bool
	revision  int // bumped whenever model changes
	parentRev int // parent revision model was computed against, -1 for roots

	parent   *Node
	children []*Node

	animator      Animator
	animatorReady bool

	// world-space triangle cache for static nodes
	triangles    []geom.Triangle
	triGeom      Geometry
	triRev       int
	triGeomRev   int
	triTag       int
	triValid     bool
	localBounds  geom.BoundingBox
	boundsGeom   Geometry
	boundsGeoRev int
	boundsValid  bool
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:           name,
		Visible:        true,
		CastsShadow:    true,
		ReceivesShadow: true,
		scale:          math.Vec3One,
		rotation:       math.Identity(),
		localModel:     math.Identity(),
		model:          math.Identity(),
		dirty:          true,
		parentRev:      -1,
	}
}

// Encodable returns the attached geometry, or nil.
func (n *Node) Encodable() render.Encodable {
	return n.encodable
}

// SetEncodable attaches geometry to the node, replacing any previous one.
func (n *Node) SetEncodable(e render.Encodable) {
	n.encodable = e
	n.triValid = false
	n.boundsValid = false
}

// Geometry returns the attached encodable if it carries triangles.
func (n *Node) Geometry() Geometry {
	g, _ := n.encodable.(Geometry)
	return g
}

// Position returns the local translation.
func (n *Node) Position() math.Vec3 {
	return n.position
}

// SetPosition sets the local translation.
func (n *Node) SetPosition(p math.Vec3) {
	n.position = p
	n.dirty = true
}

// Scale returns the local scale.
func (n *Node) Scale() math.Vec3 {
	return n.scale
}

// SetScale sets the local scale.
func (n *Node) SetScale(s math.Vec3) {
	n.scale = s
	n.dirty = true
}

// Rotation returns the local rotation matrix.
func (n *Node) Rotation() math.Mat4 {
	return n.rotation
}

// SetRotation sets the local rotation matrix.
func (n *Node) SetRotation(r math.Mat4) {
	n.rotation = r
	n.dirty = true
}

// SetRotationDegrees sets the local rotation from Euler angles applied X, then Y, then Z.
func (n *Node) SetRotationDegrees(x, y, z float32) {
	n.SetRotation(math.RotateZ(math.Radians(z)).
		Mul(math.RotateY(math.Radians(y))).
		Mul(math.RotateX(math.Radians(x))))
}

// LocalModel returns T * R * S built from the current local transform.
func (n *Node) LocalModel() math.Mat4 {
	return math.TranslateVec3(n.position).Mul(n.rotation).Mul(math.ScaleVec3(n.scale))
}

// Model returns the world matrix computed by the last CalcTransform.
func (n *Node) Model() math.Mat4 {
	return n.model
}

// AbsolutePosition returns the world-space origin of the node.
func (n *Node) AbsolutePosition() math.Vec3 {
	return n.absolutePosition
}

// CalcTransform recomputes the world matrices of this subtree. Only nodes
// whose local transform changed, or whose parent's model changed, are
// recomputed.
func (n *Node) CalcTransform() {
	parentRev := -1
	if n.parent != nil {
		parentRev = n.parent.revision
	}
	if n.dirty || n.parentRev != parentRev {
		n.localModel = n.LocalModel()
		if n.parent != nil {
			n.model = n.parent.model.Mul(n.localModel)
		} else {
			n.model = n.localModel
		}
		n.absolutePosition = n.model.Translation()
		n.parentRev = parentRev
		n.dirty = false
		n.revision++
	}
	for _, c := range n.children {
		c.CalcTransform()
	}
}

// LocalBounds returns the mesh-space bounds of the attached geometry.
// It is empty when the node has none.
func (n *Node) LocalBounds() geom.BoundingBox {
	g := n.Geometry()
	if g == nil {
		return geom.EmptyBoundingBox()
	}
	if !n.boundsValid || n.boundsGeom != g || n.boundsGeoRev != g.Revision() {
		n.localBounds = g.CalcBounds()
		n.boundsGeom = g
		n.boundsGeoRev = g.Revision()
		n.boundsValid = true
	}
	return n.localBounds
}

// Bounds returns the world-space box of the node's own geometry.
func (n *Node) Bounds() geom.BoundingBox {
	return n.LocalBounds().Transform(n.model)
}

// TreeBounds returns the world-space box of the whole subtree.
func (n *Node) TreeBounds() geom.BoundingBox {
	b := geom.EmptyBoundingBox()
	n.Traverse(func(c *Node) bool {
		b = b.Combine(c.Bounds())
		return true
	})
	return b
}

// TriangleCount returns the number of world-space triangles the node
// contributes to collision. It is zero unless the node is collidable.
func (n *Node) TriangleCount() int {
	g := n.Geometry()
	if !n.Collidable || g == nil {
		return 0
	}
	return g.TriangleCount()
}

// TriangleAt returns collision triangle i in world space, tagged with
// TriangleTag. Dynamic nodes recompute it on every call; static nodes cache
// the transformed set until the model or the geometry changes.
func (n *Node) TriangleAt(i int) geom.Triangle {
	g := n.Geometry()
	if !n.Dynamic {
		n.cacheTriangles(g)
		return n.triangles[i]
	}
	t := g.TriangleAt(i).Transform(n.model)
	t.Tag = n.TriangleTag
	return t
}

func (n *Node) cacheTriangles(g Geometry) {
	if n.triValid && n.triGeom == g && n.triRev == n.revision && n.triGeomRev == g.Revision() && n.triTag == n.TriangleTag {
		return
	}
	n.triangles = n.triangles[:0]
	for i := 0; i < g.TriangleCount(); i++ {
		t := g.TriangleAt(i).Transform(n.model)
		t.Tag = n.TriangleTag
		n.triangles = append(n.triangles, t)
	}
	n.triGeom = g
	n.triRev = n.revision
	n.triGeomRev = g.Revision()
	n.triTag = n.TriangleTag
	n.triValid = true
}
