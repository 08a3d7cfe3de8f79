package scene

import (
	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/mesh"
)

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Root returns the top ancestor of the node.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsAncestorOf reports whether n is other or one of its ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// AddChild appends child, detaching it from its previous parent first.
// It panics if child is n or one of n's ancestors.
func (n *Node) AddChild(child *Node) {
	if child.IsAncestorOf(n) {
		panic("scene: AddChild would create a cycle")
	}
	child.Detach()
	child.parent = n
	child.dirty = true
	n.children = append(n.children, child)
}

// Detach removes the node from its parent. The subtree stays intact.
func (n *Node) Detach() {
	p := n.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if c == n {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	n.parent = nil
	n.dirty = true
}

// DetachChildren removes every child. The orphaned subtrees are returned.
func (n *Node) DetachChildren() []*Node {
	orphans := n.children
	for _, c := range orphans {
		c.parent = nil
		c.dirty = true
	}
	n.children = nil
	return orphans
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// ChildAt returns child i in insertion order.
func (n *Node) ChildAt(i int) *Node {
	return n.children[i]
}

// LastChild returns the most recently added child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// Traverse visits the subtree depth-first in child order. Children of a node
// are skipped when visit returns false for it.
func (n *Node) Traverse(visit func(*Node) bool) {
	if !visit(n) {
		return
	}
	for _, c := range n.children {
		c.Traverse(visit)
	}
}

// Find returns the first node in the subtree named name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Traverse(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Clone returns a deep copy of the subtree, detached from any parent.
// Meshes are copied; other encodables are shared. Animators are copied when
// they implement Cloner and dropped otherwise.
func (n *Node) Clone() *Node {
	c := NewNode(n.Name)
	c.Visible = n.Visible
	c.ZOrder = n.ZOrder
	c.Collidable = n.Collidable
	c.Dynamic = n.Dynamic
	c.TriangleTag = n.TriangleTag
	c.LightMapEnabled = n.LightMapEnabled
	c.CastsShadow = n.CastsShadow
	c.ReceivesShadow = n.ReceivesShadow
	c.Properties = n.Properties.Clone()
	c.Data = n.Data
	c.position = n.position
	c.scale = n.scale
	c.rotation = n.rotation

	if n.Light != nil {
		l := *n.Light
		c.Light = &l
	}
	if m, ok := n.encodable.(*mesh.Mesh); ok {
		c.encodable = m.Clone()
	} else {
		c.encodable = n.encodable
	}
	if a, ok := n.animator.(Cloner); ok {
		c.animator = a.Clone()
	}

	for _, child := range n.children {
		cc := child.Clone()
		cc.parent = c
		c.children = append(c.children, cc)
	}
	return c
}

// NewLight creates a light node.
func NewLight(name string, light lighting.Light) *Node {
	n := NewNode(name)
	n.Light = &light
	return n
}

// WorldLight returns the node's light with Vector in world space: the
// absolute position for point lights, the rotated unit direction for
// directional ones. Point lights without a range get lighting.DefaultRange.
func (n *Node) WorldLight() (lighting.Light, bool) {
	if n.Light == nil {
		return lighting.Light{}, false
	}
	l := *n.Light
	switch l.Type {
	case lighting.Point:
		l.Vector = n.AbsolutePosition()
		if l.Range <= 0 {
			l.Range = lighting.DefaultRange
		}
	case lighting.Directional:
		l.Vector = n.Model().TransformNormal(l.Vector).Normalize()
	}
	return l, true
}

// NewMeshNode creates a node drawing m.
func NewMeshNode(name string, m *mesh.Mesh) *Node {
	n := NewNode(name)
	n.SetEncodable(m)
	return n
}

// Mesh returns the attached mesh, or nil when the node draws something else.
func (n *Node) Mesh() *mesh.Mesh {
	m, _ := n.encodable.(*mesh.Mesh)
	return m
}
