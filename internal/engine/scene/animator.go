package scene

import (
	"fmt"
)

// Animator drives a node every frame. Configuration comes from the node's
// Properties. Setup runs once before the first Update. An animator that
// returns an error is removed from its node.
type Animator interface {
	Name() string
	Setup(n *Node) error
	Update(n *Node, dt float32) error
}

// Cloner is implemented by animators that can be copied with their node.
type Cloner interface {
	Clone() Animator
}

// Codec resolves animator names read from a scene file.
type Codec interface {
	NewAnimator(name string) (Animator, error)
}

// Registry is a Codec backed by constructors keyed by name.
type Registry map[string]func() Animator

// NewAnimator implements Codec.
func (r Registry) NewAnimator(name string) (Animator, error) {
	f, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("unknown animator %q", name)
	}
	return f(), nil
}

// Animator returns the node's animator, or nil.
func (n *Node) Animator() Animator {
	return n.animator
}

// SetAnimator attaches a, to be set up on the next update. A nil a removes
// the current animator.
func (n *Node) SetAnimator(a Animator) {
	n.animator = a
	n.animatorReady = false
}

// animate runs the animator of n, returning the error that removed it.
func (n *Node) animate(dt float32) error {
	a := n.animator
	if a == nil {
		return nil
	}
	if !n.animatorReady {
		if err := a.Setup(n); err != nil {
			n.animator = nil
			return fmt.Errorf("setup animator %s on %q: %w", a.Name(), n.Name, err)
		}
		n.animatorReady = true
	}
	if err := a.Update(n, dt); err != nil {
		n.animator = nil
		return fmt.Errorf("update animator %s on %q: %w", a.Name(), n.Name, err)
	}
	return nil
}
