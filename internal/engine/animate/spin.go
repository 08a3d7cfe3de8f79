package animate

import (
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// SpinName is the registered name of Spin.
const SpinName = "Spin"

// Spin turns a node about an axis at a constant rate.
//
// Properties: spin.speed (degrees per second, default 90), spin.x, spin.y,
// spin.z (axis, default Y).
type Spin struct {
	Speed float32
	Axis  math.Vec3

	base  math.Mat4
	angle float32
}

func (s *Spin) Name() string { return SpinName }

func (s *Spin) Setup(n *scene.Node) error {
	p := &n.Properties
	s.Speed = p.Real("spin.speed", 90)
	s.Axis = math.Vec3{
		X: p.Real("spin.x", 0),
		Y: p.Real("spin.y", 1),
		Z: p.Real("spin.z", 0),
	}
	s.base = n.Rotation()
	s.angle = 0
	return nil
}

func (s *Spin) Update(n *scene.Node, dt float32) error {
	s.angle += s.Speed * dt
	for s.angle >= 360 {
		s.angle -= 360
	}
	for s.angle < 0 {
		s.angle += 360
	}
	n.SetRotation(math.RotationDegrees(s.angle, s.Axis).Mul(s.base))
	return nil
}

func (s *Spin) Clone() scene.Animator { return &Spin{} }
