package animate

import (
	"testing"

	"github.com/Faultbox/x3d/internal/engine/lighting"
	"github.com/Faultbox/x3d/internal/engine/mesh"
	"github.com/Faultbox/x3d/internal/engine/particles"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

const eps = 1e-3

func TestRegistry(t *testing.T) {
	reg := Registry()
	for _, name := range []string{SpinName, TweenName, FlickerName, EmitterName} {
		a, err := reg.NewAnimator(name)
		if err != nil {
			t.Fatalf("NewAnimator(%q): %v", name, err)
		}
		if a.Name() != name {
			t.Errorf("NewAnimator(%q).Name() = %q", name, a.Name())
		}
	}
	if _, err := reg.NewAnimator("Wobble"); err == nil {
		t.Error("expected error for unknown animator")
	}
}

func TestParseEasing(t *testing.T) {
	if _, ok := ParseEasing("OutBounce"); !ok {
		t.Error("OutBounce not found")
	}
	if _, ok := ParseEasing("sideways"); ok {
		t.Error("unexpected easing")
	}
}

func TestSpin(t *testing.T) {
	s := scene.New()
	n := scene.NewNode("fan")
	n.Properties.SetReal("spin.speed", 90)
	n.SetAnimator(&Spin{})
	s.Root.AddChild(n)

	s.Update(1)

	// A quarter turn about Y maps +X to -Z.
	p := n.Model().TransformNormal(math.Vec3UnitX)
	if !p.ApproxEqual(math.Vec3{Z: -1}, eps) {
		t.Errorf("after 1s: +X -> %v", p)
	}

	s.Update(3)
	p = n.Model().TransformNormal(math.Vec3UnitX)
	if !p.ApproxEqual(math.Vec3UnitX, eps) {
		t.Errorf("after full turn: +X -> %v", p)
	}
}

func TestTween(t *testing.T) {
	tests := []struct {
		name  string
		loop  bool
		steps []float32
		wantY float32
	}{
		{"halfway", false, []float32{1}, 5},
		{"end", false, []float32{1, 1}, 10},
		{"clamped", false, []float32{1, 1, 1}, 10},
		{"loop returns", true, []float32{2, 1}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := scene.New()
			n := scene.NewNode("door")
			n.SetPosition(math.Vec3{X: 1})
			n.Properties.SetReal("tween.y", 10)
			n.Properties.SetReal("tween.duration", 2)
			n.Properties.SetBool("tween.loop", tt.loop)
			tw := &Tween{}
			n.SetAnimator(tw)
			s.Root.AddChild(n)

			for _, dt := range tt.steps {
				s.Update(dt)
			}
			pos := n.Position()
			if d := pos.Y - tt.wantY; d > eps || d < -eps {
				t.Errorf("y = %v, want %v", pos.Y, tt.wantY)
			}
			if pos.X != 1 {
				t.Errorf("x = %v, want 1", pos.X)
			}
		})
	}
}

func TestTweenBadEasingRemoved(t *testing.T) {
	s := scene.New()
	n := scene.NewNode("door")
	n.Properties.SetString("tween.easing", "sideways")
	n.SetAnimator(&Tween{})
	s.Root.AddChild(n)

	s.Update(0.1)
	if n.Animator() != nil {
		t.Error("animator with bad easing was kept")
	}
}

func TestFlicker(t *testing.T) {
	s := scene.New()
	lamp := scene.NewLight("torch", lighting.Light{Type: lighting.Point, Color: math.Vec4{X: 1, Y: 0.8, Z: 0.6, W: 1}, Range: 10})
	lamp.Properties.SetReal("flicker.min", 0.5)
	lamp.Properties.SetReal("flicker.period", 2)
	lamp.SetAnimator(&Flicker{})
	s.Root.AddChild(lamp)

	s.Update(1)
	if c := lamp.Light.Color; !near(c.X, 0.5) || !near(c.Y, 0.4) || c.W != 1 {
		t.Errorf("dimmest colour = %v", c)
	}
	s.Update(1)
	if c := lamp.Light.Color; !near(c.X, 1) || !near(c.Z, 0.6) {
		t.Errorf("restored colour = %v", c)
	}
}

func TestFlickerNeedsLight(t *testing.T) {
	s := scene.New()
	n := scene.NewNode("plain")
	n.SetAnimator(&Flicker{})
	s.Root.AddChild(n)
	s.Update(0.1)
	if n.Animator() != nil {
		t.Error("flicker on a non-light was kept")
	}
}

func TestEmitter(t *testing.T) {
	s := scene.New()
	n := scene.NewNode("smoke")
	n.Properties.SetReal("emitter.rate", 10)
	n.Properties.SetInt("emitter.max", 8)
	e := &Emitter{}
	n.SetAnimator(e)
	s.Root.AddChild(n)

	s.Update(0.5)
	sys, ok := n.Encodable().(*particles.System)
	if !ok {
		t.Fatalf("encodable = %T, want particle system", n.Encodable())
	}
	if sys.Count() != 5 {
		t.Errorf("count after 0.5s = %d, want 5", sys.Count())
	}
	s.Update(0.5)
	if sys.Count() != 8 {
		t.Errorf("count = %d, want capacity 8", sys.Count())
	}

	clone := n.Clone()
	s.Root.AddChild(clone)
	s.Update(0.1)
	if clone.Animator() == nil {
		t.Fatal("cloned emitter was removed")
	}
	if clone.Encodable() == n.Encodable() {
		t.Error("clone shares the particle system")
	}
}

func TestEmitterRejectsMeshNode(t *testing.T) {
	s := scene.New()
	n := scene.NewMeshNode("crate", mesh.New())
	n.SetAnimator(&Emitter{})
	s.Root.AddChild(n)
	s.Update(0.1)
	if n.Animator() != nil {
		t.Error("emitter on a mesh node was kept")
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < eps && d > -eps
}
