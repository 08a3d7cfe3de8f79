package particles

import (
	"math/rand/v2"
	"testing"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/math"
)

func TestEmitRespectsCapacity(t *testing.T) {
	s := New(2)
	p := Particle{LifeSpan: 1}
	if !s.Emit(p) || !s.Emit(p) {
		t.Fatal("expected first two emits to succeed")
	}
	if s.Emit(p) {
		t.Error("expected emit on a full system to fail")
	}
	if s.Emit(Particle{}) {
		t.Error("expected a zero life span to be rejected")
	}
}

func TestUpdateMovesAndExpires(t *testing.T) {
	s := New(10)
	s.Emit(Particle{
		Velocity:      math.Vec3{X: 2},
		StartPosition: math.Vec3{Y: 1},
		StartSize:     math.Vec2{X: 2, Y: 2},
		EndSize:       math.Vec2{X: 0, Y: 0},
		StartColor:    math.White,
		EndColor:      math.Vec4{},
		LifeSpan:      2,
	})
	s.Emit(Particle{LifeSpan: 0.5})

	s.Update(1)
	if s.Count() != 1 {
		t.Fatalf("count = %d, want 1 after the short particle expired", s.Count())
	}
	p := s.At(0)
	if p.Position != (math.Vec3{X: 2, Y: 1}) {
		t.Errorf("position = %v", p.Position)
	}
	if p.Size != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("linear size at half life = %v", p.Size)
	}

	s.Update(1)
	if s.Count() != 0 {
		t.Errorf("count = %d, want 0", s.Count())
	}
}

func TestUpdateGravityAndEasing(t *testing.T) {
	s := New(1)
	s.Gravity = math.Vec3{Y: -10}
	s.Easing = ease.InQuad
	s.Emit(Particle{StartSize: math.Vec2{X: 4}, LifeSpan: 4})
	s.Update(2)
	p := s.At(0)
	if p.Position.Y != -20 {
		t.Errorf("y = %v, want -20", p.Position.Y)
	}
	// InQuad at half life is a quarter of the way.
	if d := p.Size.X - 3; d > 1e-5 || d < -1e-5 {
		t.Errorf("size = %v, want 3", p.Size.X)
	}
}

func TestEncodeBillboards(t *testing.T) {
	s := New(4)
	s.Emit(Particle{StartSize: math.Vec2{X: 1, Y: 1}, StartColor: math.White, LifeSpan: 1})
	s.Emit(Particle{StartSize: math.Vec2{X: 1, Y: 1}, StartColor: math.White, LifeSpan: 1})

	rec := &render.Recorder{}
	ctx := &render.Context{
		Encoder: rec,
		View:    math.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Vec3UnitY),
		Model:   math.Identity(),
	}
	if err := s.Encode(ctx); err != nil {
		t.Fatal(err)
	}
	if len(rec.Batches) != 1 || len(rec.Batches[0].Vertices) != 12 {
		t.Fatalf("unexpected batches %+v", rec.Batches)
	}
	if rec.Batches[0].Material.Texture != DotTexture {
		t.Errorf("texture = %q", rec.Batches[0].Material.Texture)
	}
	if s.Kind() != render.KindParticles {
		t.Errorf("kind = %v", s.Kind())
	}
}

func TestEmitterRate(t *testing.T) {
	s := New(100)
	e := DefaultEmitter()
	e.Rate = 10
	rng := rand.New(rand.NewPCG(1, 2))

	total := 0
	for i := 0; i < 10; i++ {
		total += e.Update(s, math.Vec3{}, 0.1, rng)
	}
	if total != 10 {
		t.Errorf("emitted %d particles in one second, want 10", total)
	}
	for i := 0; i < s.Count(); i++ {
		if s.At(i).Velocity.Y <= 0 {
			t.Errorf("particle %d moves down: %v", i, s.At(i).Velocity)
		}
	}
}
