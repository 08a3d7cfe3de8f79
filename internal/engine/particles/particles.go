// Package particles simulates and draws camera-facing particles.
package particles

import (
	"math/rand/v2"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/internal/engine/sprite"
	"github.com/Faultbox/x3d/internal/engine/texture"
	"github.com/Faultbox/x3d/pkg/math"
)

// Particle is one live particle. Positions are in the owning node's space.
type Particle struct {
	Velocity      math.Vec3
	Position      math.Vec3
	StartPosition math.Vec3
	Size          math.Vec2
	StartSize     math.Vec2
	EndSize       math.Vec2
	Color         math.Vec4
	StartColor    math.Vec4
	EndColor      math.Vec4
	Time          float32
	LifeSpan      float32
}

// System owns up to a fixed number of particles.
type System struct {
	Material render.Material
	// Gravity accelerates every particle.
	Gravity math.Vec3
	// Easing shapes the size and colour transition over a particle's life.
	Easing ease.TweenFunc

	max       int
	particles []Particle
	vertices  []render.Vertex
}

// DotTexture names the built-in soft dot texture backends provide.
const DotTexture = texture.DotName

// New creates a system holding at most max particles, drawn additively with
// the built-in dot texture.
func New(max int) *System {
	mat := render.DefaultMaterial()
	mat.Texture = DotTexture
	mat.TextureSampler = render.LinearClampToEdge
	mat.BlendEnabled = true
	mat.AdditiveBlend = true
	mat.DepthWriteEnabled = false
	mat.CullEnabled = false
	mat.VertexColorEnabled = true
	return &System{
		Material:  mat,
		Easing:    ease.Linear,
		max:       max,
		particles: make([]Particle, 0, max),
	}
}

// Count returns the number of live particles.
func (s *System) Count() int {
	return len(s.particles)
}

// Max returns the capacity.
func (s *System) Max() int {
	return s.max
}

// At returns particle i.
func (s *System) At(i int) Particle {
	return s.particles[i]
}

// Emit starts a particle. Time is reset and the current position, size and
// colour are taken from the start values. It reports false when the system is full.
func (s *System) Emit(p Particle) bool {
	if len(s.particles) >= s.max || p.LifeSpan <= 0 {
		return false
	}
	p.Time = 0
	p.Position = p.StartPosition
	p.Size = p.StartSize
	p.Color = p.StartColor
	s.particles = append(s.particles, p)
	return true
}

// Clear removes every particle.
func (s *System) Clear() {
	s.particles = s.particles[:0]
}

// Update advances every particle by dt seconds and drops expired ones.
func (s *System) Update(dt float32) {
	easing := s.Easing
	if easing == nil {
		easing = ease.Linear
	}
	live := s.particles[:0]
	for _, p := range s.particles {
		p.Time += dt
		if p.Time >= p.LifeSpan {
			continue
		}
		t := p.Time
		p.Position = p.StartPosition.Add(p.Velocity.Scale(t)).Add(s.Gravity.Scale(0.5 * t * t))
		f := easing(t, 0, 1, p.LifeSpan)
		p.Size = p.StartSize.Lerp(p.EndSize, f)
		p.Color = p.StartColor.Lerp(p.EndColor, f)
		live = append(live, p)
	}
	s.particles = live
}

// Kind implements render.Encodable.
func (s *System) Kind() render.Kind {
	return render.KindParticles
}

// Encode implements render.Encodable, drawing each particle as a billboard.
func (s *System) Encode(ctx *render.Context) error {
	if len(s.particles) == 0 {
		return nil
	}
	view := ctx.View.Mul(ctx.Model)
	s.vertices = s.vertices[:0]
	for _, p := range s.particles {
		s.vertices = sprite.Billboard(s.vertices, view, p.Position, p.Size, p.Color)
	}
	return ctx.Draw(render.Triangles, s.vertices, s.Material)
}

// Emitter spawns particles at a steady rate with randomized direction.
type Emitter struct {
	Rate       float32 // Particles per second
	LifeSpan   float32
	Speed      float32
	Spread     float32 // 0 emits straight along Direction, 1 emits in any direction
	Direction  math.Vec3
	StartSize  math.Vec2
	EndSize    math.Vec2
	StartColor math.Vec4
	EndColor   math.Vec4

	pending float32
}

// DefaultEmitter returns an upward fountain of fading white particles.
func DefaultEmitter() Emitter {
	return Emitter{
		Rate:       20,
		LifeSpan:   2,
		Speed:      10,
		Spread:     0.3,
		Direction:  math.Vec3UnitY,
		StartSize:  math.Vec2{X: 2, Y: 2},
		EndSize:    math.Vec2{X: 0.5, Y: 0.5},
		StartColor: math.White,
		EndColor:   math.Vec4{X: 1, Y: 1, Z: 1, W: 0},
	}
}

// Update emits the particles due after dt seconds at origin and returns how
// many were started. rng provides the randomness.
func (e *Emitter) Update(s *System, origin math.Vec3, dt float32, rng *rand.Rand) int {
	e.pending += e.Rate * dt
	emitted := 0
	for e.pending >= 1 {
		e.pending--
		dir := e.Direction.Normalize()
		if e.Spread > 0 {
			jitter := math.Vec3{
				X: rng.Float32()*2 - 1,
				Y: rng.Float32()*2 - 1,
				Z: rng.Float32()*2 - 1,
			}
			dir = dir.Add(jitter.Scale(e.Spread)).Normalize()
		}
		ok := s.Emit(Particle{
			Velocity:      dir.Scale(e.Speed),
			StartPosition: origin,
			StartSize:     e.StartSize,
			EndSize:       e.EndSize,
			StartColor:    e.StartColor,
			EndColor:      e.EndColor,
			LifeSpan:      e.LifeSpan,
		})
		if ok {
			emitted++
		}
	}
	return emitted
}
