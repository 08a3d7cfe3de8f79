package collision

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/x3d/pkg/geom"
	"github.com/Faultbox/x3d/pkg/math"
)

// Mover moves a sphere through triangles under gravity, sliding along what
// it touches.
type Mover struct {
	Position math.Vec3
	Radius   float32

	Gravity         float32 // Downward acceleration
	MaxSlopeDegrees float32 // Steepest surface that counts as ground
	Iterations      int     // Resolve passes per sub-step

	// OnGround is set when the last Step ended resting on walkable ground.
	OnGround bool
	// Contact is the last contact found, valid when Touching is set.
	Contact  geom.Contact
	Touching bool

	fall float32 // current vertical speed from gravity, negative is down
}

// NewMover creates a mover with 60 degree slopes and three resolve passes.
func NewMover(position math.Vec3, radius float32) *Mover {
	return &Mover{
		Position:        position,
		Radius:          radius,
		Gravity:         9.81,
		MaxSlopeDegrees: 60,
		Iterations:      3,
	}
}

// FallSpeed returns the current vertical speed; negative is falling.
func (m *Mover) FallSpeed() float32 {
	return m.fall
}

// Jump starts an upward motion at speed, if the mover is on the ground.
func (m *Mover) Jump(speed float32) bool {
	if !m.OnGround {
		return false
	}
	m.fall = speed
	m.OnGround = false
	return true
}

// Step advances the mover by dt seconds with velocity as the intended motion.
// Motion is split into sub-steps of at most half the radius so the sphere
// cannot pass through a surface, and each sub-step is resolved up to
// Iterations times.
func (m *Mover) Step(triangles []geom.Triangle, velocity math.Vec3, dt float32) {
	if dt <= 0 || m.Radius <= 0 {
		return
	}
	m.fall -= m.Gravity * dt
	delta := velocity.Add(math.Vec3{Y: m.fall}).Scale(dt)

	steps := 1
	if maxStep := m.Radius / 2; delta.Length() > maxStep {
		steps = int(math32.Ceil(delta.Length() / maxStep))
	}
	sub := delta.Scale(1 / float32(steps))
	minGroundY := math32.Cos(math.Radians(m.MaxSlopeDegrees))

	m.OnGround = false
	m.Touching = false
	for s := 0; s < steps; s++ {
		m.Position = m.Position.Add(sub)
		for i := 0; i < m.Iterations; i++ {
			c, ok := ResolveSphere(triangles, m.Position, m.Radius)
			if !ok {
				break
			}
			m.Position = c.Position
			m.Contact = c
			m.Touching = true

			if c.Normal.Y >= minGroundY {
				m.OnGround = true
				if m.fall < 0 {
					m.fall = 0
				}
				sub.Y = max(sub.Y, 0)
				continue
			}
			// Remove the part of the remaining motion going into the surface.
			if into := sub.Dot(c.Normal); into < 0 {
				sub = sub.Sub(c.Normal.Scale(into))
			}
			if c.Normal.Y < 0 && m.fall > 0 {
				m.fall = 0 // hit a ceiling
			}
		}
	}
}
