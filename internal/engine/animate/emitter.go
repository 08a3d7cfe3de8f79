package animate

import (
	"errors"
	"math/rand/v2"

	"github.com/Faultbox/x3d/internal/engine/particles"
	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// EmitterName is the registered name of Emitter.
const EmitterName = "Emitter"

// Emitter attaches a particle system to a node and keeps it fed.
//
// Properties: emitter.max (capacity, default 256), emitter.rate,
// emitter.life, emitter.speed, emitter.spread, emitter.gravity (downward
// acceleration, default 0), emitter.seed and emitter.easing.
type Emitter struct {
	System  *particles.System
	Emitter particles.Emitter

	rng *rand.Rand
}

func (e *Emitter) Name() string { return EmitterName }

func (e *Emitter) Setup(n *scene.Node) error {
	if enc := n.Encodable(); enc != nil {
		if _, ok := enc.(*particles.System); !ok {
			return errors.New("emitter node already draws geometry")
		}
	}
	p := &n.Properties
	capacity := p.Int("emitter.max", 256)
	if capacity <= 0 {
		return errors.New("emitter capacity must be positive")
	}

	e.System = particles.New(capacity)
	e.System.Gravity = math.Vec3{Y: -p.Real("emitter.gravity", 0)}
	if name := p.String("emitter.easing", ""); name != "" {
		f, ok := ParseEasing(name)
		if !ok {
			return errors.New("unknown emitter easing " + name)
		}
		e.System.Easing = f
	}

	e.Emitter = particles.DefaultEmitter()
	e.Emitter.Rate = p.Real("emitter.rate", e.Emitter.Rate)
	e.Emitter.LifeSpan = p.Real("emitter.life", e.Emitter.LifeSpan)
	e.Emitter.Speed = p.Real("emitter.speed", e.Emitter.Speed)
	e.Emitter.Spread = p.Real("emitter.spread", e.Emitter.Spread)

	seed := uint64(p.Int("emitter.seed", 1))
	e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	n.SetEncodable(e.System)
	return nil
}

func (e *Emitter) Update(n *scene.Node, dt float32) error {
	e.System.Update(dt)
	e.Emitter.Update(e.System, math.Vec3{}, dt, e.rng)
	return nil
}

func (e *Emitter) Clone() scene.Animator { return &Emitter{} }
