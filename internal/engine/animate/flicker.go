package animate

import (
	"errors"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// FlickerName is the registered name of Flicker.
const FlickerName = "Flicker"

// ErrNotALight is returned when Flicker is attached to a node without a light.
var ErrNotALight = errors.New("flicker needs a light node")

// Flicker pulses a light's colour between its full value and a dimmed one.
//
// Properties: flicker.min (lowest intensity, default 0.5) and
// flicker.period (seconds per dim and brighten cycle, default 1).
type Flicker struct {
	Min    float32
	Period float32

	color  math.Vec4
	tween  *gween.Tween
	rising bool
}

func (f *Flicker) Name() string { return FlickerName }

func (f *Flicker) Setup(n *scene.Node) error {
	if n.Light == nil {
		return ErrNotALight
	}
	p := &n.Properties
	f.Min = math.Clamp(p.Real("flicker.min", 0.5), 0, 1)
	f.Period = p.Real("flicker.period", 1)
	if f.Period <= 0 {
		f.Period = 1
	}
	f.color = n.Light.Color
	f.tween = gween.New(1, f.Min, f.Period/2, ease.InOutSine)
	f.rising = false
	return nil
}

func (f *Flicker) Update(n *scene.Node, dt float32) error {
	if n.Light == nil {
		return ErrNotALight
	}
	k, done := f.tween.Update(dt)
	c := f.color.Scale(k)
	c.W = f.color.W
	n.Light.Color = c
	if done {
		f.rising = !f.rising
		if f.rising {
			f.tween = gween.New(f.Min, 1, f.Period/2, ease.InOutSine)
		} else {
			f.tween = gween.New(1, f.Min, f.Period/2, ease.InOutSine)
		}
	}
	return nil
}

func (f *Flicker) Clone() scene.Animator { return &Flicker{} }
