package animate

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/Faultbox/x3d/internal/engine/scene"
	"github.com/Faultbox/x3d/pkg/math"
)

// TweenName is the registered name of Tween.
const TweenName = "Tween"

// Tween moves a node from its position at setup by an offset.
//
// Properties: tween.x, tween.y, tween.z (offset), tween.duration (seconds,
// default 1), tween.easing (see ParseEasing, default linear) and tween.loop
// (ping-pong forever, default false).
type Tween struct {
	Offset   math.Vec3
	Duration float32
	Easing   ease.TweenFunc
	Loop     bool

	start    math.Vec3
	tween    *gween.Tween
	reverse  bool
	finished bool
}

func (t *Tween) Name() string { return TweenName }

func (t *Tween) Setup(n *scene.Node) error {
	p := &n.Properties
	t.Offset = math.Vec3{
		X: p.Real("tween.x", 0),
		Y: p.Real("tween.y", 0),
		Z: p.Real("tween.z", 0),
	}
	t.Duration = p.Real("tween.duration", 1)
	if t.Duration <= 0 {
		return fmt.Errorf("tween duration %v must be positive", t.Duration)
	}
	name := p.String("tween.easing", "linear")
	f, ok := ParseEasing(name)
	if !ok {
		return fmt.Errorf("unknown easing %q", name)
	}
	t.Easing = f
	t.Loop = p.Bool("tween.loop", false)

	t.start = n.Position()
	t.tween = gween.New(0, 1, t.Duration, t.Easing)
	t.reverse = false
	t.finished = false
	return nil
}

// Finished reports whether a non-looping tween has reached its end.
func (t *Tween) Finished() bool {
	return t.finished
}

func (t *Tween) Update(n *scene.Node, dt float32) error {
	if t.finished {
		return nil
	}
	f, done := t.tween.Update(dt)
	if t.reverse {
		f = 1 - f
	}
	n.SetPosition(t.start.Lerp(t.start.Add(t.Offset), f))
	if done {
		if !t.Loop {
			t.finished = true
			return nil
		}
		t.reverse = !t.reverse
		t.tween.Reset()
	}
	return nil
}

func (t *Tween) Clone() scene.Animator { return &Tween{} }
