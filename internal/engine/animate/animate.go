// Package animate provides the stock node animators.
//
// Animators are configured through node properties so they survive a scene
// file round trip by name alone. Keys are prefixed with the animator name in
// lower case, for example "spin.speed".
package animate

import (
	"strings"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/x3d/internal/engine/scene"
)

// Registry returns a codec resolving every stock animator.
func Registry() scene.Registry {
	return scene.Registry{
		SpinName:    func() scene.Animator { return &Spin{} },
		TweenName:   func() scene.Animator { return &Tween{} },
		FlickerName: func() scene.Animator { return &Flicker{} },
		EmitterName: func() scene.Animator { return &Emitter{} },
	}
}

var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"outbounce":    ease.OutBounce,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
}

// ParseEasing looks up an easing curve by name, ignoring case.
func ParseEasing(name string) (ease.TweenFunc, bool) {
	f, ok := easings[strings.ToLower(name)]
	return f, ok
}
