package debug

import (
	"github.com/Faultbox/x3d/internal/engine/sprite"
	"github.com/Faultbox/x3d/internal/engine/texture"
	"github.com/Faultbox/x3d/pkg/math"
)

// HUD draws text in the top left corner of the screen with the built-in
// font. Attach it to a node and it renders as a sprite.
type HUD struct {
	*sprite.Batch
	Color  math.Vec4
	Shadow math.Vec4
	Margin float32

	text string
}

// NewHUD creates an empty HUD with white text over a dark drop shadow.
func NewHUD() *HUD {
	w, h := texture.FontSize()
	return &HUD{
		Batch:  sprite.New(texture.FontName, w, h),
		Color:  math.White,
		Shadow: math.Vec4{W: 0.75},
		Margin: 8,
	}
}

// Text returns the text set last.
func (h *HUD) Text() string {
	return h.text
}

// SetText replaces the displayed text. Quads are rebuilt only when the
// text changes.
func (h *HUD) SetText(text string) {
	if text == h.text && h.QuadCount() > 0 {
		return
	}
	h.text = text
	at := math.Vec2{X: h.Margin, Y: h.Margin}
	h.Begin()
	h.PushText(text, texture.FontLayout, at.Add(math.Vec2{X: 1, Y: 1}), h.Shadow)
	h.PushText(text, texture.FontLayout, at, h.Color)
	h.End()
}
