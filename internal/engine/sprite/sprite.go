// Package sprite draws textured screen-space quads and camera-facing billboards.
package sprite

import (
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/math"
)

// Batch collects screen-space quads from one texture between Begin and End.
// Coordinates are pixels with the origin at the top left.
type Batch struct {
	enc     *render.BasicEncodable
	drawing bool
}

// New creates a batch drawing from texture, whose pixel size is texW x texH.
func New(texture string, texW, texH int) *Batch {
	enc := render.NewBasicEncodable()
	enc.Screen = true
	enc.TextureSize = math.Vec2{X: float32(texW), Y: float32(texH)}
	enc.Material.Texture = texture
	enc.Material.TextureSampler = render.NearestClampToEdge
	enc.Material.DepthTestEnabled = false
	enc.Material.DepthWriteEnabled = false
	enc.Material.CullEnabled = false
	enc.Material.BlendEnabled = true
	enc.Material.AdditiveBlend = false
	enc.Material.VertexColorEnabled = true
	return &Batch{enc: enc}
}

// Texture returns the texture name.
func (b *Batch) Texture() string {
	return b.enc.Material.Texture
}

// Material exposes the batch material for adjustment.
func (b *Batch) Material() *render.Material {
	return &b.enc.Material
}

// Begin discards the previous frame's quads.
func (b *Batch) Begin() {
	b.enc.Clear()
	b.drawing = true
}

// Push adds a quad copying src texels to dst. Calls outside Begin/End are ignored.
func (b *Batch) Push(src, dst render.Rect, color math.Vec4) {
	if !b.drawing {
		return
	}
	b.enc.PushRect(src, dst, color, false)
}

// PushFlipped is Push with the source mirrored horizontally.
func (b *Batch) PushFlipped(src, dst render.Rect, color math.Vec4) {
	if !b.drawing {
		return
	}
	b.enc.PushRect(src, dst, color, true)
}

// PushText draws text with a fixed-cell font laid out in the texture.
func (b *Batch) PushText(text string, layout render.TextLayout, at math.Vec2, color math.Vec4) {
	if !b.drawing {
		return
	}
	b.enc.PushText(text, layout, at, color)
}

// End closes the batch. Quads stay until the next Begin.
func (b *Batch) End() {
	b.drawing = false
}

// QuadCount returns the number of quads pushed since Begin.
func (b *Batch) QuadCount() int {
	return b.enc.VertexCount() / 6
}

// Kind implements render.Encodable.
func (b *Batch) Kind() render.Kind {
	return render.KindSprite
}

// Encode implements render.Encodable.
func (b *Batch) Encode(ctx *render.Context) error {
	return b.enc.Encode(ctx)
}
