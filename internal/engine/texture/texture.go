package texture

import (
	"image"
	"image/draw"

	"github.com/Faultbox/x3d/internal/engine/sprite"
)

// DotName is the built-in soft dot used by particles.
const DotName = "@dot"

// IsBuiltin reports whether name refers to a generated texture rather than
// an asset.
func IsBuiltin(name string) bool {
	return name == DotName || name == FontName
}

// Builtin returns the generated texture called name.
func Builtin(name string) (*image.RGBA, bool) {
	switch name {
	case DotName:
		return sprite.SoftDot(sprite.DefaultDotSize, 1), true
	case FontName:
		return Font(), true
	}
	return nil, false
}

// ToRGBA returns img as an RGBA image with its origin at (0, 0), converting
// only when necessary.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}

// White returns a 1x1 opaque white image, bound when a material has no
// texture.
func White() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(img.Pix, []uint8{255, 255, 255, 255})
	return img
}
