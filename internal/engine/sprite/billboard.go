package sprite

import (
	"image"
	"image/color"

	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/math"
)

// Billboard appends two triangles for a quad centred on center that faces the
// camera described by view. size is the full width and height in world units.
func Billboard(dst []render.Vertex, view math.Mat4, center math.Vec3, size math.Vec2, tint math.Vec4) []render.Vertex {
	// The first two rows of the view rotation are the camera's right and up axes.
	right := math.Vec3{X: view[0], Y: view[4], Z: view[8]}.Scale(size.X * 0.5)
	up := math.Vec3{X: view[1], Y: view[5], Z: view[9]}.Scale(size.Y * 0.5)
	normal := right.Cross(up).Normalize()

	corner := func(sx, sy, u, v float32) render.Vertex {
		return render.Vertex{
			Position: center.Add(right.Scale(sx)).Add(up.Scale(sy)),
			TexCoord: math.Vec2{X: u, Y: v},
			Normal:   normal,
			Color:    tint,
		}
	}
	bl := corner(-1, -1, 0, 1)
	br := corner(1, -1, 1, 1)
	tr := corner(1, 1, 1, 0)
	tl := corner(-1, 1, 0, 0)
	return append(dst, bl, br, tr, tr, tl, bl)
}

// SoftDot renders a white disc whose alpha falls off from maxOpacity at the
// centre to zero at the rim. It is the default particle texture.
func SoftDot(size int, maxOpacity float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := float32(size) / 2
	radius := float32(size)/2 - 1
	if radius <= 0 {
		radius = 1
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float32(x) + 0.5 - center) / radius
			dy := (float32(y) + 0.5 - center) / radius
			dist := dx*dx + dy*dy
			if dist > 1 {
				continue
			}
			alpha := (1 - dist) * maxOpacity
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 255)})
		}
	}
	return img
}

// DefaultDotSize is the pixel size of the default particle texture.
const DefaultDotSize = 32
