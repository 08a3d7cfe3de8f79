package debug

import (
	"github.com/Faultbox/x3d/internal/engine/render"
	"github.com/Faultbox/x3d/pkg/math"
)

// Grid generates a square line grid on the XZ plane centred on the origin.
//
// Lines every Spacing units use Color; every MajorEvery lines the brighter
// MajorColor is used instead. The X and Z axes are drawn red and blue.
type Grid struct {
	*Lines
	HalfSize   float32
	Spacing    float32
	MajorEvery int
	Height     float32

	Color      math.Vec4
	MajorColor math.Vec4
}

// NewGrid creates a grid of the given half size and spacing.
func NewGrid(halfSize, spacing float32) *Grid {
	g := &Grid{
		Lines:      NewLines(),
		HalfSize:   halfSize,
		Spacing:    spacing,
		MajorEvery: 10,
		Color:      math.Vec4{X: 0.35, Y: 0.35, Z: 0.35, W: 1},
		MajorColor: math.Vec4{X: 0.6, Y: 0.6, Z: 0.6, W: 1},
	}
	g.Rebuild()
	return g
}

// Rebuild regenerates the line vertices from the grid parameters.
func (g *Grid) Rebuild() {
	g.Vertices = g.Vertices[:0]
	if g.Spacing <= 0 || g.HalfSize <= 0 {
		return
	}
	n := int(g.HalfSize / g.Spacing)
	extent := float32(n) * g.Spacing
	red := math.Vec4{X: 0.8, Y: 0.2, Z: 0.2, W: 1}
	blue := math.Vec4{X: 0.2, Y: 0.3, Z: 0.9, W: 1}

	for i := -n; i <= n; i++ {
		p := float32(i) * g.Spacing
		color := g.Color
		if g.MajorEvery > 0 && i%g.MajorEvery == 0 {
			color = g.MajorColor
		}
		lineX, lineZ := color, color
		if i == 0 {
			lineX, lineZ = red, blue
		}
		// Line along X at z = p, and along Z at x = p.
		g.line(math.Vec3{X: -extent, Y: g.Height, Z: p}, math.Vec3{X: extent, Y: g.Height, Z: p}, lineX)
		g.line(math.Vec3{X: p, Y: g.Height, Z: -extent}, math.Vec3{X: p, Y: g.Height, Z: extent}, lineZ)
	}
}

func (g *Grid) line(a, b math.Vec3, color math.Vec4) {
	g.Vertices = append(g.Vertices,
		render.Vertex{Position: a, Color: color},
		render.Vertex{Position: b, Color: color},
	)
}
