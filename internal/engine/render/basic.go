package render

import "github.com/Faultbox/x3d/pkg/math"

// Rect is an axis-aligned rectangle in pixels or texture units.
type Rect struct {
	X, Y, W, H float32
}

// BasicEncodable is a flat triangle list with a material. It backs screen
// overlays, text and any geometry that is rebuilt every frame.
type BasicEncodable struct {
	Material Material
	// TextureSize converts pixel source rectangles into texture coordinates.
	// When zero, source rectangles are already normalized.
	TextureSize math.Vec2
	// Screen places the encodable in screen space like a sprite.
	Screen bool

	vertices []Vertex
}

// NewBasicEncodable creates an empty encodable with the default material.
func NewBasicEncodable() *BasicEncodable {
	return &BasicEncodable{Material: DefaultMaterial()}
}

// Kind implements Encodable.
func (e *BasicEncodable) Kind() Kind {
	if e.Screen {
		return KindSprite
	}
	return KindBasic
}

// VertexCount returns the number of vertices.
func (e *BasicEncodable) VertexCount() int {
	return len(e.vertices)
}

// VertexAt returns vertex i.
func (e *BasicEncodable) VertexAt(i int) Vertex {
	return e.vertices[i]
}

// SetVertex replaces vertex i.
func (e *BasicEncodable) SetVertex(i int, v Vertex) {
	e.vertices[i] = v
}

// PushVertex appends a vertex. Every three vertices form a triangle.
func (e *BasicEncodable) PushVertex(v Vertex) {
	e.vertices = append(e.vertices, v)
}

// Clear removes all vertices, keeping capacity.
func (e *BasicEncodable) Clear() {
	e.vertices = e.vertices[:0]
}

// PushRect appends two triangles covering dst, textured from src.
// flip mirrors the source horizontally.
func (e *BasicEncodable) PushRect(src, dst Rect, color math.Vec4, flip bool) {
	sx, sy := float32(1), float32(1)
	if e.TextureSize.X > 0 && e.TextureSize.Y > 0 {
		sx, sy = 1/e.TextureSize.X, 1/e.TextureSize.Y
	}
	u1, v1 := src.X*sx, src.Y*sy
	u2, v2 := (src.X+src.W)*sx, (src.Y+src.H)*sy
	if flip {
		u1, u2 = u2, u1
	}

	x1, y1 := dst.X, dst.Y
	x2, y2 := dst.X+dst.W, dst.Y+dst.H
	n := math.Vec3{Z: 1}

	tl := Vertex{Position: math.Vec3{X: x1, Y: y1}, TexCoord: math.Vec2{X: u1, Y: v1}, Normal: n, Color: color}
	tr := Vertex{Position: math.Vec3{X: x2, Y: y1}, TexCoord: math.Vec2{X: u2, Y: v1}, Normal: n, Color: color}
	br := Vertex{Position: math.Vec3{X: x2, Y: y2}, TexCoord: math.Vec2{X: u2, Y: v2}, Normal: n, Color: color}
	bl := Vertex{Position: math.Vec3{X: x1, Y: y2}, TexCoord: math.Vec2{X: u1, Y: v2}, Normal: n, Color: color}

	e.vertices = append(e.vertices, tl, tr, br, br, bl, tl)
}

// TextLayout describes a fixed-cell font atlas.
type TextLayout struct {
	CellWidth   float32
	CellHeight  float32
	Columns     int
	Scale       float32
	LineSpacing float32
}

// PushText lays out ASCII text from a font atlas whose first cell is the space
// character. Characters outside the atlas are skipped; '\n' starts a new line.
func (e *BasicEncodable) PushText(text string, layout TextLayout, at math.Vec2, color math.Vec4) {
	if layout.Columns <= 0 {
		return
	}
	scale := layout.Scale
	if scale == 0 {
		scale = 1
	}
	x, y := at.X, at.Y
	for _, c := range text {
		if c == '\n' {
			x = at.X
			y += (layout.LineSpacing + layout.CellHeight) * scale
			continue
		}
		i := int(c) - ' '
		if i < 0 || i >= 96 {
			continue
		}
		row, col := i/layout.Columns, i%layout.Columns
		e.PushRect(
			Rect{X: float32(col) * layout.CellWidth, Y: float32(row) * layout.CellHeight, W: layout.CellWidth, H: layout.CellHeight},
			Rect{X: x, Y: y, W: layout.CellWidth * scale, H: layout.CellHeight * scale},
			color, false,
		)
		x += layout.CellWidth * scale
	}
}

// Encode implements Encodable.
func (e *BasicEncodable) Encode(ctx *Context) error {
	n := len(e.vertices) / 3 * 3
	return ctx.Draw(Triangles, e.vertices[:n], e.Material)
}
