package texture

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/x3d/internal/engine/render"
)

// FontName is the built-in fixed-cell font atlas for overlay text.
const FontName = "@font"

const (
	fontColumns = 16
	fontRows    = 6 // 96 printable ASCII characters starting at ' '
)

// FontLayout places the glyphs of the FontName atlas.
var FontLayout = render.TextLayout{
	CellWidth:   7,
	CellHeight:  13,
	Columns:     fontColumns,
	Scale:       1,
	LineSpacing: 2,
}

// FontSize returns the pixel size of the FontName atlas.
func FontSize() (int, int) {
	return fontColumns * int(FontLayout.CellWidth), fontRows * int(FontLayout.CellHeight)
}

// Font renders basicfont's 7x13 face into an atlas of white glyphs on a
// transparent background, laid out as FontLayout describes.
func Font() *image.RGBA {
	w, h := FontSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	face := basicfont.Face7x13
	d := font.Drawer{Dst: img, Src: image.White, Face: face}
	for i := 0; i < fontColumns*fontRows; i++ {
		col, row := i%fontColumns, i/fontColumns
		cell := image.Rect(col*face.Width, row*face.Height, (col+1)*face.Width, (row+1)*face.Height)
		d.Dst = img.SubImage(cell).(*image.RGBA)
		d.Dot = fixed.P(cell.Min.X, cell.Min.Y+face.Ascent)
		d.DrawString(string(rune(' ' + i)))
	}
	return img
}
