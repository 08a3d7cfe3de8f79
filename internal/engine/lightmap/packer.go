package lightmap

import (
	"errors"
	"fmt"
)

// ErrTileAllocation is returned when a tile does not fit in the atlas.
var ErrTileAllocation = errors.New("failed to allocate light map tile")

// Packer places tiles left to right in rows, starting a new row below the
// tallest tile of the current one when the next tile would overflow.
type Packer struct {
	Width  int
	Height int

	x, y      int
	rowHeight int
}

// NewPacker creates a packer for a width x height atlas.
func NewPacker(width, height int) *Packer {
	return &Packer{Width: width, Height: height}
}

// Alloc returns the top-left texel of a new w x h tile.
func (p *Packer) Alloc(w, h int) (int, int, error) {
	if w <= 0 || h <= 0 || w > p.Width {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrTileAllocation, w, h)
	}
	if p.x+w > p.Width {
		p.x = 0
		p.y += p.rowHeight
		p.rowHeight = 0
	}
	if p.y+h > p.Height {
		return 0, 0, fmt.Errorf("%w: %dx%d", ErrTileAllocation, w, h)
	}
	x, y := p.x, p.y
	p.x += w
	p.rowHeight = max(p.rowHeight, h)
	return x, y, nil
}

// Reset empties the atlas.
func (p *Packer) Reset() {
	p.x, p.y, p.rowHeight = 0, 0, 0
}
