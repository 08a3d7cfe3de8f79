// Package texture decodes texture images and generates the built-in ones.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types.
const (
	TGATypeUncompressed = 2
	TGATypeRLE          = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: data truncated")

// DecodeTGA decodes an uncompressed or RLE true-colour TGA with 24 or 32 bits
// per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	if len(data) < tgaHeaderSize {
		return nil, errTGATruncated
	}
	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.New("tga: colour-mapped images are not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	d := tgaDecoder{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		src:         data[offset:],
		stride:      bpp / 8,
		topToBottom: topToBottom,
	}
	var err error
	if imageType == TGATypeUncompressed {
		err = d.raw(width * height)
	} else {
		err = d.rle(width * height)
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	img         *image.RGBA
	src         []byte
	stride      int
	topToBottom bool
	offset      int
	pixel       int
}

// read returns the next BGR(A) pixel from the source.
func (d *tgaDecoder) read() (color.RGBA, error) {
	if d.offset+d.stride > len(d.src) {
		return color.RGBA{}, errTGATruncated
	}
	p := d.src[d.offset : d.offset+d.stride]
	d.offset += d.stride
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.stride == 4 {
		c.A = p[3]
	}
	return c, nil
}

// put stores c at the next pixel. TGA rows run bottom to top unless the
// descriptor says otherwise.
func (d *tgaDecoder) put(c color.RGBA) {
	w := d.img.Rect.Dx()
	x, y := d.pixel%w, d.pixel/w
	if !d.topToBottom {
		y = d.img.Rect.Dy() - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.pixel++
}

func (d *tgaDecoder) raw(count int) error {
	for d.pixel < count {
		c, err := d.read()
		if err != nil {
			return err
		}
		d.put(c)
	}
	return nil
}

func (d *tgaDecoder) rle(count int) error {
	for d.pixel < count {
		if d.offset >= len(d.src) {
			return errTGATruncated
		}
		packet := d.src[d.offset]
		d.offset++
		n := int(packet&0x7f) + 1
		if packet&0x80 != 0 {
			c, err := d.read()
			if err != nil {
				return err
			}
			for i := 0; i < n && d.pixel < count; i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < n && d.pixel < count; i++ {
			c, err := d.read()
			if err != nil {
				return err
			}
			d.put(c)
		}
	}
	return nil
}
