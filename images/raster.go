package images

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Raster is the minimal capability set messages need from an image.
type Raster interface {
	Width() int
	Height() int
	PixelAt(x, y int) color.NRGBA
	EncodeRaster(format Format) ([]byte, error)
}

// Bitmap is a Raster backed by a zero-origin NRGBA copy of an image.
type Bitmap struct {
	img *image.NRGBA
}

func AsRaster(img image.Image) Bitmap {
	if img == nil {
		return Bitmap{img: &image.NRGBA{}}
	}
	return Bitmap{img: imaging.Clone(img)}
}

func (b Bitmap) Width() int  { return b.img.Rect.Dx() }
func (b Bitmap) Height() int { return b.img.Rect.Dy() }

func (b Bitmap) PixelAt(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

func (b Bitmap) EncodeRaster(format Format) ([]byte, error) {
	return Encode(b.img, format)
}

// Equal reports whether a and b have the same size and the same pixels
// once both are converted to NRGBA.
func Equal(a, b image.Image) bool {
	ra, rb := AsRaster(a), AsRaster(b)
	if ra.Width() != rb.Width() || ra.Height() != rb.Height() {
		return false
	}
	return bytes.Equal(ra.img.Pix, rb.img.Pix)
}
