package images

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// samples per axis when computing the coverage of a rounded edge pixel
const cornerSamples = 4

func FilledWithColor(c color.Color, width, height int) *image.NRGBA {
	return imaging.New(width, height, c)
}

// WithRoundedCorners masks the corners of img with quarter circles of the
// given radius. The radius is clamped to half the shorter side, which
// yields a circle or a stadium.
func WithRoundedCorners(radius float64, img image.Image) *image.NRGBA {
	if img == nil {
		return &image.NRGBA{}
	}
	dst := imaging.Clone(img)
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	if radius <= 0 || math.IsNaN(radius) || w == 0 || h == 0 {
		return dst
	}
	r := math.Min(radius, math.Min(float64(w), float64(h))/2)
	fw, fh := float64(w), float64(h)

	for y := 0; y < h; y++ {
		fy := float64(y)
		inBandY := fy >= r && fy+1 <= fh-r
		for x := 0; x < w; x++ {
			fx := float64(x)
			if inBandY || (fx >= r && fx+1 <= fw-r) {
				continue
			}
			coverage := pixelCoverage(fx, fy, fw, fh, r)
			if coverage == 1 {
				continue
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i+3] = uint8(math.Round(float64(dst.Pix[i+3]) * coverage))
		}
	}
	return dst
}

func pixelCoverage(x, y, w, h, r float64) float64 {
	inside := 0
	step := 1 / float64(cornerSamples)
	for j := 0; j < cornerSamples; j++ {
		sy := y + (float64(j)+0.5)*step
		for i := 0; i < cornerSamples; i++ {
			sx := x + (float64(i)+0.5)*step
			if insideRoundedRect(sx, sy, w, h, r) {
				inside++
			}
		}
	}
	return float64(inside) / float64(cornerSamples*cornerSamples)
}

func insideRoundedRect(x, y, w, h, r float64) bool {
	dx := x - clamp(x, r, w-r)
	dy := y - clamp(y, r, h-r)
	return dx*dx+dy*dy <= r*r
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// OverlayedWithColor composites c over img with source-atop: the result
// keeps the alpha of img and blends the colour into its visible pixels.
func OverlayedWithColor(c color.Color, img image.Image) *image.NRGBA {
	if img == nil {
		return &image.NRGBA{}
	}
	src := color.NRGBAModel.Convert(c).(color.NRGBA)
	sa := float64(src.A) / 255
	blend := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*sa + float64(d)*(1-sa)))
	}
	return imaging.AdjustFunc(img, func(d color.NRGBA) color.NRGBA {
		if d.A == 0 {
			return d
		}
		return color.NRGBA{
			R: blend(src.R, d.R),
			G: blend(src.G, d.G),
			B: blend(src.B, d.B),
			A: d.A,
		}
	})
}
