// Package images holds the raster helpers used by messages: a base64
// codec plus a few pure manipulations (solid fill, rounded corners, tint).
// Every function returns a fresh image and leaves its input untouched.
package images

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	msgerrors "messaging-kit/errors"
)

type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	default:
		return "png"
	}
}

// Extension is the file suffix, dot included, conventionally used for f.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return FormatPNG, fmt.Errorf("%w: %q", msgerrors.ErrUnsupportedFormat, s)
	}
}

func (f Format) imagingFormat() imaging.Format {
	if f == FormatJPEG {
		return imaging.JPEG
	}
	return imaging.PNG
}

// Encode serializes img. PNG is lossless, JPEG is not.
func Encode(img image.Image, format Format) ([]byte, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, msgerrors.ErrEmptyImage
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format.imagingFormat()); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	if buf.Len() == 0 {
		return nil, msgerrors.ErrEmptyEncoding
	}
	return buf.Bytes(), nil
}

// Decode reads any format registered by imaging (png, jpeg, gif, bmp, tiff).
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", msgerrors.ErrUndecodableImage, err)
	}
	return img, nil
}

func EncodeToBase64(img image.Image) (string, error) {
	return EncodeToBase64Format(img, FormatPNG)
}

func EncodeToBase64Format(img image.Image, format Format) (string, error) {
	raw, err := Encode(img, format)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeBase64ToImage accepts a bare standard-alphabet string, optionally
// wrapped in a data URI.
func DecodeBase64ToImage(encoded string) (image.Image, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		if i := strings.Index(encoded, ","); i >= 0 {
			encoded = encoded[i+1:]
		}
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", msgerrors.ErrMalformedBase64, err)
	}
	return Decode(raw)
}
