package mimetypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	msgerrors "messaging-kit/errors"
)

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		expected MIME
		want     bool
	}{
		// Text types
		{"Plain text with charset", "text/plain; charset=utf-8", TextPlain, true},
		{"HTML text", "text/html; charset=utf-8", TextHTML, true},

		// Application types
		{"JSON with charset", "application/json; charset=utf-8", ApplicationJSON, true},
		{"GeoJSON", "application/vnd.geo+json", ApplicationGeoJSON, true},
		{"XML detected as text/xml", "text/xml; charset=utf-8", ApplicationXML, false}, // attention

		// Image types
		{"PNG", "image/png", ImagePNG, true},
		{"JPEG", "image/jpeg", ImageJPEG, true},

		// Fallback / mismatch
		{"Mismatch", "text/plain; charset=utf-8", ApplicationJSON, false},
		{"Invalid MIME", "not a mime", TextPlain, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Matches(tt.detected, tt.expected)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestParse(t *testing.T) {
	req := require.New(t)

	m, err := Parse("Text/Plain; charset=utf-8")
	req.NoError(err)
	req.Equal(TextPlain, m)
	req.Equal(KindText, m.Kind())

	m, err = Parse("image/png")
	req.NoError(err)
	req.True(m.IsImage())

	_, err = Parse("video/mp4")
	req.True(errors.Is(err, msgerrors.ErrUnknownMIMEType))

	_, err = Parse("")
	req.True(errors.Is(err, msgerrors.ErrUnknownMIMEType))
}

func TestDetect(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gif := []byte("GIF89a\x01\x00\x01\x00")

	tests := []struct {
		name string
		data []byte
		want MIME
	}{
		{"png magic", png, ImagePNG},
		{"gif magic", gif, ImageGIF},
		{"utf-8 text", []byte("hello there"), TextPlain},
		{"binary noise", []byte{0x00, 0x01, 0x02, 0xfe, 0xff}, ApplicationOctetStream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Detect(tt.data))
		})
	}
}

func TestKindString(t *testing.T) {
	req := require.New(t)
	req.Equal("text", KindText.String())
	req.Equal("image", ImageJPEG.Kind().String())
	req.Equal("location", ApplicationGeoJSON.Kind().String())
	req.Equal("binary", MIME("video/mp4").Kind().String())
}
