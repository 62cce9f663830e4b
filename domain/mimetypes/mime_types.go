package mimetypes

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	msgerrors "messaging-kit/errors"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"
	TextHTML  MIME = "text/html"
	TextCSS   MIME = "text/css"

	ApplicationPDF         MIME = "application/pdf"
	ApplicationJSON        MIME = "application/json"
	ApplicationXML         MIME = "application/xml"
	ApplicationGeoJSON     MIME = "application/vnd.geo+json"
	ApplicationOctetStream MIME = "application/octet-stream"

	ImagePNG  MIME = "image/png"
	ImageJPEG MIME = "image/jpeg"
	ImageGIF  MIME = "image/gif"
)

// Kind groups MIME types by how a message payload is interpreted.
type Kind int

const (
	KindBinary Kind = iota
	KindText
	KindImage
	KindLocation
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindLocation:
		return "location"
	default:
		return "binary"
	}
}

var known = map[MIME]Kind{
	TextPlain:              KindText,
	TextHTML:               KindText,
	TextCSS:                KindText,
	ApplicationPDF:         KindBinary,
	ApplicationJSON:        KindText,
	ApplicationXML:         KindText,
	ApplicationGeoJSON:     KindLocation,
	ApplicationOctetStream: KindBinary,
	ImagePNG:               KindImage,
	ImageJPEG:              KindImage,
	ImageGIF:               KindImage,
}

func (m MIME) Kind() Kind {
	return known[m]
}

func (m MIME) IsText() bool  { return m.Kind() == KindText }
func (m MIME) IsImage() bool { return m.Kind() == KindImage }

func (m MIME) String() string {
	return string(m)
}

func Matches(detected string, expected MIME) (MIME, bool) {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return Unknown, false
	}
	return expected, mt == string(expected)
}

// Parse accepts a media type with optional parameters and returns the
// matching known MIME.
func Parse(raw string) (MIME, error) {
	mt, _, err := mime.ParseMediaType(strings.TrimSpace(raw))
	if err != nil {
		return Unknown, fmt.Errorf("%w: %q", msgerrors.ErrUnknownMIMEType, raw)
	}
	m := MIME(strings.ToLower(mt))
	if _, ok := known[m]; !ok {
		return Unknown, fmt.Errorf("%w: %q", msgerrors.ErrUnknownMIMEType, raw)
	}
	return m, nil
}

// Detect sniffs the payload and falls back to application/octet-stream
// when the detected type is not one of ours.
func Detect(data []byte) MIME {
	detected := mimetype.Detect(data)
	for mt := detected; mt != nil; mt = mt.Parent() {
		if m, err := Parse(mt.String()); err == nil {
			return m
		}
	}
	return ApplicationOctetStream
}
