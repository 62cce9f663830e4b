package domain

import (
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"messaging-kit/domain/mimetypes"
	msgerrors "messaging-kit/errors"
	"messaging-kit/images"
)

func TestNewTextMessage(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	msg, err := NewTextMessage("hi", "u1", at)
	req.NoError(err)
	req.NotEqual(uuid.Nil, msg.ID())
	req.Equal("u1", msg.SentByUserID())
	req.Equal(at, msg.SentAt())
	req.Equal(mimetypes.TextPlain, msg.MIMEType())

	text, err := msg.Text()
	req.NoError(err)
	req.Equal("hi", text)
}

func TestNewTextMessage_Rejects_Invalid_UTF8(t *testing.T) {
	_, err := NewTextMessage(string([]byte{0xff, 0xfe}), "u1", time.Now())
	require.True(t, errors.Is(err, msgerrors.ErrInvalidText))
}

func TestNewImageMessage_RoundTrip(t *testing.T) {
	req := require.New(t)
	img := images.FilledWithColor(color.NRGBA{R: 1, G: 2, B: 3, A: 4}, 7, 5)

	msg, err := NewImageMessage(img, "u1", time.Now())
	req.NoError(err)
	req.Equal(mimetypes.ImagePNG, msg.MIMEType())

	decoded, err := msg.Image()
	req.NoError(err)
	req.True(images.Equal(img, decoded))

	_, err = msg.Text()
	req.True(errors.Is(err, msgerrors.ErrMIMEMismatch))
}

func TestNewImageMessage_Rejects_Empty_Image(t *testing.T) {
	req := require.New(t)
	_, err := NewImageMessage(nil, "u1", time.Now())
	req.True(errors.Is(err, msgerrors.ErrEmptyImage))

	_, err = NewImageMessage(image.NewNRGBA(image.Rectangle{}), "u1", time.Now())
	req.True(errors.Is(err, msgerrors.ErrEmptyImage))
}

func TestNewMessage_Stores_Fields_As_Is(t *testing.T) {
	req := require.New(t)
	payload := []byte(`{"type":"Point","coordinates":[2.35,48.85]}`)
	at := time.Date(2024, 3, 1, 11, 0, 0, 0, time.FixedZone("CET", 3600))

	msg, err := NewMessage(payload, mimetypes.ApplicationGeoJSON, "u2", at)
	req.NoError(err)
	req.Equal(payload, msg.Data())
	req.Equal(len(payload), msg.Size())
	req.True(at.Equal(msg.SentAt()))
	req.Equal(time.UTC, msg.SentAt().Location())
	req.Equal(mimetypes.KindLocation, msg.MIMEType().Kind())

	_, err = msg.Image()
	req.True(errors.Is(err, msgerrors.ErrMIMEMismatch))
}

func TestMessage_Is_Immutable(t *testing.T) {
	req := require.New(t)
	payload := []byte("hello")
	msg, err := NewMessage(payload, mimetypes.TextPlain, "u1", time.Now())
	req.NoError(err)

	payload[0] = 'j'
	req.Equal([]byte("hello"), msg.Data())

	data := msg.Data()
	data[0] = 'y'
	req.Equal([]byte("hello"), msg.Data())
}

func TestNewMessage_Validation(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		mime   mimetypes.MIME
		sender string
		at     time.Time
		want   error
	}{
		{"missing sender", mimetypes.TextPlain, "", now, msgerrors.ErrEmptySender},
		{"blank sender", mimetypes.TextPlain, "   ", now, msgerrors.ErrEmptySender},
		{"zero time", mimetypes.TextPlain, "u1", time.Time{}, msgerrors.ErrZeroSentAt},
		{"missing mime", "", "u1", now, msgerrors.ErrEmptyMIMEType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMessage([]byte("x"), tt.mime, tt.sender, tt.at)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestRestore_Keeps_Identity(t *testing.T) {
	req := require.New(t)
	id := uuid.New()
	msg, err := Restore(id, []byte("x"), mimetypes.TextPlain, "u1", time.Now())
	req.NoError(err)
	req.Equal(id, msg.ID())
}
