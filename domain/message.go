// Package domain contains core concepts of the messaging kit.
// This file defines Message values and the factories that build them.
// Messages are immutable and validated by the domain.
package domain

import (
	"errors"
	"fmt"
	"image"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"

	"messaging-kit/domain/mimetypes"
	msgerrors "messaging-kit/errors"
	"messaging-kit/images"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Message is one unit of conversation content. Its payload is opaque
// bytes interpreted according to its MIME type.
type Message struct {
	id           uuid.UUID
	sentByUserID string
	sentAt       time.Time
	mimeType     mimetypes.MIME
	data         []byte
}

type messageFields struct {
	SentByUserID string         `validate:"required,notblank"`
	SentAt       time.Time      `validate:"required"`
	MIMEType     mimetypes.MIME `validate:"required"`
}

var fieldErrors = map[string]error{
	"SentByUserID": msgerrors.ErrEmptySender,
	"SentAt":       msgerrors.ErrZeroSentAt,
	"MIMEType":     msgerrors.ErrEmptyMIMEType,
}

// NewMessage stores data as-is under the given MIME type.
func NewMessage(data []byte, mimeType mimetypes.MIME, sentByUserID string, sentAt time.Time) (Message, error) {
	return Restore(uuid.New(), data, mimeType, sentByUserID, sentAt)
}

// NewTextMessage stores text as UTF-8 bytes with a text/plain MIME type.
func NewTextMessage(text string, sentByUserID string, sentAt time.Time) (Message, error) {
	if !utf8.ValidString(text) {
		return Message{}, msgerrors.ErrInvalidText
	}
	return NewMessage([]byte(text), mimetypes.TextPlain, sentByUserID, sentAt)
}

// NewImageMessage stores img as PNG so the payload round trips losslessly.
func NewImageMessage(img image.Image, sentByUserID string, sentAt time.Time) (Message, error) {
	data, err := images.Encode(img, images.FormatPNG)
	if err != nil {
		return Message{}, fmt.Errorf("image message: %w", err)
	}
	return NewMessage(data, mimetypes.ImagePNG, sentByUserID, sentAt)
}

// Restore rebuilds a message that already has an identity, typically one
// read back from storage.
func Restore(id uuid.UUID, data []byte, mimeType mimetypes.MIME, sentByUserID string, sentAt time.Time) (Message, error) {
	if err := validateFields(messageFields{
		SentByUserID: sentByUserID,
		SentAt:       sentAt,
		MIMEType:     mimeType,
	}); err != nil {
		return Message{}, err
	}
	return Message{
		id:           id,
		sentByUserID: sentByUserID,
		sentAt:       sentAt.UTC(),
		mimeType:     mimeType,
		data:         slices.Clone(data),
	}, nil
}

func validateFields(f messageFields) error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		if sentinel, ok := fieldErrors[validationErrors[0].Field()]; ok {
			return sentinel
		}
	}
	return err
}

func (m Message) ID() uuid.UUID            { return m.id }
func (m Message) SentByUserID() string     { return m.sentByUserID }
func (m Message) SentAt() time.Time        { return m.sentAt }
func (m Message) MIMEType() mimetypes.MIME { return m.mimeType }

// Data returns a copy of the payload.
func (m Message) Data() []byte {
	return slices.Clone(m.data)
}

func (m Message) Size() int {
	return len(m.data)
}

func (m Message) Text() (string, error) {
	if !m.mimeType.IsText() {
		return "", fmt.Errorf("%w: %s is not text", msgerrors.ErrMIMEMismatch, m.mimeType)
	}
	return string(m.data), nil
}

func (m Message) Image() (image.Image, error) {
	if !m.mimeType.IsImage() {
		return nil, fmt.Errorf("%w: %s is not an image", msgerrors.ErrMIMEMismatch, m.mimeType)
	}
	return images.Decode(m.data)
}
