package services

import (
	"fmt"
	"image"
	"image/color"

	"github.com/go-playground/validator/v10"

	"messaging-kit/errors"
	"messaging-kit/images"
)

var validate = validator.New()

type PostTextRequest struct {
	SenderID string `validate:"required"`
	Text     string `validate:"required"`
}

type PostImageRequest struct {
	SenderID string      `validate:"required"`
	Image    image.Image `validate:"required"`
}

// PostDataRequest carries a raw payload. An empty MIMEType is sniffed
// from the payload.
type PostDataRequest struct {
	SenderID string `validate:"required"`
	Data     []byte `validate:"required,min=1"`
	MIMEType string
}

type AvatarRequest struct {
	Color  color.Color `validate:"required"`
	Size   int         `validate:"gt=0,lte=4096"`
	Format images.Format
}

func validateRequest(request any) error {
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidRequest, err)
	}
	return nil
}
