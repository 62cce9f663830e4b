package errors

import "fmt"

var (
	ErrEmptySender       = fmt.Errorf("sender id is required")
	ErrZeroSentAt        = fmt.Errorf("sent at is required")
	ErrEmptyMIMEType     = fmt.Errorf("mime type is required")
	ErrUnknownMIMEType   = fmt.Errorf("unknown mime type")
	ErrInvalidText       = fmt.Errorf("text is not valid utf-8")
	ErrEmptyImage        = fmt.Errorf("image has no pixels")
	ErrEmptyEncoding     = fmt.Errorf("image encoding produced no data")
	ErrMIMEMismatch      = fmt.Errorf("payload kind does not match mime type")
	ErrMalformedBase64   = fmt.Errorf("malformed base64 input")
	ErrUndecodableImage  = fmt.Errorf("data is not a decodable image")
	ErrUnsupportedFormat = fmt.Errorf("unsupported image format")
	ErrMessageNotFound   = fmt.Errorf("message not found")
	ErrCorruptedRecord   = fmt.Errorf("corrupted message record")
	ErrInvalidRequest    = fmt.Errorf("invalid request")
)
