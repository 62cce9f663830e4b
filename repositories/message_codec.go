package repositories

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"

	"messaging-kit/domain"
	"messaging-kit/domain/mimetypes"
	msgerrors "messaging-kit/errors"
)

// Wire layout of a stored message:
//
//	1: id       bytes (16-byte uuid)
//	2: sender   string
//	3: seconds  varint (unix seconds, two's complement)
//	4: mime     string
//	5: data     bytes
//	6: nanos    varint (0..999999999)
const (
	fieldID      protowire.Number = 1
	fieldSender  protowire.Number = 2
	fieldSeconds protowire.Number = 3
	fieldMIME    protowire.Number = 4
	fieldData    protowire.Number = 5
	fieldNanos   protowire.Number = 6
)

// EncodeMessage serializes a message in the protobuf wire layout above.
func EncodeMessage(message domain.Message) []byte {
	id := message.ID()
	data := message.Data()

	b := make([]byte, 0, len(data)+64)
	b = protowire.AppendTag(b, fieldID, protowire.BytesType)
	b = protowire.AppendBytes(b, id[:])
	b = protowire.AppendTag(b, fieldSender, protowire.BytesType)
	b = protowire.AppendString(b, message.SentByUserID())
	b = protowire.AppendTag(b, fieldSeconds, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(message.SentAt().Unix()))
	b = protowire.AppendTag(b, fieldMIME, protowire.BytesType)
	b = protowire.AppendString(b, message.MIMEType().String())
	b = protowire.AppendTag(b, fieldData, protowire.BytesType)
	b = protowire.AppendBytes(b, data)
	b = protowire.AppendTag(b, fieldNanos, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(message.SentAt().Nanosecond()))
	return b
}

// DecodeMessage parses a stored message. Unknown fields are skipped.
func DecodeMessage(b []byte) (domain.Message, error) {
	var (
		id      uuid.UUID
		sender  string
		seconds int64
		nanos   uint64
		mime    string
		data    []byte
	)
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return domain.Message{}, corrupted(protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldID && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			if n >= 0 {
				parsed, err := uuid.FromBytes(v)
				if err != nil {
					return domain.Message{}, corrupted(err)
				}
				id = parsed
			}
		case num == fieldSender && typ == protowire.BytesType:
			sender, n = protowire.ConsumeString(b)
		case num == fieldSeconds && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			seconds = int64(v)
		case num == fieldNanos && typ == protowire.VarintType:
			nanos, n = protowire.ConsumeVarint(b)
		case num == fieldMIME && typ == protowire.BytesType:
			mime, n = protowire.ConsumeString(b)
		case num == fieldData && typ == protowire.BytesType:
			data, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return domain.Message{}, corrupted(protowire.ParseError(n))
		}
		b = b[n:]
	}

	if nanos >= uint64(time.Second) {
		return domain.Message{}, corrupted(fmt.Errorf("nanos %d out of range", nanos))
	}
	sentAt := time.Unix(seconds, int64(nanos)).UTC()
	message, err := domain.Restore(id, data, mimetypes.MIME(mime), sender, sentAt)
	if err != nil {
		return domain.Message{}, corrupted(err)
	}
	return message, nil
}

func corrupted(err error) error {
	return fmt.Errorf("%w: %v", msgerrors.ErrCorruptedRecord, err)
}
