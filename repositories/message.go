//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"messaging-kit/domain"
	msgerrors "messaging-kit/errors"
)

const (
	messagePrefix = "msg:"
	idIndexPrefix = "idx:msg:"
	// above every 20-digit seconds + 9-digit nanos key, used as the reverse seek start
	maxPaddedTimestamp = "99999999999999999999999999999"
	// flips the sign bit so signed unix seconds sort as unsigned
	signFlip = uint64(1) << 63
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessage(id uuid.UUID) (domain.Message, error)
	GetMessages(cursor *string) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{seconds_padded}{nanos_padded}:{uuid}" to:
//  1. Ensure chronological sorting, pre-1970 dates included, using sign-flipped
//     20-digit seconds and 9-digit nanos (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
//
// A secondary "idx:msg:{uuid}" key points back to the primary key.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := messageKey(message)
	value := EncodeMessage(message)
	return m.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, value); err != nil {
			return err
		}
		return txn.Set([]byte(idIndexPrefix+message.ID().String()), key)
	})
}

func (m MessageRepository) GetMessage(id uuid.UUID) (domain.Message, error) {
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		idx, err := txn.Get([]byte(idIndexPrefix + id.String()))
		if err != nil {
			return err
		}
		key, err := idx.ValueCopy(nil)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			message, err = DecodeMessage(value)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, fmt.Errorf("%w: %s", msgerrors.ErrMessageNotFound, id)
	}
	return message, err
}

// GetMessages walks the timeline from newest to oldest, starting right after
// cursor when one is given. It stops once limitMessages is reached and returns
// the cursor of the last message read. The returned cursor is nil when the
// timeline is exhausted.
func (m MessageRepository) GetMessages(cursor *string) ([]domain.Message, *string, error) {
	// a missing or non-positive limit means no limit
	limit := lo.FromPtr(m.limitMessages)
	var byteMessages [][]byte
	var lastKey string
	exhausted := true
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(messagePrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(messagePrefix), maxPaddedTimestamp...)
		default:
			seekKey = append([]byte(messagePrefix), *cursor...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(byteMessages) == limit {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", limit))
				exhausted = false
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		message, err := DecodeMessage(b)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	if exhausted || len(messages) == 0 {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

func messageKey(message domain.Message) []byte {
	sentAt := message.SentAt()
	return []byte(fmt.Sprintf("%s%020d%09d:%s",
		messagePrefix,
		uint64(sentAt.Unix())^signFlip,
		sentAt.Nanosecond(),
		message.ID(),
	))
}
