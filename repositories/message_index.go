//go:generate go run go.uber.org/mock/mockgen -source=message_index.go -destination=../mocks/mock_message_index.go -package=mocks
package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/blugelabs/bluge"
	"github.com/google/uuid"

	"messaging-kit/domain"
)

const (
	defaultSearchLimit = 10

	fieldContent   = "content"
	fieldSenderID  = "sender"
	fieldLang      = "lang"
	fieldSentAtKey = "sent_at"
	fieldDocID     = "_id"
)

type IMessageIndex interface {
	Index(message domain.Message) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]SearchHit, error)
}

type SearchHit struct {
	ID     uuid.UUID
	Sender string
	Lang   string
	SentAt time.Time
	Score  float64
}

// MessageIndex keeps a full-text index of text messages.
type MessageIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageIndex(writer *bluge.Writer, log *slog.Logger) *MessageIndex {
	return &MessageIndex{writer: writer, log: log}
}

// Index adds a text message to the index. Non-text messages are skipped and
// reported with false.
func (i *MessageIndex) Index(message domain.Message) (bool, error) {
	if !message.MIMEType().IsText() {
		return false, nil
	}
	text, err := message.Text()
	if err != nil {
		return false, err
	}
	lang := whatlanggo.Detect(text).Lang.Iso6391()

	doc := bluge.NewDocument(message.ID().String()).
		AddField(bluge.NewTextField(fieldContent, text)).
		AddField(bluge.NewKeywordField(fieldSenderID, message.SentByUserID()).StoreValue()).
		AddField(bluge.NewKeywordField(fieldLang, lang).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldSentAtKey, message.SentAt()).StoreValue())

	if err = i.writer.Update(doc.ID(), doc); err != nil {
		return false, fmt.Errorf("index message %s: %w", message.ID(), err)
	}
	i.log.Debug("Message indexed", "id", message.ID(), "lang", lang)
	return true, nil
}

// Search runs a match query against message contents, best hits first.
func (i *MessageIndex) Search(ctx context.Context, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	request := bluge.NewTopNSearch(limit, bluge.NewMatchQuery(query).SetField(fieldContent))
	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var hits []SearchHit
	match, err := iterator.Next()
	for err == nil && match != nil {
		hit := SearchHit{Score: match.Score}
		var visitErr error
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldDocID:
				hit.ID, visitErr = uuid.ParseBytes(value)
			case fieldSenderID:
				hit.Sender = string(value)
			case fieldLang:
				hit.Lang = string(value)
			case fieldSentAtKey:
				hit.SentAt, visitErr = bluge.DecodeDateTime(value)
			}
			return visitErr == nil
		})
		if err == nil {
			err = visitErr
		}
		if err != nil {
			break
		}
		hits = append(hits, hit)
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("read search hits: %w", err)
	}
	return hits, nil
}
