package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"messaging-kit/domain"
	"messaging-kit/domain/mimetypes"
	"messaging-kit/errors"
	"messaging-kit/images"
	"messaging-kit/repositories"
)

type IMessageService interface {
	PostText(ctx context.Context, request PostTextRequest) (domain.Message, error)
	PostImage(ctx context.Context, request PostImageRequest) (domain.Message, error)
	PostData(ctx context.Context, request PostDataRequest) (domain.Message, error)
	History(cursor *string) (Page, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Message, error)
	Avatar(request AvatarRequest) (string, error)
}

// Page is one slice of the timeline, newest first. Next is nil on the last page.
type Page struct {
	Messages []domain.Message
	Next     *string
}

type MessageService struct {
	log        *slog.Logger
	repository repositories.IMessageRepository
	index      repositories.IMessageIndex
	now        func() time.Time
}

func NewMessageService(
	log *slog.Logger,
	repository repositories.IMessageRepository,
	index repositories.IMessageIndex,
	now func() time.Time,
) *MessageService {
	if now == nil {
		now = time.Now
	}
	return &MessageService{log: log, repository: repository, index: index, now: now}
}

func (s *MessageService) PostText(ctx context.Context, request PostTextRequest) (domain.Message, error) {
	if err := validateRequest(request); err != nil {
		return domain.Message{}, err
	}
	message, err := domain.NewTextMessage(request.Text, request.SenderID, s.now())
	if err != nil {
		return domain.Message{}, err
	}
	return s.post(ctx, message)
}

func (s *MessageService) PostImage(ctx context.Context, request PostImageRequest) (domain.Message, error) {
	if err := validateRequest(request); err != nil {
		return domain.Message{}, err
	}
	message, err := domain.NewImageMessage(request.Image, request.SenderID, s.now())
	if err != nil {
		return domain.Message{}, err
	}
	return s.post(ctx, message)
}

func (s *MessageService) PostData(ctx context.Context, request PostDataRequest) (domain.Message, error) {
	if err := validateRequest(request); err != nil {
		return domain.Message{}, err
	}
	mimeType := mimetypes.Detect(request.Data)
	if request.MIMEType != "" {
		parsed, err := mimetypes.Parse(request.MIMEType)
		if err != nil {
			return domain.Message{}, err
		}
		// images must decode, so a declared image type has to match the payload
		if _, ok := mimetypes.Matches(mimeType.String(), parsed); parsed.IsImage() && !ok {
			return domain.Message{}, fmt.Errorf("%w: declared %s, detected %s", errors.ErrMIMEMismatch, parsed, mimeType)
		}
		mimeType = parsed
	}
	message, err := domain.NewMessage(request.Data, mimeType, request.SenderID, s.now())
	if err != nil {
		return domain.Message{}, err
	}
	return s.post(ctx, message)
}

// post stores the message then indexes it. Index failures are logged, not returned.
func (s *MessageService) post(ctx context.Context, message domain.Message) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	if err := s.repository.StoreMessage(message); err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	if _, err := s.index.Index(message); err != nil {
		s.log.Warn("Indexing failed", "id", message.ID(), "error", err)
	}
	s.log.Debug("Message posted",
		"id", message.ID(),
		"sender", message.SentByUserID(),
		"mime", message.MIMEType(),
		"size", message.Size())
	return message, nil
}

func (s *MessageService) History(cursor *string) (Page, error) {
	messages, next, err := s.repository.GetMessages(cursor)
	if err != nil {
		return Page{}, err
	}
	return Page{Messages: messages, Next: next}, nil
}

// Search resolves index hits to stored messages, keeping the hit order.
// Duplicate hits are collapsed and hits whose message is gone from storage
// are dropped.
func (s *MessageService) Search(ctx context.Context, query string, limit int) ([]domain.Message, error) {
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	ids := lo.Uniq(lo.Map(hits, func(hit repositories.SearchHit, _ int) uuid.UUID { return hit.ID }))
	messages := make([]domain.Message, 0, len(ids))
	for _, id := range ids {
		message, err := s.repository.GetMessage(id)
		if stderrors.Is(err, errors.ErrMessageNotFound) {
			s.log.Warn("Indexed message missing from storage", "id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	s.log.Debug("Search done", "query", query, "hits", len(hits), "found", len(messages))
	return messages, nil
}

// Avatar renders a circular placeholder of the given colour as base64.
func (s *MessageService) Avatar(request AvatarRequest) (string, error) {
	if err := validateRequest(request); err != nil {
		return "", err
	}
	square := images.FilledWithColor(request.Color, request.Size, request.Size)
	circle := images.WithRoundedCorners(float64(request.Size)/2, square)
	return images.EncodeToBase64Format(circle, request.Format)
}
