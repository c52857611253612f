package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"strings"
	"time"

	"messaging-lab/domain"
	"messaging-lab/domain/messaging"
	apperrors "messaging-lab/errors"
	"messaging-lab/moderation"
	"messaging-lab/repositories"

	"github.com/google/uuid"
)

const defaultSearchLimit = 10

type IMessageService interface {
	PostMessage(ctx context.Context, cmd messaging.PostMessageCommand) (domain.Message, error)
	ListMessages(ctx context.Context, cmd messaging.ListMessagesCommand) ([]domain.Message, *string, error)
	SearchMessages(ctx context.Context, cmd messaging.SearchMessagesCommand) ([]domain.Message, error)
}

// MessageService appends messages to conversations on behalf of a sender.
// Validation is strictly fail-fast: empty body, unknown sender, unknown
// conversation, then membership. The last two checks and the insert share
// one store transaction.
type MessageService struct {
	log           *slog.Logger
	users         repositories.IUserRepository
	conversations repositories.IConversationRepository
	messages      repositories.IMessageRepository
	index         repositories.IMessageSearchIndex
	moderator     *moderation.Moderator
}

func NewMessageService(
	log *slog.Logger,
	users repositories.IUserRepository,
	conversations repositories.IConversationRepository,
	messages repositories.IMessageRepository,
	index repositories.IMessageSearchIndex,
	moderator *moderation.Moderator,
) *MessageService {
	return &MessageService{
		log:           log,
		users:         users,
		conversations: conversations,
		messages:      messages,
		index:         index,
		moderator:     moderator,
	}
}

// PostMessage validates and persists a new message, returning the stored
// record. The body may be rewritten by the moderation hook before storage.
func (s *MessageService) PostMessage(ctx context.Context, cmd messaging.PostMessageCommand) (domain.Message, error) {
	body := cmd.Body
	if strings.TrimSpace(body) == "" {
		return domain.Message{}, apperrors.ErrEmptyBody
	}

	if _, err := s.users.GetUser(ctx, cmd.SenderID); err != nil {
		return domain.Message{}, err
	}

	if s.moderator != nil {
		sanitized, found := s.moderator.Censor(body)
		if len(found) > 0 {
			s.log.Warn("Message content censored", "sender", cmd.SenderID, "words", len(found))
		}
		body = sanitized
	}

	message := domain.Message{
		ID:             uuid.New(),
		SenderID:       cmd.SenderID,
		ConversationID: cmd.Conversation,
		Body:           body,
		Language:       moderation.DetectLanguage(body),
		SentAt:         time.Now().UTC(),
	}

	if err := s.messages.AppendMessage(ctx, message); err != nil {
		return domain.Message{}, err
	}

	if s.index != nil {
		if err := s.index.IndexMessage(ctx, message); err != nil {
			// The ledger is the source of truth, a stale index is tolerable.
			s.log.Error("Indexing message failed", "id", message.ID, "err", err)
		}
	}

	return message, nil
}

// ListMessages returns the messages of a conversation ordered by sent
// timestamp ascending. The call is restartable through the cursor.
func (s *MessageService) ListMessages(ctx context.Context, cmd messaging.ListMessagesCommand) ([]domain.Message, *string, error) {
	if _, err := s.conversations.GetConversation(ctx, cmd.Conversation); err != nil {
		return nil, nil, err
	}
	return s.messages.GetMessages(ctx, cmd.Conversation, cmd.Cursor)
}

// SearchMessages runs a full-text query scoped to one conversation and
// hydrates the matching ids from the ledger.
func (s *MessageService) SearchMessages(ctx context.Context, cmd messaging.SearchMessagesCommand) ([]domain.Message, error) {
	if s.index == nil {
		return nil, nil
	}
	if _, err := s.conversations.GetConversation(ctx, cmd.Conversation); err != nil {
		return nil, err
	}

	limit := cmd.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	ids, err := s.index.Search(ctx, cmd.Conversation, cmd.Query, limit)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	for _, id := range ids {
		message, err := s.messages.GetMessage(ctx, cmd.Conversation, id)
		if err != nil {
			var notFound apperrors.NotFoundError
			if stderrors.As(err, &notFound) {
				s.log.Warn("Indexed message missing from ledger", "id", id)
				continue
			}
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, nil
}
