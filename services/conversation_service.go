package services

import (
	"context"
	"log/slog"
	"time"

	"messaging-lab/domain"
	"messaging-lab/domain/messaging"
	apperrors "messaging-lab/errors"
	"messaging-lab/repositories"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IConversationService interface {
	CreateConversation(ctx context.Context, cmd messaging.CreateConversationCommand) (domain.Conversation, error)
	AddParticipant(ctx context.Context, cmd messaging.AddParticipantCommand) (domain.Conversation, error)
	GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]domain.User, error)
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
}

// ConversationService creates conversations and manages membership.
// It depends on the user repository to validate participant references.
type ConversationService struct {
	log           *slog.Logger
	users         repositories.IUserRepository
	conversations repositories.IConversationRepository
}

func NewConversationService(
	log *slog.Logger,
	users repositories.IUserRepository,
	conversations repositories.IConversationRepository,
) *ConversationService {
	return &ConversationService{log: log, users: users, conversations: conversations}
}

// CreateConversation resolves every participant id and persists a new
// conversation, all-or-nothing: if any id is malformed or unknown the call
// fails with the complete missing set and nothing is written.
func (s *ConversationService) CreateConversation(ctx context.Context, cmd messaging.CreateConversationCommand) (domain.Conversation, error) {
	if len(cmd.ParticipantIDs) == 0 {
		return domain.Conversation{}, apperrors.ErrNoParticipants
	}

	var ids []uuid.UUID
	var missing []string
	for _, raw := range cmd.ParticipantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			missing = append(missing, raw)
			continue
		}
		ids = append(ids, id)
	}

	_, unknown, err := s.users.GetUsers(ctx, ids)
	if err != nil {
		return domain.Conversation{}, err
	}
	missing = append(missing, lo.Map(unknown, func(id uuid.UUID, _ int) string {
		return id.String()
	})...)
	if len(missing) > 0 {
		return domain.Conversation{}, apperrors.InvalidParticipantsError{Missing: missing}
	}

	conversation := domain.NewConversation(uuid.New(), ids, time.Now().UTC())
	if err := s.conversations.CreateConversation(ctx, conversation); err != nil {
		return domain.Conversation{}, err
	}

	s.log.Info("Conversation created", "id", conversation.ID, "participants", len(conversation.Participants))
	return conversation, nil
}

// AddParticipant idempotently adds a user to an existing conversation.
// A malformed user id is reported the same way as an unknown one.
func (s *ConversationService) AddParticipant(ctx context.Context, cmd messaging.AddParticipantCommand) (domain.Conversation, error) {
	userID, err := uuid.Parse(cmd.UserID)
	if err != nil {
		return domain.Conversation{}, apperrors.NotFound(apperrors.KindUser, cmd.UserID)
	}
	return s.conversations.AddParticipant(ctx, cmd.Conversation, userID)
}

// GetParticipants returns the resolved participant set of a conversation.
func (s *ConversationService) GetParticipants(ctx context.Context, conversationID uuid.UUID) ([]domain.User, error) {
	conversation, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	users, _, err := s.users.GetUsers(ctx, conversation.ParticipantIDs())
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListConversations returns every conversation, newest first.
func (s *ConversationService) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	return s.conversations.ListConversations(ctx)
}
