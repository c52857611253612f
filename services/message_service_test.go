package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"messaging-lab/domain"
	"messaging-lab/domain/messaging"
	apperrors "messaging-lab/errors"
	"messaging-lab/mocks"
	"messaging-lab/moderation"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type messageServiceFixture struct {
	service       *MessageService
	users         *mocks.MockIUserRepository
	conversations *mocks.MockIConversationRepository
	messages      *mocks.MockIMessageRepository
	index         *mocks.MockIMessageSearchIndex
}

func newMessageServiceFixture(t *testing.T, moderator *moderation.Moderator) messageServiceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := messageServiceFixture{
		users:         mocks.NewMockIUserRepository(ctrl),
		conversations: mocks.NewMockIConversationRepository(ctrl),
		messages:      mocks.NewMockIMessageRepository(ctrl),
		index:         mocks.NewMockIMessageSearchIndex(ctrl),
	}
	f.service = NewMessageService(logs.GetLoggerFromLevel(slog.LevelDebug),
		f.users, f.conversations, f.messages, f.index, moderator)
	return f
}

func TestMessageService_PostMessage(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newMessageServiceFixture(t, nil)

	sender := uuid.New()
	conversationID := uuid.New()
	f.users.EXPECT().GetUser(gomock.Any(), sender).Return(domain.User{ID: sender}, nil)

	var stored domain.Message
	f.messages.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.Message) error {
			stored = m
			return nil
		})
	f.index.EXPECT().IndexMessage(gomock.Any(), gomock.Any()).Return(nil)

	message, err := f.service.PostMessage(ctx, messaging.PostMessageCommand{
		Conversation: conversationID,
		SenderID:     sender,
		Body:         "hello there",
	})
	req.NoError(err)
	req.Equal(stored, message)
	req.NotEqual(uuid.Nil, message.ID)
	req.Equal(sender, message.SenderID)
	req.Equal(conversationID, message.ConversationID)
	req.Equal("hello there", message.Body)
	req.WithinDuration(time.Now().UTC(), message.SentAt, time.Minute)
}

// Validation is fail-fast: an empty body is rejected before any lookup.
func TestMessageService_PostMessage_EmptyBody(t *testing.T) {
	req := require.New(t)
	f := newMessageServiceFixture(t, nil)

	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := f.service.PostMessage(context.Background(), messaging.PostMessageCommand{
			Conversation: uuid.New(),
			SenderID:     uuid.New(),
			Body:         body,
		})
		req.ErrorIs(err, apperrors.ErrEmptyBody)
	}
}

func TestMessageService_PostMessage_UnknownSender(t *testing.T) {
	req := require.New(t)
	f := newMessageServiceFixture(t, nil)

	sender := uuid.New()
	f.users.EXPECT().GetUser(gomock.Any(), sender).
		Return(domain.User{}, apperrors.NotFound(apperrors.KindUser, sender.String()))

	_, err := f.service.PostMessage(context.Background(), messaging.PostMessageCommand{
		Conversation: uuid.New(),
		SenderID:     sender,
		Body:         "hi",
	})

	var notFound apperrors.NotFoundError
	req.ErrorAs(err, &notFound)
	req.Equal(apperrors.KindUser, notFound.Kind)
}

// Membership is enforced by the repository inside the store transaction,
// the service only propagates the verdict.
func TestMessageService_PostMessage_Forbidden(t *testing.T) {
	req := require.New(t)
	f := newMessageServiceFixture(t, nil)

	sender := uuid.New()
	f.users.EXPECT().GetUser(gomock.Any(), sender).Return(domain.User{ID: sender}, nil)
	f.messages.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).
		Return(apperrors.ErrNotParticipant)

	_, err := f.service.PostMessage(context.Background(), messaging.PostMessageCommand{
		Conversation: uuid.New(),
		SenderID:     sender,
		Body:         "hi",
	})
	req.ErrorIs(err, apperrors.ErrNotParticipant)
}

func TestMessageService_PostMessage_CensorsBody(t *testing.T) {
	req := require.New(t)
	moderator, err := moderation.NewModerator([]string{"badger"}, '*', slog.Default())
	req.NoError(err)
	f := newMessageServiceFixture(t, &moderator)

	sender := uuid.New()
	f.users.EXPECT().GetUser(gomock.Any(), sender).Return(domain.User{ID: sender}, nil)

	var stored domain.Message
	f.messages.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.Message) error {
			stored = m
			return nil
		})
	f.index.EXPECT().IndexMessage(gomock.Any(), gomock.Any()).Return(nil)

	_, err = f.service.PostMessage(context.Background(), messaging.PostMessageCommand{
		Conversation: uuid.New(),
		SenderID:     sender,
		Body:         "The badger is here",
	})
	req.NoError(err)
	req.Equal("The ****** is here", stored.Body)
}

// An index failure must not fail the post, the ledger is the source of truth.
func TestMessageService_PostMessage_IndexFailureIsTolerated(t *testing.T) {
	req := require.New(t)
	f := newMessageServiceFixture(t, nil)

	sender := uuid.New()
	f.users.EXPECT().GetUser(gomock.Any(), sender).Return(domain.User{ID: sender}, nil)
	f.messages.EXPECT().AppendMessage(gomock.Any(), gomock.Any()).Return(nil)
	f.index.EXPECT().IndexMessage(gomock.Any(), gomock.Any()).
		Return(context.DeadlineExceeded)

	_, err := f.service.PostMessage(context.Background(), messaging.PostMessageCommand{
		Conversation: uuid.New(),
		SenderID:     sender,
		Body:         "hi",
	})
	req.NoError(err)
}

func TestMessageService_ListMessages_UnknownConversation(t *testing.T) {
	req := require.New(t)
	f := newMessageServiceFixture(t, nil)

	conversationID := uuid.New()
	f.conversations.EXPECT().GetConversation(gomock.Any(), conversationID).
		Return(domain.Conversation{}, apperrors.NotFound(apperrors.KindConversation, conversationID.String()))

	_, _, err := f.service.ListMessages(context.Background(), messaging.ListMessagesCommand{
		Conversation: conversationID,
	})

	var notFound apperrors.NotFoundError
	req.ErrorAs(err, &notFound)
	req.Equal(apperrors.KindConversation, notFound.Kind)
}

func TestMessageService_SearchMessages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newMessageServiceFixture(t, nil)

	conversationID := uuid.New()
	conversation := domain.NewConversation(conversationID, []uuid.UUID{uuid.New()}, time.Now().UTC())
	match := domain.Message{ID: uuid.New(), ConversationID: conversationID, Body: "invoice"}

	f.conversations.EXPECT().GetConversation(gomock.Any(), conversationID).Return(conversation, nil)
	f.index.EXPECT().Search(gomock.Any(), conversationID, "invoice", defaultSearchLimit).
		Return([]uuid.UUID{match.ID}, nil)
	f.messages.EXPECT().GetMessage(gomock.Any(), conversationID, match.ID).Return(match, nil)

	found, err := f.service.SearchMessages(ctx, messaging.SearchMessagesCommand{
		Conversation: conversationID,
		Query:        "invoice",
	})
	req.NoError(err)
	req.Equal([]domain.Message{match}, found)
}
