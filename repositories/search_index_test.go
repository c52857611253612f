package repositories

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"messaging-lab/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *MessageSearchIndex {
	t.Helper()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	return NewMessageSearchIndex(writer, slog.Default())
}

func newIndexedMessage(conversationID uuid.UUID, body string) domain.Message {
	return domain.Message{
		ID:             uuid.New(),
		SenderID:       uuid.New(),
		ConversationID: conversationID,
		Body:           body,
		SentAt:         time.Now().UTC(),
	}
}

func Test_Index_And_Search_Messages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newTestIndex(t)
	conversationID := uuid.New()

	invoice := newIndexedMessage(conversationID, "the invoice from yesterday is approved")
	greeting := newIndexedMessage(conversationID, "hello everyone")
	req.NoError(index.IndexMessage(ctx, invoice))
	req.NoError(index.IndexMessage(ctx, greeting))

	ids, err := index.Search(ctx, conversationID, "invoice", 10)
	req.NoError(err)
	req.Equal([]uuid.UUID{invoice.ID}, ids)
}

func Test_Search_Is_Scoped_To_Conversation(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newTestIndex(t)

	here := uuid.New()
	elsewhere := uuid.New()
	req.NoError(index.IndexMessage(ctx, newIndexedMessage(here, "shared keyword")))
	req.NoError(index.IndexMessage(ctx, newIndexedMessage(elsewhere, "shared keyword")))

	ids, err := index.Search(ctx, here, "keyword", 10)
	req.NoError(err)
	req.Len(ids, 1)
}

func Test_Search_Respects_Limit(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newTestIndex(t)
	conversationID := uuid.New()

	for i := 0; i < 5; i++ {
		req.NoError(index.IndexMessage(ctx, newIndexedMessage(conversationID, "repeated keyword")))
	}

	ids, err := index.Search(ctx, conversationID, "keyword", 2)
	req.NoError(err)
	req.Len(ids, 2)
}

func Test_Search_No_Match(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	index := newTestIndex(t)
	conversationID := uuid.New()

	req.NoError(index.IndexMessage(ctx, newIndexedMessage(conversationID, "nothing relevant")))

	ids, err := index.Search(ctx, conversationID, "absent", 10)
	req.NoError(err)
	req.Empty(ids)
}
