//go:generate go run go.uber.org/mock/mockgen -source=search_index.go -destination=../mocks/mock_search_index.go -package=mocks
package repositories

import (
	"context"
	"log/slog"

	"messaging-lab/domain"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type IMessageSearchIndex interface {
	IndexMessage(ctx context.Context, message domain.Message) error
	Search(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]uuid.UUID, error)
}

// MessageSearchIndex maintains a Bluge full-text index over message bodies.
// Documents are keyed by message id; the conversation id is indexed as an
// exact keyword so searches stay scoped to one conversation.
type MessageSearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewMessageSearchIndex(writer *bluge.Writer, log *slog.Logger) *MessageSearchIndex {
	return &MessageSearchIndex{writer: writer, log: log}
}

func (s *MessageSearchIndex) IndexMessage(ctx context.Context, message domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := bluge.NewDocument(message.ID.String())
	doc.AddField(bluge.NewKeywordField("conversation", message.ConversationID.String()))
	doc.AddField(bluge.NewTextField("body", message.Body))
	doc.AddField(bluge.NewDateTimeField("sent_at", message.SentAt))

	return s.writer.Update(doc.ID(), doc)
}

// Search returns the ids of the best matching messages of a conversation.
func (s *MessageSearchIndex) Search(ctx context.Context, conversationID uuid.UUID, query string, limit int) ([]uuid.UUID, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			s.log.Error("Closing index reader failed", "err", err)
		}
	}()

	q := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query).SetField("body")).
		AddMust(bluge.NewTermQuery(conversationID.String()).SetField("conversation"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, q))
	if err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	match, err := iterator.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field != "_id" {
				return true
			}
			id, parseErr := uuid.Parse(string(value))
			if parseErr != nil {
				s.log.Warn("Skipping document with malformed id", "raw", string(value))
				return true
			}
			ids = append(ids, id)
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = iterator.Next()
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}
