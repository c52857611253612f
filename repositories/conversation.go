//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"messaging-lab/domain"
	apperrors "messaging-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IConversationRepository interface {
	CreateConversation(ctx context.Context, conversation domain.Conversation) error
	GetConversation(ctx context.Context, id uuid.UUID) (domain.Conversation, error)
	AddParticipant(ctx context.Context, conversationID, userID uuid.UUID) (domain.Conversation, error)
	ListConversations(ctx context.Context) ([]domain.Conversation, error)
}

type ConversationRepository struct {
	db *badger.DB
}

func NewConversationRepository(db *badger.DB) IConversationRepository {
	return &ConversationRepository{db: db}
}

type conversationRecord struct {
	ID           string    `json:"id"`
	Participants []string  `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
}

func conversationKey(id uuid.UUID) []byte {
	return []byte("conv:" + id.String())
}

// CreateConversation persists a fully validated conversation. Participant
// resolution happens in the service layer before this call; nothing is
// written when validation fails there.
func (c ConversationRepository) CreateConversation(ctx context.Context, conversation domain.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(fromConversation(conversation))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(conversation.ID), data)
	})
}

// GetConversation retrieves a conversation by identifier.
func (c ConversationRepository) GetConversation(ctx context.Context, id uuid.UUID) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}

	var record conversationRecord
	err := c.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, conversationKey(id), &record)
	})
	if err == badger.ErrKeyNotFound {
		return domain.Conversation{}, apperrors.NotFound(apperrors.KindConversation, id.String())
	}
	if err != nil {
		return domain.Conversation{}, err
	}
	return toConversation(record)
}

// AddParticipant adds a user to the participant set. The conversation read,
// the user existence check and the write run in one transaction so that
// concurrent calls cannot lose updates. Adding an existing participant is a
// no-op and returns the conversation unchanged.
func (c ConversationRepository) AddParticipant(ctx context.Context, conversationID, userID uuid.UUID) (domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversation{}, err
	}

	var conversation domain.Conversation
	err := c.db.Update(func(txn *badger.Txn) error {
		var record conversationRecord
		err := getRecord(txn, conversationKey(conversationID), &record)
		if err == badger.ErrKeyNotFound {
			return apperrors.NotFound(apperrors.KindConversation, conversationID.String())
		}
		if err != nil {
			return err
		}

		if _, err := txn.Get(userKey(userID)); err != nil {
			if err == badger.ErrKeyNotFound {
				return apperrors.NotFound(apperrors.KindUser, userID.String())
			}
			return err
		}

		conversation, err = toConversation(record)
		if err != nil {
			return err
		}
		if !conversation.AddParticipant(userID) {
			return nil
		}

		data, err := json.Marshal(fromConversation(conversation))
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(conversationKey(conversationID), data)
	})
	if err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}

// ListConversations returns all conversations, newest first.
func (c ConversationRepository) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var conversations []domain.Conversation
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("conv:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record conversationRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			conversation, err := toConversation(record)
			if err != nil {
				return err
			}
			conversations = append(conversations, conversation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations, nil
}

func fromConversation(conversation domain.Conversation) conversationRecord {
	ids := conversation.ParticipantIDs()
	participants := make([]string, 0, len(ids))
	for _, id := range ids {
		participants = append(participants, id.String())
	}
	sort.Strings(participants)
	return conversationRecord{
		ID:           conversation.ID.String(),
		Participants: participants,
		CreatedAt:    conversation.CreatedAt,
	}
}

func toConversation(record conversationRecord) (domain.Conversation, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Conversation{}, err
	}
	participants := make([]uuid.UUID, 0, len(record.Participants))
	for _, p := range record.Participants {
		parsed, err := uuid.Parse(p)
		if err != nil {
			return domain.Conversation{}, err
		}
		participants = append(participants, parsed)
	}
	return domain.NewConversation(id, participants, record.CreatedAt.UTC()), nil
}
