//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"messaging-lab/domain"
	apperrors "messaging-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	AppendMessage(ctx context.Context, message domain.Message) error
	GetMessages(ctx context.Context, conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
	GetMessage(ctx context.Context, conversationID, messageID uuid.UUID) (domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

type messageRecord struct {
	ID             string    `json:"id"`
	SenderID       string    `json:"sender_id"`
	ConversationID string    `json:"conversation_id"`
	Body           string    `json:"message_body"`
	Language       string    `json:"language,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

// messageKey is formatted as "msg:{conversation_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func messageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		message.ConversationID,
		message.SentAt.UnixNano(),
		message.ID,
	))
}

func messagePrefix(conversationID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("msg:%s:", conversationID))
}

// validateCursor checks that a cursor is the "{padded nanos}:{uuid}" tail
// of a message key, so a garbled value is rejected instead of silently
// resuming the scan from an arbitrary position.
func validateCursor(cursor string) error {
	const tsLen = 19
	if len(cursor) <= tsLen || cursor[tsLen] != ':' {
		return apperrors.ErrInvalidCursor
	}
	if _, err := strconv.ParseInt(cursor[:tsLen], 10, 64); err != nil {
		return apperrors.ErrInvalidCursor
	}
	if _, err := uuid.Parse(cursor[tsLen+1:]); err != nil {
		return apperrors.ErrInvalidCursor
	}
	return nil
}

// AppendMessage persists a message. The conversation lookup, the sender
// membership check and the insert run in ONE transaction, so the check
// observes a snapshot consistent with concurrent AddParticipant calls.
func (m MessageRepository) AppendMessage(ctx context.Context, message domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return m.db.Update(func(txn *badger.Txn) error {
		var record conversationRecord
		err := getRecord(txn, conversationKey(message.ConversationID), &record)
		if err == badger.ErrKeyNotFound {
			return apperrors.NotFound(apperrors.KindConversation, message.ConversationID.String())
		}
		if err != nil {
			return err
		}
		conversation, err := toConversation(record)
		if err != nil {
			return err
		}
		if !conversation.HasParticipant(message.SenderID) {
			return apperrors.ErrNotParticipant
		}
		return txn.Set(messageKey(message), data)
	})
}

// GetMessages retrieves messages for a conversation using a prefix scan,
// oldest first. Thanks to the padded timestamp in the key, messages are
// naturally sorted by time. A non-nil cursor resumes the scan after the
// previously returned key; the scan stops at the configured limit and the
// returned cursor restarts it from there.
func (m MessageRepository) GetMessages(ctx context.Context, conversationID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if cursor != nil {
		if err := validateCursor(*cursor); err != nil {
			return nil, nil, err
		}
	}

	var messages []domain.Message
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		prefixLen := len(prefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		seekKey := prefix
		if cursor != nil {
			seekKey = append(append([]byte(nil), prefix...), []byte(*cursor)...)
		}

		it.Seek(seekKey)

		// The cursor points at the last key already delivered, skip it.
		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(messages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			var record messageRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			message, err := toMessage(record)
			if err != nil {
				return err
			}
			messages = append(messages, message)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if lastKey == "" {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// GetMessage retrieves one message of a conversation by scanning the
// conversation prefix. Used to hydrate search results.
func (m MessageRepository) GetMessage(ctx context.Context, conversationID, messageID uuid.UUID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}

	var found *domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := messagePrefix(conversationID)
		suffix := []byte(":" + messageID.String())
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := item.Key()
			if len(key) < len(suffix) || string(key[len(key)-len(suffix):]) != string(suffix) {
				continue
			}
			var record messageRecord
			err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}
			message, err := toMessage(record)
			if err != nil {
				return err
			}
			found = &message
			return nil
		}
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	if found == nil {
		return domain.Message{}, apperrors.NotFound(apperrors.KindMessage, messageID.String())
	}
	return *found, nil
}

func fromMessage(message domain.Message) messageRecord {
	return messageRecord{
		ID:             message.ID.String(),
		SenderID:       message.SenderID.String(),
		ConversationID: message.ConversationID.String(),
		Body:           message.Body,
		Language:       message.Language,
		SentAt:         message.SentAt,
	}
}

func toMessage(record messageRecord) (domain.Message, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.Message{}, err
	}
	senderID, err := uuid.Parse(record.SenderID)
	if err != nil {
		return domain.Message{}, err
	}
	conversationID, err := uuid.Parse(record.ConversationID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:             id,
		SenderID:       senderID,
		ConversationID: conversationID,
		Body:           record.Body,
		Language:       record.Language,
		SentAt:         record.SentAt.UTC(),
	}, nil
}
