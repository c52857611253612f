package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable entry in a conversation ledger. The body may
// have been rewritten by moderation before it was stored; Language is a
// best-effort ISO 639-1 code detected at ingestion, empty when detection
// was unreliable.
type Message struct {
	ID             uuid.UUID
	SenderID       uuid.UUID
	ConversationID uuid.UUID
	Body           string
	Language       string
	SentAt         time.Time
}
