package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation groups a duplicate-free, unordered set of participant ids.
// Participants may be added after creation, never removed.
type Conversation struct {
	ID           uuid.UUID
	Participants map[uuid.UUID]struct{}
	CreatedAt    time.Time
}

func NewConversation(id uuid.UUID, participants []uuid.UUID, createdAt time.Time) Conversation {
	c := Conversation{
		ID:           id,
		Participants: make(map[uuid.UUID]struct{}, len(participants)),
		CreatedAt:    createdAt,
	}
	for _, p := range participants {
		c.Participants[p] = struct{}{}
	}
	return c
}

// HasParticipant reports membership of a user in the conversation.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	_, ok := c.Participants[userID]
	return ok
}

// AddParticipant adds a user to the set. Adding an existing participant
// is a no-op; the method reports whether the set changed.
func (c *Conversation) AddParticipant(userID uuid.UUID) bool {
	if c.Participants == nil {
		c.Participants = make(map[uuid.UUID]struct{})
	}
	if _, ok := c.Participants[userID]; ok {
		return false
	}
	c.Participants[userID] = struct{}{}
	return true
}

// ParticipantIDs returns the member ids in unspecified order.
func (c Conversation) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Participants))
	for id := range c.Participants {
		ids = append(ids, id)
	}
	return ids
}
