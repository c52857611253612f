package messaging

import (
	"github.com/google/uuid"
)

// Command is implemented by every operation scoped to one conversation.
type Command interface {
	ConversationID() uuid.UUID
}

type CreateConversationCommand struct {
	ParticipantIDs []string
}

type AddParticipantCommand struct {
	Conversation uuid.UUID
	UserID       string
}

func (c AddParticipantCommand) ConversationID() uuid.UUID {
	return c.Conversation
}

type PostMessageCommand struct {
	Conversation uuid.UUID
	SenderID     uuid.UUID
	Body         string
}

func (c PostMessageCommand) ConversationID() uuid.UUID {
	return c.Conversation
}

type ListMessagesCommand struct {
	Conversation uuid.UUID
	Cursor       *string
}

func (c ListMessagesCommand) ConversationID() uuid.UUID {
	return c.Conversation
}

type SearchMessagesCommand struct {
	Conversation uuid.UUID
	Query        string
	Limit        int
}

func (c SearchMessagesCommand) ConversationID() uuid.UUID {
	return c.Conversation
}
