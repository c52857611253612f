package errors

import (
	"fmt"
	"strings"
)

var (
	ErrEmptyBody       = fmt.Errorf("message body is empty")
	ErrMissingField    = fmt.Errorf("required field is missing")
	ErrNoParticipants  = fmt.Errorf("participant list is empty")
	ErrNotParticipant  = fmt.Errorf("sender is not a participant of the conversation")
	ErrEmailTaken      = fmt.Errorf("email is already registered")
	ErrInvalidPassword = fmt.Errorf("password does not meet complexity requirements")
	ErrInvalidCursor   = fmt.Errorf("malformed pagination cursor")
)

// EntityKind identifies which entity a NotFoundError refers to,
// so the transport layer can report it without parsing messages.
type EntityKind string

const (
	KindUser         EntityKind = "user"
	KindConversation EntityKind = "conversation"
	KindMessage      EntityKind = "message"
)

// NotFoundError reports a single reference that did not resolve.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func NotFound(kind EntityKind, id string) NotFoundError {
	return NotFoundError{Kind: kind, ID: id}
}

// InvalidParticipantsError carries the complete set of participant ids
// that failed to resolve during a batch validation.
type InvalidParticipantsError struct {
	Missing []string
}

func (e InvalidParticipantsError) Error() string {
	return fmt.Sprintf("unknown participants: %s", strings.Join(e.Missing, ", "))
}
