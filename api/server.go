package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"messaging-lab/auth"
	"messaging-lab/domain"
	"messaging-lab/domain/messaging"
	apperrors "messaging-lab/errors"
	"messaging-lab/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Server is a thin adapter translating HTTP requests into the core
// operations. It owns no business rules: validation, membership and
// persistence all happen in the services it delegates to.
type Server struct {
	log           *slog.Logger
	identity      services.IIdentityService
	conversations services.IConversationService
	messages      services.IMessageService
}

func NewServer(
	log *slog.Logger,
	identity services.IIdentityService,
	conversations services.IConversationService,
	messages services.IMessageService,
) *Server {
	return &Server{
		log:           log,
		identity:      identity,
		conversations: conversations,
		messages:      messages,
	}
}

// Router wires every endpoint on a standard mux.
func (s *Server) Router() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", s.handleRegister)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("POST /conversations", s.handleCreateConversation)
	mux.HandleFunc("GET /conversations", s.handleListConversations)
	mux.HandleFunc("POST /conversations/{id}/participants", s.handleAddParticipant)
	mux.HandleFunc("GET /conversations/{id}/participants", s.handleGetParticipants)
	mux.HandleFunc("POST /messages", s.handlePostMessage)
	mux.HandleFunc("GET /conversations/{id}/messages", s.handleListMessages)
	mux.HandleFunc("GET /conversations/{id}/messages/search", s.handleSearchMessages)
	return mux
}

type userResponse struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

type conversationResponse struct {
	ConversationID string    `json:"conversation_id"`
	Participants   []string  `json:"participants"`
	CreatedAt      time.Time `json:"created_at"`
}

type messageResponse struct {
	MessageID      string    `json:"message_id"`
	SenderID       string    `json:"sender_id"`
	ConversationID string    `json:"conversation_id"`
	MessageBody    string    `json:"message_body"`
	Language       string    `json:"language,omitempty"`
	SentAt         time.Time `json:"sent_at"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.ErrMissingField)
		return
	}
	user, err := s.identity.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindUser, r.PathValue("id")))
		return
	}
	user, err := s.identity.Resolve(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Participants []string `json:"participants"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.ErrNoParticipants)
		return
	}
	conversation, err := s.conversations.CreateConversation(r.Context(),
		messaging.CreateConversationCommand{ParticipantIDs: req.Participants})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toConversationResponse(conversation))
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := s.conversations.ListConversations(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(conversations,
		func(c domain.Conversation, _ int) conversationResponse {
			return toConversationResponse(c)
		}))
}

func (s *Server) handleAddParticipant(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindConversation, r.PathValue("id")))
		return
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		s.writeError(w, apperrors.ErrMissingField)
		return
	}
	conversation, err := s.conversations.AddParticipant(r.Context(),
		messaging.AddParticipantCommand{Conversation: conversationID, UserID: req.UserID})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toConversationResponse(conversation))
}

func (s *Server) handleGetParticipants(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindConversation, r.PathValue("id")))
		return
	}
	users, err := s.conversations.GetParticipants(r.Context(), conversationID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(users, func(u domain.User, _ int) userResponse {
		return toUserResponse(u)
	}))
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID       string `json:"sender_id"`
		ConversationID string `json:"conversation_id"`
		MessageBody    string `json:"message_body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, apperrors.ErrMissingField)
		return
	}
	if req.SenderID == "" || req.ConversationID == "" {
		s.writeError(w, apperrors.ErrMissingField)
		return
	}
	senderID, err := uuid.Parse(req.SenderID)
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindUser, req.SenderID))
		return
	}
	conversationID, err := uuid.Parse(req.ConversationID)
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindConversation, req.ConversationID))
		return
	}
	message, err := s.messages.PostMessage(r.Context(), messaging.PostMessageCommand{
		Conversation: conversationID,
		SenderID:     senderID,
		Body:         req.MessageBody,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMessageResponse(message))
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindConversation, r.PathValue("id")))
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}
	messages, next, err := s.messages.ListMessages(r.Context(), messaging.ListMessagesCommand{
		Conversation: conversationID,
		Cursor:       cursor,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Messages   []messageResponse `json:"messages"`
		NextCursor *string           `json:"next_cursor,omitempty"`
	}{
		Messages: lo.Map(messages, func(m domain.Message, _ int) messageResponse {
			return toMessageResponse(m)
		}),
		NextCursor: next,
	})
}

func (s *Server) handleSearchMessages(w http.ResponseWriter, r *http.Request) {
	conversationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, apperrors.NotFound(apperrors.KindConversation, r.PathValue("id")))
		return
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, apperrors.ErrMissingField)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	messages, err := s.messages.SearchMessages(r.Context(), messaging.SearchMessagesCommand{
		Conversation: conversationID,
		Query:        query,
		Limit:        limit,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(messages, func(m domain.Message, _ int) messageResponse {
		return toMessageResponse(m)
	}))
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		UserID:      user.ID.String(),
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Role:        string(user.Role),
		CreatedAt:   user.CreatedAt,
	}
}

func toConversationResponse(conversation domain.Conversation) conversationResponse {
	participants := lo.Map(conversation.ParticipantIDs(), func(id uuid.UUID, _ int) string {
		return id.String()
	})
	return conversationResponse{
		ConversationID: conversation.ID.String(),
		Participants:   participants,
		CreatedAt:      conversation.CreatedAt,
	}
}

func toMessageResponse(message domain.Message) messageResponse {
	return messageResponse{
		MessageID:      message.ID.String(),
		SenderID:       message.SenderID.String(),
		ConversationID: message.ConversationID.String(),
		MessageBody:    message.Body,
		Language:       message.Language,
		SentAt:         message.SentAt,
	}
}

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// writeError maps core error kinds to HTTP status codes: invalid input 400,
// unknown reference 404, membership violation 403, email conflict 409,
// anything else is a persistence failure reported as 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		notFound            apperrors.NotFoundError
		invalidParticipants apperrors.InvalidParticipantsError
		validationErrs      validator.ValidationErrors
	)

	switch {
	case errors.As(err, &invalidParticipants):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "One or more participant IDs are invalid.",
			Missing: invalidParticipants.Missing,
		})
	case errors.As(err, &notFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: notFound.Error()})
	case errors.Is(err, apperrors.ErrNotParticipant):
		s.writeJSON(w, http.StatusForbidden, errorResponse{
			Error: "Sender is not a participant in this conversation.",
		})
	case errors.Is(err, apperrors.ErrEmailTaken):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrEmptyBody),
		errors.Is(err, apperrors.ErrMissingField),
		errors.Is(err, apperrors.ErrNoParticipants),
		errors.Is(err, apperrors.ErrInvalidPassword),
		errors.Is(err, apperrors.ErrInvalidCursor),
		errors.As(err, &validationErrs):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.log.Error("Request failed", "err", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("Encoding response failed", "err", err)
	}
}
