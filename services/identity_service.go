package services

import (
	"context"
	"log/slog"
	"time"

	"messaging-lab/auth"
	"messaging-lab/domain"
	"messaging-lab/repositories"

	"github.com/google/uuid"
)

type IIdentityService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (domain.User, error)
	Resolve(ctx context.Context, id uuid.UUID) (domain.User, error)
	ResolveMany(ctx context.Context, ids []uuid.UUID) ([]domain.User, []uuid.UUID, error)
	ResolveByEmail(ctx context.Context, email string) (domain.User, error)
}

// IdentityService is the read side of the identity store plus registration.
// Login and token issuance belong to an outer layer.
type IdentityService struct {
	log  *slog.Logger
	repo repositories.IUserRepository
}

func NewIdentityService(log *slog.Logger, repo repositories.IUserRepository) *IdentityService {
	return &IdentityService{log: log, repo: repo}
}

// Register validates the request, hashes the password and persists the new
// user. The role defaults to guest when absent.
func (s *IdentityService) Register(ctx context.Context, req auth.RegisterRequest) (domain.User, error) {
	if err := auth.ValidateRegister(req); err != nil {
		return domain.User{}, err
	}

	role := domain.RoleGuest
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Username:    req.Username,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        role,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user, hash); err != nil {
		return domain.User{}, err
	}

	s.log.Info("User registered", "id", user.ID, "role", user.Role)
	return user, nil
}

// Resolve looks a user up by identifier.
func (s *IdentityService) Resolve(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

// ResolveMany validates a batch of ids in one pass and reports ALL missing
// ids, not just the first one.
func (s *IdentityService) ResolveMany(ctx context.Context, ids []uuid.UUID) ([]domain.User, []uuid.UUID, error) {
	return s.repo.GetUsers(ctx, ids)
}

// ResolveByEmail looks a user up through the unique email index.
func (s *IdentityService) ResolveByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}
