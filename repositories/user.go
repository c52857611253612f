//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"messaging-lab/domain"
	apperrors "messaging-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IUserRepository interface {
	CreateUser(ctx context.Context, user domain.User, passwordHash string) error
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
	GetUsers(ctx context.Context, ids []uuid.UUID) ([]domain.User, []uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// userRecord is the storage representation of a user. The password hash
// never leaves the repository layer.
type userRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func userKey(id uuid.UUID) []byte {
	return []byte("user:" + id.String())
}

func emailKey(email string) []byte {
	return []byte("user:email:" + email)
}

// CreateUser persists the user and its email index entry in one transaction.
// Email uniqueness is enforced inside the transaction.
func (u UserRepository) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	record := userRecord{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PhoneNumber:  user.PhoneNumber,
		Role:         string(user.Role),
		PasswordHash: passwordHash,
		CreatedAt:    user.CreatedAt,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(emailKey(user.Email)); err == nil {
			return apperrors.ErrEmailTaken
		}
		if err := txn.Set(emailKey(user.Email), []byte(user.ID.String())); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
}

// GetUser retrieves a user by identifier.
func (u UserRepository) GetUser(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	var record userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		return getRecord(txn, userKey(id), &record)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, apperrors.NotFound(apperrors.KindUser, id.String())
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record)
}

// GetUsers resolves a batch of ids in a single read transaction. It reports
// every id that did not resolve, not just the first, so the caller can
// produce a complete error.
func (u UserRepository) GetUsers(ctx context.Context, ids []uuid.UUID) ([]domain.User, []uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var found []domain.User
	var missing []uuid.UUID
	err := u.db.View(func(txn *badger.Txn) error {
		seen := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}

			var record userRecord
			err := getRecord(txn, userKey(id), &record)
			if err == badger.ErrKeyNotFound {
				missing = append(missing, id)
				continue
			}
			if err != nil {
				return err
			}
			user, err := toUser(record)
			if err != nil {
				return err
			}
			found = append(found, user)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return found, missing, nil
}

// GetUserByEmail resolves a user through the email index.
func (u UserRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}

	var record userRecord
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if err != nil {
			return err
		}
		var id []byte
		if err := item.Value(func(val []byte) error {
			id = append([]byte(nil), val...)
			return nil
		}); err != nil {
			return err
		}
		parsed, err := uuid.Parse(string(id))
		if err != nil {
			return err
		}
		return getRecord(txn, userKey(parsed), &record)
	})
	if err == badger.ErrKeyNotFound {
		return domain.User{}, apperrors.NotFound(apperrors.KindUser, email)
	}
	if err != nil {
		return domain.User{}, err
	}
	return toUser(record)
}

func toUser(record userRecord) (domain.User, error) {
	id, err := uuid.Parse(record.ID)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:          id,
		Email:       record.Email,
		Username:    record.Username,
		FirstName:   record.FirstName,
		LastName:    record.LastName,
		PhoneNumber: record.PhoneNumber,
		Role:        domain.Role(record.Role),
		CreatedAt:   record.CreatedAt.UTC(),
	}, nil
}

func getRecord(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, out)
	})
}
