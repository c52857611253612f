package repositories

import (
	"context"
	"testing"
	"time"

	"messaging-lab/domain"
	apperrors "messaging-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestUser(email string) domain.User {
	return domain.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  "tester",
		FirstName: "Test",
		LastName:  "User",
		Role:      domain.RoleGuest,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func Test_Create_And_Get_User(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(newTestDB(t))

	user := newTestUser("alice@example.org")
	req.NoError(repository.CreateUser(ctx, user, "hash"))

	fetched, err := repository.GetUser(ctx, user.ID)
	req.NoError(err)
	req.Equal(user, fetched)

	byEmail, err := repository.GetUserByEmail(ctx, user.Email)
	req.NoError(err)
	req.Equal(user, byEmail)
}

func Test_Get_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestDB(t))

	unknown := uuid.New()
	_, err := repository.GetUser(context.Background(), unknown)
	var notFound apperrors.NotFoundError
	req.ErrorAs(err, &notFound)
	req.Equal(apperrors.KindUser, notFound.Kind)
	req.Equal(unknown.String(), notFound.ID)
}

func Test_Email_Uniqueness(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(newTestDB(t))

	req.NoError(repository.CreateUser(ctx, newTestUser("bob@example.org"), "hash"))
	err := repository.CreateUser(ctx, newTestUser("bob@example.org"), "hash")
	req.ErrorIs(err, apperrors.ErrEmailTaken)
}

func Test_Get_Users_Reports_All_Missing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(newTestDB(t))

	alice := newTestUser("alice@example.org")
	bob := newTestUser("bob@example.org")
	req.NoError(repository.CreateUser(ctx, alice, "hash"))
	req.NoError(repository.CreateUser(ctx, bob, "hash"))

	ghost1 := uuid.New()
	ghost2 := uuid.New()
	found, missing, err := repository.GetUsers(ctx, []uuid.UUID{alice.ID, ghost1, bob.ID, ghost2})
	req.NoError(err)
	req.Len(found, 2)
	req.ElementsMatch([]uuid.UUID{ghost1, ghost2}, missing)
}

func Test_Get_Users_Ignores_Duplicates(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewUserRepository(newTestDB(t))

	alice := newTestUser("alice@example.org")
	req.NoError(repository.CreateUser(ctx, alice, "hash"))

	found, missing, err := repository.GetUsers(ctx, []uuid.UUID{alice.ID, alice.ID})
	req.NoError(err)
	req.Len(found, 1)
	req.Empty(missing)
}

func Test_Cancelled_Context_Stops_Store_Access(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(newTestDB(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repository.GetUser(ctx, uuid.New())
	req.ErrorIs(err, context.Canceled)
}
