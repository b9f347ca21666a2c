package repositories

import (
	"testing"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	user := domain.User{
		ID:           "u1",
		Name:         "alice",
		PasswordHash: "$argon2id$...",
		Roles:        []string{domain.RoleUser},
		CreatedAt:    time.Now().UTC(),
	}
	req.NoError(repo.Create(user))

	fetched, err := repo.Get("u1")
	req.NoError(err)
	req.Equal(user.Name, fetched.Name)
	req.Equal(user.PasswordHash, fetched.PasswordHash)
	req.False(fetched.Banned)

	byName, err := repo.GetByName("alice")
	req.NoError(err)
	req.Equal("u1", byName.ID)
}

func TestUserRepository_DuplicateNameRejected(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	req.NoError(repo.Create(domain.User{ID: "u1", Name: "alice"}))
	err := repo.Create(domain.User{ID: "u2", Name: "alice"})
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func TestUserRepository_GetUnknownUser(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))

	_, err := repo.Get("nope")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
	_, err = repo.GetByName("nope")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestUserRepository_ListOrderedByName(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	req.NoError(repo.Create(domain.User{ID: "u1", Name: "clara"}))
	req.NoError(repo.Create(domain.User{ID: "u2", Name: "alice"}))
	req.NoError(repo.Create(domain.User{ID: "u3", Name: "bob"}))

	users, err := repo.List()
	req.NoError(err)
	req.Len(users, 3)
	req.Equal("alice", users[0].Name)
	req.Equal("bob", users[1].Name)
	req.Equal("clara", users[2].Name)
}

func TestUserRepository_SetBannedIsReversible(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t))

	req.NoError(repo.Create(domain.User{ID: "u1", Name: "alice"}))

	req.NoError(repo.SetBanned("u1", true))
	banned, err := repo.Get("u1")
	req.NoError(err)
	req.True(banned.Banned)

	req.NoError(repo.SetBanned("u1", false))
	unbanned, err := repo.Get("u1")
	req.NoError(err)
	req.False(unbanned.Banned)

	req.ErrorIs(repo.SetBanned("ghost", true), errors.ErrUserNotFound)
}
