//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IUserRepository interface {
	Create(user domain.User) error
	Get(id string) (domain.User, error)
	GetByName(name string) (domain.User, error)
	List() ([]domain.User, error)
	SetBanned(id string, banned bool) error
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) *UserRepository {
	return &UserRepository{db: db}
}

// diskUser is the stored representation. It differs from domain.User only
// in that the password hash is serialized here, never on the wire.
type diskUser struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"password_hash"`
	Roles        []string  `json:"roles"`
	Banned       bool      `json:"banned"`
	CreatedAt    time.Time `json:"created_at"`
}

func userKey(id string) []byte   { return []byte("user:" + id) }
func nameKey(name string) []byte { return []byte("uname:" + name) }

// Create persists a user and a name index entry in one transaction.
// The name is the login key and must be unique.
func (u *UserRepository) Create(user domain.User) error {
	data, err := json.Marshal(fromDomainUser(user))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	return u.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey(user.Name)); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(nameKey(user.Name), []byte(user.ID)); err != nil {
			return err
		}
		return txn.Set(userKey(user.ID), data)
	})
}

func (u *UserRepository) Get(id string) (domain.User, error) {
	var du diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &du)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return toDomainUser(du), nil
}

func (u *UserRepository) GetByName(name string) (domain.User, error) {
	var id string
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nameKey(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			id = string(val)
			return nil
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return domain.User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u.Get(id)
}

// List returns every known user ordered by name, ban flag included.
func (u *UserRepository) List() ([]domain.User, error) {
	var users []diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("user:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var du diskUser
				if err := json.Unmarshal(val, &du); err != nil {
					return err
				}
				users = append(users, du)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return lo.Map(users, func(du diskUser, _ int) domain.User {
		return toDomainUser(du)
	}), nil
}

// SetBanned flips the ban flag in place. The account and everything it
// wrote stay untouched, so banning is fully reversible.
func (u *UserRepository) SetBanned(id string, banned bool) error {
	return u.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		var du diskUser
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &du)
		}); err != nil {
			return err
		}

		du.Banned = banned
		data, err := json.Marshal(du)
		if err != nil {
			return err
		}
		return txn.Set(userKey(id), data)
	})
}

func fromDomainUser(user domain.User) diskUser {
	return diskUser{
		ID:           user.ID,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Roles:        user.Roles,
		Banned:       user.Banned,
		CreatedAt:    user.CreatedAt,
	}
}

func toDomainUser(du diskUser) domain.User {
	return domain.User{
		ID:           du.ID,
		Name:         du.Name,
		PasswordHash: du.PasswordHash,
		Roles:        du.Roles,
		Banned:       du.Banned,
		CreatedAt:    du.CreatedAt,
	}
}
