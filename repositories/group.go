//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/dgraph-io/badger/v4"
)

type IGroupRepository interface {
	Save(group *domain.Group) error
	Get(id string) (*domain.Group, error)
	Delete(id string) error
	ListFor(userID string) ([]domain.Group, error)
}

type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

func groupKey(id string) []byte { return []byte("group:" + id) }

// Save writes the full aggregate in one transaction. Callers mutate a
// clone and persist only complete, invariant-preserving transitions.
func (g *GroupRepository) Save(group *domain.Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return g.db.Update(func(txn *badger.Txn) error {
		return txn.Set(groupKey(group.ID), data)
	})
}

func (g *GroupRepository) Get(id string) (*domain.Group, error) {
	var group domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(groupKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &group)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Delete removes the aggregate. Message history under the group's
// conversation key is intentionally left behind.
func (g *GroupRepository) Delete(id string) error {
	return g.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(groupKey(id)); stderrors.Is(err, badger.ErrKeyNotFound) {
			return errors.ErrGroupNotFound
		}
		return txn.Delete(groupKey(id))
	})
}

// ListFor returns the groups a user belongs to, ordered by name. This
// backs the sidebar "my groups" query and stays a full prefix scan: group
// counts are small and a secondary index would buy nothing here.
func (g *GroupRepository) ListFor(userID string) ([]domain.Group, error) {
	var groups []domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("group:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var group domain.Group
				if err := json.Unmarshal(val, &group); err != nil {
					return err
				}
				if group.IsMember(userID) {
					groups = append(groups, group)
				}
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

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}
