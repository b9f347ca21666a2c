//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"chat-hub/domain"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	Append(msg domain.Message) (domain.Message, error)
	List(convKey string) ([]domain.Message, error)
	Search(ctx context.Context, convKey, terms string, limit int) ([]domain.Message, error)
}

// MessageRepository is an append-only log of messages keyed by
// conversation. BadgerDB is the authoritative store; a Bluge index rides
// along for full-text search over conversation history.
type MessageRepository struct {
	db    *badger.DB
	index *bluge.Writer
	log   *slog.Logger

	mu     sync.Mutex
	clocks map[string]*convClock
}

// convClock serializes timestamp assignment for a single conversation so
// CreatedAt is strictly increasing within that log. Conversations do not
// contend with each other.
type convClock struct {
	mu   sync.Mutex
	last time.Time
}

func NewMessageRepository(db *badger.DB, index *bluge.Writer, log *slog.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		index:  index,
		log:    log,
		clocks: make(map[string]*convClock),
	}
}

// The key is formatted as "msg:{conv_key}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order matches time order).
//  2. Keep the UUID as a collision disconnector should two logs ever
//     share a padded timestamp.
func messageKey(msg domain.Message) []byte {
	return []byte(fmt.Sprintf("msg:%s:%019d:%s",
		msg.ConversationKey(),
		msg.CreatedAt.UnixNano(),
		msg.ID,
	))
}

// Append assigns the server-side identity (id, created_at) and persists
// the message. The stored record is returned unchanged otherwise.
func (m *MessageRepository) Append(msg domain.Message) (domain.Message, error) {
	msg.ID = uuid.New()
	msg.CreatedAt = m.nextTimestamp(msg.ConversationKey())

	data, err := json.Marshal(msg)
	if err != nil {
		return domain.Message{}, fmt.Errorf("marshal failed: %w", err)
	}

	key := messageKey(msg)
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
	if err != nil {
		return domain.Message{}, err
	}

	// The Badger log is authoritative; a lagging index only degrades
	// search, so indexing failures are logged, not surfaced.
	if err := m.indexMessage(msg, key); err != nil {
		m.log.Error("message indexing failed", "message_id", msg.ID, "error", err)
	}

	return msg, nil
}

// nextTimestamp returns a strictly increasing timestamp for the given
// conversation. Each conversation owns its clock, so appends to different
// logs never block each other.
func (m *MessageRepository) nextTimestamp(convKey string) time.Time {
	m.mu.Lock()
	clock, ok := m.clocks[convKey]
	if !ok {
		clock = &convClock{}
		m.clocks[convKey] = clock
	}
	m.mu.Unlock()

	clock.mu.Lock()
	defer clock.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(clock.last) {
		now = clock.last.Add(time.Nanosecond)
	}
	clock.last = now
	return now
}

// List returns the full history of one conversation, oldest first. Every
// poll re-reads the whole log; there is no incremental cursor.
func (m *MessageRepository) List(convKey string) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("msg:%s:", convKey))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var msg domain.Message
				if err := json.Unmarshal(val, &msg); err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

func (m *MessageRepository) indexMessage(msg domain.Message, badgerKey []byte) error {
	doc := bluge.NewDocument(msg.ID.String()).
		AddField(bluge.NewKeywordField("conv", msg.ConversationKey())).
		AddField(bluge.NewTextField("content", msg.Content)).
		AddField(bluge.NewStoredOnlyField("key", badgerKey))
	return m.index.Update(doc.ID(), doc)
}

// Search runs a full-text query scoped to one conversation and resolves
// the hits back through Badger, oldest first.
func (m *MessageRepository) Search(ctx context.Context, convKey, terms string, limit int) ([]domain.Message, error) {
	reader, err := m.index.Reader()
	if err != nil {
		return nil, fmt.Errorf("index reader: %w", err)
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content")).
		AddMust(bluge.NewTermQuery(convKey).SetField("conv"))

	it, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var keys [][]byte
	for {
		match, err := it.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "key" {
				keys = append(keys, append([]byte(nil), value...))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	messages, err := m.fetchByKeys(keys)
	if err != nil {
		return nil, err
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (m *MessageRepository) fetchByKeys(keys [][]byte) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			item, err := txn.Get(key)
			if err != nil {
				// The index can reference entries the store no
				// longer sees mid-compaction; skip them.
				continue
			}
			err = item.Value(func(val []byte) error {
				var msg domain.Message
				if err := json.Unmarshal(val, &msg); err != nil {
					return err
				}
				messages = append(messages, msg)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}
