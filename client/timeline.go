// Package client implements the user-facing side of the service: the
// session, the HTTP API calls and the reconciler that keeps a local
// timeline converging on the server's conversation log.
package client

import (
	"sort"
	"sync"

	"chat-hub/domain"

	"github.com/google/uuid"
)

// Timeline holds the local view of one conversation. The server log is
// authoritative; optimistic entries ride on top of it until the matching
// send either confirms or fails.
type Timeline struct {
	mu       sync.Mutex
	messages []domain.Message
	pending  map[uuid.UUID]domain.Message
}

func NewTimeline() *Timeline {
	return &Timeline{
		pending: make(map[uuid.UUID]domain.Message),
	}
}

// Replace installs a fresh server snapshot. Pending optimistic entries
// are re-applied after it so an in-flight send stays visible between
// polls.
func (t *Timeline) Replace(messages []domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = messages
}

// AddOptimistic shows a just-sent message before the server confirms it.
// Returns the temporary id used to confirm or roll it back.
func (t *Timeline) AddOptimistic(message domain.Message) uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()
	message.ID = uuid.New()
	t.pending[message.ID] = message
	return message.ID
}

// Confirm swaps the optimistic entry for the server's version of it.
func (t *Timeline) Confirm(tempID uuid.UUID, confirmed domain.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, tempID)
	t.messages = append(t.messages, confirmed)
}

// Rollback drops a failed optimistic entry.
func (t *Timeline) Rollback(tempID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, tempID)
}

// Clear empties the view, server entries and pending ones alike. Used
// when switching conversations.
func (t *Timeline) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
	t.pending = make(map[uuid.UUID]domain.Message)
}

// Snapshot returns the current view: the server log followed by any
// still-pending optimistic entries.
func (t *Timeline) Snapshot() []domain.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]domain.Message, 0, len(t.messages)+len(t.pending))
	out = append(out, t.messages...)
	tail := make([]domain.Message, 0, len(t.pending))
	for _, m := range t.pending {
		tail = append(tail, m)
	}
	sort.Slice(tail, func(i, j int) bool { return tail[i].CreatedAt.Before(tail[j].CreatedAt) })
	return append(out, tail...)
}
