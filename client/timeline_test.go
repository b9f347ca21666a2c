package client

import (
	"testing"
	"time"

	"chat-hub/domain"

	"github.com/stretchr/testify/require"
)

func TestTimeline_OptimisticLifecycle(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	timeline.Replace([]domain.Message{
		{SenderID: "alice", Content: "hello", CreatedAt: time.Now()},
	})

	tempID := timeline.AddOptimistic(domain.Message{
		SenderID:  "bob",
		Content:   "typing...",
		CreatedAt: time.Now().Add(time.Second),
	})

	view := timeline.Snapshot()
	req.Len(view, 2)
	req.Equal("typing...", view[1].Content)

	// A poll landing mid-send must not hide the pending entry.
	timeline.Replace([]domain.Message{
		{SenderID: "alice", Content: "hello", CreatedAt: time.Now()},
	})
	req.Len(timeline.Snapshot(), 2)

	confirmed := domain.Message{SenderID: "bob", Content: "typing...", CreatedAt: time.Now()}
	timeline.Confirm(tempID, confirmed)
	view = timeline.Snapshot()
	req.Len(view, 2)
}

func TestTimeline_Rollback(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	tempID := timeline.AddOptimistic(domain.Message{SenderID: "bob", Content: "refused"})
	req.Len(timeline.Snapshot(), 1)

	timeline.Rollback(tempID)
	req.Empty(timeline.Snapshot())
}

func TestTimeline_Clear(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	timeline.Replace([]domain.Message{{Content: "old"}})
	timeline.AddOptimistic(domain.Message{Content: "pending"})

	timeline.Clear()
	req.Empty(timeline.Snapshot())
}
