package client

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"chat-hub/domain"
	"chat-hub/errors"

	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned histories per conversation and records sends.
type fakeAPI struct {
	mu      sync.Mutex
	history map[string][]domain.Message
	delay   map[string]time.Duration
	sendErr error
	listErr error
	sent    []string
	listed  map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		history: make(map[string][]domain.Message),
		delay:   make(map[string]time.Duration),
		listed:  make(map[string]int),
	}
}

func (f *fakeAPI) ListMessages(ctx context.Context, conv Conversation) ([]domain.Message, error) {
	f.mu.Lock()
	delay := f.delay[conv.ID]
	f.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed[conv.ID]++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.history[conv.ID], nil
}

func (f *fakeAPI) SendMessage(_ context.Context, conv Conversation, content string) (domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return domain.Message{}, f.sendErr
	}
	msg := domain.Message{SenderID: "me", TargetID: conv.ID, Content: content, CreatedAt: time.Now()}
	f.history[conv.ID] = append(f.history[conv.ID], msg)
	f.sent = append(f.sent, content)
	return msg, nil
}

func (f *fakeAPI) SendAttachment(ctx context.Context, conv Conversation, ref string) (domain.Message, error) {
	msg, err := f.SendMessage(ctx, conv, ref)
	msg.IsAttachment = true
	return msg, err
}

func newTestReconciler(api ConversationAPI) *Reconciler {
	r := NewReconciler(api, NewSession(), slog.New(slog.DiscardHandler))
	r.interval = 10 * time.Millisecond
	return r
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition never met")
}

func TestReconciler_SelectFetchesImmediately(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.history["bob"] = []domain.Message{{SenderID: "bob", Content: "hi"}}

	r := newTestReconciler(api)
	defer r.Deselect()
	r.Select(context.Background(), PrivateConversation("bob"))

	waitFor(t, func() bool { return len(r.Timeline().Snapshot()) == 1 })
	req.Equal("hi", r.Timeline().Snapshot()[0].Content)
}

func TestReconciler_PollsUntilDeselect(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()

	r := newTestReconciler(api)
	r.Select(context.Background(), PrivateConversation("bob"))

	// Several ticks pass, each one refetching the history.
	waitFor(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.listed["bob"] >= 3
	})

	r.Deselect()
	api.mu.Lock()
	after := api.listed["bob"]
	api.mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	api.mu.Lock()
	req.Equal(after, api.listed["bob"])
	api.mu.Unlock()
}

func TestReconciler_StaleResponseDiscarded(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.history["slow"] = []domain.Message{{Content: "from the old chat"}}
	api.history["fast"] = []domain.Message{{Content: "from the new chat"}}
	api.delay["slow"] = 50 * time.Millisecond

	r := newTestReconciler(api)
	defer r.Deselect()

	// The first fetch is still in flight when the selection moves on.
	r.Select(context.Background(), PrivateConversation("slow"))
	r.Select(context.Background(), PrivateConversation("fast"))

	waitFor(t, func() bool { return len(r.Timeline().Snapshot()) == 1 })
	time.Sleep(80 * time.Millisecond)

	view := r.Timeline().Snapshot()
	req.Len(view, 1)
	req.Equal("from the new chat", view[0].Content)
}

func TestReconciler_SwitchClearsTimeline(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.history["bob"] = []domain.Message{{Content: "old"}}
	api.delay["carol"] = 30 * time.Millisecond

	r := newTestReconciler(api)
	defer r.Deselect()

	r.Select(context.Background(), PrivateConversation("bob"))
	waitFor(t, func() bool { return len(r.Timeline().Snapshot()) == 1 })

	// Until carol's history arrives the view must be empty, not bob's.
	r.Select(context.Background(), PrivateConversation("carol"))
	req.Empty(r.Timeline().Snapshot())
}

func TestReconciler_RapidSwitchingNeverMixesLogs(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.history["bob"] = []domain.Message{{Content: "bob's log"}}
	api.history["carol"] = []domain.Message{{Content: "carol's log"}}

	r := newTestReconciler(api)
	defer r.Deselect()

	// Flip the selection fast enough that installs for the previous
	// conversation are still in flight when the timeline is cleared.
	// Whatever the interleaving, an install may only land while its
	// conversation is still the selected one.
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		r.Select(ctx, PrivateConversation("bob"))
		r.Select(ctx, PrivateConversation("carol"))
	}

	waitFor(t, func() bool { return len(r.Timeline().Snapshot()) == 1 })
	time.Sleep(50 * time.Millisecond)

	view := r.Timeline().Snapshot()
	req.Len(view, 1)
	req.Equal("carol's log", view[0].Content)
}

func TestReconciler_OptimisticSend(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.delay["bob"] = time.Hour // Freeze polling so only the send moves the timeline

	r := newTestReconciler(api)
	defer r.Deselect()
	r.Select(context.Background(), PrivateConversation("bob"))

	req.NoError(r.Send(context.Background(), "hello"))

	view := r.Timeline().Snapshot()
	req.Len(view, 1)
	req.Equal("hello", view[0].Content)
	req.Empty(r.Draft())
}

func TestReconciler_SendRollbackRestoresDraft(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.sendErr = errors.ErrUserBanned
	api.delay["bob"] = time.Hour

	r := newTestReconciler(api)
	defer r.Deselect()
	r.Select(context.Background(), PrivateConversation("bob"))
	r.SetDraft("hello")

	req.Error(r.Send(context.Background(), "hello"))
	req.Empty(r.Timeline().Snapshot())
	req.Equal("hello", r.Draft())
}

func TestReconciler_SendWithoutSelection(t *testing.T) {
	req := require.New(t)
	r := newTestReconciler(newFakeAPI())

	req.ErrorIs(r.Send(context.Background(), "hello"), ErrNoConversation)
}

func TestReconciler_PollFailureIsNotFatal(t *testing.T) {
	req := require.New(t)
	api := newFakeAPI()
	api.listErr = errors.ErrUserBanned

	r := newTestReconciler(api)
	defer r.Deselect()
	r.Select(context.Background(), PrivateConversation("bob"))

	waitFor(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.listed["bob"] >= 2
	})

	// Polling keeps retrying; once the server recovers the history lands.
	api.mu.Lock()
	api.listErr = nil
	api.history["bob"] = []domain.Message{{Content: "recovered"}}
	api.mu.Unlock()

	waitFor(t, func() bool { return len(r.Timeline().Snapshot()) == 1 })
	req.Equal("recovered", r.Timeline().Snapshot()[0].Content)
}
