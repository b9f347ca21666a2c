package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"chat-hub/domain"
)

// ErrNoConversation is returned by sends issued while nothing is
// selected.
var ErrNoConversation = errors.New("no conversation selected")

// PollInterval is how often the active conversation is refetched from
// the server.
const PollInterval = 3 * time.Second

// Conversation names one server-side log: a 1:1 counterpart or a group.
type Conversation struct {
	Type domain.ChatType
	ID   string
}

func PrivateConversation(userID string) Conversation {
	return Conversation{Type: domain.ChatPrivate, ID: userID}
}

func GroupConversation(groupID string) Conversation {
	return Conversation{Type: domain.ChatGroup, ID: groupID}
}

func (c Conversation) path() string {
	if c.Type == domain.ChatGroup {
		return "/chat/group/" + c.ID
	}
	return "/chat/private/" + c.ID
}

// ConversationAPI is the slice of the server API the reconciler needs.
type ConversationAPI interface {
	ListMessages(ctx context.Context, conv Conversation) ([]domain.Message, error)
	SendMessage(ctx context.Context, conv Conversation, content string) (domain.Message, error)
	SendAttachment(ctx context.Context, conv Conversation, ref string) (domain.Message, error)
}

// Reconciler keeps a local Timeline converging on the server's log for
// whichever conversation is selected. It polls the full history at a
// fixed interval, shows sends optimistically and rolls them back when
// the server refuses them. Responses that arrive after the selection
// changed are discarded so a slow poll can never paint the wrong
// conversation.
type Reconciler struct {
	api      ConversationAPI
	session  *Session
	log      *slog.Logger
	interval time.Duration

	mu     sync.Mutex
	active *Conversation
	epoch  uint64
	cancel context.CancelFunc
	draft  string

	timeline *Timeline
}

func NewReconciler(api ConversationAPI, session *Session, log *slog.Logger) *Reconciler {
	return &Reconciler{
		api:      api,
		session:  session,
		log:      log,
		interval: PollInterval,
		timeline: NewTimeline(),
	}
}

func (r *Reconciler) Timeline() *Timeline {
	return r.timeline
}

// Active returns the selected conversation, if any.
func (r *Reconciler) Active() (Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == nil {
		return Conversation{}, false
	}
	return *r.active, true
}

// Draft returns the unsent input text, restored after a failed send.
func (r *Reconciler) Draft() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.draft
}

func (r *Reconciler) SetDraft(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draft = text
}

// Select makes conv the active conversation: the timeline is cleared,
// one fetch runs immediately, then polling continues until Deselect or
// the next Select.
func (r *Reconciler) Select(ctx context.Context, conv Conversation) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.epoch++
	epoch := r.epoch
	r.active = &conv
	r.draft = ""
	pollCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()

	r.timeline.Clear()

	go r.poll(pollCtx, conv, epoch)
}

// Deselect stops polling and leaves no conversation active.
func (r *Reconciler) Deselect() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.epoch++
	r.active = nil
	r.mu.Unlock()

	r.timeline.Clear()
}

func (r *Reconciler) poll(ctx context.Context, conv Conversation, epoch uint64) {
	r.fetch(ctx, conv, epoch)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.fetch(ctx, conv, epoch)
		}
	}
}

// fetch pulls the full history and installs it unless the selection
// moved on while the request was in flight. A failed poll only logs;
// the next tick retries.
func (r *Reconciler) fetch(ctx context.Context, conv Conversation, epoch uint64) {
	messages, err := r.api.ListMessages(ctx, conv)
	if err != nil {
		if ctx.Err() == nil {
			r.log.Warn("poll failed", "conversation", conv.ID, "error", err)
		}
		return
	}

	// The staleness check and the install stay under one lock so a
	// concurrent Select cannot clear the timeline between them.
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return
	}
	r.timeline.Replace(messages)
}

// Send posts content to the active conversation. The message appears in
// the timeline immediately; if the server refuses it, the entry is
// removed and the text goes back into the draft.
func (r *Reconciler) Send(ctx context.Context, content string) error {
	r.mu.Lock()
	if r.active == nil {
		r.mu.Unlock()
		return ErrNoConversation
	}
	conv := *r.active
	r.draft = ""
	r.mu.Unlock()

	tempID := r.timeline.AddOptimistic(domain.Message{
		ChatType:  conv.Type,
		SenderID:  r.session.UserID(),
		TargetID:  conv.ID,
		Content:   content,
		CreatedAt: time.Now(),
	})

	confirmed, err := r.api.SendMessage(ctx, conv, content)
	if err != nil {
		r.timeline.Rollback(tempID)
		r.mu.Lock()
		r.draft = content
		r.mu.Unlock()
		return err
	}

	r.timeline.Confirm(tempID, confirmed)
	return nil
}

// SendAttachment behaves like Send for an uploaded file reference. There
// is no draft to restore; the file stays selected in the UI on failure.
func (r *Reconciler) SendAttachment(ctx context.Context, ref string) error {
	r.mu.Lock()
	if r.active == nil {
		r.mu.Unlock()
		return ErrNoConversation
	}
	conv := *r.active
	r.mu.Unlock()

	tempID := r.timeline.AddOptimistic(domain.Message{
		ChatType:     conv.Type,
		SenderID:     r.session.UserID(),
		TargetID:     conv.ID,
		Content:      ref,
		IsAttachment: true,
		CreatedAt:    time.Now(),
	})

	confirmed, err := r.api.SendAttachment(ctx, conv, ref)
	if err != nil {
		r.timeline.Rollback(tempID)
		return err
	}

	r.timeline.Confirm(tempID, confirmed)
	return nil
}
