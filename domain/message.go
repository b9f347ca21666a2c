// Package domain contains core concepts of the chat system.
// This file defines Message events and conversation identity.
// Messages are immutable once appended and are never edited or deleted.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ChatType string

const (
	ChatPrivate ChatType = "private"
	ChatGroup   ChatType = "group"
)

// Message represents an immutable chat event. ID and CreatedAt are
// assigned by the server on append, never by the client.
type Message struct {
	ID           uuid.UUID `json:"id"`
	ChatType     ChatType  `json:"chat_type"`
	SenderID     string    `json:"sender_id"`
	TargetID     string    `json:"target_id"`
	Content      string    `json:"content"`
	IsAttachment bool      `json:"is_attachment"`
	CreatedAt    time.Time `json:"created_at"`
}

// ConversationKey resolves the log this message belongs to.
func (m Message) ConversationKey() string {
	if m.ChatType == ChatGroup {
		return GroupKey(m.TargetID)
	}
	return PrivateKey(m.SenderID, m.TargetID)
}

// PrivateKey normalizes the unordered user pair so both participants
// resolve to the same log.
func PrivateKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("p:%s:%s", a, b)
}

func GroupKey(groupID string) string {
	return fmt.Sprintf("g:%s", groupID)
}
