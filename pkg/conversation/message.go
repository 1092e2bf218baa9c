package conversation

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

// Message is a single turn in a conversation. User and system messages are
// immutable once created; an assistant message's content grows by appending
// chunks while a completion is streaming and is frozen afterwards.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	// Model is only set on assistant messages and records which model
	// produced the content.
	Model string `json:"model,omitempty"`
}

type MessageOption func(*Message)

func WithTime(t time.Time) MessageOption {
	return func(m *Message) {
		m.Timestamp = t
	}
}

func WithID(id uuid.UUID) MessageOption {
	return func(m *Message) {
		m.ID = id
	}
}

func WithModel(model string) MessageOption {
	return func(m *Message) {
		m.Model = model
	}
}

func NewMessage(role Role, content string, options ...MessageOption) *Message {
	ret := &Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	for _, option := range options {
		option(ret)
	}

	return ret
}
