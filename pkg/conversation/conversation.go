package conversation

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the label given to a conversation created explicitly,
// before the first user message seeds the real title.
const DefaultTitle = "Nuova Conversazione"

// titleMaxLen is the number of runes kept when seeding a title from the
// first user message.
const titleMaxLen = 50

// Conversation is an ordered, titled sequence of messages bound to one
// model identifier.
type Conversation struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	Model     string     `json:"model"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func NewConversation(model string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.New(),
		Title:     DefaultTitle,
		Messages:  []*Message{},
		Model:     model,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TitleFromContent derives a conversation title from the first user
// message, truncating to 50 runes with a trailing ellipsis marker.
func TitleFromContent(content string) string {
	runes := []rune(content)
	if len(runes) <= titleMaxLen {
		return content
	}
	return string(runes[:titleMaxLen]) + "..."
}

func (c *Conversation) touch() {
	c.UpdatedAt = time.Now()
}

// LastMessage returns the most recent message, or nil for an empty
// conversation.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// lastUserMessage scans from the end for the most recent user message.
func (c *Conversation) lastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}
