package conversation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleFromContent(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "short content is kept as is",
			content:  "Analizza questo contratto",
			expected: "Analizza questo contratto",
		},
		{
			name:     "exactly fifty runes are kept without ellipsis",
			content:  strings.Repeat("a", 50),
			expected: strings.Repeat("a", 50),
		},
		{
			name:     "long content is truncated with ellipsis",
			content:  strings.Repeat("a", 51),
			expected: strings.Repeat("a", 50) + "...",
		},
		{
			name:     "truncation counts runes not bytes",
			content:  strings.Repeat("à", 60),
			expected: strings.Repeat("à", 50) + "...",
		},
		{
			name:     "empty content stays empty",
			content:  "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, TitleFromContent(tc.content))
		})
	}
}

func TestNewConversationDefaults(t *testing.T) {
	conv := NewConversation("model-x")
	assert.NotEqual(t, "", conv.ID.String())
	assert.Equal(t, DefaultTitle, conv.Title)
	assert.Equal(t, "model-x", conv.Model)
	assert.Empty(t, conv.Messages)
	assert.Equal(t, conv.CreatedAt, conv.UpdatedAt)
}

func TestLastUserMessage(t *testing.T) {
	conv := NewConversation("model-x")
	assert.Nil(t, conv.lastUserMessage())

	conv.Messages = append(conv.Messages,
		NewMessage(RoleUser, "prima"),
		NewMessage(RoleAssistant, "risposta"),
		NewMessage(RoleUser, "seconda"),
		NewMessage(RoleAssistant, "risposta due"),
	)

	last := conv.lastUserMessage()
	assert.NotNil(t, last)
	assert.Equal(t, "seconda", last.Content)
}
