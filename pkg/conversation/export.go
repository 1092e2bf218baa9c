package conversation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
)

// Export is a conversation rendered as a Markdown document, ready to be
// written out as a file download.
type Export struct {
	Filename string
	Content  []byte
}

// ExportConversation renders the conversation as Markdown: title, model,
// creation timestamp, then each message as a level-3 heading
// ("Utente"/"Assistente") followed by its content.
func (s *Store) ExportConversation(id uuid.UUID) (*Export, error) {
	s.mu.Lock()
	conv := findConversation(s.conversations, id)
	if conv == nil {
		s.mu.Unlock()
		return nil, ErrConversationNotFound
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", conv.Title))
	sb.WriteString(fmt.Sprintf("**Model**: %s\n", conv.Model))
	sb.WriteString(fmt.Sprintf("**Created**: %s\n\n", conv.CreatedAt.Format("02/01/2006, 15:04:05")))
	sb.WriteString("---\n\n")

	blocks := make([]string, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		heading := "Assistente"
		if m.Role == RoleUser {
			heading = "Utente"
		}
		blocks = append(blocks, fmt.Sprintf("### %s\n%s\n", heading, m.Content))
	}
	sb.WriteString(strings.Join(blocks, "\n"))

	filename := strcase.ToKebab(conv.Title)
	if filename == "" {
		filename = conv.ID.String()
	}
	s.mu.Unlock()

	return &Export{
		Filename: filename + ".md",
		Content:  []byte(sb.String()),
	}, nil
}

// WriteFile writes the export document into the given directory and
// returns the full path.
func (e *Export) WriteFile(dir string) (string, error) {
	path := filepath.Join(dir, e.Filename)
	if err := os.WriteFile(path, e.Content, 0644); err != nil {
		return "", errors.Wrap(err, "write export")
	}
	return path, nil
}
