package conversation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportConversationMarkdown(t *testing.T) {
	completer := &fakeCompleter{chunks: []string{"La clausola è nulla."}}
	store, _ := newTestStore(t, completer)

	require.NoError(t, store.SendMessage(context.Background(), "Analizza questa clausola", "model-x"))
	store.WaitForIdle()

	conv := store.CurrentConversation()
	export, err := store.ExportConversation(conv.ID)
	require.NoError(t, err)

	assert.Equal(t, "analizza-questa-clausola.md", export.Filename)

	content := string(export.Content)
	assert.True(t, strings.HasPrefix(content, "# Analizza questa clausola\n\n"))
	assert.Contains(t, content, "**Model**: model-x\n")
	assert.Contains(t, content, "**Created**: ")
	assert.Contains(t, content, "---\n\n")
	assert.Contains(t, content, "### Utente\nAnalizza questa clausola\n")
	assert.Contains(t, content, "### Assistente\nLa clausola è nulla.\n")
}

func TestExportConversationNotFound(t *testing.T) {
	store, _ := newTestStore(t, nil)

	_, err := store.ExportConversation(uuid.New())
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestExportWriteFile(t *testing.T) {
	completer := &fakeCompleter{chunks: []string{"ok"}}
	store, _ := newTestStore(t, completer)

	require.NoError(t, store.SendMessage(context.Background(), "Ciao", "model-x"))
	store.WaitForIdle()

	export, err := store.ExportConversation(store.ActiveID())
	require.NoError(t, err)

	dir := t.TempDir()
	path, err := export.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, export.Filename), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, export.Content, b)
}
