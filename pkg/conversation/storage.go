package conversation

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// State is what survives process restarts: the conversation list (most
// recently created first) and the active-conversation pointer.
type State struct {
	Conversations []*Conversation
	ActiveID      uuid.UUID
}

// StateStore persists the conversation state. Load is best-effort: a
// missing or malformed entry reads back as empty state rather than an
// error, so a corrupted store never blocks startup.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

const (
	conversationsEntry = "conversations.json"
	activeEntry        = "active-conversation"
)

// FileStateStore keeps the state as two entries under a directory: a JSON
// array of conversations and the bare active-conversation id string.
type FileStateStore struct {
	dir string
}

func NewFileStateStore(dir string) (*FileStateStore, error) {
	if dir == "" {
		return nil, errors.New("file state store: empty directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "file state store: create directory")
	}
	return &FileStateStore{dir: dir}, nil
}

func (s *FileStateStore) Load() (State, error) {
	ret := State{Conversations: []*Conversation{}}

	b, err := os.ReadFile(filepath.Join(s.dir, conversationsEntry))
	if err == nil {
		var conversations []*Conversation
		if err := json.Unmarshal(b, &conversations); err != nil {
			log.Warn().Err(err).Msg("stored conversations are malformed, starting empty")
		} else {
			ret.Conversations = conversations
		}
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read stored conversations, starting empty")
	}

	b, err = os.ReadFile(filepath.Join(s.dir, activeEntry))
	if err == nil {
		id, err := uuid.Parse(strings.TrimSpace(string(b)))
		if err != nil {
			log.Warn().Err(err).Msg("stored active-conversation id is malformed, ignoring")
		} else {
			ret.ActiveID = id
		}
	}

	// An active id pointing outside the stored set is dropped on load.
	if ret.ActiveID != uuid.Nil && findConversation(ret.Conversations, ret.ActiveID) == nil {
		ret.ActiveID = uuid.Nil
	}

	return ret, nil
}

func (s *FileStateStore) Save(state State) error {
	b, err := json.MarshalIndent(state.Conversations, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal conversations")
	}
	if err := os.WriteFile(filepath.Join(s.dir, conversationsEntry), b, 0644); err != nil {
		return errors.Wrap(err, "write conversations")
	}

	activePath := filepath.Join(s.dir, activeEntry)
	if state.ActiveID == uuid.Nil {
		if err := os.Remove(activePath); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "clear active conversation")
		}
		return nil
	}
	if err := os.WriteFile(activePath, []byte(state.ActiveID.String()), 0644); err != nil {
		return errors.Wrap(err, "write active conversation")
	}
	return nil
}

var _ StateStore = (*FileStateStore)(nil)

func findConversation(conversations []*Conversation, id uuid.UUID) *Conversation {
	for _, c := range conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}
