package conversation

import (
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteStateSchemaV1 = `
CREATE TABLE IF NOT EXISTS app_state (
    slug TEXT PRIMARY KEY,
    payload_json TEXT NOT NULL,
    updated_at_ms INTEGER NOT NULL DEFAULT 0
);
`

const (
	slugConversations = "conversations"
	slugActive        = "active-conversation"
)

// SQLiteStateStore persists the conversation state in a SQLite database.
//
// Storage format intentionally keeps one JSON payload per state slug so the
// conversation schema can evolve without SQL column churn while still using
// durable SQLite persistence.
type SQLiteStateStore struct {
	mu     sync.Mutex
	dsn    string
	db     *sql.DB
	closed bool
}

func NewSQLiteStateStore(dsn string) (*SQLiteStateStore, error) {
	if dsn == "" {
		return nil, errors.New("sqlite state store: empty dsn")
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStateStore{
		dsn: dsn,
		db:  db,
	}
	if _, err := db.Exec(sqliteStateSchemaV1); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "sqlite state store: migrate")
	}
	return s, nil
}

func (s *SQLiteStateStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLiteStateStore) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret := State{Conversations: []*Conversation{}}
	if s.closed {
		return ret, errors.New("sqlite state store: closed")
	}

	if payload, ok := s.readSlug(slugConversations); ok {
		var conversations []*Conversation
		if err := json.Unmarshal([]byte(payload), &conversations); err != nil {
			log.Warn().Err(err).Msg("stored conversations are malformed, starting empty")
		} else {
			ret.Conversations = conversations
		}
	}

	if payload, ok := s.readSlug(slugActive); ok {
		id, err := uuid.Parse(payload)
		if err != nil {
			log.Warn().Err(err).Msg("stored active-conversation id is malformed, ignoring")
		} else {
			ret.ActiveID = id
		}
	}

	if ret.ActiveID != uuid.Nil && findConversation(ret.Conversations, ret.ActiveID) == nil {
		ret.ActiveID = uuid.Nil
	}

	return ret, nil
}

func (s *SQLiteStateStore) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("sqlite state store: closed")
	}

	b, err := json.Marshal(state.Conversations)
	if err != nil {
		return errors.Wrap(err, "marshal conversations")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UnixMilli()
	if err := upsertSlug(tx, slugConversations, string(b), now); err != nil {
		return err
	}
	if state.ActiveID == uuid.Nil {
		if _, err := tx.Exec(`DELETE FROM app_state WHERE slug = ?`, slugActive); err != nil {
			return errors.Wrap(err, "clear active conversation")
		}
	} else {
		if err := upsertSlug(tx, slugActive, state.ActiveID.String(), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStateStore) readSlug(slug string) (string, bool) {
	var payload string
	err := s.db.QueryRow(`SELECT payload_json FROM app_state WHERE slug = ?`, slug).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Warn().Err(err).Str("slug", slug).Msg("could not read state entry")
		}
		return "", false
	}
	return payload, true
}

func upsertSlug(tx *sql.Tx, slug string, payload string, nowMs int64) error {
	_, err := tx.Exec(`
INSERT INTO app_state (slug, payload_json, updated_at_ms) VALUES (?, ?, ?)
ON CONFLICT(slug) DO UPDATE SET payload_json = excluded.payload_json, updated_at_ms = excluded.updated_at_ms
`, slug, payload, nowMs)
	return errors.Wrapf(err, "upsert state entry %s", slug)
}

var _ StateStore = (*SQLiteStateStore)(nil)
