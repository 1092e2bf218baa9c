package conversation

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/lavagna-ai/lavagna/pkg/events"
	"github.com/lavagna-ai/lavagna/pkg/openrouter"
)

var (
	ErrChatDisabled         = errors.New("chat is disabled: no completion client configured")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Completer is the slice of the completion client the store needs. The
// client receives the full message history by value per call and reports
// back only through the three callbacks.
type Completer interface {
	CreateStreamingChatCompletion(
		ctx context.Context,
		request openrouter.ChatCompletionRequest,
		onChunk func(string),
		onComplete func(),
		onError func(error),
	)
}

// Store owns the conversation set: the ordered list of conversations
// (most recently created first), the active-conversation pointer, and the
// process-wide loading/streaming/error state. It is the single writer of
// conversation state; all mutations, including streaming callbacks, are
// serialized through an internal mutex, and every committed mutation is
// flushed to the state store.
type Store struct {
	mu sync.Mutex

	conversations []*Conversation
	activeID      uuid.UUID

	loading   bool
	streaming bool
	lastError string

	stateStore StateStore
	completer  Completer
	publisher  *events.PublisherManager

	inflight sync.WaitGroup
}

type StoreOption func(*Store)

// WithCompleter wires the completion client. A store without one has chat
// disabled: SendMessage reports a configuration error instead of calling
// out.
func WithCompleter(completer Completer) StoreOption {
	return func(s *Store) {
		s.completer = completer
	}
}

// WithPublisher wires an event publisher; streaming progress is then
// published as start/partial/final/error events.
func WithPublisher(publisher *events.PublisherManager) StoreOption {
	return func(s *Store) {
		s.publisher = publisher
	}
}

// NewStore hydrates the conversation set from the state store.
func NewStore(stateStore StateStore, options ...StoreOption) (*Store, error) {
	if stateStore == nil {
		return nil, errors.New("state store is required")
	}

	state, err := stateStore.Load()
	if err != nil {
		return nil, errors.Wrap(err, "load conversation state")
	}

	ret := &Store{
		conversations: state.Conversations,
		activeID:      state.ActiveID,
		stateStore:    stateStore,
	}

	for _, option := range options {
		option(ret)
	}

	return ret, nil
}

// NewConversation creates an empty conversation with the given model,
// inserts it at the front of the set and makes it active.
func (s *Store) NewConversation(model string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := NewConversation(model)
	s.conversations = append([]*Conversation{conv}, s.conversations...)
	s.activeID = conv.ID
	s.flushLocked()

	log.Debug().Str("conversation_id", conv.ID.String()).Str("model", model).Msg("created conversation")
	return clone.Clone(conv).(*Conversation)
}

// SendMessage appends a user message to the active conversation (creating
// one when none is active), appends an empty placeholder assistant
// message, and dispatches the accumulated history to the completion
// client. Chunks grow the placeholder in arrival order; completion or
// error settles the awaiting state. Empty input after trimming is a
// no-op.
func (s *Store) SendMessage(ctx context.Context, text string, model string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.Lock()
	if s.completer == nil {
		s.lastError = ErrChatDisabled.Error()
		s.mu.Unlock()
		return ErrChatDisabled
	}

	conv := findConversation(s.conversations, s.activeID)
	if conv == nil {
		conv = NewConversation(model)
		conv.Title = TitleFromContent(text)
		s.conversations = append([]*Conversation{conv}, s.conversations...)
		s.activeID = conv.ID
	}

	if len(conv.Messages) == 0 {
		conv.Title = TitleFromContent(text)
	}
	userMessage := NewMessage(RoleUser, text)
	conv.Messages = append(conv.Messages, userMessage)
	conv.touch()

	placeholder := NewMessage(RoleAssistant, "", WithModel(model))
	conv.Messages = append(conv.Messages, placeholder)
	conv.touch()

	s.loading = true
	s.streaming = true
	s.lastError = ""

	// Full history including the just-added user message, excluding the
	// empty placeholder.
	history := make([]openrouter.ChatMessage, 0, len(conv.Messages)-1)
	for _, m := range conv.Messages {
		if m.ID == placeholder.ID {
			continue
		}
		history = append(history, openrouter.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	meta := events.EventMetadata{
		ConversationID: conv.ID,
		MessageID:      placeholder.ID,
		Model:          model,
	}

	s.flushLocked()
	s.mu.Unlock()

	s.publishBlind(events.NewStartEvent(meta))

	request := openrouter.ChatCompletionRequest{
		Model:    model,
		Messages: history,
	}

	log.Debug().
		Str("conversation_id", meta.ConversationID.String()).
		Str("model", model).
		Int("history_length", len(history)).
		Msg("dispatching completion request")

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.completer.CreateStreamingChatCompletion(ctx, request,
			func(chunk string) { s.appendChunk(meta, chunk) },
			func() { s.settleComplete(meta) },
			func(err error) { s.settleError(meta, err) },
		)
	}()

	return nil
}

// appendChunk grows the placeholder assistant message. The conversation
// id was captured at send time; chunks keep targeting that conversation
// even if it is no longer active. A conversation deleted mid-stream
// simply swallows the remaining chunks.
func (s *Store) appendChunk(meta events.EventMetadata, chunk string) {
	s.mu.Lock()

	conv := findConversation(s.conversations, meta.ConversationID)
	if conv == nil {
		s.mu.Unlock()
		return
	}

	completion := ""
	for _, m := range conv.Messages {
		if m.ID == meta.MessageID {
			m.Content += chunk
			completion = m.Content
			break
		}
	}
	conv.touch()
	s.flushLocked()
	s.mu.Unlock()

	s.publishBlind(events.NewPartialCompletionEvent(meta, chunk, completion))
}

func (s *Store) settleComplete(meta events.EventMetadata) {
	s.mu.Lock()
	s.loading = false
	s.streaming = false

	text := ""
	if conv := findConversation(s.conversations, meta.ConversationID); conv != nil {
		for _, m := range conv.Messages {
			if m.ID == meta.MessageID {
				text = m.Content
				break
			}
		}
	}
	s.flushLocked()
	s.mu.Unlock()

	s.publishBlind(events.NewFinalEvent(meta, text))
}

// settleError records the error as the single process-wide error value.
// Partial assistant content already received stays in place.
func (s *Store) settleError(meta events.EventMetadata, err error) {
	s.mu.Lock()
	s.loading = false
	s.streaming = false
	s.lastError = err.Error()
	s.flushLocked()
	s.mu.Unlock()

	log.Debug().Err(err).Str("conversation_id", meta.ConversationID.String()).Msg("completion failed")
	s.publishBlind(events.NewErrorEvent(meta, err))
}

// SwitchConversation sets the active pointer and clears any error state.
// The id is not validated against the set; callers are responsible for
// passing an existing conversation id.
func (s *Store) SwitchConversation(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activeID = id
	s.lastError = ""
	s.flushLocked()
}

// DeleteConversation removes the conversation from the set. Deleting the
// active conversation clears the pointer; no successor is selected.
func (s *Store) DeleteConversation(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := make([]*Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	s.conversations = filtered

	if s.activeID == id {
		s.activeID = uuid.Nil
	}
	s.flushLocked()
}

// ClearCurrentConversation empties the active conversation's messages in
// place, retaining title and model. No-op without an active conversation.
func (s *Store) ClearCurrentConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := findConversation(s.conversations, s.activeID)
	if conv == nil {
		return
	}

	conv.Messages = []*Message{}
	conv.touch()
	s.lastError = ""
	s.flushLocked()
}

// RetryLastMessage drops the trailing assistant message of the active
// conversation and replays the most recent user message. No-op when no
// qualifying user message exists; no network call is made in that case.
func (s *Store) RetryLastMessage(ctx context.Context) error {
	s.mu.Lock()

	conv := findConversation(s.conversations, s.activeID)
	if conv == nil || len(conv.Messages) < 2 {
		s.mu.Unlock()
		return nil
	}

	lastUser := conv.lastUserMessage()
	if lastUser == nil {
		s.mu.Unlock()
		return nil
	}

	text := lastUser.Content
	model := conv.Model

	if last := conv.LastMessage(); last != nil && last.Role == RoleAssistant {
		conv.Messages = conv.Messages[:len(conv.Messages)-1]
		conv.touch()
	}
	s.lastError = ""
	s.flushLocked()
	s.mu.Unlock()

	return s.SendMessage(ctx, text, model)
}

// Conversations returns a deep clone of the conversation set, most
// recently created first.
func (s *Store) Conversations() []*Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone.Clone(s.conversations).([]*Conversation)
}

// CurrentConversation returns a deep clone of the active conversation, or
// nil when none is active.
func (s *Store) CurrentConversation() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := findConversation(s.conversations, s.activeID)
	if conv == nil {
		return nil
	}
	return clone.Clone(conv).(*Conversation)
}

// GetConversation returns a deep clone of the conversation with the given
// id, or nil when not found.
func (s *Store) GetConversation(id uuid.UUID) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := findConversation(s.conversations, id)
	if conv == nil {
		return nil
	}
	return clone.Clone(conv).(*Conversation)
}

// ActiveID returns the active conversation id, or uuid.Nil when none is
// active.
func (s *Store) ActiveID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// LastError returns the current process-wide error message, empty when
// none is recorded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// WaitForIdle blocks until all in-flight completion requests have
// settled.
func (s *Store) WaitForIdle() {
	s.inflight.Wait()
}

// flushLocked persists the current state. Write failures are logged, not
// propagated: the in-memory state stays authoritative and the next
// mutation retries the flush.
func (s *Store) flushLocked() {
	err := s.stateStore.Save(State{
		Conversations: s.conversations,
		ActiveID:      s.activeID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to persist conversation state")
	}
}

func (s *Store) publishBlind(e events.Event) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishBlind(e)
}
