package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collectingHandler struct {
	mu     sync.Mutex
	types  []EventType
	deltas []string
	done   chan struct{}
	want   int
}

func newCollectingHandler(want int) *collectingHandler {
	return &collectingHandler{done: make(chan struct{}), want: want}
}

func (h *collectingHandler) record(t EventType, delta string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.types = append(h.types, t)
	if delta != "" {
		h.deltas = append(h.deltas, delta)
	}
	if len(h.types) == h.want {
		close(h.done)
	}
}

func (h *collectingHandler) HandleStart(_ context.Context, e *EventStart) error {
	h.record(e.Type(), "")
	return nil
}

func (h *collectingHandler) HandlePartialCompletion(_ context.Context, e *EventPartialCompletion) error {
	h.record(e.Type(), e.Delta)
	return nil
}

func (h *collectingHandler) HandleFinal(_ context.Context, e *EventFinal) error {
	h.record(e.Type(), "")
	return nil
}

func (h *collectingHandler) HandleError(_ context.Context, e *EventError) error {
	h.record(e.Type(), "")
	return nil
}

func TestEventRouterDeliversChatEventsInOrder(t *testing.T) {
	router, err := NewEventRouter()
	require.NoError(t, err)
	defer func() {
		_ = router.Close()
	}()

	handler := newCollectingHandler(4)
	router.RegisterChatEventHandler("test", "chat", handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	manager := NewPublisherManager()
	manager.SubscribePublisher("chat", router.Publisher)

	metadata := testMetadata()
	require.NoError(t, manager.Publish(NewStartEvent(metadata)))
	require.NoError(t, manager.Publish(NewPartialCompletionEvent(metadata, "Il ", "Il ")))
	require.NoError(t, manager.Publish(NewPartialCompletionEvent(metadata, "contratto", "Il contratto")))
	require.NoError(t, manager.Publish(NewFinalEvent(metadata, "Il contratto")))

	select {
	case <-handler.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for events")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, []EventType{
		EventTypeStart,
		EventTypePartialCompletion,
		EventTypePartialCompletion,
		EventTypeFinal,
	}, handler.types)
	assert.Equal(t, []string{"Il ", "contratto"}, handler.deltas)
}

func TestEventRouterDeliversErrorEvents(t *testing.T) {
	router, err := NewEventRouter()
	require.NoError(t, err)
	defer func() {
		_ = router.Close()
	}()

	handler := newCollectingHandler(1)
	router.RegisterChatEventHandler("test", "chat", handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = router.Run(ctx)
	}()
	<-router.Running()

	manager := NewPublisherManager()
	manager.SubscribePublisher("chat", router.Publisher)
	require.NoError(t, manager.Publish(NewErrorEvent(testMetadata(), errors.New("rate limited"))))

	select {
	case <-handler.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error event")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, []EventType{EventTypeError}, handler.types)
}
