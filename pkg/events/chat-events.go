package events

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type EventType string

const (
	// EventTypeStart is emitted when a completion request is dispatched.
	EventTypeStart EventType = "start"
	// EventTypePartialCompletion carries one incremental content delta.
	EventTypePartialCompletion EventType = "partial"
	// EventTypeFinal is emitted once the assistant message has settled.
	EventTypeFinal EventType = "final"
	EventTypeError EventType = "error"
)

// EventMetadata identifies which conversation and message an event
// belongs to, so subscribers can follow a stream without holding any
// reference into the conversation store.
type EventMetadata struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	MessageID      uuid.UUID `json:"message_id"`
	Model          string    `json:"model,omitempty"`
}

func (em EventMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Str("conversation_id", em.ConversationID.String())
	e.Str("message_id", em.MessageID.String())
	if em.Model != "" {
		e.Str("model", em.Model)
	}
}

type Event interface {
	Type() EventType
	Metadata() EventMetadata
	Payload() []byte
}

type EventImpl struct {
	Type_     EventType     `json:"type"`
	Metadata_ EventMetadata `json:"meta"`

	// raw JSON payload if the event was deserialized, not further used
	payload []byte
}

func (e *EventImpl) Type() EventType         { return e.Type_ }
func (e *EventImpl) Metadata() EventMetadata { return e.Metadata_ }
func (e *EventImpl) Payload() []byte         { return e.payload }

func (e *EventImpl) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("type", string(e.Type_))
	ev.Object("meta", e.Metadata_)
}

var _ Event = &EventImpl{}

type EventStart struct {
	EventImpl
}

func NewStartEvent(metadata EventMetadata) *EventStart {
	return &EventStart{
		EventImpl: EventImpl{
			Type_:     EventTypeStart,
			Metadata_: metadata,
		},
	}
}

type EventPartialCompletion struct {
	EventImpl
	// Delta is the incremental text of this event; Completion is the full
	// accumulated text so far.
	Delta      string `json:"delta"`
	Completion string `json:"completion"`
}

func NewPartialCompletionEvent(metadata EventMetadata, delta string, completion string) *EventPartialCompletion {
	return &EventPartialCompletion{
		EventImpl: EventImpl{
			Type_:     EventTypePartialCompletion,
			Metadata_: metadata,
		},
		Delta:      delta,
		Completion: completion,
	}
}

type EventFinal struct {
	EventImpl
	Text string `json:"text"`
}

func NewFinalEvent(metadata EventMetadata, text string) *EventFinal {
	return &EventFinal{
		EventImpl: EventImpl{
			Type_:     EventTypeFinal,
			Metadata_: metadata,
		},
		Text: text,
	}
}

type EventError struct {
	EventImpl
	ErrorString string `json:"error_string"`
}

func NewErrorEvent(metadata EventMetadata, err error) *EventError {
	return &EventError{
		EventImpl: EventImpl{
			Type_:     EventTypeError,
			Metadata_: metadata,
		},
		ErrorString: err.Error(),
	}
}

var _ Event = &EventStart{}
var _ Event = &EventPartialCompletion{}
var _ Event = &EventFinal{}
var _ Event = &EventError{}

// NewEventFromJson decodes a serialized event back into its concrete type.
func NewEventFromJson(b []byte) (Event, error) {
	var impl EventImpl
	if err := json.Unmarshal(b, &impl); err != nil {
		return nil, err
	}
	impl.payload = b

	switch impl.Type_ {
	case EventTypeStart:
		ret := &EventStart{EventImpl: impl}
		if err := json.Unmarshal(b, ret); err != nil {
			return nil, err
		}
		ret.payload = b
		return ret, nil
	case EventTypePartialCompletion:
		ret := &EventPartialCompletion{EventImpl: impl}
		if err := json.Unmarshal(b, ret); err != nil {
			return nil, err
		}
		ret.payload = b
		return ret, nil
	case EventTypeFinal:
		ret := &EventFinal{EventImpl: impl}
		if err := json.Unmarshal(b, ret); err != nil {
			return nil, err
		}
		ret.payload = b
		return ret, nil
	case EventTypeError:
		ret := &EventError{EventImpl: impl}
		if err := json.Unmarshal(b, ret); err != nil {
			return nil, err
		}
		ret.payload = b
		return ret, nil
	}

	return nil, errors.Errorf("unknown event type %q", impl.Type_)
}
