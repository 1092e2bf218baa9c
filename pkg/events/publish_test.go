package events

import (
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	published map[string][]*message.Message
	err       error
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{published: map[string][]*message.Message{}}
}

func (p *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	p.published[topic] = append(p.published[topic], messages...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

var _ message.Publisher = (*recordingPublisher)(nil)

func TestPublisherManagerDistributesToSubscribedTopics(t *testing.T) {
	manager := NewPublisherManager()
	chatPub := newRecordingPublisher()
	uiPub := newRecordingPublisher()
	manager.SubscribePublisher("chat", chatPub)
	manager.SubscribePublisher("ui", uiPub)

	metadata := testMetadata()
	require.NoError(t, manager.Publish(NewStartEvent(metadata)))

	require.Len(t, chatPub.published["chat"], 1)
	require.Len(t, uiPub.published["ui"], 1)

	decoded, err := NewEventFromJson(chatPub.published["chat"][0].Payload)
	require.NoError(t, err)
	assert.Equal(t, EventTypeStart, decoded.Type())
	assert.Equal(t, metadata, decoded.Metadata())
}

func TestPublisherManagerSequenceNumbers(t *testing.T) {
	manager := NewPublisherManager()
	pub := newRecordingPublisher()
	manager.SubscribePublisher("chat", pub)

	metadata := testMetadata()
	require.NoError(t, manager.Publish(NewStartEvent(metadata)))
	require.NoError(t, manager.Publish(NewFinalEvent(metadata, "fatto")))

	msgs := pub.published["chat"]
	require.Len(t, msgs, 2)
	assert.Equal(t, "0", msgs[0].Metadata.Get("sequence_number"))
	assert.Equal(t, "1", msgs[1].Metadata.Get("sequence_number"))
}

func TestPublishBlindSwallowsFailures(t *testing.T) {
	manager := NewPublisherManager()
	pub := newRecordingPublisher()
	pub.err = errors.New("broken pipe")
	manager.SubscribePublisher("chat", pub)

	// must not panic or propagate
	manager.PublishBlind(NewStartEvent(testMetadata()))
}
