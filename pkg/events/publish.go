package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
)

// PublisherManager distributes events to a set of publishers. You
// "subscribe" a publisher to a topic; Publish then delivers the
// serialized event to every publisher on the topic it was subscribed
// with, tagged with a monotonically increasing sequence number.
type PublisherManager struct {
	Publishers     map[string][]message.Publisher
	sequenceNumber uint64
	mutex          sync.Mutex
}

func NewPublisherManager() *PublisherManager {
	return &PublisherManager{
		Publishers: make(map[string][]message.Publisher),
	}
}

func (s *PublisherManager) SubscribePublisher(topic string, pub message.Publisher) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Publishers[topic] = append(s.Publishers[topic], pub)
}

// Publish serializes the event and distributes it across all topics.
func (s *PublisherManager) Publish(e Event) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), b)
	msg.Metadata.Set("sequence_number", fmt.Sprintf("%d", s.sequenceNumber))
	s.sequenceNumber++

	for topic, pubs := range s.Publishers {
		for _, pub := range pubs {
			if err := pub.Publish(topic, msg); err != nil {
				return err
			}
		}
	}

	return nil
}

// PublishBlind publishes and only logs failures. Event delivery is
// advisory; a broken subscriber must not fail a state mutation.
func (s *PublisherManager) PublishBlind(e Event) {
	if err := s.Publish(e); err != nil {
		log.Warn().Err(err).Str("type", string(e.Type())).Msg("failed to publish event")
	}
}
