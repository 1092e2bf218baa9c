package events

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog/log"
)

// ChatEventHandler dispatches decoded chat events to type-specific
// handler methods.
type ChatEventHandler interface {
	HandleStart(ctx context.Context, e *EventStart) error
	HandlePartialCompletion(ctx context.Context, e *EventPartialCompletion) error
	HandleFinal(ctx context.Context, e *EventFinal) error
	HandleError(ctx context.Context, e *EventError) error
}

// EventRouter wires an in-process gochannel pub/sub to watermill handler
// functions. Events published through a PublisherManager subscribed to
// the router's Publisher are delivered, in order, to every handler
// registered on the topic.
type EventRouter struct {
	logger     watermill.LoggerAdapter
	Publisher  message.Publisher
	Subscriber message.Subscriber
	router     *message.Router
}

type EventRouterOption func(*EventRouter)

func WithLogger(logger watermill.LoggerAdapter) EventRouterOption {
	return func(r *EventRouter) {
		r.logger = logger
	}
}

func NewEventRouter(options ...EventRouterOption) (*EventRouter, error) {
	ret := &EventRouter{
		logger: watermill.NopLogger{},
	}

	for _, o := range options {
		o(ret)
	}

	goPubSub := gochannel.NewGoChannel(gochannel.Config{
		BlockPublishUntilSubscriberAck: true,
	}, ret.logger)
	ret.Publisher = goPubSub
	ret.Subscriber = goPubSub

	router, err := message.NewRouter(message.RouterConfig{}, ret.logger)
	if err != nil {
		return nil, err
	}
	ret.router = router

	return ret, nil
}

func (e *EventRouter) AddHandler(name string, topic string, f func(msg *message.Message) error) {
	e.router.AddNoPublisherHandler(name, topic, e.Subscriber, f)
}

// RegisterChatEventHandler registers a handler that decodes each message
// into a chat event and dispatches it to the matching handler method.
func (e *EventRouter) RegisterChatEventHandler(name string, topic string, handler ChatEventHandler) {
	e.AddHandler(name, topic, func(msg *message.Message) error {
		defer msg.Ack()

		ev, err := NewEventFromJson(msg.Payload)
		if err != nil {
			log.Warn().Err(err).Str("message_id", msg.UUID).Msg("dropping undecodable chat event")
			return nil
		}

		ctx := msg.Context()
		switch ev := ev.(type) {
		case *EventStart:
			return handler.HandleStart(ctx, ev)
		case *EventPartialCompletion:
			return handler.HandlePartialCompletion(ctx, ev)
		case *EventFinal:
			return handler.HandleFinal(ctx, ev)
		case *EventError:
			return handler.HandleError(ctx, ev)
		default:
			log.Warn().Str("type", string(ev.Type())).Msg("unhandled chat event type")
			return nil
		}
	})
}

func (e *EventRouter) Running() chan struct{} {
	return e.router.Running()
}

func (e *EventRouter) Run(ctx context.Context) error {
	return e.router.Run(ctx)
}

func (e *EventRouter) Close() error {
	err := e.Publisher.Close()
	if err != nil {
		log.Error().Err(err).Msg("failed to close pubsub")
	}
	if err := e.router.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close router")
		return err
	}
	return err
}
