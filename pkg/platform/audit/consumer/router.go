package consumer

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"certhub/internal/platform/kafka/consumer"
)

// TopicHandler handles messages from one topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *consumer.Message) error
}

// Router sends each message to the handler registered for its topic. Messages
// on topics nobody registered go to the fallback, or are committed and
// skipped when there is none.
type Router struct {
	routes   map[string]TopicHandler
	fallback TopicHandler
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{routes: map[string]TopicHandler{}, logger: logger}
}

func (r *Router) Register(topic string, h TopicHandler) *Router {
	r.routes[topic] = h
	return r
}

func (r *Router) Fallback(h TopicHandler) *Router {
	r.fallback = h
	return r
}

// Topics lists the registered topics in order, for the consumer subscription.
func (r *Router) Topics() []string {
	return slices.Sorted(maps.Keys(r.routes))
}

func (r *Router) Handle(ctx context.Context, msg *consumer.Message) error {
	if h, ok := r.routes[msg.Topic]; ok {
		return h.Handle(ctx, msg)
	}
	if r.fallback != nil {
		return r.fallback.Handle(ctx, msg)
	}
	r.logger.DebugContext(ctx, "skipping message on unrouted topic",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
	)
	return nil
}
