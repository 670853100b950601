package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-neutral view of a consumed record.
type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Partition int32
	Offset    int64
	Timestamp time.Time
}

// Handler processes one message. Returning an error stops the poll loop
// before the offset is committed, so the message is redelivered.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Consumer polls a consumer group and commits offsets after each handled
// record.
type Consumer struct {
	client *kgo.Client
	logger *slog.Logger
}

// GroupOptions returns the client options a Consumer expects.
func GroupOptions(group string, topics ...string) []kgo.Opt {
	return []kgo.Opt{
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	}
}

func New(client *kgo.Client, logger *slog.Logger) *Consumer {
	return &Consumer{client: client, logger: logger}
}

// Run polls until ctx is cancelled or the handler fails.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		for _, fe := range fetches.Errors() {
			if errors.Is(fe.Err, context.Canceled) {
				return nil
			}
			c.logger.WarnContext(ctx, "kafka fetch error",
				"topic", fe.Topic,
				"partition", fe.Partition,
				"error", fe.Err,
			)
		}

		var handleErr error
		iter := fetches.RecordIter()
		for !iter.Done() && handleErr == nil {
			record := iter.Next()
			if err := handler.Handle(ctx, toMessage(record)); err != nil {
				handleErr = fmt.Errorf("handle %s/%d@%d: %w", record.Topic, record.Partition, record.Offset, err)
				break
			}
			if err := c.client.CommitRecords(ctx, record); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				handleErr = fmt.Errorf("commit offset: %w", err)
			}
		}
		if handleErr != nil {
			return handleErr
		}
	}
}

func toMessage(r *kgo.Record) *Message {
	msg := &Message{
		Topic:     r.Topic,
		Key:       r.Key,
		Value:     r.Value,
		Partition: r.Partition,
		Offset:    r.Offset,
		Timestamp: r.Timestamp,
	}
	if len(r.Headers) > 0 {
		msg.Headers = make(map[string]string, len(r.Headers))
		for _, h := range r.Headers {
			msg.Headers[h.Key] = string(h.Value)
		}
	}
	return msg
}
