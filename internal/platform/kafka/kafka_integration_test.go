//go:build integration

package kafka_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"certhub/internal/platform/kafka"
	"certhub/internal/platform/kafka/consumer"
	"certhub/internal/platform/kafka/producer"
	"certhub/pkg/testutil/containers"
)

type captureHandler struct {
	got chan *consumer.Message
}

func (h *captureHandler) Handle(_ context.Context, msg *consumer.Message) error {
	h.got <- msg
	return nil
}

func TestPublishAndConsumeRoundTrip(t *testing.T) {
	broker := containers.GetManager().GetRedpanda(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	const topic = "certificate-reviews-it"

	admin, err := kafka.NewClient(kafka.Config{Brokers: broker.Brokers, ClientID: "certhub-it"})
	require.NoError(t, err)
	require.NoError(t, kafka.EnsureTopic(ctx, admin, topic, 1, 1))
	require.NoError(t, kafka.EnsureTopic(ctx, admin, topic, 1, 1), "second create is a no-op")

	p := producer.New(admin)
	require.NoError(t, p.Publish(ctx, topic, []byte("cert-1"), []byte(`{"action":"certificate_approved"}`),
		map[string]string{"event_type": "certificate_approved"}))

	client, err := kafka.NewClient(kafka.Config{Brokers: broker.Brokers, ClientID: "certhub-it-consumer"},
		consumer.GroupOptions("certhub-it", topic)...)
	require.NoError(t, err)
	defer client.Close()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	h := &captureHandler{got: make(chan *consumer.Message, 1)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	done := make(chan error, 1)
	go func() { done <- consumer.New(client, log).Run(runCtx, h) }()

	select {
	case msg := <-h.got:
		assert.Equal(t, topic, msg.Topic)
		assert.Equal(t, "cert-1", string(msg.Key))
		assert.Equal(t, "certificate_approved", msg.Headers["event_type"])
		assert.JSONEq(t, `{"action":"certificate_approved"}`, string(msg.Value))
	case <-ctx.Done():
		t.Fatal("no message consumed")
	}
	stop()
	require.NoError(t, <-done)
	require.NoError(t, p.Close(ctx))
}
