package consumer

import (
	"context"
	"fmt"
	"log/slog"

	"certhub/internal/platform/kafka/consumer"
	audit "certhub/pkg/platform/audit"
	auditpostgres "certhub/pkg/platform/audit/store/postgres"
)

// Sink receives decoded review events.
type Sink interface {
	Append(ctx context.Context, event audit.Event) error
}

// ReviewHandler decodes certificate events relayed from the outbox and hands
// them to a sink. Malformed messages are logged and committed so they do not
// block the partition.
type ReviewHandler struct {
	sink    Sink
	logger  *slog.Logger
	actions map[string]bool
}

// NewReviewHandler creates a handler. When actions is non-empty only those
// event types reach the sink.
func NewReviewHandler(sink Sink, logger *slog.Logger, actions ...string) *ReviewHandler {
	h := &ReviewHandler{sink: sink, logger: logger}
	if len(actions) > 0 {
		h.actions = make(map[string]bool, len(actions))
		for _, a := range actions {
			h.actions[a] = true
		}
	}
	return h
}

func (h *ReviewHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	event, err := auditpostgres.DecodePayload(msg.Value)
	if err != nil {
		h.logger.Error("CRITICAL: failed to decode certificate event",
			"key", string(msg.Key),
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}
	if event.CertificateID.String() != string(msg.Key) {
		h.logger.Error("CRITICAL: certificate event key does not match payload",
			"key", string(msg.Key),
			"certificate_id", event.CertificateID.String(),
		)
		return nil
	}
	if h.actions != nil && !h.actions[event.Action] {
		return nil
	}

	if err := h.sink.Append(ctx, event); err != nil {
		h.logger.Error("failed to store certificate event",
			"certificate_id", event.CertificateID.String(),
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("store certificate event: %w", err)
	}

	h.logger.Debug("stored certificate event",
		"certificate_id", event.CertificateID.String(),
		"action", event.Action,
	)
	return nil
}
