package usecase

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"

	"github.com/user/stream-harness/internal/domain"
)

// publishKey is the fixed logical key every relayed frame is published
// under; consumers partition on it.
const publishKey = "log"

// ForwardUseCase relays one received frame to the broker and waits for the
// delivery confirmation, giving the bridge its per-connection backpressure.
type ForwardUseCase struct {
	publisher domain.Publisher
	logger    *slog.Logger
}

// NewForwardUseCase creates a new ForwardUseCase.
func NewForwardUseCase(publisher domain.Publisher, logger *slog.Logger) *ForwardUseCase {
	return &ForwardUseCase{
		publisher: publisher,
		logger:    logger,
	}
}

// Forward publishes the frame unmodified under the fixed key and blocks
// until the broker confirms delivery.
func (uc *ForwardUseCase) Forward(ctx context.Context, raw []byte) error {
	ctx, span := otel.Tracer("bridge").Start(ctx, "Forward")
	defer span.End()

	if err := uc.publisher.Publish(ctx, []byte(publishKey), raw); err != nil {
		uc.logger.Error("failed to publish frame", "error", err)
		return err
	}

	uc.logger.Debug("published frame", "bytes", len(raw))
	return nil
}
