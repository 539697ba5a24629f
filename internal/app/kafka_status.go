package app

import (
	"context"
	"errors"
	"time"

	"fuel-delivery-service/internal/service/statusevents"
	"fuel-delivery-service/internal/transport/kafka"
)

const statusEventTimeout = 5 * time.Second

type statusEventHandler interface {
	Handle(ctx context.Context, e statusevents.Event) error
}

// makeStatusEventsKafka adapts the processor to the consumer: rejected events
// become kafka.Permanent so they are committed instead of redelivered.
func makeStatusEventsKafka(h statusEventHandler) kafka.HandleFunc {
	return func(ctx context.Context, event statusevents.Event) error {
		hCtx, cancel := context.WithTimeout(ctx, statusEventTimeout)
		defer cancel()

		err := h.Handle(hCtx, event)
		if errors.Is(err, statusevents.ErrRejected) {
			return kafka.Permanent(err)
		}
		return err
	}
}
