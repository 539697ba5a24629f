package statusevents

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

// ErrRejected marks events that can never be applied. Redelivering them is pointless.
var ErrRejected = errors.New("status event rejected")

// Results recorded on the status_events_total counter.
const (
	ResultApplied  = "applied"
	ResultIgnored  = "ignored"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// Processor applies driver status events to deliveries
type Processor struct {
	delivery DeliveryPort
	logger   logx.Logger
	results  *prometheus.CounterVec
	factory  *actionFactory
}

// Option configures a Processor.
type Option func(*Processor)

// WithResultsCounter counts handled events by result.
func WithResultsCounter(c *prometheus.CounterVec) Option {
	return func(p *Processor) { p.results = c }
}

// NewProcessor creates a new statusevents.Processor
func NewProcessor(deliverySvc DeliveryPort, logger logx.Logger, opts ...Option) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		delivery: deliverySvc,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.factory = newActionFactory(p.onCompleted, p.onCancelled)
	return p
}

// Handle processes a single Event. Events with an unknown status are ignored.
// Errors wrapping ErrRejected are permanent; any other error should be retried.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	fn, ok := p.factory.get(e.Status)
	if !ok {
		p.count(ResultIgnored)
		p.logger.Debug("status event ignored",
			logx.String("delivery_id", e.DeliveryID),
			logx.String("status", e.Status),
		)
		return nil
	}

	err := fn(ctx, e)
	switch {
	case err == nil:
		p.count(ResultApplied)
		return nil
	case permanent(err):
		p.count(ResultRejected)
		p.logger.Warn("status event rejected",
			logx.String("delivery_id", e.DeliveryID),
			logx.String("status", e.Status),
			logx.String("actor_id", e.ActorID),
			logx.Err(err),
		)
		return fmt.Errorf("%w: %w", ErrRejected, err)
	default:
		p.count(ResultFailed)
		return err
	}
}

func (p *Processor) onCompleted(ctx context.Context, e Event) error {
	return p.apply(ctx, e, domain.StatusCompleted)
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	return p.apply(ctx, e, domain.StatusCancelled)
}

func (p *Processor) apply(ctx context.Context, e Event, to domain.DeliveryStatus) error {
	actorID := strings.TrimSpace(e.ActorID)
	if actorID == "" {
		return apperr.Invalid("actor_id", "is required")
	}
	_, err := p.delivery.Transition(ctx, e.DeliveryID, to, domain.Actor{ID: actorID, Role: domain.RoleDriver})
	return err
}

func (p *Processor) count(result string) {
	if p.results != nil {
		p.results.WithLabelValues(result).Inc()
	}
}

func permanent(err error) bool {
	return errors.Is(err, apperr.ErrInvalidTransition) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrValidation) ||
		errors.Is(err, apperr.ErrForbidden)
}
