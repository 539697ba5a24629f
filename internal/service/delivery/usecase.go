package delivery

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/auth/policy"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
	"fuel-delivery-service/internal/ports/deliverytx"
)

const maxPageSize = 100

// CreateInput carries a new order. Price is always quoted server side.
type CreateInput struct {
	DriverID     string
	ClientID     string
	FuelType     domain.FuelType
	Amount       float64
	Address      string
	DeliveryDate time.Time
}

// Service - manages fuel deliveries and their status workflow.
type Service struct {
	repo             DeliveryRepository
	users            UserDirectory
	pricing          PriceQuoter
	events           EventPublisher
	factory          Factory
	operationTimeout time.Duration
	logger           logx.Logger
	transitions      *prometheus.CounterVec
}

// Option configures a Service.
type Option func(*Service)

// WithTransitionsCounter counts applied transitions by from/to labels.
func WithTransitionsCounter(c *prometheus.CounterVec) Option {
	return func(s *Service) { s.transitions = c }
}

// WithFactory overrides ID and clock generation.
func WithFactory(f Factory) Option {
	return func(s *Service) {
		if f != nil {
			s.factory = f
		}
	}
}

// NewDeliveryService - creates a new delivery Service. A nil publisher disables events.
func NewDeliveryService(
	r DeliveryRepository,
	users UserDirectory,
	pricing PriceQuoter,
	events EventPublisher,
	timeout time.Duration,
	logger logx.Logger,
	opts ...Option,
) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	s := &Service{
		repo:             r,
		users:            users,
		pricing:          pricing,
		events:           events,
		factory:          NewFactory(),
		operationTimeout: timeout,
		logger:           logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Create places a new Pending delivery. Clients always order for themselves.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (domain.Delivery, error) {
	if !policy.Allowed(actor.Role, policy.DeliveryCreate) {
		return domain.Delivery{}, apperr.ErrForbidden
	}
	if actor.Role == domain.RoleClient {
		in.ClientID = actor.ID
	}

	now := s.factory.Now()
	d, err := domain.NewDelivery(domain.NewDeliveryParams{
		DriverID:     in.DriverID,
		ClientID:     in.ClientID,
		FuelType:     in.FuelType,
		Amount:       in.Amount,
		Address:      in.Address,
		DeliveryDate: in.DeliveryDate,
	}, now)
	if err != nil {
		return domain.Delivery{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	driver, err := s.users.GetByID(ctx, d.DriverID)
	if err != nil {
		return domain.Delivery{}, err
	}
	if driver == nil {
		return domain.Delivery{}, apperr.Invalid("driverId", "unknown driver")
	}
	if driver.Role != domain.RoleDriver {
		return domain.Delivery{}, apperr.Invalid("driverId", "is not a driver")
	}
	if actor.Role != domain.RoleClient {
		client, err := s.users.GetByID(ctx, d.ClientID)
		if err != nil {
			return domain.Delivery{}, err
		}
		if client == nil || client.Role != domain.RoleClient {
			return domain.Delivery{}, apperr.Invalid("clientId", "unknown client")
		}
	}

	price, err := s.pricing.Quote(ctx, d.FuelType, d.Amount)
	if err != nil {
		return domain.Delivery{}, err
	}
	if err := domain.CheckPrice(price); err != nil {
		return domain.Delivery{}, err
	}
	d.Price = price
	d.ID = s.factory.NewID()

	if err := s.repo.Insert(ctx, d); err != nil {
		return domain.Delivery{}, err
	}

	s.logger.Info("delivery created",
		logx.String("event", "delivery_created"),
		logx.String("delivery_id", d.ID),
		logx.String("client_id", d.ClientID),
		logx.String("driver_id", d.DriverID),
		logx.String("fuel_type", string(d.FuelType)),
		logx.Float64("price", d.Price),
		logx.String("actor_id", actor.ID),
	)
	return d, nil
}

// Get returns the delivery by id. Deliveries outside the actor's scope are reported as not found.
func (s *Service) Get(ctx context.Context, actor domain.Actor, id string) (domain.Delivery, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Delivery{}, apperr.Invalid("id", "is required")
	}
	if !policy.Allowed(actor.Role, policy.DeliveryRead) {
		return domain.Delivery{}, apperr.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Delivery{}, err
	}
	if d == nil || !visible(actor, *d) {
		return domain.Delivery{}, apperr.ErrNotFound
	}
	return *d, nil
}

// List returns deliveries matching f. Clients and drivers only see their own.
func (s *Service) List(ctx context.Context, actor domain.Actor, f domain.DeliveryFilter) ([]domain.Delivery, error) {
	if !policy.Allowed(actor.Role, policy.DeliveryRead) {
		return nil, apperr.ErrForbidden
	}
	if !policy.Allowed(actor.Role, policy.DeliveryListAll) {
		switch actor.Role {
		case domain.RoleDriver:
			f.DriverID = actor.ID
		default:
			f.ClientID = actor.ID
		}
	}
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.Invalid("status", "must be one of Pending, Completed, Cancelled")
	}
	if f.Limit != nil && (*f.Limit <= 0 || *f.Limit > maxPageSize) {
		return nil, apperr.Invalid("limit", "must be between 1 and 100")
	}
	if f.Offset != nil && *f.Offset < 0 {
		return nil, apperr.Invalid("offset", "must not be negative")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx, f)
}

// Transition moves the delivery to status to on behalf of actor.
// The read and the conditional write share one transaction, so of two racing
// transitions exactly one succeeds and the other gets InvalidTransition.
func (s *Service) Transition(ctx context.Context, id string, to domain.DeliveryStatus, actor domain.Actor) (domain.Delivery, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Delivery{}, apperr.Invalid("id", "is required")
	}
	if !to.Valid() {
		return domain.Delivery{}, apperr.Invalid("status", "must be one of Pending, Completed, Cancelled")
	}
	if !policy.Allowed(actor.Role, policy.DeliveryTransition) {
		return domain.Delivery{}, apperr.ErrForbidden
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		prev domain.DeliveryStatus
		next domain.Delivery
	)
	err := s.repo.WithTx(ctx, func(tx deliverytx.Repository) error {
		cur, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return apperr.ErrNotFound
		}
		if actor.Role == domain.RoleDriver && cur.DriverID != actor.ID {
			return apperr.ErrForbidden
		}

		next, err = cur.Transition(to, actor, s.factory.Now())
		if err != nil {
			return err
		}
		ok, err := tx.UpdateStatus(ctx, next, cur.Status)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Transition(string(cur.Status), string(to))
		}
		prev = cur.Status
		return nil
	})
	if err != nil {
		return domain.Delivery{}, err
	}

	if s.transitions != nil {
		s.transitions.WithLabelValues(string(prev), string(next.Status)).Inc()
	}
	s.logger.Info("delivery status changed",
		logx.String("event", "delivery_status_changed"),
		logx.String("delivery_id", next.ID),
		logx.String("from", string(prev)),
		logx.String("to", string(next.Status)),
		logx.String("actor_id", actor.ID),
	)
	s.publish(ctx, domain.StatusChange{
		DeliveryID: next.ID,
		From:       prev,
		To:         next.Status,
		ActorID:    actor.ID,
		ChangedAt:  *next.StatusChangedAt,
	})
	return next, nil
}

// publish is best effort: the transition is already committed.
func (s *Service) publish(ctx context.Context, e domain.StatusChange) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishStatusChanged(ctx, e); err != nil {
		s.logger.Warn("status event publish failed",
			logx.String("delivery_id", e.DeliveryID),
			logx.Err(err),
		)
	}
}

func visible(actor domain.Actor, d domain.Delivery) bool {
	if policy.Allowed(actor.Role, policy.DeliveryListAll) {
		return true
	}
	switch actor.Role {
	case domain.RoleDriver:
		return d.DriverID == actor.ID
	case domain.RoleClient:
		return d.ClientID == actor.ID
	default:
		return false
	}
}
