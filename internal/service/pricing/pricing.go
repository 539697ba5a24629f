package pricing

import (
	"context"
	"fmt"
	"math"
	"time"

	"fuel-delivery-service/internal/apperr"
	"fuel-delivery-service/internal/auth/policy"
	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/logx"
)

// Service quotes delivery prices from the published fuel rates.
type Service struct {
	repo             PriceRepository
	operationTimeout time.Duration
	logger           logx.Logger
	now              func() time.Time
}

// NewService creates a pricing Service.
func NewService(r PriceRepository, timeout time.Duration, logger logx.Logger) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		repo:             r,
		operationTimeout: timeout,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// Price returns amount × rate rounded to two decimals.
func Price(amount, rate float64) float64 {
	return math.Round(amount*rate*100) / 100
}

// Quote prices amount liters of fuelType at the current rate.
// The amount is rounded to the stored precision first, so a quote matches the created order.
func (s *Service) Quote(ctx context.Context, fuelType domain.FuelType, amount float64) (float64, error) {
	if !fuelType.Valid() {
		return 0, apperr.Invalid("fuelType", "must be one of 93, 95, diesel")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, apperr.Invalid("amount", "must be a positive number")
	}
	amount = domain.QuantizeAmount(amount)
	if amount <= 0 || amount > domain.MaxAmount {
		return 0, apperr.Invalid("amount", "must be between 0.001 and 100000")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.repo.Get(ctx, fuelType)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("no rate for fuel type %s: %w", fuelType, apperr.ErrNotFound)
	}
	return Price(amount, p.RatePerLiter), nil
}

// List returns all published rates.
func (s *Service) List(ctx context.Context) ([]domain.FuelPrice, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.repo.List(ctx)
}

// UpdateRate publishes a new per-liter rate for fuelType.
func (s *Service) UpdateRate(ctx context.Context, actor domain.Actor, fuelType domain.FuelType, rate float64) (domain.FuelPrice, error) {
	if !policy.Allowed(actor.Role, policy.PricingUpdate) {
		return domain.FuelPrice{}, apperr.ErrForbidden
	}
	if !fuelType.Valid() {
		return domain.FuelPrice{}, apperr.Invalid("fuelType", "must be one of 93, 95, diesel")
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return domain.FuelPrice{}, apperr.Invalid("ratePerLiter", "must be a non-negative number")
	}
	if rate > domain.MaxRatePerLiter {
		return domain.FuelPrice{}, apperr.Invalid("ratePerLiter", "must not exceed 1000000")
	}
	rate = math.Round(rate*100) / 100

	by := actor.ID
	p := domain.FuelPrice{
		FuelType:     fuelType,
		RatePerLiter: rate,
		UpdatedBy:    &by,
		UpdatedAt:    s.now(),
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return domain.FuelPrice{}, err
	}

	s.logger.Info("fuel rate updated",
		logx.String("event", "fuel_rate_updated"),
		logx.String("fuel_type", string(fuelType)),
		logx.Float64("rate_per_liter", rate),
		logx.String("actor_id", actor.ID),
	)
	return p, nil
}
