//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=delivery_test

package delivery

import (
	"context"
	"time"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/ports/deliverytx"
)

// DeliveryRepository is the delivery storage used by the service.
type DeliveryRepository interface {
	deliverytx.Runner
	Insert(ctx context.Context, d domain.Delivery) error
	Get(ctx context.Context, id string) (*domain.Delivery, error)
	List(ctx context.Context, f domain.DeliveryFilter) ([]domain.Delivery, error)
}

// UserDirectory resolves the users referenced by a delivery.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// PriceQuoter prices an order server side.
type PriceQuoter interface {
	Quote(ctx context.Context, fuelType domain.FuelType, amount float64) (float64, error)
}

// EventPublisher announces applied status changes.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, e domain.StatusChange) error
}

// Factory mints identifiers and timestamps for new records.
type Factory interface {
	NewID() string
	Now() time.Time
}
