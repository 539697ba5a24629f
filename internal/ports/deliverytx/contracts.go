package deliverytx

import (
	"context"

	"fuel-delivery-service/internal/domain"
)

// Repository is the delivery storage visible inside a transaction.
type Repository interface {
	// GetForUpdate locks the row; (nil, nil) when it does not exist.
	GetForUpdate(ctx context.Context, id string) (*domain.Delivery, error)
	// UpdateStatus writes d only while the stored status still equals from.
	// It reports false when no row matched.
	UpdateStatus(ctx context.Context, d domain.Delivery, from domain.DeliveryStatus) (bool, error)
}

// Runner is a transaction runner
type Runner interface {
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}
