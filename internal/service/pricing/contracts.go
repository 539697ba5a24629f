//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=pricing_test

package pricing

import (
	"context"

	"fuel-delivery-service/internal/domain"
)

// PriceRepository stores per-liter fuel rates.
type PriceRepository interface {
	Get(ctx context.Context, fuelType domain.FuelType) (*domain.FuelPrice, error)
	List(ctx context.Context) ([]domain.FuelPrice, error)
	Upsert(ctx context.Context, p domain.FuelPrice) error
}
