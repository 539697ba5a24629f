//go:generate mockgen -source=contracts.go -destination=mocks_test.go -package=statusevents_test

package statusevents

import (
	"context"

	"fuel-delivery-service/internal/domain"
)

// DeliveryPort abstracts the subset of delivery service operations
// needed by the Processor when applying driver status events
type DeliveryPort interface {
	Transition(ctx context.Context, id string, to domain.DeliveryStatus, actor domain.Actor) (domain.Delivery, error)
}
