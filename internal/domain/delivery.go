package domain

import (
	"math"
	"strings"
	"time"

	"fuel-delivery-service/internal/apperr"
)

type (
	// DeliveryStatus represents the status of a delivery.
	DeliveryStatus string
	// FuelType represents the ordered fuel grade.
	FuelType string
)

// Bounds of the stored numeric columns.
const (
	// MaxAmount is the largest single order in liters.
	MaxAmount = 100_000
	// MaxRatePerLiter is the largest publishable fuel rate.
	MaxRatePerLiter = 1_000_000
	// MaxPrice is the largest storable order price.
	MaxPrice = 999_999_999_999.99
)

// Delivery represents a fuel delivery order.
// StatusUpdatedBy and StatusChangedAt are nil until the first status change.
type Delivery struct {
	ID              string
	DriverID        string
	ClientID        string
	FuelType        FuelType
	Amount          float64
	Price           float64
	Address         string
	Status          DeliveryStatus
	StatusUpdatedBy *string
	StatusChangedAt *time.Time
	DeliveryDate    time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDeliveryParams carries the caller-supplied fields of a new delivery.
type NewDeliveryParams struct {
	DriverID     string
	ClientID     string
	FuelType     FuelType
	Amount       float64
	Price        float64
	Address      string
	DeliveryDate time.Time
}

// Actor is the user performing an operation, recorded for audit.
type Actor struct {
	ID   string
	Role Role
}

// DeliveryFilter narrows a delivery listing. Empty fields do not filter.
type DeliveryFilter struct {
	Status   *DeliveryStatus
	ClientID string
	DriverID string
	Limit    *int
	Offset   *int
}

// StatusChange is the audit record of a successful transition.
type StatusChange struct {
	DeliveryID string
	From       DeliveryStatus
	To         DeliveryStatus
	ActorID    string
	ChangedAt  time.Time
}

// NewDelivery validates p and returns a Pending delivery created at now.
// The ID is assigned by the caller before persisting.
func NewDelivery(p NewDeliveryParams, now time.Time) (Delivery, error) {
	driverID := strings.TrimSpace(p.DriverID)
	clientID := strings.TrimSpace(p.ClientID)
	address := strings.TrimSpace(p.Address)
	amount := QuantizeAmount(p.Amount)

	switch {
	case driverID == "":
		return Delivery{}, apperr.Invalid("driverId", "is required")
	case clientID == "":
		return Delivery{}, apperr.Invalid("clientId", "is required")
	case !p.FuelType.Valid():
		return Delivery{}, apperr.Invalid("fuelType", "must be one of 93, 95, diesel")
	case !finite(p.Amount) || p.Amount <= 0:
		return Delivery{}, apperr.Invalid("amount", "must be positive")
	case amount <= 0:
		return Delivery{}, apperr.Invalid("amount", "must be at least 0.001")
	case amount > MaxAmount:
		return Delivery{}, apperr.Invalid("amount", "must not exceed 100000")
	case address == "":
		return Delivery{}, apperr.Invalid("address", "is required")
	case p.DeliveryDate.IsZero():
		return Delivery{}, apperr.Invalid("deliveryDate", "is required")
	}
	if err := CheckPrice(p.Price); err != nil {
		return Delivery{}, err
	}

	return Delivery{
		DriverID:     driverID,
		ClientID:     clientID,
		FuelType:     p.FuelType,
		Amount:       amount,
		Price:        p.Price,
		Address:      address,
		Status:       StatusPending,
		DeliveryDate: p.DeliveryDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Transition returns a copy of d moved to status to, stamped with actor and now.
// d itself is never modified.
func (d Delivery) Transition(to DeliveryStatus, actor Actor, now time.Time) (Delivery, error) {
	if !to.Valid() {
		return Delivery{}, apperr.Invalid("status", "must be one of Pending, Completed, Cancelled")
	}
	actorID := strings.TrimSpace(actor.ID)
	if actorID == "" {
		return Delivery{}, apperr.Invalid("actor", "is required")
	}
	if !CanTransition(d.Status, to) {
		return Delivery{}, apperr.Transition(string(d.Status), string(to))
	}

	changedAt := now
	next := d
	next.Status = to
	next.StatusUpdatedBy = &actorID
	next.StatusChangedAt = &changedAt
	next.UpdatedAt = now
	return next, nil
}

// QuantizeAmount rounds liters to the stored three decimals.
func QuantizeAmount(liters float64) float64 {
	return math.Round(liters*1000) / 1000
}

// CheckPrice reports a validation error for prices outside [0, MaxPrice].
func CheckPrice(price float64) error {
	switch {
	case !finite(price) || price < 0:
		return apperr.Invalid("price", "must not be negative")
	case price > MaxPrice:
		return apperr.Invalid("price", "exceeds the maximum order price")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
