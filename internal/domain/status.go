package domain

import "strings"

// List of delivery statuses
const (
	StatusPending   DeliveryStatus = "Pending"
	StatusCompleted DeliveryStatus = "Completed"
	StatusCancelled DeliveryStatus = "Cancelled"
)

// List of fuel types
const (
	FuelType93     FuelType = "93"
	FuelType95     FuelType = "95"
	FuelTypeDiesel FuelType = "diesel"
)

var allowedStatuses = [...]DeliveryStatus{
	StatusPending, StatusCompleted, StatusCancelled,
}

var allowedFuelTypes = [...]FuelType{
	FuelType93, FuelType95, FuelTypeDiesel,
}

// transitions lists every permitted edge of the status workflow.
// Pending is the only source; terminal statuses have no outgoing edges.
var transitions = map[DeliveryStatus][]DeliveryStatus{
	StatusPending: {StatusCompleted, StatusCancelled},
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition may leave s.
func (s DeliveryStatus) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether the workflow allows from -> to.
func CanTransition(from, to DeliveryStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus maps a case-insensitive status name to a DeliveryStatus.
// "canceled" is accepted as an alias of Cancelled.
func ParseDeliveryStatus(s string) (DeliveryStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, true
	case "completed":
		return StatusCompleted, true
	case "cancelled", "canceled":
		return StatusCancelled, true
	default:
		return "", false
	}
}

// Valid checks if the FuelType is valid
func (f FuelType) Valid() bool {
	for _, v := range allowedFuelTypes {
		if f == v {
			return true
		}
	}
	return false
}

// FuelTypes returns the supported fuel types in display order.
func FuelTypes() []FuelType {
	out := make([]FuelType, len(allowedFuelTypes))
	copy(out, allowedFuelTypes[:])
	return out
}
