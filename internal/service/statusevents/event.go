package statusevents

import "time"

// Event is a single driver status report
type Event struct {
	DeliveryID string    `json:"delivery_id"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
