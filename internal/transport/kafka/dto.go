package kafka

import (
	"strings"
	"time"

	"fuel-delivery-service/internal/domain"
	"fuel-delivery-service/internal/service/statusevents"
)

// EventDTO is the wire form of a driver status report
type EventDTO struct {
	DeliveryID string    `json:"delivery_id"`
	Status     string    `json:"status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToDomain converts EventDTO to statusevents.Event
func ToDomain(dto EventDTO) statusevents.Event {
	return statusevents.Event{
		DeliveryID: strings.TrimSpace(dto.DeliveryID),
		Status:     strings.TrimSpace(dto.Status),
		ActorID:    strings.TrimSpace(dto.ActorID),
		OccurredAt: dto.OccurredAt,
	}
}

// StatusChangedDTO is published after every committed status transition.
type StatusChangedDTO struct {
	DeliveryID string    `json:"delivery_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ActorID    string    `json:"actor_id"`
	ChangedAt  time.Time `json:"changed_at"`
}

// FromStatusChange converts a domain.StatusChange to its wire form.
func FromStatusChange(c domain.StatusChange) StatusChangedDTO {
	return StatusChangedDTO{
		DeliveryID: c.DeliveryID,
		From:       string(c.From),
		To:         string(c.To),
		ActorID:    c.ActorID,
		ChangedAt:  c.ChangedAt.UTC(),
	}
}
