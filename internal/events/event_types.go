package events

import (
	"time"

	"github.com/spec-kit/flat-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventFlatCreated    EventType = "flat_created"
	EventFlatApproved   EventType = "flat_approved"
	EventFlatSold       EventType = "flat_sold"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// FlatCreatedPayload payload.
type FlatCreatedPayload struct {
	FlatID     string `json:"flat_id"`
	Title      string `json:"title"`
	ImageCount int    `json:"image_count"`
}

// FlatStatusPayload covers both approval and sale transitions.
type FlatStatusPayload struct {
	FlatID    string            `json:"flat_id"`
	OldStatus domain.FlatStatus `json:"old_status"`
	NewStatus domain.FlatStatus `json:"new_status"`
	BuyerID   *string           `json:"buyer_id,omitempty"`
}
