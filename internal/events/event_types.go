package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated      EventType = "user_created"
	EventUserUpdated      EventType = "user_updated"
	EventUserDeleted      EventType = "user_deleted"
	EventAnimationCreated EventType = "animation_created"
	EventAnimationUpdated EventType = "animation_updated"
	EventAnimationDeleted EventType = "animation_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID int64       `json:"resource_id"`
	Actor      string      `json:"actor,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, resourceID int64, actor string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		Actor:      actor,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// UserPayload describes a changed user. Never carries password material.
type UserPayload struct {
	Name            string `json:"name"`
	PasswordChanged bool   `json:"password_changed,omitempty"`
}

// AnimationPayload describes a changed animation.
type AnimationPayload struct {
	Name string `json:"name"`
}
