// Package events defines the notification sink boundary. Publishing happens
// only after the mutating transaction commits and is fire-and-forget: a sink
// failure never rolls back or fails the mutation.
package events

import "github.com/google/uuid"

// Type of a change notification
type Type string

const (
	EntityChanged  Type = "entity_changed"
	HistoryChanged Type = "history_changed"
)

// Event is the payload delivered to connected listeners.
type Event struct {
	Type     Type       `json:"type"`
	EntityID *uuid.UUID `json:"entity_id,omitempty"`
	Action   string     `json:"action,omitempty"`
	Actor    string     `json:"actor,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// Publisher is injected into services so the core stays testable with a
// no-op or recording sink.
type Publisher interface {
	Publish(evt Event)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
