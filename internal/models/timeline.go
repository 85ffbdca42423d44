package models

import "time"

// TimelineEvent is one entry in a round's append-only activity log.
// Events are never mutated after insertion.
type TimelineEvent struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// RoundID is the round the event belongs to.
	RoundID string

	// UserID is the acting user, empty for system events.
	UserID string

	// EventType tags the payload shape, e.g. "member_joined".
	EventType string

	// EventData is the JSON-encoded payload for this event type.
	EventData []byte

	// CreatedAt orders the timeline.
	CreatedAt time.Time
}
