package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// EventType identifies a state-changing operation.
type EventType string

const (
	CourseCreated      EventType = "course.created"
	CourseUpdated      EventType = "course.updated"
	CourseDeleted      EventType = "course.deleted"
	SelectionCreated   EventType = "selection.created"
	SelectionConfirmed EventType = "selection.confirmed"
	SelectionCancelled EventType = "selection.cancelled"
	SelectionDeleted   EventType = "selection.deleted"
)

// Event is the audit record emitted for every state-changing operation.
// Persistence of the trail is the subscriber's responsibility.
type Event struct {
	ID         uuid.UUID              `json:"id"`
	Type       EventType              `json:"type"`
	ActorID    int64                  `json:"actorId,omitempty"` // Authenticated user, 0 for system actions
	EntityID   int64                  `json:"entityId"`
	Before     map[string]interface{} `json:"before,omitempty"`
	After      map[string]interface{} `json:"after,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// Publisher receives domain events. Implementations must not block the
// calling operation; a failed publish never fails the write it describes.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// New builds an event with a fresh ID and timestamp.
func New(eventType EventType, actorID, entityID int64) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		ActorID:    actorID,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithBefore attaches the pre-operation snapshot fields.
func (e Event) WithBefore(before map[string]interface{}) Event {
	e.Before = before
	return e
}

// WithAfter attaches the post-operation snapshot fields.
func (e Event) WithAfter(after map[string]interface{}) Event {
	e.After = after
	return e
}

// LogPublisher writes events to the structured log. It is the default
// subscriber when no external audit sink is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a publisher backed by the given logger.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(_ context.Context, event Event) {
	p.logger.Info().
		Str("eventId", event.ID.String()).
		Str("eventType", string(event.Type)).
		Int64("actorId", event.ActorID).
		Int64("entityId", event.EntityID).
		Interface("before", event.Before).
		Interface("after", event.After).
		Time("occurredAt", event.OccurredAt).
		Msg("audit event")
}

// NopPublisher discards all events. Used in tests and seed tooling.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, Event) {}
