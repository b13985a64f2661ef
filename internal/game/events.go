package game

import (
	"sync"
	"time"
)

// EventType represents a session event type with type safety
type EventType string

// EventType constants for session domain events
const (
	EventTypeSessionCreated    EventType = "session_created"
	EventTypeParticipantJoined EventType = "participant_joined"
	EventTypeNumberDrawn       EventType = "number_drawn"
	EventTypeSessionEnded      EventType = "session_ended"
	EventTypeSessionCancelled  EventType = "session_cancelled"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is any notification emitted by a session operation.
type Event interface {
	EventType() EventType
	SessionID() uint64
	Timestamp() time.Time
}

// SessionCreatedEvent is published when a session opens its join window.
type SessionCreatedEvent struct {
	ID           uint64
	Creator      string
	EntryFee     int64
	JoinDuration time.Duration
	TurnDuration time.Duration
	StartTime    time.Time
	timestamp    time.Time
}

func (e SessionCreatedEvent) EventType() EventType { return EventTypeSessionCreated }
func (e SessionCreatedEvent) SessionID() uint64    { return e.ID }
func (e SessionCreatedEvent) Timestamp() time.Time { return e.timestamp }

// ParticipantJoinedEvent is published after a successful join.
type ParticipantJoinedEvent struct {
	ID          uint64
	Participant string
	Pot         int64
	timestamp   time.Time
}

func (e ParticipantJoinedEvent) EventType() EventType { return EventTypeParticipantJoined }
func (e ParticipantJoinedEvent) SessionID() uint64    { return e.ID }
func (e ParticipantJoinedEvent) Timestamp() time.Time { return e.timestamp }

// NumberDrawnEvent is published for every draw, including repeats.
type NumberDrawnEvent struct {
	ID        uint64
	Number    byte
	timestamp time.Time
}

func (e NumberDrawnEvent) EventType() EventType { return EventTypeNumberDrawn }
func (e NumberDrawnEvent) SessionID() uint64    { return e.ID }
func (e NumberDrawnEvent) Timestamp() time.Time { return e.timestamp }

// SessionEndedEvent is published exactly once, when the first valid claim
// wins the pot.
type SessionEndedEvent struct {
	ID        uint64
	Winner    string
	Pot       int64
	timestamp time.Time
}

func (e SessionEndedEvent) EventType() EventType { return EventTypeSessionEnded }
func (e SessionEndedEvent) SessionID() uint64    { return e.ID }
func (e SessionEndedEvent) Timestamp() time.Time { return e.timestamp }

// SessionCancelledEvent is published when a session is tombstoned.
type SessionCancelledEvent struct {
	ID        uint64
	timestamp time.Time
}

func (e SessionCancelledEvent) EventType() EventType { return EventTypeSessionCancelled }
func (e SessionCancelledEvent) SessionID() uint64    { return e.ID }
func (e SessionCancelledEvent) Timestamp() time.Time { return e.timestamp }

// Subscriber receives session events.
type Subscriber interface {
	OnEvent(Event)
}

// Bus fans session events out to subscribers. Publish is called while the
// originating session's lock is held, so subscribers must not call back into
// the session synchronously.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber for all future events.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish delivers the event to every subscriber in registration order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subscribers {
		s.OnEvent(e)
	}
}

// NullSubscriber is a no-op implementation.
type NullSubscriber struct{}

func (NullSubscriber) OnEvent(Event) {}
