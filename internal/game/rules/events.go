package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a rules event. The values double as
// the tags of the match's action history.
type EventType string

const (
	EventTurn        EventType = "turn"
	EventKill        EventType = "kill"
	EventCivilian    EventType = "civilian"
	EventInterrogate EventType = "interrogate"
	EventShift       EventType = "shift"
	EventElimination EventType = "elimination"
	// EventGameOver is published once when a match ends. It never appears in
	// the action history.
	EventGameOver EventType = "game_over"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type      EventType
	ID        string // Unique event ID
	PlayerID  string // Acting player, or the winner for EventGameOver
	TargetID  string // Affected player, if any
	Message   string // Human-readable description
	Timestamp time.Time
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu        sync.RWMutex
	listeners []Listener
	typed     map[EventType][]Listener
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		typed: make(map[EventType][]Listener),
	}
}

// Subscribe registers a listener for all events. Nil listeners are ignored.
func (bus *EventBus) Subscribe(listener Listener) {
	if listener == nil {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listeners = append(bus.listeners, listener)
}

// SubscribeTyped registers a listener for a single event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) {
	if listener == nil {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.typed[eventType] = append(bus.typed[eventType], listener)
}

// Publish delivers the event synchronously, catch-all listeners first, each
// group in subscription order. Listeners must not subscribe from within the
// callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typed[event.Type] {
		listener(event)
	}
}
