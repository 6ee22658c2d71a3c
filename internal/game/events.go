package game

import (
	"sync"
	"time"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeHandStart    EventType = "hand_start"
	EventTypeHandEnd      EventType = "hand_end"
	EventTypeStreetChange EventType = "street_change"
	EventTypePlayerAction EventType = "player_action"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent is published after every state change. Each event carries the
// snapshot taken immediately after the change.
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
	State() Snapshot
}

// HandStartEvent is published when a new hand has been dealt and blinds posted
type HandStartEvent struct {
	Snapshot    Snapshot
	Replenished bool
	timestamp   time.Time
}

func (e HandStartEvent) EventType() EventType { return EventTypeHandStart }
func (e HandStartEvent) Timestamp() time.Time { return e.timestamp }
func (e HandStartEvent) State() Snapshot      { return e.Snapshot }

// PlayerActionEvent is published when a player's action has been applied
type PlayerActionEvent struct {
	Seat      Seat
	Action    Action
	Amount    int // chips moved into the pot, or the raise target for Raise
	Rationale string
	Snapshot  Snapshot
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }
func (e PlayerActionEvent) State() Snapshot      { return e.Snapshot }

// StreetChangeEvent is published when new community cards are dealt
type StreetChangeEvent struct {
	Street    Street
	Snapshot  Snapshot
	timestamp time.Time
}

func (e StreetChangeEvent) EventType() EventType { return EventTypeStreetChange }
func (e StreetChangeEvent) Timestamp() time.Time { return e.timestamp }
func (e StreetChangeEvent) State() Snapshot      { return e.Snapshot }

// HandEndEvent is published once the pot has been awarded
type HandEndEvent struct {
	Result    Result
	Snapshot  Snapshot
	timestamp time.Time
}

func (e HandEndEvent) EventType() EventType { return EventTypeHandEnd }
func (e HandEndEvent) Timestamp() time.Time { return e.timestamp }
func (e HandEndEvent) State() Snapshot      { return e.Snapshot }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// FuncSubscriber adapts a function to EventSubscriber.
type FuncSubscriber func(event GameEvent)

// OnEvent implements EventSubscriber.
func (f FuncSubscriber) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Events are
// delivered synchronously in subscription order.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. FuncSubscribers
// are not comparable and cannot be unsubscribed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := bus.subscribers
	bus.mu.RUnlock()
	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
