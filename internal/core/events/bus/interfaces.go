package bus

import "time"

// Event types published by the world.
const (
	TypeCollision = "world.collision"
	TypeSpawn     = "world.spawn"
	TypeDespawn   = "world.despawn"
)

// EventBus is a thread-safe, in-process pub/sub bus. Handlers subscribe by
// event type and run in the publisher's goroutine in subscription order.
// Errors from several handlers are joined and returned from Publish.
// Handlers must not block; the world publishes between ticks.
type EventBus interface {
	Publish(event Event) error
	PublishBatch(events ...Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the given Subscription. It is safe to call with nil.
	Unsubscribe(Subscription) error
	Metrics() Metrics
}

// Event is an immutable message. Data holds the typed payload, e.g. a
// collision record.
type Event struct {
	Type      string
	Source    string
	Timestamp time.Time
	Frame     int64
	Data      any
}

type EventHandler func(event Event) error

// Subscription is a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Metrics are cumulative delivery counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	SubscribersActive uint64
}
