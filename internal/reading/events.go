package reading

import (
	"sync"
	"time"
)

// EventType identifies a pipeline stage transition.
type EventType string

const (
	EventTranslating    EventType = "translating"
	EventClassifying    EventType = "classifying"
	EventCacheHit       EventType = "cache_hit"
	EventGenerating     EventType = "generating"
	EventContextUpdated EventType = "context_updated"
	EventFormatted      EventType = "formatted"
	EventFailed         EventType = "failed"
)

// Event is one pipeline stage notification.
type Event struct {
	Type      EventType
	Timestamp time.Time
	SessionID string
	Data      map[string]interface{}
}

// EventHandler is a function that handles events.
type EventHandler func(Event)

// Bus fans pipeline events out to subscribers. The TUI subscribes to show
// stage progress; the reader publishes and never blocks on consumers.
type Bus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]EventHandler
	allHandlers []EventHandler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for all event types.
func (b *Bus) SubscribeAll(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish sends an event to all registered handlers.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if handlers, ok := b.handlers[event.Type]; ok {
		for _, handler := range handlers {
			handler(event)
		}
	}

	for _, handler := range b.allHandlers {
		handler(event)
	}
}
