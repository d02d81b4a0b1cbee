package reading

import (
	"testing"
	"time"
)

func TestBus_Subscribe(t *testing.T) {
	bus := NewBus()

	var hits []string
	bus.Subscribe(EventCacheHit, func(e Event) {
		hits = append(hits, e.SessionID)
	})

	bus.Publish(Event{Type: EventCacheHit, SessionID: "s1"})
	bus.Publish(Event{Type: EventGenerating, SessionID: "s1"})
	bus.Publish(Event{Type: EventCacheHit, SessionID: "s2"})

	if len(hits) != 2 {
		t.Fatalf("expected 2 cache_hit deliveries, got %d", len(hits))
	}
	if hits[0] != "s1" || hits[1] != "s2" {
		t.Errorf("unexpected session order: %v", hits)
	}
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := NewBus()

	var count int
	bus.SubscribeAll(func(e Event) { count++ })

	bus.Publish(Event{Type: EventTranslating})
	bus.Publish(Event{Type: EventFormatted})

	if count != 2 {
		t.Errorf("expected 2 deliveries, got %d", count)
	}
}

func TestBus_TimestampDefaulted(t *testing.T) {
	bus := NewBus()

	var got Event
	bus.SubscribeAll(func(e Event) { got = e })

	bus.Publish(Event{Type: EventGenerating})
	if got.Timestamp.IsZero() {
		t.Error("expected a defaulted timestamp")
	}

	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bus.Publish(Event{Type: EventGenerating, Timestamp: fixed})
	if !got.Timestamp.Equal(fixed) {
		t.Errorf("expected explicit timestamp preserved, got %v", got.Timestamp)
	}
}

func TestBus_NoSubscribers(t *testing.T) {
	bus := NewBus()
	// Publishing with nobody listening must not panic.
	bus.Publish(Event{Type: EventFailed, SessionID: "s1"})
}
