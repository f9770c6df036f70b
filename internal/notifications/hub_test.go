package notifications

import (
	"testing"

	"github.com/google/uuid"
)

// TestPublishDeliversToSubscriber проверяет доставку события подписчику.
func TestPublishDeliversToSubscriber(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	tripID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	hub.Publish(userID, Event{Type: EventItineraryGenerated, TripID: tripID})

	select {
	case event := <-ch:
		if event.Type != EventItineraryGenerated || event.TripID != tripID {
			t.Fatalf("unexpected event: %+v", event)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	default:
		t.Fatal("expected event in channel")
	}
}

// TestPublishScopesToUser проверяет изоляцию событий между пользователями.
func TestPublishScopesToUser(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe(uuid.New())
	defer unsubscribe()

	hub.Publish(uuid.New(), Event{Type: EventTripUpdated})

	select {
	case event := <-ch:
		t.Fatalf("expected no event, got %+v", event)
	default:
	}
}

// TestUnsubscribeClosesChannel проверяет закрытие канала при отписке.
func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}

	// Публикация после отписки не должна паниковать.
	hub.Publish(userID, Event{Type: EventExpenseChanged})
}

// TestPublishDropsWhenFull проверяет, что медленный подписчик не блокирует отправку.
func TestPublishDropsWhenFull(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	_, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	for i := 0; i < 20; i++ {
		hub.Publish(userID, Event{Type: EventExpenseChanged})
	}
}
