package broadcast

import (
	"fmt"
	"testing"

	"github.com/sentinova/backend/app/database"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	first, stopFirst := hub.Subscribe()
	defer stopFirst()
	second, stopSecond := hub.Subscribe()
	defer stopSecond()

	article := &database.Article{ID: "a1", Title: "Hello"}
	hub.Publish(article)

	for i, ch := range []<-chan *database.Article{first, second} {
		select {
		case got := <-ch:
			if got.ID != "a1" {
				t.Errorf("Subscriber %d got article %q, expected a1", i, got.ID)
			}
		default:
			t.Errorf("Subscriber %d received nothing", i)
		}
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()

	// must not block or panic
	hub.Publish(&database.Article{ID: "a1"})
}

func TestSlowSubscriberLosesOldest(t *testing.T) {
	hub := NewHub()

	ch, stop := hub.Subscribe()
	defer stop()

	total := subscriberBuffer + 3
	for i := 0; i < total; i++ {
		hub.Publish(&database.Article{ID: fmt.Sprintf("a%d", i)})
	}

	var received []string
	for {
		select {
		case article := <-ch:
			received = append(received, article.ID)
			continue
		default:
		}
		break
	}

	if len(received) != subscriberBuffer {
		t.Fatalf("Expected %d buffered articles, got %d", subscriberBuffer, len(received))
	}
	if received[0] != "a3" {
		t.Errorf("Expected oldest articles dropped, first received is %q", received[0])
	}
	if received[len(received)-1] != fmt.Sprintf("a%d", total-1) {
		t.Errorf("Expected newest article retained, last received is %q", received[len(received)-1])
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()

	ch, stop := hub.Subscribe()
	stop()
	stop() // idempotent

	if hub.SubscriberCount() != 0 {
		t.Errorf("Expected no subscribers, got %d", hub.SubscriberCount())
	}

	hub.Publish(&database.Article{ID: "a1"})

	if _, ok := <-ch; ok {
		t.Error("Expected closed channel after unsubscribe")
	}
}
