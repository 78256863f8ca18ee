// Package broadcast provides a fan-out hub for freshly ingested articles.
//
// Publishing is best-effort and never blocks: each subscriber has a small
// buffer and loses its oldest pending article when the buffer is full. There
// is no replay, a new subscriber only sees articles published after it
// joined.
package broadcast

import (
	"sync"

	"github.com/sentinova/backend/app/database"
)

const subscriberBuffer = 16

type Hub struct {
	mu          sync.Mutex
	subscribers map[int]chan *database.Article
	nextID      int
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[int]chan *database.Article)}
}

// Subscribe registers a new subscriber and returns its channel together with
// an unsubscribe function. Unsubscribing closes the channel and is safe to
// call more than once.
func (h *Hub) Subscribe() (<-chan *database.Article, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan *database.Article, subscriberBuffer)
	h.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers, id)
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish delivers the article to every current subscriber. A subscriber
// whose buffer is full loses its oldest pending article to make room.
func (h *Hub) Publish(article *database.Article) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- article:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- article:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
