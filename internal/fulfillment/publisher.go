package fulfillment

import (
	"sync"

	"restaurant-orders/internal/models"
)

// subscriberBuffer softens bursts; once it is full the hub blocks
// rather than dropping a transition.
const subscriberBuffer = 64

// Hub multicasts status updates to every live subscriber. It is a hot
// stream: a listener only sees transitions emitted after it subscribed.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan models.StatusUpdate
	nextID int
	closed bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan models.StatusUpdate)}
}

// Subscribe registers a listener and returns its update channel along
// with a cancel function. The listener must keep draining the channel
// until cancel returns or the channel is closed.
func (h *Hub) Subscribe() (<-chan models.StatusUpdate, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	updates := make(chan models.StatusUpdate, subscriberBuffer)
	if h.closed {
		close(updates)
		return updates, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = updates

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if ch, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(ch)
		}
	}
	return updates, cancel
}

// Publish delivers the update to every current subscriber, preserving
// per-subscriber emission order. Publishing to a closed hub is a no-op.
func (h *Hub) Publish(update models.StatusUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs {
		ch <- update
	}
}

// Close makes the hub unavailable to further emission and closes every
// subscriber channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
