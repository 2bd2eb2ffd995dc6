package fulfillment

import (
	"sync"

	"restaurant-orders/internal/models"
)

// queue is an unbounded FIFO hand-off between order submission and the
// worker. push never blocks and never drops; orders pushed before the
// consumer starts are retained.
type queue struct {
	mu    sync.Mutex
	items []models.Order
	wake  chan struct{}
}

func newQueue() *queue {
	return &queue{wake: make(chan struct{}, 1)}
}

func (q *queue) push(order models.Order) {
	q.mu.Lock()
	q.items = append(q.items, order)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// pop blocks until an order is available or stop is closed.
func (q *queue) pop(stop <-chan struct{}) (models.Order, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			order := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return order, true
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-stop:
			return models.Order{}, false
		}
	}
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
