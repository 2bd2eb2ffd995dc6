package fulfillment

import (
	"sync"
	"sync/atomic"
	"time"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Worker advances accepted orders through WAITING -> IN_PROGRESS ->
// COMPLETED, one order at a time, emitting every transition on its Hub.
// Orders may be submitted before Start; they are retained by the queue
// and processed once the worker runs.
type Worker struct {
	delay  time.Duration
	queue  *queue
	hub    *Hub
	logger *logger.Logger

	stop    chan struct{}
	done    chan struct{}
	started atomic.Bool

	startOnce sync.Once
	closeOnce sync.Once
}

// NewWorker creates a fulfillment worker. delay is the processing time
// simulated between the IN_PROGRESS and COMPLETED transitions.
func NewWorker(delay time.Duration, hub *Hub, log *logger.Logger) *Worker {
	return &Worker{
		delay:  delay,
		queue:  newQueue(),
		hub:    hub,
		logger: log,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Hub returns the worker's update hub
func (w *Worker) Hub() *Hub {
	return w.hub
}

// Submit queues an order for fulfillment. It never blocks the caller
// and never drops the order.
func (w *Worker) Submit(order models.Order) {
	w.queue.push(order)
	w.logger.Debug("order_queued", "Order queued for fulfillment", "", map[string]interface{}{
		"order_id":    order.ID,
		"queue_depth": w.queue.len(),
	})
}

// Start launches the background consumer. Calling Start more than once
// has no effect.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		w.started.Store(true)
		go w.run()
	})
}

func (w *Worker) run() {
	defer close(w.done)

	for {
		order, ok := w.queue.pop(w.stop)
		if !ok {
			return
		}

		// Only WAITING orders enter the lifecycle.
		if order.Status != models.StatusWaiting {
			w.logger.Debug("order_skipped", "Skipping order not in WAITING status", "", map[string]interface{}{
				"order_id": order.ID,
				"status":   string(order.Status),
			})
			continue
		}

		w.transition(&order, models.StatusInProgress)

		select {
		case <-time.After(w.delay):
		case <-w.stop:
			// Shutdown mid-delay abandons the pending COMPLETED
			// transition; the order stays IN_PROGRESS.
			return
		}

		w.transition(&order, models.StatusCompleted)
	}
}

func (w *Worker) transition(order *models.Order, status models.OrderStatus) {
	oldStatus := order.Status
	order.Status = status
	w.hub.Publish(models.NewStatusUpdate(*order, oldStatus, status))

	w.logger.Debug("order_transitioned", "Order status advanced", "", map[string]interface{}{
		"order_id":   order.ID,
		"old_status": string(oldStatus),
		"new_status": string(status),
	})
}

// Close stops the consumer, waits for it to release the current order
// and closes the hub so no further updates can be emitted. Calling
// Close more than once has no effect.
func (w *Worker) Close() {
	w.closeOnce.Do(func() {
		close(w.stop)
		if w.started.Load() {
			<-w.done
		}
		w.hub.Close()
	})
}
