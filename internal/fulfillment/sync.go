package fulfillment

import (
	"context"
	"time"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// StatusStore is the slice of the order store needed by the syncer
type StatusStore interface {
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
}

// Syncer subscribes to a hub and writes every status transition back to
// durable storage. A failed write is logged and not retried; the store
// simply stays behind until the order's next transition.
type Syncer struct {
	store  StatusStore
	logger *logger.Logger
	cancel func()
	done   chan struct{}
}

// StartSyncer subscribes to the hub and launches the background writer
func StartSyncer(hub *Hub, store StatusStore, log *logger.Logger) *Syncer {
	updates, cancel := hub.Subscribe()
	s := &Syncer{
		store:  store,
		logger: log,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(updates)
	return s
}

func (s *Syncer) run(updates <-chan models.StatusUpdate) {
	defer close(s.done)

	for update := range updates {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.store.UpdateOrderStatus(ctx, update.OrderID, update.NewStatus)
		cancel()

		if err != nil {
			s.logger.Error("status_sync_failed", "Failed to persist order status", "", err, map[string]interface{}{
				"order_id": update.OrderID,
				"status":   string(update.NewStatus),
			})
			continue
		}

		s.logger.Debug("status_synced", "Order status persisted", "", map[string]interface{}{
			"order_id": update.OrderID,
			"status":   string(update.NewStatus),
		})
	}
}

// Stop unsubscribes from the hub and waits for in-flight writes
func (s *Syncer) Stop() {
	s.cancel()
	<-s.done
}

// Wait blocks until the update stream has been closed
func (s *Syncer) Wait() {
	<-s.done
}
