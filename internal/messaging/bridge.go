package messaging

import (
	"context"

	"restaurant-orders/internal/fulfillment"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Bridge subscribes to the fulfillment hub and forwards every status
// update to the notifications fanout exchange. Like the persistence
// sync it is best-effort: a failed publish is logged, never retried,
// and never blocks fulfillment.
type Bridge struct {
	publisher *Publisher
	logger    *logger.Logger
	cancel    func()
	done      chan struct{}
}

// StartBridge subscribes to the hub and launches the forwarder
func StartBridge(hub *fulfillment.Hub, publisher *Publisher, log *logger.Logger) *Bridge {
	updates, cancel := hub.Subscribe()
	b := &Bridge{
		publisher: publisher,
		logger:    log,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go b.run(updates)
	return b
}

func (b *Bridge) run(updates <-chan models.StatusUpdate) {
	defer close(b.done)

	for update := range updates {
		if err := b.publisher.PublishStatusUpdate(context.Background(), update); err != nil {
			b.logger.Error("notification_publish_failed", "Failed to forward status update", "", err, map[string]interface{}{
				"order_id": update.OrderID,
			})
		}
	}
}

// Stop unsubscribes from the hub and waits for the forwarder to finish
func (b *Bridge) Stop() {
	b.cancel()
	<-b.done
}
