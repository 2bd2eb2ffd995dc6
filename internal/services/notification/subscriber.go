package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/messaging"
	"restaurant-orders/internal/models"
)

// Subscriber consumes order status updates from the notifications
// fanout and displays them.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
	}
}

// Start starts consuming notifications until the context is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	return s.consumer.StartConsuming(ctx, s.handleNotification)
}

// handleNotification processes a single status update message
func (s *Subscriber) handleNotification(_ context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var update models.StatusUpdate
	if err := json.Unmarshal(body, &update); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse notification message", requestID, err, nil)
		return fmt.Errorf("failed to parse notification: %w", err)
	}

	fmt.Println(formatNotification(update))

	s.logger.Debug("notification_displayed", "Notification displayed", requestID, map[string]interface{}{
		"order_id":   update.OrderID,
		"old_status": string(update.OldStatus),
		"new_status": string(update.NewStatus),
	})
	return nil
}

// formatNotification creates a human-readable notification line
func formatNotification(update models.StatusUpdate) string {
	timestamp := update.Timestamp.Format("2006-01-02 15:04:05")

	switch update.NewStatus {
	case models.StatusInProgress:
		return fmt.Sprintf("[%s] Order %d is now being prepared.", timestamp, update.OrderID)
	case models.StatusCompleted:
		return fmt.Sprintf("[%s] Order %d is completed and ready!", timestamp, update.OrderID)
	default:
		return fmt.Sprintf("[%s] Order %d status changed from '%s' to '%s'.",
			timestamp, update.OrderID, update.OldStatus, update.NewStatus)
	}
}

// Close stops the underlying consumer
func (s *Subscriber) Close() error {
	if s.consumer != nil {
		return s.consumer.Close()
	}
	return nil
}
