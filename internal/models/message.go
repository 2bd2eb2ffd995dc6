package models

import "time"

// StatusUpdate represents a single order status transition emitted
// by the fulfillment worker.
type StatusUpdate struct {
	OrderID   int64       `json:"order_id"`
	UserID    int64       `json:"user_id"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewStatusUpdate creates a StatusUpdate for an order transition
func NewStatusUpdate(order Order, oldStatus, newStatus OrderStatus) StatusUpdate {
	return StatusUpdate{
		OrderID:   order.ID,
		UserID:    order.UserID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Timestamp: time.Now().UTC(),
	}
}
