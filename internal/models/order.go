package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	StatusWaiting    OrderStatus = "WAITING"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
)

// OrderLine represents a single dish position within an order.
// Quantity and price are frozen at reservation time.
type OrderLine struct {
	ID       int64           `json:"id,omitempty" db:"id"`
	DishID   int64           `json:"dish_id" db:"dish_id"`
	Quantity int             `json:"quantity" db:"quantity"`
	Price    decimal.Decimal `json:"price" db:"price"`
}

// Order represents a customer order
type Order struct {
	ID             int64       `json:"id,omitempty" db:"id"`
	UserID         int64       `json:"user_id" db:"user_id"`
	Status         OrderStatus `json:"status" db:"status"`
	SpecialRequest string      `json:"special_request" db:"special_request"`
	Lines          []OrderLine `json:"order_dishes"`
}

// OrderLineRequest represents a requested dish position
type OrderLineRequest struct {
	DishID   int64 `json:"dish_id"`
	Quantity int   `json:"quantity"`
}

// CreateOrderRequest represents the request to create a new order
type CreateOrderRequest struct {
	UserID         int64              `json:"user_id"`
	SpecialRequest string             `json:"special_request"`
	Lines          []OrderLineRequest `json:"order_dishes"`
}

// Validate validates the create order request
func (req *CreateOrderRequest) Validate() error {
	if req.UserID <= 0 {
		return fmt.Errorf("user_id is required")
	}
	if len(req.Lines) == 0 {
		return fmt.Errorf("order_dishes cannot be empty")
	}
	for i, line := range req.Lines {
		if line.DishID <= 0 {
			return fmt.Errorf("order_dishes[%d].dish_id is required", i)
		}
		if line.Quantity < 1 {
			return fmt.Errorf("order_dishes[%d].quantity must be positive", i)
		}
	}
	return nil
}

// AggregateDemand sums requested quantities per dish id. An order may
// reference the same dish in several lines; availability is checked
// against the sum, not against each line.
func AggregateDemand(lines []OrderLineRequest) map[int64]int {
	demand := make(map[int64]int, len(lines))
	for _, line := range lines {
		demand[line.DishID] += line.Quantity
	}
	return demand
}
