package storage

import (
	"context"

	"restaurant-orders/internal/models"
)

// Store is the durable store consumed by the ordering core. Both the
// PostgreSQL implementation and the in-memory implementation used in
// tests satisfy it.
type Store interface {
	// AddDish persists a new dish and returns it with its generated id.
	AddDish(ctx context.Context, dish models.Dish) (models.Dish, error)

	// UpdateDish replaces the dish with the same id.
	// Returns models.ErrDishNotFound if no such dish exists.
	UpdateDish(ctx context.Context, dish models.Dish) error

	// DeleteDish removes the dish with the given id.
	// Returns models.ErrDishNotFound if no such dish exists.
	DeleteDish(ctx context.Context, id int64) error

	// GetDish returns the dish with the given id.
	// Returns models.ErrDishNotFound if no such dish exists.
	GetDish(ctx context.Context, id int64) (models.Dish, error)

	// ListDishes returns all dishes ordered by id.
	ListDishes(ctx context.Context) ([]models.Dish, error)

	// GetOrder returns the order with the given id including its lines.
	// Returns models.ErrOrderNotFound if no such order exists.
	GetOrder(ctx context.Context, id int64) (models.Order, error)

	// UpdateOrderStatus sets the status of the order with the given id.
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error

	// Reserve runs fn inside a single atomic unit. If fn returns an
	// error nothing it did is visible afterwards. Concurrent
	// reservations touching the same dishes serialize on the dish rows
	// fetched through ReservationTx.DishesForUpdate.
	Reserve(ctx context.Context, fn func(tx ReservationTx) error) error
}

// ReservationTx is the transactional view available while an order is
// being created.
type ReservationTx interface {
	// DishesForUpdate fetches the dishes with the given ids and locks
	// them for the remainder of the transaction. Missing ids are simply
	// absent from the result.
	DishesForUpdate(ctx context.Context, ids []int64) ([]models.Dish, error)

	// SetDishQuantity sets the remaining stock of a locked dish.
	SetDishQuantity(ctx context.Context, dishID int64, quantity int) error

	// InsertOrder persists a new order record and returns its id.
	InsertOrder(ctx context.Context, userID int64, status models.OrderStatus, specialRequest string) (int64, error)

	// InsertOrderLine persists a line of an order and returns its id.
	InsertOrderLine(ctx context.Context, orderID int64, line models.OrderLine) (int64, error)
}
