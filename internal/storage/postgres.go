package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/models"
)

// Postgres implements Store on top of the PostgreSQL connection pool
type Postgres struct {
	db *database.DB
}

// NewPostgres creates a PostgreSQL-backed store
func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

// AddDish persists a new dish
func (p *Postgres) AddDish(ctx context.Context, dish models.Dish) (models.Dish, error) {
	err := p.db.QueryRow(ctx, database.InsertDishSQL,
		dish.Name, dish.Description, dish.Quantity, dish.Price).Scan(&dish.ID)
	if err != nil {
		return models.Dish{}, fmt.Errorf("failed to insert dish: %w", err)
	}
	return dish, nil
}

// UpdateDish replaces the dish with the same id
func (p *Postgres) UpdateDish(ctx context.Context, dish models.Dish) error {
	tag, err := p.db.Pool.Exec(ctx, database.UpdateDishSQL,
		dish.ID, dish.Name, dish.Description, dish.Quantity, dish.Price)
	if err != nil {
		return fmt.Errorf("failed to update dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrDishNotFound
	}
	return nil
}

// DeleteDish removes the dish with the given id
func (p *Postgres) DeleteDish(ctx context.Context, id int64) error {
	tag, err := p.db.Pool.Exec(ctx, database.DeleteDishSQL, id)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrDishNotFound
	}
	return nil
}

// GetDish returns the dish with the given id
func (p *Postgres) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	var dish models.Dish
	err := p.db.QueryRow(ctx, database.GetDishSQL, id).Scan(
		&dish.ID, &dish.Name, &dish.Description, &dish.Quantity, &dish.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Dish{}, models.ErrDishNotFound
		}
		return models.Dish{}, fmt.Errorf("failed to query dish: %w", err)
	}
	return dish, nil
}

// ListDishes returns all dishes ordered by id
func (p *Postgres) ListDishes(ctx context.Context) ([]models.Dish, error) {
	rows, err := p.db.Query(ctx, database.ListDishesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query dishes: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var dish models.Dish
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Quantity, &dish.Price); err != nil {
			return nil, fmt.Errorf("failed to scan dish row: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

// GetOrder returns the order with the given id including its lines
func (p *Postgres) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	var order models.Order
	err := p.db.QueryRow(ctx, database.GetOrderSQL, id).Scan(
		&order.ID, &order.UserID, &order.Status, &order.SpecialRequest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Order{}, models.ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("failed to query order: %w", err)
	}

	rows, err := p.db.Query(ctx, database.GetOrderLinesSQL, id)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.DishID, &line.Quantity, &line.Price); err != nil {
			return models.Order{}, fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	return order, rows.Err()
}

// UpdateOrderStatus sets the status of the order with the given id
func (p *Postgres) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	tag, err := p.db.Pool.Exec(ctx, database.UpdateOrderStatusSQL, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrOrderNotFound
	}
	return nil
}

// Reserve runs fn inside a database transaction. Dish rows fetched via
// DishesForUpdate are locked until commit, so concurrent reservations
// for overlapping dish sets serialize at the database.
func (p *Postgres) Reserve(ctx context.Context, fn func(tx ReservationTx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// postgresTx implements ReservationTx over a pgx transaction
type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) DishesForUpdate(ctx context.Context, ids []int64) ([]models.Dish, error) {
	rows, err := t.tx.Query(ctx, database.GetDishesForUpdateSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock dish rows: %w", err)
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var dish models.Dish
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Quantity, &dish.Price); err != nil {
			return nil, fmt.Errorf("failed to scan dish row: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (t *postgresTx) SetDishQuantity(ctx context.Context, dishID int64, quantity int) error {
	_, err := t.tx.Exec(ctx, database.UpdateDishQuantitySQL, dishID, quantity)
	if err != nil {
		return fmt.Errorf("failed to update dish quantity: %w", err)
	}
	return nil
}

func (t *postgresTx) InsertOrder(ctx context.Context, userID int64, status models.OrderStatus, specialRequest string) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, database.InsertOrderSQL, userID, status, specialRequest).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order: %w", err)
	}
	return id, nil
}

func (t *postgresTx) InsertOrderLine(ctx context.Context, orderID int64, line models.OrderLine) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, database.InsertOrderLineSQL,
		orderID, line.DishID, line.Quantity, line.Price).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert order line: %w", err)
	}
	return id, nil
}
