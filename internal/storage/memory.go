package storage

import (
	"context"
	"sync"

	"restaurant-orders/internal/models"
)

// Memory is an in-memory Store guarded by a single mutex. Reservations
// run on a copy of the state and the copy replaces the live state only
// when the whole unit succeeds, so a failed reservation leaves nothing
// behind. It backs tests and local runs without PostgreSQL.
type Memory struct {
	mu sync.Mutex

	dishes map[int64]models.Dish
	orders map[int64]models.Order

	nextDishID  int64
	nextOrderID int64
	nextLineID  int64
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		dishes: make(map[int64]models.Dish),
		orders: make(map[int64]models.Order),
	}
}

// AddDish persists a new dish
func (m *Memory) AddDish(_ context.Context, dish models.Dish) (models.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextDishID++
	dish.ID = m.nextDishID
	m.dishes[dish.ID] = dish
	return dish, nil
}

// UpdateDish replaces the dish with the same id
func (m *Memory) UpdateDish(_ context.Context, dish models.Dish) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dishes[dish.ID]; !ok {
		return models.ErrDishNotFound
	}
	m.dishes[dish.ID] = dish
	return nil
}

// DeleteDish removes the dish with the given id
func (m *Memory) DeleteDish(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dishes[id]; !ok {
		return models.ErrDishNotFound
	}
	delete(m.dishes, id)
	return nil
}

// GetDish returns the dish with the given id
func (m *Memory) GetDish(_ context.Context, id int64) (models.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dish, ok := m.dishes[id]
	if !ok {
		return models.Dish{}, models.ErrDishNotFound
	}
	return dish, nil
}

// ListDishes returns all dishes ordered by id
func (m *Memory) ListDishes(_ context.Context) ([]models.Dish, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dishes := make([]models.Dish, 0, len(m.dishes))
	for id := int64(1); id <= m.nextDishID; id++ {
		if dish, ok := m.dishes[id]; ok {
			dishes = append(dishes, dish)
		}
	}
	return dishes, nil
}

// GetOrder returns the order with the given id including its lines
func (m *Memory) GetOrder(_ context.Context, id int64) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[id]
	if !ok {
		return models.Order{}, models.ErrOrderNotFound
	}
	order.Lines = append([]models.OrderLine(nil), order.Lines...)
	return order, nil
}

// UpdateOrderStatus sets the status of the order with the given id
func (m *Memory) UpdateOrderStatus(_ context.Context, orderID int64, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderID]
	if !ok {
		return models.ErrOrderNotFound
	}
	order.Status = status
	m.orders[orderID] = order
	return nil
}

// Reserve runs fn against a staged copy of the store state. Holding the
// store mutex for the whole unit linearizes concurrent reservations.
func (m *Memory) Reserve(ctx context.Context, fn func(tx ReservationTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		dishes:      make(map[int64]models.Dish, len(m.dishes)),
		orders:      make(map[int64]models.Order, len(m.orders)),
		nextOrderID: m.nextOrderID,
		nextLineID:  m.nextLineID,
	}
	for id, dish := range m.dishes {
		tx.dishes[id] = dish
	}
	for id, order := range m.orders {
		tx.orders[id] = order
	}

	if err := fn(tx); err != nil {
		return err
	}

	m.dishes = tx.dishes
	m.orders = tx.orders
	m.nextOrderID = tx.nextOrderID
	m.nextLineID = tx.nextLineID
	return nil
}

// memoryTx implements ReservationTx over staged copies of the maps
type memoryTx struct {
	dishes map[int64]models.Dish
	orders map[int64]models.Order

	nextOrderID int64
	nextLineID  int64
}

func (t *memoryTx) DishesForUpdate(_ context.Context, ids []int64) ([]models.Dish, error) {
	var dishes []models.Dish
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if dish, ok := t.dishes[id]; ok {
			dishes = append(dishes, dish)
		}
	}
	return dishes, nil
}

func (t *memoryTx) SetDishQuantity(_ context.Context, dishID int64, quantity int) error {
	dish, ok := t.dishes[dishID]
	if !ok {
		return models.ErrDishNotFound
	}
	dish.Quantity = quantity
	t.dishes[dishID] = dish
	return nil
}

func (t *memoryTx) InsertOrder(_ context.Context, userID int64, status models.OrderStatus, specialRequest string) (int64, error) {
	t.nextOrderID++
	t.orders[t.nextOrderID] = models.Order{
		ID:             t.nextOrderID,
		UserID:         userID,
		Status:         status,
		SpecialRequest: specialRequest,
	}
	return t.nextOrderID, nil
}

func (t *memoryTx) InsertOrderLine(_ context.Context, orderID int64, line models.OrderLine) (int64, error) {
	order, ok := t.orders[orderID]
	if !ok {
		return 0, models.ErrOrderNotFound
	}
	t.nextLineID++
	line.ID = t.nextLineID
	order.Lines = append(order.Lines, line)
	t.orders[orderID] = order
	return line.ID, nil
}
