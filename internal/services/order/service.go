package order

import (
	"context"
	"fmt"
	"sort"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/storage"
)

// Fulfiller accepts committed orders for asynchronous processing
type Fulfiller interface {
	Submit(order models.Order)
}

// Service implements the reservation engine: it atomically checks and
// decrements dish stock, persists new orders and hands them off for
// fulfillment.
type Service struct {
	store     storage.Store
	fulfiller Fulfiller
	logger    *logger.Logger
}

// NewService creates an order service
func NewService(store storage.Store, fulfiller Fulfiller, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		fulfiller: fulfiller,
		logger:    log,
	}
}

// CreateOrder reserves stock for the requested lines and persists the
// new order with status WAITING. Availability is checked against the
// aggregated demand per dish, so several lines referencing the same
// dish count as their sum. The check, the order insert and the stock
// decrement form one atomic unit; the order is handed to the
// fulfillment queue only after that unit has committed.
//
// Returns models.ErrDishesNotEnough if any referenced dish is unknown
// or its aggregated demand exceeds current stock.
func (s *Service) CreateOrder(ctx context.Context, userID int64, specialRequest string, lines []models.OrderLineRequest) (models.Order, error) {
	demand := models.AggregateDemand(lines)
	ids := make([]int64, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var created models.Order
	err := s.store.Reserve(ctx, func(tx storage.ReservationTx) error {
		dishes, err := tx.DishesForUpdate(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to fetch dishes: %w", err)
		}
		if len(dishes) < len(ids) {
			return models.ErrDishesNotEnough
		}

		byID := make(map[int64]models.Dish, len(dishes))
		for _, dish := range dishes {
			byID[dish.ID] = dish
		}
		for _, id := range ids {
			if demand[id] > byID[id].Quantity {
				return models.ErrDishesNotEnough
			}
		}

		orderID, err := tx.InsertOrder(ctx, userID, models.StatusWaiting, specialRequest)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}
		created = models.Order{
			ID:             orderID,
			UserID:         userID,
			Status:         models.StatusWaiting,
			SpecialRequest: specialRequest,
		}

		for _, line := range lines {
			orderLine := models.OrderLine{
				DishID:   line.DishID,
				Quantity: line.Quantity,
				Price:    byID[line.DishID].Price,
			}
			lineID, err := tx.InsertOrderLine(ctx, orderID, orderLine)
			if err != nil {
				return fmt.Errorf("failed to insert order line: %w", err)
			}
			orderLine.ID = lineID
			created.Lines = append(created.Lines, orderLine)
		}

		for _, id := range ids {
			if err := tx.SetDishQuantity(ctx, id, byID[id].Quantity-demand[id]); err != nil {
				return fmt.Errorf("failed to reserve dish %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	// Hand off strictly after the reservation has committed, so the
	// worker can never observe an uncommitted order.
	s.fulfiller.Submit(created)

	s.logger.Info("order_created", "Order created and queued", "", map[string]interface{}{
		"order_id": created.ID,
		"user_id":  created.UserID,
		"lines":    len(created.Lines),
	})
	return created, nil
}

// GetOrder returns the order with the given id including its lines.
// Returns models.ErrOrderNotFound if no such order exists.
func (s *Service) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	return s.store.GetOrder(ctx, id)
}
