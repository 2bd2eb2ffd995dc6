package dishes

import (
	"context"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/storage"
)

// Service manages the dish catalogue. Stock mutation outside of
// reservation happens only here, through explicit manager edits.
type Service struct {
	store  storage.Store
	logger *logger.Logger
}

// NewService creates a dish service
func NewService(store storage.Store, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		logger: log,
	}
}

// AddDish adds a new dish to the catalogue
func (s *Service) AddDish(ctx context.Context, req models.DishRequest) (models.Dish, error) {
	dish, err := s.store.AddDish(ctx, req.ToDish())
	if err != nil {
		return models.Dish{}, err
	}

	s.logger.Info("dish_added", "Dish added to catalogue", "", map[string]interface{}{
		"dish_id":  dish.ID,
		"name":     dish.Name,
		"quantity": dish.Quantity,
	})
	return dish, nil
}

// UpdateDish replaces the dish with the given id.
// Returns models.ErrDishNotFound if no such dish exists.
func (s *Service) UpdateDish(ctx context.Context, id int64, req models.DishRequest) error {
	dish := req.ToDish()
	dish.ID = id
	return s.store.UpdateDish(ctx, dish)
}

// DeleteDish removes the dish with the given id.
// Returns models.ErrDishNotFound if no such dish exists.
func (s *Service) DeleteDish(ctx context.Context, id int64) error {
	return s.store.DeleteDish(ctx, id)
}

// GetDish returns the dish with the given id.
// Returns models.ErrDishNotFound if no such dish exists.
func (s *Service) GetDish(ctx context.Context, id int64) (models.Dish, error) {
	return s.store.GetDish(ctx, id)
}

// ListDishes returns every dish in the catalogue
func (s *Service) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return s.store.ListDishes(ctx)
}

// Menu returns the dishes currently available for ordering
func (s *Service) Menu(ctx context.Context) ([]models.Dish, error) {
	dishes, err := s.store.ListDishes(ctx)
	if err != nil {
		return nil, err
	}

	menu := make([]models.Dish, 0, len(dishes))
	for _, dish := range dishes {
		if dish.Quantity > 0 {
			menu = append(menu, dish)
		}
	}
	return menu, nil
}
