package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dish represents a menu item with its available stock
type Dish struct {
	ID          int64           `json:"id,omitempty" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Quantity    int             `json:"quantity" db:"quantity"`
	Price       decimal.Decimal `json:"price" db:"price"`
}

// DishRequest represents the request to create or update a dish
type DishRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Validate validates the dish request
func (req *DishRequest) Validate() error {
	if len(req.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(req.Name) > 100 {
		return fmt.Errorf("name must not exceed 100 characters")
	}
	if req.Quantity < 0 {
		return fmt.Errorf("quantity must not be negative")
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	if req.Price.Exponent() < -2 {
		return fmt.Errorf("price must have at most 2 decimal places")
	}
	return nil
}

// ToDish converts the request into a dish model with a normalized price scale.
func (req *DishRequest) ToDish() Dish {
	return Dish{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Price:       req.Price.Round(2),
	}
}
