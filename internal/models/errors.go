package models

import "errors"

// Business-rule failures surfaced to the HTTP boundary as-is.
// None of them is retryable; the caller has to adjust the request.
var (
	// ErrDishesNotEnough is returned when a requested dish is unknown or
	// the aggregated requested quantity exceeds its current stock.
	ErrDishesNotEnough = errors.New("dishes not enough")

	// ErrDishNotFound is returned when a dish with the given id does not exist.
	ErrDishNotFound = errors.New("dish not found")

	// ErrOrderNotFound is returned when an order with the given id does not exist.
	ErrOrderNotFound = errors.New("order not found")
)
