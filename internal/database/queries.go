package database

// Dish queries
const (
	InsertDishSQL = `
		INSERT INTO dishes (name, description, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	UpdateDishSQL = `
		UPDATE dishes SET name = $2, description = $3, quantity = $4, price = $5, updated_at = NOW()
		WHERE id = $1`

	UpdateDishQuantitySQL = `
		UPDATE dishes SET quantity = $2, updated_at = NOW()
		WHERE id = $1`

	DeleteDishSQL = `
		DELETE FROM dishes WHERE id = $1`

	GetDishSQL = `
		SELECT id, name, description, quantity, price
		FROM dishes WHERE id = $1`

	ListDishesSQL = `
		SELECT id, name, description, quantity, price
		FROM dishes
		ORDER BY id ASC`

	// Row locks are taken in id order so that concurrent reservations
	// touching overlapping dish sets cannot deadlock.
	GetDishesForUpdateSQL = `
		SELECT id, name, description, quantity, price
		FROM dishes
		WHERE id = ANY($1)
		ORDER BY id ASC
		FOR UPDATE`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (user_id, status, special_request)
		VALUES ($1, $2, $3)
		RETURNING id`

	InsertOrderLineSQL = `
		INSERT INTO order_dishes (order_id, dish_id, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1`

	GetOrderSQL = `
		SELECT id, user_id, status, special_request
		FROM orders WHERE id = $1`

	GetOrderLinesSQL = `
		SELECT id, dish_id, quantity, price
		FROM order_dishes
		WHERE order_id = $1
		ORDER BY id ASC`
)
