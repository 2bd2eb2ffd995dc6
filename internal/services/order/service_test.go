package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-orders/internal/fulfillment"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/storage"
)

// captureFulfiller records submitted orders instead of processing them
type captureFulfiller struct {
	mu     sync.Mutex
	orders []models.Order
}

func (f *captureFulfiller) Submit(order models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, order)
}

func (f *captureFulfiller) submitted() []models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Order(nil), f.orders...)
}

func newTestService(t *testing.T) (*Service, *storage.Memory, *captureFulfiller) {
	t.Helper()
	store := storage.NewMemory()
	fulfiller := &captureFulfiller{}
	return NewService(store, fulfiller, logger.New("test")), store, fulfiller
}

func addDish(t *testing.T, store *storage.Memory, name string, quantity int, price string) models.Dish {
	t.Helper()
	dish, err := store.AddDish(context.Background(), models.Dish{
		Name:     name,
		Quantity: quantity,
		Price:    decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatalf("failed to add dish: %v", err)
	}
	return dish
}

func TestCreateOrder_ReservesStock(t *testing.T) {
	service, store, fulfiller := newTestService(t)
	dish := addDish(t, store, "Margherita", 5, "9.50")

	created, err := service.CreateOrder(context.Background(), 1, "extra basil", []models.OrderLineRequest{
		{DishID: dish.ID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}

	if created.ID == 0 {
		t.Error("created order has no id")
	}
	if created.Status != models.StatusWaiting {
		t.Errorf("created order status = %s, want WAITING", created.Status)
	}
	if len(created.Lines) != 1 || created.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected order lines: %+v", created.Lines)
	}
	if !created.Lines[0].Price.Equal(dish.Price) {
		t.Errorf("line price = %s, want snapshot of %s", created.Lines[0].Price, dish.Price)
	}

	remaining, err := store.GetDish(context.Background(), dish.ID)
	if err != nil {
		t.Fatalf("GetDish returned error: %v", err)
	}
	if remaining.Quantity != 3 {
		t.Errorf("remaining stock = %d, want 3", remaining.Quantity)
	}

	persisted, err := store.GetOrder(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("order not durably retrievable: %v", err)
	}
	if persisted.Status != models.StatusWaiting {
		t.Errorf("persisted status = %s, want WAITING", persisted.Status)
	}

	if submitted := fulfiller.submitted(); len(submitted) != 1 || submitted[0].ID != created.ID {
		t.Errorf("fulfiller received %+v, want the created order", submitted)
	}
}

func TestCreateOrder_UnknownDish(t *testing.T) {
	service, store, fulfiller := newTestService(t)
	dish := addDish(t, store, "Margherita", 5, "9.50")

	_, err := service.CreateOrder(context.Background(), 1, "", []models.OrderLineRequest{
		{DishID: dish.ID, Quantity: 1},
		{DishID: dish.ID + 100, Quantity: 1},
	})
	if !errors.Is(err, models.ErrDishesNotEnough) {
		t.Fatalf("CreateOrder error = %v, want ErrDishesNotEnough", err)
	}

	// A failed reservation leaves no partial state behind.
	remaining, _ := store.GetDish(context.Background(), dish.ID)
	if remaining.Quantity != 5 {
		t.Errorf("stock changed on failed reservation: %d, want 5", remaining.Quantity)
	}
	if len(fulfiller.submitted()) != 0 {
		t.Error("failed reservation must not reach the fulfiller")
	}
}

func TestCreateOrder_AggregatedDemandExceedsStock(t *testing.T) {
	service, store, _ := newTestService(t)
	dish := addDish(t, store, "Carbonara", 3, "12.00")

	// Each line fits individually; the sum does not.
	_, err := service.CreateOrder(context.Background(), 1, "", []models.OrderLineRequest{
		{DishID: dish.ID, Quantity: 2},
		{DishID: dish.ID, Quantity: 2},
	})
	if !errors.Is(err, models.ErrDishesNotEnough) {
		t.Fatalf("CreateOrder error = %v, want ErrDishesNotEnough", err)
	}

	remaining, _ := store.GetDish(context.Background(), dish.ID)
	if remaining.Quantity != 3 {
		t.Errorf("stock changed on failed reservation: %d, want 3", remaining.Quantity)
	}
}

func TestCreateOrder_AggregatesDuplicateLines(t *testing.T) {
	service, store, _ := newTestService(t)
	dish := addDish(t, store, "Carbonara", 4, "12.00")

	created, err := service.CreateOrder(context.Background(), 1, "", []models.OrderLineRequest{
		{DishID: dish.ID, Quantity: 1},
		{DishID: dish.ID, Quantity: 3},
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if len(created.Lines) != 2 {
		t.Fatalf("got %d lines, want 2 (lines are not merged)", len(created.Lines))
	}

	remaining, _ := store.GetDish(context.Background(), dish.ID)
	if remaining.Quantity != 0 {
		t.Errorf("remaining stock = %d, want 0", remaining.Quantity)
	}
}

func TestCreateOrder_EmptyLines(t *testing.T) {
	service, store, fulfiller := newTestService(t)

	created, err := service.CreateOrder(context.Background(), 1, "just the check", nil)
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if created.Status != models.StatusWaiting || len(created.Lines) != 0 {
		t.Errorf("unexpected no-op order: %+v", created)
	}
	if _, err := store.GetOrder(context.Background(), created.ID); err != nil {
		t.Errorf("no-op order not persisted: %v", err)
	}
	if len(fulfiller.submitted()) != 1 {
		t.Error("no-op order should still be submitted")
	}
}

func TestCreateOrder_ConcurrentReservations(t *testing.T) {
	service, store, fulfiller := newTestService(t)
	const stock = 5
	const attempts = 20
	dish := addDish(t, store, "Tiramisu", stock, "6.00")

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := service.CreateOrder(context.Background(), userID, "", []models.OrderLineRequest{
				{DishID: dish.ID, Quantity: 1},
			})
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var successes, failures int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, models.ErrDishesNotEnough):
			failures++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != stock || failures != attempts-stock {
		t.Errorf("got %d successes and %d failures, want %d and %d",
			successes, failures, stock, attempts-stock)
	}

	remaining, _ := store.GetDish(context.Background(), dish.ID)
	if remaining.Quantity != 0 {
		t.Errorf("final stock = %d, want 0", remaining.Quantity)
	}
	if got := len(fulfiller.submitted()); got != stock {
		t.Errorf("fulfiller received %d orders, want %d", got, stock)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.GetOrder(context.Background(), 999)
	if !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("GetOrder error = %v, want ErrOrderNotFound", err)
	}
}

// TestFulfillmentScenario walks the full pipeline: reservation empties
// the stock, a competing order is rejected, and after the processing
// delay the persisted status reaches COMPLETED.
func TestFulfillmentScenario(t *testing.T) {
	store := storage.NewMemory()
	log := logger.New("test")
	delay := 30 * time.Millisecond

	worker := fulfillment.NewWorker(delay, fulfillment.NewHub(), log)
	defer worker.Close()
	syncer := fulfillment.StartSyncer(worker.Hub(), store, log)

	service := NewService(store, worker, log)
	dish := addDish(t, store, "Lasagna", 1, "11.30")

	created, err := service.CreateOrder(context.Background(), 1, "", []models.OrderLineRequest{
		{DishID: dish.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("CreateOrder returned error: %v", err)
	}
	if created.Status != models.StatusWaiting {
		t.Errorf("created status = %s, want WAITING", created.Status)
	}

	remaining, _ := store.GetDish(context.Background(), dish.ID)
	if remaining.Quantity != 0 {
		t.Errorf("stock after reservation = %d, want 0", remaining.Quantity)
	}

	if _, err := service.CreateOrder(context.Background(), 2, "", []models.OrderLineRequest{
		{DishID: dish.ID, Quantity: 1},
	}); !errors.Is(err, models.ErrDishesNotEnough) {
		t.Errorf("competing order error = %v, want ErrDishesNotEnough", err)
	}

	worker.Start()

	deadline := time.Now().Add(2 * time.Second)
	for {
		persisted, err := store.GetOrder(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetOrder returned error: %v", err)
		}
		if persisted.Status == models.StatusCompleted {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("order status = %s, want COMPLETED", persisted.Status)
		}
		time.Sleep(5 * time.Millisecond)
	}

	worker.Close()
	syncer.Wait()
}
