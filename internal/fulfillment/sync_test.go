package fulfillment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// flakyStore records status writes and can fail selected ones
type flakyStore struct {
	mu       sync.Mutex
	statuses map[int64]models.OrderStatus
	failFor  map[int64]bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{
		statuses: make(map[int64]models.OrderStatus),
		failFor:  make(map[int64]bool),
	}
}

func (s *flakyStore) UpdateOrderStatus(_ context.Context, orderID int64, status models.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor[orderID] {
		return errors.New("storage unavailable")
	}
	s.statuses[orderID] = status
	return nil
}

func (s *flakyStore) status(orderID int64) (models.OrderStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	status, ok := s.statuses[orderID]
	return status, ok
}

func waitForStatus(t *testing.T, store *flakyStore, orderID int64, want models.OrderStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if status, ok := store.status(orderID); ok && status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	status, _ := store.status(orderID)
	t.Fatalf("order %d status = %s, want %s", orderID, status, want)
}

func TestSyncer_PersistsEveryTransition(t *testing.T) {
	hub := NewHub()
	store := newFlakyStore()
	syncer := StartSyncer(hub, store, logger.New("test"))

	hub.Publish(models.StatusUpdate{OrderID: 1, NewStatus: models.StatusInProgress})
	waitForStatus(t, store, 1, models.StatusInProgress)

	hub.Publish(models.StatusUpdate{OrderID: 1, NewStatus: models.StatusCompleted})
	waitForStatus(t, store, 1, models.StatusCompleted)

	hub.Close()
	syncer.Wait()
}

func TestSyncer_ContinuesAfterWriteFailure(t *testing.T) {
	hub := NewHub()
	store := newFlakyStore()
	store.failFor[1] = true
	syncer := StartSyncer(hub, store, logger.New("test"))

	// The failed write is dropped, not retried, and does not stop the
	// syncer from handling later updates.
	hub.Publish(models.StatusUpdate{OrderID: 1, NewStatus: models.StatusInProgress})
	hub.Publish(models.StatusUpdate{OrderID: 2, NewStatus: models.StatusInProgress})
	waitForStatus(t, store, 2, models.StatusInProgress)

	if _, ok := store.status(1); ok {
		t.Error("failed write for order 1 should not have been recorded")
	}

	hub.Close()
	syncer.Wait()
}

func TestSyncer_StopUnsubscribes(t *testing.T) {
	hub := NewHub()
	store := newFlakyStore()
	syncer := StartSyncer(hub, store, logger.New("test"))

	syncer.Stop()

	// After Stop the syncer no longer observes updates.
	hub.Publish(models.StatusUpdate{OrderID: 5, NewStatus: models.StatusInProgress})
	time.Sleep(20 * time.Millisecond)

	if _, ok := store.status(5); ok {
		t.Error("syncer recorded an update after Stop")
	}
	hub.Close()
}
