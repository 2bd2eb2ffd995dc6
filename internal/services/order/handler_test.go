package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"restaurant-orders/internal/models"
	"restaurant-orders/internal/storage"
)

func newTestMux(t *testing.T) (*http.ServeMux, *storage.Memory) {
	t.Helper()
	service, store, _ := newTestService(t)
	handler := NewHandler(service, service.logger)

	mux := http.NewServeMux()
	handler.Register(mux)
	return mux, store
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, req)
	return recorder
}

func TestCreateOrderEndpoint(t *testing.T) {
	mux, store := newTestMux(t)
	dish := addDish(t, store, "Margherita", 5, "9.50")

	resp := doJSON(t, mux, http.MethodPost, "/orders",
		`{"user_id":1,"special_request":"no onions","order_dishes":[{"dish_id":1,"quantity":2}]}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("POST /orders status = %d, body = %s", resp.Code, resp.Body)
	}

	var created models.Order
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if created.Status != models.StatusWaiting || created.SpecialRequest != "no onions" {
		t.Errorf("unexpected order: %+v", created)
	}
	if len(created.Lines) != 1 || created.Lines[0].DishID != dish.ID {
		t.Errorf("unexpected order lines: %+v", created.Lines)
	}
}

func TestCreateOrderEndpoint_DishesNotEnough(t *testing.T) {
	mux, store := newTestMux(t)
	addDish(t, store, "Margherita", 1, "9.50")

	resp := doJSON(t, mux, http.MethodPost, "/orders",
		`{"user_id":1,"order_dishes":[{"dish_id":1,"quantity":2}]}`)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400, body = %s", resp.Code, resp.Body)
	}
}

func TestCreateOrderEndpoint_Validation(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing user id", `{"order_dishes":[{"dish_id":1,"quantity":1}]}`},
		{"no lines", `{"user_id":1,"order_dishes":[]}`},
		{"zero quantity", `{"user_id":1,"order_dishes":[{"dish_id":1,"quantity":0}]}`},
		{"unknown field", `{"user_id":1,"order_dishes":[{"dish_id":1,"quantity":1}],"extra":1}`},
		{"invalid json", `{"user_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, mux, http.MethodPost, "/orders", tt.body)
			if resp.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.Code)
			}
		})
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	mux, store := newTestMux(t)
	addDish(t, store, "Margherita", 5, "9.50")

	resp := doJSON(t, mux, http.MethodPost, "/orders",
		`{"user_id":7,"order_dishes":[{"dish_id":1,"quantity":1}]}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("POST /orders status = %d", resp.Code)
	}
	var created models.Order
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}

	resp = doJSON(t, mux, http.MethodGet, "/order/1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("GET /order/1 status = %d", resp.Code)
	}
	var fetched models.Order
	if err := json.Unmarshal(resp.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if fetched.ID != created.ID || fetched.UserID != 7 {
		t.Errorf("fetched order %+v, want id %d for user 7", fetched, created.ID)
	}
}

func TestGetOrderEndpoint_NotFound(t *testing.T) {
	mux, _ := newTestMux(t)

	resp := doJSON(t, mux, http.MethodGet, "/order/42", "")
	if resp.Code != http.StatusNotFound {
		t.Errorf("GET /order/42 status = %d, want 404", resp.Code)
	}

	resp = doJSON(t, mux, http.MethodGet, "/order/abc", "")
	if resp.Code != http.StatusBadRequest {
		t.Errorf("GET /order/abc status = %d, want 400", resp.Code)
	}
}
