package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/api/middleware"
	cartsvc "github.com/vendixo/vendixo-backend/internal/cart"
	"github.com/vendixo/vendixo-backend/pkg/logger"
)

type testCartService struct {
	addFn    func(ctx context.Context, sessionID string, input cartsvc.AddItemInput) ([]cartsvc.Line, error)
	updateFn func(ctx context.Context, sessionID, productID string, delta int) ([]cartsvc.Line, error)
	removeFn func(ctx context.Context, sessionID, productID string) ([]cartsvc.Line, error)
	getFn    func(ctx context.Context, sessionID string) ([]cartsvc.Line, error)
	clearFn  func(ctx context.Context, sessionID string) error
}

func (s *testCartService) Get(ctx context.Context, sessionID string) ([]cartsvc.Line, error) {
	if s.getFn != nil {
		return s.getFn(ctx, sessionID)
	}
	return []cartsvc.Line{}, nil
}

func (s *testCartService) AddItem(ctx context.Context, sessionID string, input cartsvc.AddItemInput) ([]cartsvc.Line, error) {
	if s.addFn != nil {
		return s.addFn(ctx, sessionID, input)
	}
	return []cartsvc.Line{}, nil
}

func (s *testCartService) RemoveItem(ctx context.Context, sessionID, productID string) ([]cartsvc.Line, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, sessionID, productID)
	}
	return []cartsvc.Line{}, nil
}

func (s *testCartService) UpdateQuantity(ctx context.Context, sessionID, productID string, delta int) ([]cartsvc.Line, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, sessionID, productID, delta)
	}
	return []cartsvc.Line{}, nil
}

func (s *testCartService) Clear(ctx context.Context, sessionID string) error {
	if s.clearFn != nil {
		return s.clearFn(ctx, sessionID)
	}
	return nil
}

func controllerTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func sessionRequest(method, target string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithSessionID(req.Context(), "sess-1"))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartAddItemPassesInput(t *testing.T) {
	var gotSession string
	var gotInput cartsvc.AddItemInput
	svc := &testCartService{
		addFn: func(_ context.Context, sessionID string, input cartsvc.AddItemInput) ([]cartsvc.Line, error) {
			gotSession = sessionID
			gotInput = input
			return []cartsvc.Line{{ProductID: input.ProductID, Quantity: 1}}, nil
		},
	}

	body := `{"product_id":"p1","title":"Trail Hoodie","unit_price":"20","quantity":2,"category":"Men"}`
	resp := httptest.NewRecorder()
	CartAddItem(svc, controllerTestLogger())(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotSession != "sess-1" {
		t.Fatalf("unexpected session %q", gotSession)
	}
	if gotInput.ProductID != "p1" || gotInput.Quantity != 2 {
		t.Fatalf("unexpected input %+v", gotInput)
	}
	if !gotInput.UnitPrice.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("unexpected unit price %s", gotInput.UnitPrice)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(envelope.Data.Items))
	}
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	called := false
	svc := &testCartService{
		addFn: func(context.Context, string, cartsvc.AddItemInput) ([]cartsvc.Line, error) {
			called = true
			return nil, nil
		},
	}

	body := `{"title":"Trail Hoodie","unit_price":"20","category":"Men"}`
	resp := httptest.NewRecorder()
	CartAddItem(svc, controllerTestLogger())(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	if called {
		t.Fatal("service should not be called for invalid payloads")
	}
}

func TestCartUpdateQuantityUsesRouteParam(t *testing.T) {
	var gotProduct string
	var gotDelta int
	svc := &testCartService{
		updateFn: func(_ context.Context, _ string, productID string, delta int) ([]cartsvc.Line, error) {
			gotProduct = productID
			gotDelta = delta
			return []cartsvc.Line{}, nil
		},
	}

	req := withURLParam(sessionRequest(http.MethodPatch, "/api/v1/cart/items/p1", `{"delta":-1}`), "productId", "p1")
	resp := httptest.NewRecorder()
	CartUpdateQuantity(svc, controllerTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotProduct != "p1" {
		t.Fatalf("unexpected product %q", gotProduct)
	}
	if gotDelta != -1 {
		t.Fatalf("unexpected delta %d", gotDelta)
	}
}

func TestCartClearReturnsEmptyItems(t *testing.T) {
	svc := &testCartService{}
	resp := httptest.NewRecorder()
	CartClear(svc, controllerTestLogger())(resp, sessionRequest(http.MethodDelete, "/api/v1/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", resp.Body.String())
	}
}
