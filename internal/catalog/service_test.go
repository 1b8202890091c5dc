package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/outbox"
	"github.com/vendixo/vendixo-backend/pkg/outbox/payloads"
)

type stubRepo struct {
	products map[uuid.UUID]*models.Product
	alerts   map[uuid.UUID][]models.StockAlert
	reviews  map[uuid.UUID][]models.ProductReview
}

func newStubRepo(seed ...*models.Product) *stubRepo {
	repo := &stubRepo{
		products: map[uuid.UUID]*models.Product{},
		alerts:   map[uuid.UUID][]models.StockAlert{},
		reviews:  map[uuid.UUID][]models.ProductReview{},
	}
	for _, product := range seed {
		if product.ID == uuid.Nil {
			product.ID = uuid.New()
		}
		repo.products[product.ID] = product
	}
	return repo
}

func (s *stubRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubRepo) CreateProduct(_ context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubRepo) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubRepo) ListProducts(_ context.Context, filters ProductFilters) ([]models.Product, error) {
	var out []models.Product
	for _, product := range s.products {
		if filters.Category != nil && product.Category != *filters.Category {
			continue
		}
		if filters.ActiveOnly && !product.IsActive {
			continue
		}
		if filters.InStockOnly && product.Stock == 0 {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

func (s *stubRepo) UpdateProduct(_ context.Context, id uuid.UUID, updates map[string]any) error {
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stock, ok := updates["stock"]; ok {
		product.Stock = stock.(int)
	}
	if title, ok := updates["title"]; ok {
		product.Title = title.(string)
	}
	return nil
}

func (s *stubRepo) DeactivateProduct(_ context.Context, id uuid.UUID) error {
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.IsActive = false
	return nil
}

func (s *stubRepo) UpsertStockAlert(_ context.Context, alert *models.StockAlert) error {
	for _, existing := range s.alerts[alert.ProductID] {
		if existing.Email == alert.Email {
			return nil
		}
	}
	s.alerts[alert.ProductID] = append(s.alerts[alert.ProductID], *alert)
	return nil
}

func (s *stubRepo) ListStockAlerts(_ context.Context, productID uuid.UUID) ([]models.StockAlert, error) {
	return s.alerts[productID], nil
}

func (s *stubRepo) DeleteStockAlerts(_ context.Context, productID uuid.UUID) error {
	delete(s.alerts, productID)
	return nil
}

func (s *stubRepo) InsertReview(_ context.Context, review *models.ProductReview) (*models.ProductReview, error) {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	// Prepend so listings come back newest first like the real query.
	s.reviews[review.ProductID] = append([]models.ProductReview{*review}, s.reviews[review.ProductID]...)
	return review, nil
}

func (s *stubRepo) ListReviews(_ context.Context, productID uuid.UUID) ([]models.ProductReview, error) {
	return s.reviews[productID], nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo Repository) (Service, *stubOutbox) {
	t.Helper()
	publisher := &stubOutbox{}
	svc, err := NewService(repo, stubTxRunner{}, publisher, nil, "https://shop.vendixo.com")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, publisher
}

func outOfStockProduct(title string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Title:    title,
		Price:    decimal.NewFromInt(30),
		Category: enums.CategoryMen,
		Stock:    0,
		IsActive: true,
	}
}

func TestRegisterStockAlertDeduplicates(t *testing.T) {
	t.Parallel()

	product := outOfStockProduct("Linen Shirt")
	repo := newStubRepo(product)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RegisterStockAlert(ctx, product.ID, "Jane@Example.com"); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	alerts := repo.alerts[product.ID]
	if len(alerts) != 1 {
		t.Fatalf("expected one waitlist entry, got %d", len(alerts))
	}
	if alerts[0].Email != "jane@example.com" {
		t.Errorf("email = %q, want normalized lowercase", alerts[0].Email)
	}
}

func TestRegisterStockAlertRejectedWhenInStock(t *testing.T) {
	t.Parallel()

	product := outOfStockProduct("Linen Shirt")
	product.Stock = 4
	svc, _ := newTestService(t, newStubRepo(product))

	err := svc.RegisterStockAlert(context.Background(), product.ID, "jane@example.com")
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %v", err)
	}
}

func TestRestockZeroToPositiveNotifiesWaitlist(t *testing.T) {
	t.Parallel()

	product := outOfStockProduct("Linen Shirt")
	repo := newStubRepo(product)
	svc, publisher := newTestService(t, repo)
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		if err := svc.RegisterStockAlert(ctx, product.ID, email); err != nil {
			t.Fatalf("register %s: %v", email, err)
		}
	}

	updated, err := svc.Restock(ctx, product.ID, 10)
	if err != nil {
		t.Fatalf("restock: %v", err)
	}
	if updated.Stock != 10 {
		t.Errorf("stock = %d, want 10", updated.Stock)
	}

	if len(publisher.events) != 2 {
		t.Fatalf("expected 2 back-in-stock events, got %d", len(publisher.events))
	}
	payload, ok := publisher.events[0].Data.(payloads.BackInStockEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", publisher.events[0].Data)
	}
	if payload.ProductName != "Linen Shirt" {
		t.Errorf("product name = %q", payload.ProductName)
	}

	if len(repo.alerts[product.ID]) != 0 {
		t.Error("waitlist not cleared after restock")
	}

	// further restocks from a positive level notify nobody
	if err := svc.RegisterStockAlert(ctx, product.ID, "c@example.com"); err == nil {
		t.Fatal("expected registration rejected while in stock")
	}
	if _, err := svc.Restock(ctx, product.ID, 20); err != nil {
		t.Fatalf("second restock: %v", err)
	}
	if len(publisher.events) != 2 {
		t.Fatalf("positive-to-positive restock emitted events: %d", len(publisher.events))
	}
}

func TestDeleteProductDeactivates(t *testing.T) {
	t.Parallel()

	product := outOfStockProduct("Linen Shirt")
	repo := newStubRepo(product)
	svc, _ := newTestService(t, repo)
	ctx := context.Background()

	if err := svc.DeleteProduct(ctx, product.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if repo.products[product.ID].IsActive {
		t.Error("product still active after delete")
	}
	// the row survives for order snapshots
	if _, ok := repo.products[product.ID]; !ok {
		t.Error("product row removed")
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, newStubRepo())
	ctx := context.Background()

	cases := []ProductInput{
		{Title: "", Price: decimal.NewFromInt(10), Category: enums.CategoryMen},
		{Title: "Shirt", Price: decimal.NewFromInt(-1), Category: enums.CategoryMen},
		{Title: "Shirt", Price: decimal.NewFromInt(10), Category: enums.CategoryMen, Stock: -5},
		{Title: "Shirt", Price: decimal.NewFromInt(10)},
	}
	for i, input := range cases {
		if _, err := svc.CreateProduct(ctx, input); err == nil {
			t.Errorf("case %d: invalid product accepted", i)
		}
	}
}
