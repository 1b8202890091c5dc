package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/outbox"
	"github.com/vendixo/vendixo-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes catalog reads, admin product management and the
// back-in-stock waitlist.
type Service interface {
	ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	RegisterStockAlert(ctx context.Context, productID uuid.UUID, email string) error
	Restock(ctx context.Context, productID uuid.UUID, stock int) (*models.Product, error)
	ListReviews(ctx context.Context, productID uuid.UUID) (*ReviewSummary, error)
	AddReview(ctx context.Context, productID uuid.UUID, input ReviewInput) (*models.ProductReview, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	logg     *logger.Logger
	storeURL string
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, logg *logger.Logger, storeBaseURL string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		outbox:   publisher,
		logg:     logg,
		storeURL: strings.TrimRight(storeBaseURL, "/"),
	}, nil
}

// ProductInput carries the admin-facing product form.
type ProductInput struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Price         decimal.Decimal       `json:"price"`
	OriginalPrice *decimal.Decimal      `json:"original_price,omitempty"`
	Category      enums.ProductCategory `json:"category"`
	Sizes         []string              `json:"sizes,omitempty"`
	Stock         int                   `json:"stock"`
	ImageURL      string                `json:"image_url,omitempty"`
}

func (s *service) ListProducts(ctx context.Context, filters ProductFilters) ([]models.Product, error) {
	products, err := s.repo.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return products, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &models.Product{
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Category:      input.Category,
		Sizes:         pq.StringArray(input.Sizes),
		Stock:         input.Stock,
		ImageURL:      input.ImageURL,
		IsActive:      true,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":          strings.TrimSpace(input.Title),
		"description":    input.Description,
		"price":          input.Price,
		"original_price": input.OriginalPrice,
		"category":       input.Category,
		"sizes":          pq.StringArray(input.Sizes),
		"image_url":      input.ImageURL,
	}
	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}

	// stock changes route through Restock so waitlisted shoppers get told
	if input.Stock != existing.Stock {
		return s.Restock(ctx, id, input.Stock)
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct deactivates the product. Rows are never hard-deleted so
// order item snapshots keep a referent.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeactivateProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating product")
	}
	return nil
}

// RegisterStockAlert records a notify-me request. Registering the same
// email twice for one product stays a single waitlist entry.
func (s *service) RegisterStockAlert(ctx context.Context, productID uuid.UUID, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.Stock > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "product is already in stock")
	}
	alert := &models.StockAlert{ProductID: productID, Email: email}
	if err := s.repo.UpsertStockAlert(ctx, alert); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "registering stock alert")
	}
	return nil
}

// Restock sets the product's stock level. A transition from zero to a
// positive level queues one back-in-stock notification per waitlisted
// email and clears the waitlist, all in one transaction with the stock
// write.
func (s *service) Restock(ctx context.Context, productID uuid.UUID, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	backInStock := product.Stock == 0 && stock > 0

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateProduct(ctx, productID, map[string]any{"stock": stock}); err != nil {
			return err
		}
		if !backInStock {
			return nil
		}

		alerts, err := repo.ListStockAlerts(ctx, productID)
		if err != nil {
			return err
		}
		for _, alert := range alerts {
			event := outbox.DomainEvent{
				EventType:     enums.EventBackInStock,
				AggregateType: enums.AggregateProduct,
				AggregateID:   productID,
				Version:       1,
				Data: payloads.BackInStockEvent{
					Email:       alert.Email,
					ProductName: product.Title,
					ProductURL:  fmt.Sprintf("%s/product/%s", s.storeURL, productID),
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return repo.DeleteStockAlerts(ctx, productID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restocking product")
	}

	product.Stock = stock
	return product, nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.Category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	return nil
}
