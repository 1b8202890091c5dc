package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
)

type store interface {
	Load(ctx context.Context, sessionID string) ([]Line, error)
	Save(ctx context.Context, sessionID string, lines []Line) error
	Clear(ctx context.Context, sessionID string) error
}

// Service exposes the cart mutation operations for one session.
type Service interface {
	Get(ctx context.Context, sessionID string) ([]Line, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) ([]Line, error)
	RemoveItem(ctx context.Context, sessionID string, productID string) ([]Line, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID string, delta int) ([]Line, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store store
}

// NewService builds a cart service backed by the provided store.
func NewService(store store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{store: store}, nil
}

// AddItemInput carries the product snapshot added to the cart.
type AddItemInput struct {
	ProductID string                `json:"product_id"`
	Title     string                `json:"title"`
	UnitPrice decimal.Decimal       `json:"unit_price"`
	Quantity  int                   `json:"quantity"`
	Category  enums.ProductCategory `json:"category"`
	Size      *string               `json:"size,omitempty"`
	ImageURL  string                `json:"image_url,omitempty"`
}

// Get returns the session's current cart lines.
func (s *service) Get(ctx context.Context, sessionID string) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, sessionID)
}

// AddItem merges the product into the cart. An existing line for the same
// product id gets its quantity incremented; the category default size rule
// applies only when the line is first inserted.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	lines, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == input.ProductID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		size := input.Size
		if size == nil {
			size = input.Category.DefaultSize()
		}
		lines = append(lines, Line{
			ProductID: input.ProductID,
			Title:     input.Title,
			UnitPrice: input.UnitPrice,
			Quantity:  quantity,
			Category:  input.Category,
			Size:      size,
			ImageURL:  input.ImageURL,
		})
	}

	if err := s.store.Save(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveItem deletes the matching line. Removing an absent id is a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID string) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	lines, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(lines) {
		return lines, nil
	}

	if err := s.store.Save(ctx, sessionID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// UpdateQuantity applies a signed delta with a floor of 1. The quantity can
// never reach 0 through this path; removal is a separate explicit action.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID string, delta int) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	lines, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed := false
	for i := range lines {
		if lines[i].ProductID != productID {
			continue
		}
		next := lines[i].Quantity + delta
		if next < 1 {
			next = 1
		}
		if next != lines[i].Quantity {
			lines[i].Quantity = next
			changed = true
		}
		break
	}
	if !changed {
		return lines, nil
	}

	if err := s.store.Save(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Clear empties the collection and removes the persisted blob. Clearing an
// already empty cart succeeds without error.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	return s.store.Clear(ctx, sessionID)
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
