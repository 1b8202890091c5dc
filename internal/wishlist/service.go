package wishlist

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
)

type store interface {
	Load(ctx context.Context, sessionID string) ([]Entry, error)
	Save(ctx context.Context, sessionID string, entries []Entry) error
	Clear(ctx context.Context, sessionID string) error
}

// Service exposes wishlist operations for one session.
type Service interface {
	Get(ctx context.Context, sessionID string) ([]Entry, error)
	Toggle(ctx context.Context, sessionID string, entry Entry) (entries []Entry, added bool, err error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store store
}

// NewService builds a wishlist service backed by the provided store.
func NewService(store store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("wishlist store required")
	}
	return &service{store: store}, nil
}

// Get returns the session's current wishlist entries.
func (s *service) Get(ctx context.Context, sessionID string) ([]Entry, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, sessionID)
}

// Toggle adds the product when absent and removes it when present. The
// returned flag reports whether the entry ended up in the list.
func (s *service) Toggle(ctx context.Context, sessionID string, entry Entry) ([]Entry, bool, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, false, err
	}
	if strings.TrimSpace(entry.ProductID) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	entries, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	kept := entries[:0]
	removed := false
	for _, existing := range entries {
		if existing.ProductID == entry.ProductID {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}

	added := false
	if !removed {
		kept = append(kept, entry)
		added = true
	}

	if err := s.store.Save(ctx, sessionID, kept); err != nil {
		return nil, false, err
	}
	return kept, added, nil
}

// Clear empties the collection and removes the persisted blob.
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
