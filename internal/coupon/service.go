package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/internal/cart"
	"github.com/vendixo/vendixo-backend/internal/pricing"
	"github.com/vendixo/vendixo-backend/pkg/config"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/redis"
)

// Snapshot is the discount captured when a coupon is applied. The amount is
// frozen against the subtotal at apply-time; later cart edits do not
// recompute it unless the coupon is reapplied.
type Snapshot struct {
	Code      string          `json:"code"`
	Discount  decimal.Decimal `json:"discount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	AppliedAt time.Time       `json:"applied_at"`
}

type kvClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CouponKey(sessionID string) string
}

type cartLoader interface {
	Get(ctx context.Context, sessionID string) ([]cart.Line, error)
}

// Service validates and applies coupon codes against the session cart.
type Service interface {
	Apply(ctx context.Context, sessionID string, code string) (*Snapshot, error)
	Get(ctx context.Context, sessionID string) (*Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	kv   kvClient
	cart cartLoader
	cfg  config.CouponConfig
}

// NewService builds a coupon service backed by the provided stack.
func NewService(kv kvClient, cartSvc cartLoader, cfg config.CouponConfig) (Service, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv client required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart loader required")
	}
	return &service{kv: kv, cart: cartSvc, cfg: cfg}, nil
}

// Apply matches the code case-insensitively against the configured coupon.
// On match the discount is a fixed share of the current subtotal, stored on
// the session. On mismatch nothing changes.
func (s *service) Apply(ctx context.Context, sessionID string, code string) (*Snapshot, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !strings.EqualFold(trimmed, s.cfg.Code) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid coupon code")
	}

	lines, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	subtotal := pricing.Subtotal(cart.PricingLines(lines))
	discount := subtotal.Mul(s.cfg.RateAmount()).Round(2)

	snapshot := &Snapshot{
		Code:      s.cfg.Code,
		Discount:  discount,
		Subtotal:  subtotal,
		AppliedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding coupon snapshot: %w", err)
	}
	key := s.kv.CouponKey(sessionID)
	if err := s.kv.Set(ctx, key, string(payload), s.cfg.TTL); err != nil {
		return nil, fmt.Errorf("saving coupon snapshot: %w", err)
	}
	return snapshot, nil
}

// Get returns the applied snapshot, or nil when no coupon is active.
func (s *service) Get(ctx context.Context, sessionID string) (*Snapshot, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	key := s.kv.CouponKey(sessionID)
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading coupon snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		// treat a corrupt snapshot as no coupon applied
		return nil, nil
	}
	return &snapshot, nil
}

// Clear removes the applied snapshot. Clearing an absent one is a no-op.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.kv.Del(ctx, s.kv.CouponKey(sessionID)); err != nil {
		return fmt.Errorf("clearing coupon snapshot: %w", err)
	}
	return nil
}
