package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/internal/cart"
	"github.com/vendixo/vendixo-backend/internal/coupon"
	"github.com/vendixo/vendixo-backend/internal/orders"
	"github.com/vendixo/vendixo-backend/internal/pricing"
	"github.com/vendixo/vendixo-backend/pkg/config"
	"github.com/vendixo/vendixo-backend/pkg/db"
	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/metrics"
	"github.com/vendixo/vendixo-backend/pkg/outbox"
	"github.com/vendixo/vendixo-backend/pkg/outbox/payloads"
	"github.com/vendixo/vendixo-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type cartAccess interface {
	Get(ctx context.Context, sessionID string) ([]cart.Line, error)
	Clear(ctx context.Context, sessionID string) error
}

type couponAccess interface {
	Get(ctx context.Context, sessionID string) (*coupon.Snapshot, error)
	Clear(ctx context.Context, sessionID string) error
}

type submitLocker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SubmitLockKey(sessionID string) string
}

// Service runs the order submission flow for one session.
type Service interface {
	Preview(ctx context.Context, sessionID string) (*Preview, error)
	Submit(ctx context.Context, sessionID string, input SubmitInput) (*orders.OrderDTO, error)
}

type service struct {
	tx         txRunner
	cart       cartAccess
	coupons    couponAccess
	ordersRepo orders.Repository
	outbox     outboxPublisher
	locks      submitLocker
	cfg        config.CheckoutConfig
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
	validate   *validator.Validate
	now        func() time.Time
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	cartSvc cartAccess,
	couponSvc couponAccess,
	ordersRepo orders.Repository,
	publisher outboxPublisher,
	locks submitLocker,
	cfg config.CheckoutConfig,
	logg *logger.Logger,
	storeMetrics *metrics.StorefrontMetrics,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if couponSvc == nil {
		return nil, fmt.Errorf("coupon service required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if locks == nil {
		return nil, fmt.Errorf("submit locker required")
	}
	return &service{
		tx:         tx,
		cart:       cartSvc,
		coupons:    couponSvc,
		ordersRepo: ordersRepo,
		outbox:     publisher,
		locks:      locks,
		cfg:        cfg,
		logg:       logg,
		metrics:    storeMetrics,
		validate:   validator.New(),
		now:        time.Now,
	}, nil
}

// Preview is the itemized total shown before submission.
type Preview struct {
	Lines         []cart.Line       `json:"lines"`
	AppliedCoupon *coupon.Snapshot  `json:"applied_coupon,omitempty"`
	Breakdown     pricing.Breakdown `json:"breakdown"`
}

// CardDetails collects card fields verbatim. Nothing is charged and no
// Luhn or expiry-format check runs; this is payment information capture
// only, never processing.
type CardDetails struct {
	Number string `json:"number" validate:"required,max=16"`
	Expiry string `json:"expiry" validate:"required"`
	CVV    string `json:"cvv" validate:"required,max=3"`
}

// SubmitInput carries the checkout form for one submission attempt.
type SubmitInput struct {
	UserID        string              `json:"user_id"`
	Name          string              `json:"name" validate:"required"`
	Email         string              `json:"email" validate:"required,email"`
	Address       types.Address       `json:"address" validate:"required"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
	Card          *CardDetails        `json:"card,omitempty"`
}

// Preview computes the current price breakdown without mutating anything.
func (s *service) Preview(ctx context.Context, sessionID string) (*Preview, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lines, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.coupons.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	if snapshot != nil {
		discount = snapshot.Discount
	}

	// preview assumes cash on delivery is not yet chosen; the method-specific
	// fee lands in Submit where the final method is known
	breakdown := pricing.Compute(cart.PricingLines(lines), enums.PaymentMethodCard, discount, s.rules())
	return &Preview{Lines: lines, AppliedCoupon: snapshot, Breakdown: breakdown}, nil
}

// Submit validates the form, prices the cart and writes exactly one order.
// The order row and its placed-notification share a transaction; the cart
// and coupon are cleared only after that transaction resolves. Any failure
// leaves the cart intact and the attempt retryable.
func (s *service) Submit(ctx context.Context, sessionID string, input SubmitInput) (*orders.OrderDTO, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.validateInput(input); err != nil {
		s.metrics.IncCheckoutFailure("validation")
		return nil, err
	}

	lines, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		s.metrics.IncCheckoutFailure("empty_cart")
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	lockKey := s.locks.SubmitLockKey(sessionID)
	acquired, err := s.locks.SetNX(ctx, lockKey, "1", s.cfg.SubmitLockTTL)
	if err != nil {
		s.metrics.IncCheckoutFailure("lock")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "acquiring submit lock")
	}
	if !acquired {
		s.metrics.IncCheckoutFailure("duplicate_submit")
		return nil, pkgerrors.New(pkgerrors.CodeIdempotency, "a submission is already in progress for this session")
	}

	order, err := s.placeOrder(ctx, sessionID, input, lines)
	if err != nil {
		// release the lock so the shopper can retry; the cart is untouched
		if delErr := s.locks.Del(ctx, lockKey); delErr != nil && s.logg != nil {
			s.logg.Warn(ctx, "releasing submit lock after failure")
		}
		return nil, err
	}

	// the order is durable; clearing session state is best-effort
	if err := s.cart.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithOrderNumber(ctx, order.OrderNumber), "clearing cart after checkout")
	}
	if err := s.coupons.Clear(ctx, sessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithOrderNumber(ctx, order.OrderNumber), "clearing coupon after checkout")
	}
	if err := s.locks.Del(ctx, lockKey); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "releasing submit lock")
	}

	s.metrics.IncOrderPlaced()
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderNumber(ctx, order.OrderNumber), "order placed")
	}
	return order, nil
}

func (s *service) placeOrder(ctx context.Context, sessionID string, input SubmitInput, lines []cart.Line) (*orders.OrderDTO, error) {
	snapshot, err := s.coupons.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	discount := decimal.Zero
	var appliedCoupon *string
	if snapshot != nil {
		discount = snapshot.Discount
		code := snapshot.Code
		appliedCoupon = &code
	}

	breakdown := pricing.Compute(cart.PricingLines(lines), input.PaymentMethod, discount, s.rules())

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		userID = enums.GuestUserID
	}

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Category:  string(line.Category),
			Size:      line.Size,
		})
	}

	record := &models.Order{
		OrderNumber:   fmt.Sprintf("ORD-%d", s.now().UnixMilli()),
		UserID:        userID,
		SessionID:     sessionID,
		CustomerName:  input.Name,
		Email:         input.Email,
		Address:       input.Address,
		Items:         items,
		Subtotal:      breakdown.Subtotal,
		ShippingFee:   breakdown.ShippingFee,
		CODFee:        breakdown.CODFee,
		Discount:      breakdown.Discount,
		TotalAmount:   breakdown.Total,
		AppliedCoupon: appliedCoupon,
		PaymentMethod: input.PaymentMethod,
		Status:        enums.OrderStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.ordersRepo.WithTx(tx).Create(ctx, record)
		if err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   created.ID,
			Version:       1,
			Data: payloads.OrderPlacedEvent{
				OrderNumber: created.OrderNumber,
				Email:       created.Email,
				Name:        created.CustomerName,
				TotalAmount: created.TotalAmount,
				ItemsCount:  len(created.Items),
			},
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "order_number") {
			s.metrics.IncCheckoutFailure("duplicate_order_number")
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision, retry the submission")
		}
		s.metrics.IncCheckoutFailure("order_write")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing order")
	}

	dto := toOrderDTO(record)
	return dto, nil
}

func (s *service) validateInput(input SubmitInput) error {
	if !enums.ValidPaymentMethod(input.PaymentMethod) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
	if input.PaymentMethod == enums.PaymentMethodCard && input.Card == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "card details are required for card payments")
	}
	if input.PaymentMethod == enums.PaymentMethodCOD {
		input.Card = nil
	}
	if err := s.validate.Struct(input); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid checkout form")
	}
	return nil
}

func (s *service) rules() pricing.Rules {
	return pricing.Rules{
		FreeShippingAbove: s.cfg.FreeShippingAboveAmount(),
		ShippingFee:       s.cfg.ShippingFeeAmount(),
		CODFee:            s.cfg.CODFeeAmount(),
	}
}

func toOrderDTO(record *models.Order) *orders.OrderDTO {
	return &orders.OrderDTO{
		ID:               record.ID,
		OrderNumber:      record.OrderNumber,
		UserID:           record.UserID,
		CustomerName:     record.CustomerName,
		Email:            record.Email,
		Address:          record.Address,
		Items:            record.Items,
		Subtotal:         record.Subtotal,
		ShippingFee:      record.ShippingFee,
		CODFee:           record.CODFee,
		Discount:         record.Discount,
		TotalAmount:      record.TotalAmount,
		AppliedCoupon:    record.AppliedCoupon,
		PaymentMethod:    record.PaymentMethod,
		Status:           record.Status,
		ExpectedDelivery: record.ExpectedDelivery,
		CreatedAt:        record.CreatedAt,
	}
}
