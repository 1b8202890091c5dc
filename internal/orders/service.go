package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/outbox"
	"github.com/vendixo/vendixo-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service exposes order reads plus the administrative mutations. Customers
// never mutate an order directly; cancellation is a status transition taken
// here, not a delete.
type Service interface {
	GetByNumber(ctx context.Context, orderNumber, userID, sessionID string) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID, sessionID string) ([]OrderDTO, error)
	ListAdmin(ctx context.Context, filters ListFilters) ([]OrderDTO, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error)
	SetExpectedDelivery(ctx context.Context, orderID uuid.UUID, expected *time.Time) (*OrderDTO, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an orders service backed by the provided stack.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

// UpdateStatusInput carries one administrative status transition.
type UpdateStatusInput struct {
	OrderID uuid.UUID
	Status  enums.OrderStatus
}

// statusTransitions is the fulfilment lifecycle. Delivered and Cancelled
// are terminal; an order never moves backwards.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusCancelled},
	enums.OrderStatusDelivered:  {},
	enums.OrderStatusCancelled:  {},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GetByNumber returns one order by its customer-facing number. The lookup
// is scoped to the caller: order numbers are time-based and guessable, so
// an order outside the caller's user or session reads as not found.
func (s *service) GetByNumber(ctx context.Context, orderNumber, userID, sessionID string) (*OrderDTO, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if !ownsOrder(order, userID, sessionID) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := toOrderDTO(*order)
	return &dto, nil
}

// ownsOrder never matches on the guest sentinel; a caller claiming the
// sentinel as their user id would otherwise own every anonymous order.
func ownsOrder(order *models.Order, userID, sessionID string) bool {
	if userID != "" && userID != enums.GuestUserID && order.UserID == userID {
		return true
	}
	return sessionID != "" && order.SessionID == sessionID
}

// ListForUser returns the order history for one customer, newest first.
// Anonymous shoppers only ever see orders placed from their own session;
// the guest sentinel is never a listing key.
func (s *service) ListForUser(ctx context.Context, userID, sessionID string) ([]OrderDTO, error) {
	if userID == enums.GuestUserID {
		userID = ""
	}
	if userID == "" {
		if sessionID == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
		}
		rows, err := s.repo.ListBySession(ctx, sessionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
		}
		return toOrderDTOs(rows), nil
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toOrderDTOs(rows), nil
}

// ListAdmin returns all orders matching the provided filters.
func (s *service) ListAdmin(ctx context.Context, filters ListFilters) ([]OrderDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return toOrderDTOs(rows), nil
}

// UpdateStatus applies an administrative transition. Moving an order into
// Delivered queues the delivered notification in the same transaction as
// the status write.
func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !enums.ValidOrderStatus(input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown order status %q", input.Status))
	}

	order, err := s.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}

	if order.Status == input.Status {
		dto := toOrderDTO(*order)
		return &dto, nil
	}
	if !transitionAllowed(order.Status, input.Status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Status))
	}

	becameDelivered := input.Status == enums.OrderStatusDelivered

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order.ID, input.Status); err != nil {
			return err
		}
		if !becameDelivered {
			return nil
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderDelivered,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Data: payloads.OrderDeliveredEvent{
				OrderNumber: order.OrderNumber,
				Email:       order.Email,
				Name:        order.CustomerName,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}

	order.Status = input.Status
	dto := toOrderDTO(*order)
	return &dto, nil
}

// SetExpectedDelivery records the date promised to the customer.
func (s *service) SetExpectedDelivery(ctx context.Context, orderID uuid.UUID, expected *time.Time) (*OrderDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if err := s.repo.SetExpectedDelivery(ctx, orderID, expected); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "setting expected delivery")
	}
	order.ExpectedDelivery = expected
	dto := toOrderDTO(*order)
	return &dto, nil
}
