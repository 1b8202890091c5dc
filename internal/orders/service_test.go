package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	pkgerrors "github.com/vendixo/vendixo-backend/pkg/errors"
	"github.com/vendixo/vendixo-backend/pkg/outbox"
)

type stubRepo struct {
	orders        map[uuid.UUID]*models.Order
	statusWrites  []enums.OrderStatus
	deliveryWrite *time.Time
}

func newStubRepo(seed ...*models.Order) *stubRepo {
	repo := &stubRepo{orders: map[uuid.UUID]*models.Order{}}
	for _, order := range seed {
		if order.ID == uuid.Nil {
			order.ID = uuid.New()
		}
		repo.orders[order.ID] = order
	}
	return repo
}

func (s *stubRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (s *stubRepo) FindByNumber(_ context.Context, orderNumber string) (*models.Order, error) {
	for _, order := range s.orders {
		if order.OrderNumber == orderNumber {
			copied := *order
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListByUser(_ context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubRepo) ListBySession(_ context.Context, sessionID string) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if order.SessionID == sessionID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *stubRepo) List(_ context.Context, filters ListFilters) ([]models.Order, error) {
	var out []models.Order
	for _, order := range s.orders {
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	s.statusWrites = append(s.statusWrites, status)
	return nil
}

func (s *stubRepo) SetExpectedDelivery(_ context.Context, id uuid.UUID, expected *time.Time) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.ExpectedDelivery = expected
	s.deliveryWrite = expected
	return nil
}

type stubTxRunner struct {
	err error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(&gorm.DB{})
}

type stubOutbox struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

func newTestService(t *testing.T, repo Repository, publisher *stubOutbox) Service {
	t.Helper()
	svc, err := NewService(repo, &stubTxRunner{}, publisher)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func pendingOrder(number string) *models.Order {
	return &models.Order{
		ID:           uuid.New(),
		OrderNumber:  number,
		UserID:       enums.GuestUserID,
		CustomerName: "Jane Shopper",
		Email:        "jane@example.com",
		Status:       enums.OrderStatusPending,
	}
}

func TestUpdateStatusDeliveredEmitsEvent(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-1")
	order.Status = enums.OrderStatusShipped
	repo := newStubRepo(order)
	publisher := &stubOutbox{}
	svc := newTestService(t, repo, publisher)

	dto, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusDelivered})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if dto.Status != enums.OrderStatusDelivered {
		t.Errorf("status = %s, want Delivered", dto.Status)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one outbox event, got %d", len(publisher.events))
	}
	if publisher.events[0].EventType != enums.EventOrderDelivered {
		t.Errorf("event type = %s", publisher.events[0].EventType)
	}
}

func TestUpdateStatusNonDeliveredEmitsNothing(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-2")
	repo := newStubRepo(order)
	publisher := &stubOutbox{}
	svc := newTestService(t, repo, publisher)

	for _, status := range []enums.OrderStatus{enums.OrderStatusProcessing, enums.OrderStatusShipped, enums.OrderStatusCancelled} {
		if _, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: order.ID, Status: status}); err != nil {
			t.Fatalf("update to %s: %v", status, err)
		}
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no outbox events, got %d", len(publisher.events))
	}
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-3")
	repo := newStubRepo(order)
	publisher := &stubOutbox{}
	svc := newTestService(t, repo, publisher)

	if _, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusPending}); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if len(repo.statusWrites) != 0 {
		t.Fatal("expected no status write for unchanged status")
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-4")
	svc := newTestService(t, newStubRepo(order), &stubOutbox{})

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: order.ID, Status: "Teleported"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo(), &stubOutbox{})
	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: uuid.New(), Status: enums.OrderStatusShipped})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestSetExpectedDelivery(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-5")
	repo := newStubRepo(order)
	svc := newTestService(t, repo, &stubOutbox{})

	expected := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	dto, err := svc.SetExpectedDelivery(context.Background(), order.ID, &expected)
	if err != nil {
		t.Fatalf("set expected delivery: %v", err)
	}
	if dto.ExpectedDelivery == nil || !dto.ExpectedDelivery.Equal(expected) {
		t.Errorf("expected delivery = %v", dto.ExpectedDelivery)
	}
}

func TestUpdateStatusRejectsBackwardsTransition(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-6")
	order.Status = enums.OrderStatusDelivered
	repo := newStubRepo(order)
	svc := newTestService(t, repo, &stubOutbox{})

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{OrderID: order.ID, Status: enums.OrderStatusPending})
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected CodeStateConflict, got %v", err)
	}
	if len(repo.statusWrites) != 0 {
		t.Fatal("expected no status write for a rejected transition")
	}
}

func TestGuestListingIsSessionScoped(t *testing.T) {
	t.Parallel()

	alice := pendingOrder("ORD-7")
	alice.SessionID = "sess-alice"
	alice.Email = "alice@example.com"
	bob := pendingOrder("ORD-8")
	bob.SessionID = "sess-bob"
	bob.Email = "bob@example.com"

	svc := newTestService(t, newStubRepo(alice, bob), &stubOutbox{})

	rows, err := svc.ListForUser(context.Background(), "", "sess-alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one order for the session, got %d", len(rows))
	}
	if rows[0].Email != "alice@example.com" {
		t.Errorf("email = %s, want alice@example.com", rows[0].Email)
	}
}

func TestGuestListingRequiresSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newStubRepo(), &stubOutbox{})

	_, err := svc.ListForUser(context.Background(), "", "")
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestGetByNumberScopedToOwner(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-9")
	order.SessionID = "sess-owner"
	svc := newTestService(t, newStubRepo(order), &stubOutbox{})

	dto, err := svc.GetByNumber(context.Background(), "ORD-9", "", "sess-owner")
	if err != nil {
		t.Fatalf("owner lookup: %v", err)
	}
	if dto.OrderNumber != "ORD-9" {
		t.Errorf("order number = %s", dto.OrderNumber)
	}

	_, err = svc.GetByNumber(context.Background(), "ORD-9", "", "sess-stranger")
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound for a foreign session, got %v", err)
	}
}

func TestGuestSentinelNeverMatchesAsUser(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-11")
	order.SessionID = "sess-victim"
	svc := newTestService(t, newStubRepo(order), &stubOutbox{})

	_, err := svc.GetByNumber(context.Background(), "ORD-11", enums.GuestUserID, "sess-attacker")
	var appErr *pkgerrors.Error
	if !errors.As(err, &appErr) || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound for a claimed guest sentinel, got %v", err)
	}

	rows, err := svc.ListForUser(context.Background(), enums.GuestUserID, "sess-attacker")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no orders for a claimed guest sentinel, got %d", len(rows))
	}
}

func TestGetByNumberMatchesUserAcrossSessions(t *testing.T) {
	t.Parallel()

	order := pendingOrder("ORD-10")
	order.UserID = "user-42"
	order.SessionID = "sess-old"
	svc := newTestService(t, newStubRepo(order), &stubOutbox{})

	dto, err := svc.GetByNumber(context.Background(), "ORD-10", "user-42", "sess-new")
	if err != nil {
		t.Fatalf("user lookup: %v", err)
	}
	if dto.OrderNumber != "ORD-10" {
		t.Errorf("order number = %s", dto.OrderNumber)
	}
}
