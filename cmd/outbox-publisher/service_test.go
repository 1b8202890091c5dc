package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vendixo/vendixo-backend/internal/relay"
	"github.com/vendixo/vendixo-backend/pkg/config"
	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/metrics"
	"github.com/vendixo/vendixo-backend/pkg/outbox"

	"github.com/shopspring/decimal"
)

type stubRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
}

func (s *stubRepo) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	var out []models.OutboxEvent
	for _, event := range s.events {
		if event.AttemptCount >= maxAttempts {
			continue
		}
		out = append(out, event)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *stubRepo) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubRepo) MarkFailed(id uuid.UUID, _ error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubRelay struct {
	calls []relayCall
	err   error
}

type relayCall struct {
	path    string
	payload any
}

func (s *stubRelay) Post(_ context.Context, path string, payload any) error {
	s.calls = append(s.calls, relayCall{path: path, payload: payload})
	return s.err
}

func newTestService(t *testing.T, repo *stubRepo, poster *stubRelay) *Service {
	t.Helper()
	cfg := &config.Config{
		Outbox: config.OutboxConfig{
			BatchSize:    10,
			PollInterval: time.Millisecond,
			MaxAttempts:  3,
			RetryBase:    time.Millisecond,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "outbox-test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logg,
		Repository: repo,
		Relay:      poster,
		Metrics:    metrics.NewStorefrontMetrics(nil),
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func encodeEvent(t *testing.T, eventType enums.OutboxEventType, data any) models.OutboxEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       envelope,
	}
}

func TestProcessBatchPublishesOrderPlaced(t *testing.T) {
	event := encodeEvent(t, enums.EventOrderPlaced, map[string]any{
		"order_number": "ORD-1756500000000",
		"email":        "dev@example.com",
		"name":         "Dev",
		"total_amount": "59",
		"items_count":  3,
	})
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	poster := &stubRelay{}
	svc := newTestService(t, repo, poster)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to process")
	}
	if len(poster.calls) != 1 {
		t.Fatalf("expected 1 relay call, got %d", len(poster.calls))
	}
	call := poster.calls[0]
	if call.path != "/send-order" {
		t.Fatalf("unexpected path %q", call.path)
	}
	req, ok := call.payload.(relay.OrderRequest)
	if !ok {
		t.Fatalf("unexpected payload type %T", call.payload)
	}
	if req.OrderDetails.OrderID != "ORD-1756500000000" {
		t.Fatalf("unexpected order id %q", req.OrderDetails.OrderID)
	}
	if req.OrderDetails.TotalAmount != "59.00" {
		t.Fatalf("unexpected total %q", req.OrderDetails.TotalAmount)
	}
	if req.OrderDetails.ItemsCount != 3 {
		t.Fatalf("unexpected items count %d", req.OrderDetails.ItemsCount)
	}
	if len(repo.published) != 1 || repo.published[0] != event.ID {
		t.Fatalf("expected event marked published, got %v", repo.published)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("no failures expected, got %v", repo.failed)
	}
}

func TestProcessBatchRoutesDeliveredAndBackInStock(t *testing.T) {
	delivered := encodeEvent(t, enums.EventOrderDelivered, map[string]any{
		"order_number": "ORD-2",
		"email":        "dev@example.com",
		"name":         "Dev",
	})
	restock := encodeEvent(t, enums.EventBackInStock, map[string]any{
		"email":        "waiter@example.com",
		"product_name": "Trail Hoodie",
		"product_url":  "https://vendixo.shop/product/abc",
	})
	repo := &stubRepo{events: []models.OutboxEvent{delivered, restock}}
	poster := &stubRelay{}
	svc := newTestService(t, repo, poster)

	if _, err := svc.processBatch(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(poster.calls) != 2 {
		t.Fatalf("expected 2 relay calls, got %d", len(poster.calls))
	}
	if poster.calls[0].path != "/send-delivered" {
		t.Fatalf("unexpected path %q", poster.calls[0].path)
	}
	if poster.calls[1].path != "/send-back-in-stock" {
		t.Fatalf("unexpected path %q", poster.calls[1].path)
	}
	stock, ok := poster.calls[1].payload.(relay.BackInStockRequest)
	if !ok {
		t.Fatalf("unexpected payload type %T", poster.calls[1].payload)
	}
	if stock.Name != "waiter" {
		t.Fatalf("expected salutation from email local part, got %q", stock.Name)
	}
	if len(repo.published) != 2 {
		t.Fatalf("expected both events published, got %v", repo.published)
	}
}

func TestProcessBatchMarksFailureOnRelayError(t *testing.T) {
	event := encodeEvent(t, enums.EventOrderDelivered, map[string]any{
		"order_number": "ORD-3",
		"email":        "dev@example.com",
		"name":         "Dev",
	})
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	poster := &stubRelay{err: errors.New("relay down")}
	svc := newTestService(t, repo, poster)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("batch errors are per event, got %v", err)
	}
	if !processed {
		t.Fatal("expected batch to process")
	}
	if len(repo.published) != 0 {
		t.Fatalf("nothing should be published, got %v", repo.published)
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected event marked failed, got %v", repo.failed)
	}
}

func TestProcessBatchSkipsEventsPastAttemptCap(t *testing.T) {
	event := encodeEvent(t, enums.EventOrderDelivered, map[string]any{
		"order_number": "ORD-4",
		"email":        "dev@example.com",
		"name":         "Dev",
	})
	event.AttemptCount = 3
	repo := &stubRepo{events: []models.OutboxEvent{event}}
	poster := &stubRelay{}
	svc := newTestService(t, repo, poster)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed {
		t.Fatal("capped events should not count as processed")
	}
	if len(poster.calls) != 0 {
		t.Fatalf("no relay calls expected, got %d", len(poster.calls))
	}
}

func TestProcessBatchDeadEventsDoNotStarveYoungerOnes(t *testing.T) {
	dead := encodeEvent(t, enums.EventOrderDelivered, map[string]any{
		"order_number": "ORD-6",
		"email":        "dev@example.com",
		"name":         "Dev",
	})
	dead.AttemptCount = 3
	fresh := encodeEvent(t, enums.EventOrderDelivered, map[string]any{
		"order_number": "ORD-7",
		"email":        "dev@example.com",
		"name":         "Dev",
	})

	// batch of one: the dead event at the head of the table must not
	// occupy the whole fetch window forever
	repo := &stubRepo{events: []models.OutboxEvent{dead, fresh}}
	poster := &stubRelay{}
	svc := newTestService(t, repo, poster)
	svc.batchSize = 1

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected the younger event to be processed")
	}
	if len(repo.published) != 1 || repo.published[0] != fresh.ID {
		t.Fatalf("expected the younger event published, got %v", repo.published)
	}
}

func TestRouteEventUnknownType(t *testing.T) {
	event := encodeEvent(t, enums.OutboxEventType("order.refunded"), map[string]any{})
	if _, _, err := routeEvent(event); err == nil {
		t.Fatal("expected error for unroutable event type")
	}
}

func TestRouteEventTotalFormatting(t *testing.T) {
	event := encodeEvent(t, enums.EventOrderPlaced, map[string]any{
		"order_number": "ORD-5",
		"email":        "dev@example.com",
		"name":         "Dev",
		"total_amount": decimal.RequireFromString("19.5"),
		"items_count":  1,
	})
	_, payload, err := routeEvent(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := payload.(relay.OrderRequest)
	if req.OrderDetails.TotalAmount != "19.50" {
		t.Fatalf("expected two decimal places, got %q", req.OrderDetails.TotalAmount)
	}
}
