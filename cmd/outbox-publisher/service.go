package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/vendixo/vendixo-backend/internal/relay"
	"github.com/vendixo/vendixo-backend/pkg/config"
	"github.com/vendixo/vendixo-backend/pkg/db/models"
	"github.com/vendixo/vendixo-backend/pkg/enums"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/metrics"
	"github.com/vendixo/vendixo-backend/pkg/outbox"
	"github.com/vendixo/vendixo-backend/pkg/outbox/payloads"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxAttempts  = 5
	defaultRetryBase    = 250 * time.Millisecond
	publishTimeout      = 15 * time.Second
	jitterWindow        = 250 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type outboxRepository interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type relayPoster interface {
	Post(ctx context.Context, path string, payload any) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         pinger
	Repository outboxRepository
	Relay      relayPoster
	Metrics    *metrics.StorefrontMetrics
}

// Service drains the outbox table and turns each event into an email
// relay call. Events past the attempt cap are skipped, not deleted, so
// they stay visible for operators.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	db           pinger
	repo         outboxRepository
	relay        relayPoster
	metrics      *metrics.StorefrontMetrics
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
	retryBase    time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Relay == nil {
		return nil, errors.New("relay client is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	poll := params.Config.Outbox.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	retryBase := params.Config.Outbox.RetryBase
	if retryBase <= 0 {
		retryBase = defaultRetryBase
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		relay:        params.Relay,
		metrics:      params.Metrics,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: poll,
		retryBase:    retryBase,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "outbox publisher context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.processBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "outbox publisher batch error", err)
		}

		if processed && err == nil {
			continue
		}

		if sleepErr := s.sleep(ctx, withJitter(s.pollInterval)); sleepErr != nil {
			return sleepErr
		}
	}
}

func (s *Service) processBatch(ctx context.Context) (bool, error) {
	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		return false, nil
	}

	var batchErr error
	processed := false
	for _, event := range events {
		// the fetch already filters by attempts; this guards stale rows
		// read before a concurrent MarkFailed landed
		if event.AttemptCount >= s.maxAttempts {
			continue
		}
		processed = true

		fields := map[string]any{
			"event_id":      event.ID.String(),
			"event_type":    event.EventType,
			"aggregate_id":  event.AggregateID.String(),
			"attempt_count": event.AttemptCount,
		}

		if err := s.publish(ctx, event); err != nil {
			logCtx := s.logg.WithFields(ctx, fields)
			logCtx = s.logg.WithField(logCtx, "error", err.Error())
			s.logg.Warn(logCtx, "outbox publish failed")
			s.metrics.IncOutboxFailure(string(event.EventType))

			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				batchErr = multierr.Append(batchErr, fmt.Errorf("mark failure %s: %w", event.ID, markErr))
			}
			continue
		}

		if markErr := s.repo.MarkPublished(event.ID); markErr != nil {
			batchErr = multierr.Append(batchErr, fmt.Errorf("mark published %s: %w", event.ID, markErr))
			continue
		}
		s.metrics.IncOutboxPublished(string(event.EventType))
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event published")
	}
	return processed, batchErr
}

func (s *Service) publish(ctx context.Context, event models.OutboxEvent) error {
	path, payload, err := routeEvent(event)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(2, retry.NewExponential(s.retryBase))
	return retry.Do(publishCtx, backoff, func(ctx context.Context) error {
		if err := s.relay.Post(ctx, path, payload); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// routeEvent maps a stored event onto the relay endpoint that delivers it.
func routeEvent(event models.OutboxEvent) (string, any, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return "", nil, fmt.Errorf("decode envelope %s: %w", event.ID, err)
	}

	switch event.EventType {
	case enums.EventOrderPlaced:
		var data payloads.OrderPlacedEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return "", nil, fmt.Errorf("decode order placed %s: %w", event.ID, err)
		}
		return "/send-order", relay.OrderRequest{
			Email: data.Email,
			Name:  data.Name,
			OrderDetails: relay.OrderDetails{
				OrderID:     data.OrderNumber,
				TotalAmount: data.TotalAmount.StringFixed(2),
				ItemsCount:  data.ItemsCount,
			},
		}, nil

	case enums.EventOrderDelivered:
		var data payloads.OrderDeliveredEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return "", nil, fmt.Errorf("decode order delivered %s: %w", event.ID, err)
		}
		return "/send-delivered", relay.DeliveredRequest{
			Email:   data.Email,
			Name:    data.Name,
			OrderID: data.OrderNumber,
		}, nil

	case enums.EventBackInStock:
		var data payloads.BackInStockEvent
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			return "", nil, fmt.Errorf("decode back in stock %s: %w", event.ID, err)
		}
		return "/send-back-in-stock", relay.BackInStockRequest{
			Email:       data.Email,
			Name:        friendlyName(data.Email),
			ProductName: data.ProductName,
			ProductURL:  data.ProductURL,
		}, nil
	}

	return "", nil, fmt.Errorf("no relay route for event type %s", event.EventType)
}

// friendlyName derives a salutation from the address. Waitlist signups
// only capture an email.
func friendlyName(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "there"
	}
	return local
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func withJitter(d time.Duration) time.Duration {
	return d + time.Duration(jitterSource.Int63n(int64(jitterWindow)))
}
