package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/redis"
)

type blobClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// stateTTL bounds how long an abandoned cart survives. Every write
// refreshes it, so active sessions never expire mid-shop.
const stateTTL = 30 * 24 * time.Hour

// Store persists a session's cart as one JSON blob under a fixed key,
// overwritten in full on every mutation.
type Store struct {
	client blobClient
	logg   *logger.Logger
}

// NewStore builds a cart store backed by the provided key-value client.
func NewStore(client blobClient, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("kv client required")
	}
	return &Store{client: client, logg: logg}, nil
}

// Load reads the session's cart blob. An absent key yields an empty cart.
// A corrupt blob degrades to an empty cart with a warning, never an error.
func (s *Store) Load(ctx context.Context, sessionID string) ([]Line, error) {
	key := s.client.CartKey(sessionID)
	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("loading cart blob: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		if s.logg != nil {
			warnCtx := s.logg.WithSessionID(ctx, sessionID)
			s.logg.Warn(warnCtx, "corrupt cart blob, resetting to empty")
		}
		return []Line{}, nil
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

// Save overwrites the session's cart blob with the full collection.
func (s *Store) Save(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encoding cart blob: %w", err)
	}
	key := s.client.CartKey(sessionID)
	if err := s.client.Set(ctx, key, string(payload), stateTTL); err != nil {
		return fmt.Errorf("saving cart blob: %w", err)
	}
	return nil
}

// Clear deletes the persisted blob entirely. Clearing an absent cart is a no-op.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	key := s.client.CartKey(sessionID)
	if err := s.client.Del(ctx, key); err != nil {
		return fmt.Errorf("clearing cart blob: %w", err)
	}
	return nil
}
