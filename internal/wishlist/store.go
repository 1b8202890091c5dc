package wishlist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendixo/vendixo-backend/pkg/enums"
	"github.com/vendixo/vendixo-backend/pkg/logger"
	"github.com/vendixo/vendixo-backend/pkg/redis"
)

// Entry is one saved product. At most one entry exists per product id.
type Entry struct {
	ProductID string                `json:"product_id"`
	Title     string                `json:"title"`
	UnitPrice decimal.Decimal       `json:"unit_price"`
	Category  enums.ProductCategory `json:"category"`
	ImageURL  string                `json:"image_url,omitempty"`
}

type blobClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	WishlistKey(sessionID string) string
}

// stateTTL matches the cart store: abandoned sessions expire after a
// month, active ones refresh on each write.
const stateTTL = 30 * 24 * time.Hour

// Store persists a session's wishlist as one JSON blob under a fixed key.
type Store struct {
	client blobClient
	logg   *logger.Logger
}

// NewStore builds a wishlist store backed by the provided key-value client.
func NewStore(client blobClient, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("kv client required")
	}
	return &Store{client: client, logg: logg}, nil
}

// Load reads the session's wishlist blob. Absent or corrupt blobs degrade
// to an empty collection, corrupt ones with a warning.
func (s *Store) Load(ctx context.Context, sessionID string) ([]Entry, error) {
	key := s.client.WishlistKey(sessionID)
	raw, err := s.client.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("loading wishlist blob: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		if s.logg != nil {
			warnCtx := s.logg.WithSessionID(ctx, sessionID)
			s.logg.Warn(warnCtx, "corrupt wishlist blob, resetting to empty")
		}
		return []Entry{}, nil
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Save overwrites the session's wishlist blob with the full collection.
func (s *Store) Save(ctx context.Context, sessionID string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding wishlist blob: %w", err)
	}
	key := s.client.WishlistKey(sessionID)
	if err := s.client.Set(ctx, key, string(payload), stateTTL); err != nil {
		return fmt.Errorf("saving wishlist blob: %w", err)
	}
	return nil
}

// Clear deletes the persisted blob entirely.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	key := s.client.WishlistKey(sessionID)
	if err := s.client.Del(ctx, key); err != nil {
		return fmt.Errorf("clearing wishlist blob: %w", err)
	}
	return nil
}
