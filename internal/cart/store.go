package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/popvault/storefront/internal/redisx"
)

// schemaVersion tags the persisted cart blob so a future shape change
// can migrate old carts instead of corrupting them.
const schemaVersion = 1

type envelope struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Store persists carts in Redis, one serialized blob per session.
// Callers re-save the full cart after every mutation, so readers never
// observe a partial write.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// Load fetches the cart for a session. A missing key is an empty cart,
// not an error.
func (s *Store) Load(ctx context.Context, sessionID string) (*Cart, error) {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	c, err := decodeCart(b)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", sessionID, err)
	}
	return c, nil
}

// Save serializes the full cart back to Redis.
func (s *Store) Save(ctx context.Context, sessionID string, c *Cart) error {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	b, err := encodeCart(c)
	if err != nil {
		return fmt.Errorf("save cart %s: %w", sessionID, err)
	}
	if err := s.rdb.Set(ctx, key, b, redisx.TTLCart).Err(); err != nil {
		return fmt.Errorf("save cart %s: %w", sessionID, err)
	}
	return nil
}

// Delete drops the persisted cart (logout, explicit clear, checkout).
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(redisx.KeyCart, sessionID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", sessionID, err)
	}
	return nil
}

func encodeCart(c *Cart) ([]byte, error) {
	return json.Marshal(envelope{Version: schemaVersion, Items: c.Items})
}

func decodeCart(b []byte) (*Cart, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if env.Version != schemaVersion {
		return nil, fmt.Errorf("decode cart: unsupported schema version %d", env.Version)
	}
	return &Cart{Items: env.Items}, nil
}
