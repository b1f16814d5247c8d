package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/popvault/storefront/internal/redisx"
)

const schemaVersion = 1

// User is the identity slice the storefront keeps after login.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is what one browser session holds: the logged-in user plus
// the raw backend token, replayed as-is on authenticated calls. A
// session without a user is a guest; guests browse and fill carts but
// cannot check out.
type Session struct {
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

func (s Session) Guest() bool { return s.User == nil }

type envelope struct {
	Version int    `json:"version"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// NewID mints a session identifier.
func NewID() string { return uuid.NewString() }

// Store persists sessions in Redis, one blob per session ID.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// Load fetches a session; a missing key is a guest session.
func (s *Store) Load(ctx context.Context, sessionID string) (Session, error) {
	key := fmt.Sprintf(redisx.KeySession, sessionID)
	b, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Session{}, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if env.Version != schemaVersion {
		return Session{}, fmt.Errorf("decode session %s: unsupported schema version %d", sessionID, env.Version)
	}
	return Session{User: env.User, Token: env.Token}, nil
}

func (s *Store) Save(ctx context.Context, sessionID string, sess Session) error {
	key := fmt.Sprintf(redisx.KeySession, sessionID)
	b, err := json.Marshal(envelope{Version: schemaVersion, User: sess.User, Token: sess.Token})
	if err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	if err := s.rdb.Set(ctx, key, b, redisx.TTLSession).Err(); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}
	return nil
}

// Delete ends the session (logout, account deletion).
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf(redisx.KeySession, sessionID)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}
