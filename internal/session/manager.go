package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/inkwell/inkwell/internal/jwt"
)

// ErrNoSession is returned when a token was never issued, has been destroyed
// or has expired.
var ErrNoSession = errors.New("session: no active session")

const keyPrefix = "inkwell:session:"

// Manager maps opaque signed tokens to signed-in usernames. The token itself
// is an HS256 JWT, so it cannot be forged; the session record lives in Redis
// with a TTL, so logout takes effect before expiry and resolution works on
// any replica sharing the same Redis.
type Manager struct {
	client *redis.Client
	secret string
	ttl    time.Duration
}

// NewManager constructs a Manager backed by the given Redis client.
func NewManager(client *redis.Client, secret string, ttl time.Duration) *Manager {
	return &Manager{client: client, secret: secret, ttl: ttl}
}

// Create issues a fresh token bound to username. The token is only returned
// once the session record exists, so a caller holding a token always holds an
// active session.
func (m *Manager) Create(ctx context.Context, username string) (string, error) {
	id := uuid.NewString()
	token, err := jwt.GenerateToken(username, id, m.secret, m.ttl)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	if err := m.client.Set(ctx, keyPrefix+id, username, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("register session: %w", err)
	}
	return token, nil
}

// Resolve returns the username a token authenticates, or ErrNoSession when
// the token is forged, expired, never issued or destroyed.
func (m *Manager) Resolve(ctx context.Context, token string) (string, error) {
	claims, err := jwt.Parse(token, m.secret)
	if err != nil {
		return "", ErrNoSession
	}
	username, err := m.client.Get(ctx, keyPrefix+claims.ID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("look up session: %w", err)
	}
	return username, nil
}

// Destroy ends the session a token refers to. It is idempotent: destroying a
// destroyed, expired or never-issued token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	claims, err := jwt.Parse(token, m.secret)
	if err != nil {
		return nil
	}
	if err := m.client.Del(ctx, keyPrefix+claims.ID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Ping reports whether the session backend is reachable.
func (m *Manager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}
