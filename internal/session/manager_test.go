package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
)

func newManagerTest(t *testing.T, ttl time.Duration) (*Manager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return NewManager(rdb, "test-secret", ttl), mr
}

func TestCreateResolveDestroy(t *testing.T) {
	m, _ := newManagerTest(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	username, err := m.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if username != "alice" {
		t.Fatalf("unexpected username: %q", username)
	}

	if err := m.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy session: %v", err)
	}
	if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after destroy, got %v", err)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	m, _ := newManagerTest(t, time.Hour)
	ctx := context.Background()

	token, err := m.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := m.Destroy(ctx, token); err != nil {
		t.Fatalf("first destroy: %v", err)
	}
	if err := m.Destroy(ctx, token); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
	if err := m.Destroy(ctx, "never-issued"); err != nil {
		t.Fatalf("destroy of never-issued token: %v", err)
	}
}

func TestResolveRejectsForgedToken(t *testing.T) {
	m, _ := newManagerTest(t, time.Hour)
	forger, _ := newManagerTest(t, time.Hour)
	ctx := context.Background()

	if _, err := m.Resolve(ctx, "garbage"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession for garbage token, got %v", err)
	}

	// Token signed under a different secret must not resolve.
	forged, err := forger.Create(ctx, "mallory")
	if err != nil {
		t.Fatalf("create forged token: %v", err)
	}
	other := NewManager(m.client, "another-secret", time.Hour)
	forged2, err := other.Create(ctx, "mallory")
	if err != nil {
		t.Fatalf("create forged token: %v", err)
	}
	for _, token := range []string{forged, forged2} {
		if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
			t.Fatalf("expected ErrNoSession for forged token, got %v", err)
		}
	}
}

func TestResolveAfterExpiry(t *testing.T) {
	m, mr := newManagerTest(t, time.Second)
	ctx := context.Background()

	token, err := m.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	mr.FastForward(2 * time.Second)
	if _, err := m.Resolve(ctx, token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected ErrNoSession after expiry, got %v", err)
	}
}

func TestConcurrentSessionsForSameUser(t *testing.T) {
	m, _ := newManagerTest(t, time.Hour)
	ctx := context.Background()

	first, err := m.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create first session: %v", err)
	}
	second, err := m.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("create second session: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct tokens per login")
	}

	if err := m.Destroy(ctx, first); err != nil {
		t.Fatalf("destroy first session: %v", err)
	}
	if _, err := m.Resolve(ctx, first); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expected first session destroyed, got %v", err)
	}
	username, err := m.Resolve(ctx, second)
	if err != nil {
		t.Fatalf("resolve second session: %v", err)
	}
	if username != "alice" {
		t.Fatalf("unexpected username: %q", username)
	}
}
