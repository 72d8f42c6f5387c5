package httpx

import (
	"testing"
	"time"
)

func TestMemoryRateLimiterWindow(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		decision := rl.Allow("ip:10.0.0.1", 3, time.Minute)
		if !decision.allowed {
			t.Fatalf("request %d denied too early", i+1)
		}
	}
	decision := rl.Allow("ip:10.0.0.1", 3, time.Minute)
	if decision.allowed {
		t.Fatalf("expected fourth request to be denied")
	}
	if decision.count != 3 {
		t.Fatalf("unexpected count: %d", decision.count)
	}

	// Other clients are tracked separately.
	if decision := rl.Allow("ip:10.0.0.2", 3, time.Minute); !decision.allowed {
		t.Fatalf("separate key must not be throttled")
	}
}

func TestMemoryRateLimiterWindowReset(t *testing.T) {
	rl := &memoryRateLimiter{
		entries: make(map[string]rateState),
		stopCh:  make(chan struct{}),
	}
	defer rl.Close()

	key := "ip:10.0.0.1"
	for i := 0; i < 2; i++ {
		rl.Allow(key, 2, 10*time.Millisecond)
	}
	if decision := rl.Allow(key, 2, 10*time.Millisecond); decision.allowed {
		t.Fatalf("expected denial inside window")
	}
	time.Sleep(20 * time.Millisecond)
	if decision := rl.Allow(key, 2, 10*time.Millisecond); !decision.allowed {
		t.Fatalf("expected fresh window after expiry")
	}
}

func TestMemoryRateLimiterZeroLimitDisables(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 10; i++ {
		if decision := rl.Allow("ip:10.0.0.1", 0, time.Minute); !decision.allowed {
			t.Fatalf("zero limit must disable throttling")
		}
	}
}

func TestMemoryRateLimiterCleanup(t *testing.T) {
	rl := &memoryRateLimiter{
		entries: make(map[string]rateState),
		stopCh:  make(chan struct{}),
	}
	defer rl.Close()

	rl.Allow("ip:10.0.0.1", 5, time.Millisecond)
	rl.cleanup(time.Now().Add(time.Second))
	rl.mu.Lock()
	remaining := len(rl.entries)
	rl.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected expired entries to be swept, %d left", remaining)
	}
}
