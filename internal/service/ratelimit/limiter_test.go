package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4", 3, 1) {
			t.Fatalf("request %d should pass", i)
		}
	}
	if l.Allow("1.2.3.4", 3, 1) {
		t.Fatalf("bucket should be empty")
	}
	if !l.Allow("5.6.7.8", 3, 1) {
		t.Fatalf("other keys are independent")
	}

	now = now.Add(time.Second)
	if !l.Allow("1.2.3.4", 3, 1) {
		t.Fatalf("one token should have refilled")
	}
}

func TestLimiterSweepsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }

	l.Allow("a", 1, 1)
	l.Allow("b", 1, 1)
	now = now.Add(11 * time.Minute)
	l.Allow("c", 1, 1)

	if got := l.Len(); got != 1 {
		t.Fatalf("expected idle keys swept, %d left", got)
	}
}
