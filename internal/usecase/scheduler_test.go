package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"Velra/internal/repository"
)

// fakeClock advances instantly on Sleep and cancels the run once it passes until.
type fakeClock struct {
	now    time.Time
	until  time.Time
	cancel context.CancelFunc
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if !c.until.IsZero() && c.now.After(c.until) {
		c.cancel()
		return context.Canceled
	}
	return nil
}

type recordingRefresher struct {
	clock *fakeClock
	at    []time.Time
}

func (r *recordingRefresher) Refresh(context.Context) error {
	r.at = append(r.at, r.clock.Now())
	return nil
}

func newSchedulerFixture(t *testing.T, start time.Time, age time.Duration) (*Scheduler, *fakeClock, *recordingRefresher) {
	t.Helper()
	store := repository.NewFileSnapshotStore(filepath.Join(t.TempDir(), "data.json"))
	if age >= 0 {
		if err := os.WriteFile(store.Path(), []byte(`{"schema_version":1}`), 0o644); err != nil {
			t.Fatal(err)
		}
		mtime := start.Add(-age)
		if err := os.Chtimes(store.Path(), mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}

	clock := &fakeClock{now: start}
	rec := &recordingRefresher{clock: clock}
	s := NewScheduler(store, rec, clock, SchedulerConfig{
		Location:     wib,
		StaleAfter:   time.Hour,
		PollInterval: 30 * time.Second,
		Cooldown:     61 * time.Second,
	})
	return s, clock, rec
}

func TestRunOnceStaleSnapshotTriggersOneGeneration(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 20, 0, 0, wib)
	s, _, rec := newSchedulerFixture(t, start, 3601*time.Second)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(rec.at) != 1 {
		t.Fatalf("expected exactly one generation, got %d", len(rec.at))
	}
}

func TestRunOnceFreshSnapshotDoesNothing(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 20, 0, 0, wib)
	s, _, rec := newSchedulerFixture(t, start, 100*time.Second)

	if err := s.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if len(rec.at) != 0 {
		t.Fatalf("fresh snapshot must not trigger generation, got %d", len(rec.at))
	}
}

func TestRunOnceMissingSnapshotTriggers(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 20, 0, 0, wib)
	s, _, rec := newSchedulerFixture(t, start, -1)

	if ok, reason := s.NeedsCatchUp(); !ok || reason != "missing" {
		t.Fatalf("expected missing catch-up, got %v %q", ok, reason)
	}
	_ = s.RunOnce(context.Background())
	if len(rec.at) != 1 {
		t.Fatalf("expected one generation, got %d", len(rec.at))
	}
}

func TestRunStaleStartupThenTopOfHour(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 58, 10, 0, wib)
	s, clock, rec := newSchedulerFixture(t, start, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.cancel = cancel
	clock.until = time.Date(2024, 10, 10, 12, 30, 0, 0, wib)

	err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if len(rec.at) != 3 {
		t.Fatalf("expected startup + two hourly generations, got %v", rec.at)
	}
	if !rec.at[0].Equal(start) {
		t.Fatalf("startup refresh should run immediately, ran at %v", rec.at[0])
	}
	for _, at := range rec.at[1:] {
		local := at.In(wib)
		if local.Minute() != 0 || local.Second() != 0 {
			t.Fatalf("hourly refresh at %v, want top of hour", local)
		}
	}
	for _, d := range clock.sleeps {
		if d > 61*time.Second {
			t.Fatalf("sleep %v exceeds poll interval and cooldown", d)
		}
	}
}

func TestRunFreshStartupWaitsForTopOfHour(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 59, 45, 0, wib)
	s, clock, rec := newSchedulerFixture(t, start, 100*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.cancel = cancel
	clock.until = time.Date(2024, 10, 10, 11, 5, 0, 0, wib)

	_ = s.Run(ctx)
	if len(rec.at) != 1 {
		t.Fatalf("expected a single hourly generation, got %v", rec.at)
	}
	if want := time.Date(2024, 10, 10, 11, 0, 0, 0, wib); !rec.at[0].Equal(want) {
		t.Fatalf("ran at %v want %v", rec.at[0], want)
	}
}

func TestRunStartupInsideMinuteZeroRefreshesThisHour(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 0, 20, 0, wib)
	s, clock, rec := newSchedulerFixture(t, start, 59*time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.cancel = cancel
	clock.until = time.Date(2024, 10, 10, 10, 30, 0, 0, wib)

	_ = s.Run(ctx)
	if len(rec.at) != 1 {
		t.Fatalf("expected one refresh in the 10:00 window, got %v", rec.at)
	}
	if !rec.at[0].Equal(start) {
		t.Fatalf("ran at %v want %v", rec.at[0], start)
	}
}

func TestRunStaleStartupInsideMinuteZeroRefreshesOnce(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 0, 20, 0, wib)
	s, clock, rec := newSchedulerFixture(t, start, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock.cancel = cancel
	clock.until = time.Date(2024, 10, 10, 10, 30, 0, 0, wib)

	_ = s.Run(ctx)
	if len(rec.at) != 1 {
		t.Fatalf("catch-up already covers the 10:00 window, got %v", rec.at)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	start := time.Date(2024, 10, 10, 10, 20, 0, 0, wib)
	s, clock, rec := newSchedulerFixture(t, start, 100*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	clock.cancel = cancel
	cancel()

	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(rec.at) != 0 {
		t.Fatalf("no generation expected after cancel")
	}
}
