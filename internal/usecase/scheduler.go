package usecase

import (
	"context"
	"time"

	drepo "Velra/internal/domain/repository"
	applogger "Velra/pkg/logger"
	xutil "Velra/pkg/util"
)

// Clock abstracts wall time and sleeping.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// SystemClock is the real wall clock.
func SystemClock() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// SchedulerConfig holds the loop timings.
type SchedulerConfig struct {
	Location     *time.Location
	StaleAfter   time.Duration
	PollInterval time.Duration
	Cooldown     time.Duration
}

// Scheduler triggers a catch-up refresh at startup when the snapshot is
// missing or stale, then one refresh at the top of every local hour.
type Scheduler struct {
	store     drepo.SnapshotStore
	refresher Refresher
	clock     Clock
	cfg       SchedulerConfig
	l         *applogger.Logger
}

func NewScheduler(store drepo.SnapshotStore, refresher Refresher, clock Clock, cfg SchedulerConfig) *Scheduler {
	if clock == nil {
		clock = SystemClock()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Hour
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	return &Scheduler{
		store:     store,
		refresher: refresher,
		clock:     clock,
		cfg:       cfg,
		l:         applogger.Nop(),
	}
}

// SetLogger injects a structured logger.
func (s *Scheduler) SetLogger(l *applogger.Logger) { s.l = l }

// NeedsCatchUp reports whether the startup refresh should run, and why.
func (s *Scheduler) NeedsCatchUp() (bool, string) {
	mtime, ok, err := s.store.ModTime()
	switch {
	case err != nil:
		s.l.Warn("snapshot stat failed", applogger.Error(err))
		return true, "unreadable"
	case !ok:
		return true, "missing"
	case xutil.OlderThan(mtime, s.clock.Now(), s.cfg.StaleAfter):
		return true, "stale"
	}
	return false, ""
}

// RunOnce performs the startup-conditional refresh and returns.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.catchUp(ctx)
	return ctx.Err()
}

func (s *Scheduler) catchUp(ctx context.Context) bool {
	ok, reason := s.NeedsCatchUp()
	if !ok {
		s.l.Info("snapshot is fresh, nothing to do")
		return false
	}
	s.l.Info("startup refresh", applogger.String("reason", reason))
	s.cycle(ctx, "startup")
	return true
}

// Run performs the startup refresh and then loops until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	started := s.clock.Now()
	ranAtStart := s.catchUp(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	// Starting inside minute 0 still owes this hour's refresh unless the
	// catch-up already covered it.
	if now := s.clock.Now(); xutil.IsTopOfHour(now, s.cfg.Location) &&
		!(ranAtStart && xutil.IsTopOfHour(started, s.cfg.Location)) {
		s.cycle(ctx, "top_of_hour")
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	for {
		next := xutil.NextTopOfHour(s.clock.Now(), s.cfg.Location)
		s.l.Debug("waiting for top of hour", applogger.Time("next", next))
		if err := s.waitUntil(ctx, next); err != nil {
			return err
		}

		// A late wake-up (suspend, clock jump) past the trigger minute is skipped.
		if now := s.clock.Now(); now.Sub(next) >= time.Minute {
			s.l.Warn("top of hour missed", applogger.Time("due", next), applogger.Time("now", now))
			continue
		}

		s.cycle(ctx, "top_of_hour")
		if err := s.clock.Sleep(ctx, s.cfg.Cooldown); err != nil {
			return err
		}
	}
}

func (s *Scheduler) waitUntil(ctx context.Context, deadline time.Time) error {
	for {
		now := s.clock.Now()
		if !now.Before(deadline) {
			return nil
		}
		d := deadline.Sub(now)
		if d > s.cfg.PollInterval {
			d = s.cfg.PollInterval
		}
		if err := s.clock.Sleep(ctx, d); err != nil {
			return err
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context, trigger string) {
	if err := s.refresher.Refresh(ctx); err != nil {
		s.l.Debug("refresh cycle ended with error",
			applogger.String("trigger", trigger),
			applogger.Error(err),
		)
	}
}
