package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Velra/internal/domain/models"
	drepo "Velra/internal/domain/repository"
	applogger "Velra/pkg/logger"
	xutil "Velra/pkg/util"
)

// Refresh results reported to metrics.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
	ResultLocked  = "locked"
)

// RefresherConfig holds the refresh cycle settings.
type RefresherConfig struct {
	Location            *time.Location
	LivewireCapacity    int
	LockKey             string
	LockTTL             time.Duration
	PersistFirstFailure bool
}

// SnapshotRefresher runs one generate, merge and persist cycle.
type SnapshotRefresher struct {
	store   drepo.SnapshotStore
	gen     drepo.Generator
	pub     drepo.Publisher
	locker  drepo.Locker
	metrics drepo.Metrics
	cfg     RefresherConfig
	now     func() time.Time
	l       *applogger.Logger
}

// NewSnapshotRefresher creates a new SnapshotRefresher. pub, locker and
// metrics may be nil.
func NewSnapshotRefresher(
	store drepo.SnapshotStore,
	gen drepo.Generator,
	pub drepo.Publisher,
	locker drepo.Locker,
	metrics drepo.Metrics,
	cfg RefresherConfig,
) *SnapshotRefresher {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.LivewireCapacity <= 0 {
		cfg.LivewireCapacity = DefaultLivewireCapacity
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &SnapshotRefresher{
		store:   store,
		gen:     gen,
		pub:     pub,
		locker:  locker,
		metrics: metrics,
		cfg:     cfg,
		now:     time.Now,
		l:       applogger.Nop(),
	}
}

// SetLogger injects a structured logger.
func (r *SnapshotRefresher) SetLogger(l *applogger.Logger) { r.l = l }

// SetNow overrides the wall clock.
func (r *SnapshotRefresher) SetNow(now func() time.Time) { r.now = now }

// Refresh performs one cycle. Generation failures are recorded into the
// snapshot status and returned; they never leave the cycle half-written.
func (r *SnapshotRefresher) Refresh(ctx context.Context) error {
	started := time.Now()

	if r.locker != nil && r.cfg.LockKey != "" {
		ok, err := r.locker.TryLock(ctx, r.cfg.LockKey, r.cfg.LockTTL)
		switch {
		case err != nil:
			r.l.Warn("refresh lock unavailable, continuing unlocked", applogger.Error(err))
		case !ok:
			r.l.Info("refresh skipped, lock held elsewhere", applogger.String("key", r.cfg.LockKey))
			r.metrics.RecordRefresh(ResultLocked, 0)
			return models.ErrRefreshLocked
		default:
			defer func() {
				if err := r.locker.Unlock(context.Background(), r.cfg.LockKey); err != nil {
					r.l.Warn("refresh unlock failed", applogger.Error(err))
				}
			}()
		}
	}

	prev, err := r.store.Load(ctx)
	if err != nil {
		r.l.Warn("snapshot unreadable, treating as absent",
			applogger.String("path", r.store.Path()),
			applogger.Error(err),
		)
		prev = nil
	}

	gen, err := r.gen.Generate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var ce *models.ConfigurationError
		if errors.As(err, &ce) {
			r.l.Error("generation skipped", applogger.Error(err))
			r.metrics.RecordError("configuration")
			r.metrics.RecordRefresh(ResultSkipped, time.Since(started).Seconds())
			return err
		}
		return r.recordFailure(ctx, prev, err, started)
	}

	return r.recordSuccess(ctx, prev, gen, started)
}

func (r *SnapshotRefresher) recordSuccess(ctx context.Context, prev *models.Snapshot, gen *models.Generation, started time.Time) error {
	now := r.now().In(r.cfg.Location)

	var previous []models.NewsItem
	if prev != nil {
		previous = prev.Livewire
	}
	fresh := StampLivewire(gen.Livewire, xutil.FormatClock(now, r.cfg.Location))
	merged := MergeLivewire(fresh, previous, r.cfg.LivewireCapacity)

	snap := &models.Snapshot{
		SchemaVersion: models.SchemaVersion,
		GeneratedAt:   now,
		Status:        models.Status{OK: true, LastSuccessAt: &now},
		Briefings:     gen.Briefings,
		Indices:       gen.Indices,
		Livewire:      merged,
	}

	if err := r.store.Write(ctx, snap); err != nil {
		r.l.Error("snapshot write failed", applogger.Error(err))
		r.metrics.RecordError("persistence")
		r.metrics.RecordRefresh(ResultFailure, time.Since(started).Seconds())
		return err
	}

	r.metrics.RecordRefresh(ResultSuccess, time.Since(started).Seconds())
	r.metrics.RecordLivewireSize(len(merged))
	r.metrics.RecordLastSuccess(now)
	r.l.Info("market snapshot updated",
		applogger.Int("fresh", len(fresh)),
		applogger.Int("livewire", len(merged)),
		applogger.Duration("took", time.Since(started)),
	)
	r.publish(ctx, snap)
	return nil
}

func (r *SnapshotRefresher) recordFailure(ctx context.Context, prev *models.Snapshot, cause error, started time.Time) error {
	msg := cause.Error()
	r.l.Error("generation failed", applogger.Error(cause))
	r.metrics.RecordError("generation")
	r.metrics.RecordRefresh(ResultFailure, time.Since(started).Seconds())

	var snap *models.Snapshot
	switch {
	case prev != nil:
		snap = prev
		snap.Status.OK = false
		snap.Status.LastError = &msg
	case r.cfg.PersistFirstFailure:
		snap = &models.Snapshot{
			SchemaVersion: models.SchemaVersion,
			GeneratedAt:   r.now().In(r.cfg.Location),
			Status:        models.Status{OK: false, LastError: &msg},
			Briefings:     models.Briefings{Regions: map[string]models.Briefing{}},
			Indices:       map[string][]models.Index{},
			Livewire:      []models.NewsItem{},
		}
	default:
		return cause
	}

	if err := r.store.Write(ctx, snap); err != nil {
		r.l.Error("failure status write failed", applogger.Error(err))
		r.metrics.RecordError("persistence")
		return fmt.Errorf("%w (status not persisted: %v)", cause, err)
	}
	r.publish(ctx, snap)
	return cause
}

func (r *SnapshotRefresher) publish(ctx context.Context, snap *models.Snapshot) {
	if r.pub == nil {
		return
	}
	if err := r.pub.PublishRefresh(ctx, models.NewRefreshEvent(snap)); err != nil {
		r.l.Warn("refresh event not published", applogger.Error(err))
		r.metrics.RecordError("publish")
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordRefresh(string, float64) {}
func (nopMetrics) RecordError(string)            {}
func (nopMetrics) RecordLivewireSize(int)        {}
func (nopMetrics) RecordLastSuccess(time.Time)   {}
