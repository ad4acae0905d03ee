package di

import (
	"fmt"
	"io"
	"strings"
	"time"

	"Velra/internal/domain/repository"
	"Velra/internal/handler/web"
	internalrepo "Velra/internal/repository"
	"Velra/internal/service/gemini"
	"Velra/internal/service/ratelimit"
	"Velra/internal/usecase"
	pkgcache "Velra/pkg/cache"
	"Velra/pkg/config"
	xhttp "Velra/pkg/http"
	pkgkafka "Velra/pkg/kafka"
	applogger "Velra/pkg/logger"
	"Velra/pkg/metrics"
	"Velra/pkg/server"
)

// ProvideLogger creates the process logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideLocation resolves the snapshot timezone.
func ProvideLocation(cfg *config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Snapshot.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Snapshot.Timezone, err)
	}
	return loc, nil
}

// ProvideSnapshotStore creates the file-backed snapshot store.
func ProvideSnapshotStore(cfg *config.Config, l *applogger.Logger) repository.SnapshotStore {
	store := internalrepo.NewFileSnapshotStore(cfg.Snapshot.Path)
	store.SetLogger(l.With(applogger.String("component", "store")))
	return store
}

// ProvideGenerator creates the Gemini generation client.
func ProvideGenerator(cfg *config.Config, l *applogger.Logger) repository.Generator {
	c := gemini.New(gemini.Config{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		APIVersion: cfg.Gemini.APIVersion,
		Model:      cfg.Gemini.Model,
		UseSearch:  cfg.Gemini.UseSearch,
		Timeout:    cfg.Gemini.Timeout,
	})
	c.SetLogger(l.With(applogger.String("component", "gemini")))
	return c
}

// ProvidePublisher creates the Kafka refresh publisher, or a no-op one when
// no broker is configured. The producer also ships aggregated error logs.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (repository.Publisher, error) {
	if !cfg.KafkaEnabled() {
		l.Info("kafka disabled, refresh events are not published")
		return internalrepo.NoopPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	pub := internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
	if cfg.Kafka.LogsTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			Topic:     cfg.Kafka.LogsTopic,
			Publisher: pub,
		})
	}
	l.Info("kafka publisher ready",
		applogger.String("brokers", strings.Join(cfg.Kafka.Brokers, ",")),
		applogger.String("topic", cfg.Kafka.Topic),
	)
	return pub, nil
}

// ProvideCache creates the Redis cache when enabled and reachable,
// falling back to the in-process cache.
func ProvideCache(cfg *config.Config, l *applogger.Logger) pkgcache.Service {
	if cfg.Redis.Enabled {
		rc, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisHost(cfg.Redis.Host),
			pkgcache.WithRedisPort(cfg.Redis.Port),
			pkgcache.WithRedisPassword(cfg.Redis.Password),
			pkgcache.WithRedisDB(cfg.Redis.DB),
			pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		if err == nil {
			l.Info("refresh lock backed by redis", applogger.String("host", cfg.Redis.Host))
			return rc
		}
		l.Warn("redis unavailable, using in-memory lock", applogger.Error(err))
	}
	return pkgcache.NewMemoryCache()
}

// ProvideLocker wraps the cache as the refresh lock.
func ProvideLocker(c pkgcache.Service) repository.Locker {
	return internalrepo.NewCacheLocker(c)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRefresher creates the refresh cycle use case.
func ProvideRefresher(
	cfg *config.Config,
	loc *time.Location,
	store repository.SnapshotStore,
	gen repository.Generator,
	pub repository.Publisher,
	locker repository.Locker,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.SnapshotRefresher {
	r := usecase.NewSnapshotRefresher(store, gen, pub, locker, m, usecase.RefresherConfig{
		Location:            loc,
		LivewireCapacity:    cfg.Snapshot.LivewireCapacity,
		LockKey:             internalrepo.RefreshLockKey,
		LockTTL:             cfg.Scheduler.LockTTL,
		PersistFirstFailure: cfg.Snapshot.PersistFirstFailure,
	})
	r.SetLogger(l.With(applogger.String("component", "refresher")))
	return r
}

// ProvideScheduler creates the scheduler loop on the system clock.
func ProvideScheduler(
	cfg *config.Config,
	loc *time.Location,
	store repository.SnapshotStore,
	r *usecase.SnapshotRefresher,
	l *applogger.Logger,
) *usecase.Scheduler {
	s := usecase.NewScheduler(store, r, usecase.SystemClock(), usecase.SchedulerConfig{
		Location:     loc,
		StaleAfter:   cfg.Snapshot.StaleAfter,
		PollInterval: cfg.Scheduler.PollInterval,
		Cooldown:     cfg.Scheduler.Cooldown,
	})
	s.SetLogger(l.With(applogger.String("component", "scheduler")))
	return s
}

// ProvideWorkerMetricsServer serves /metrics on the metrics port, or nil when disabled.
func ProvideWorkerMetricsServer(cfg *config.Config, l *applogger.Logger) *xhttp.Server {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return xhttp.NewServer(nil, l.With(applogger.String("component", "metrics")),
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Metrics.Port),
		xhttp.WithCORS(false),
		xhttp.WithMetrics(true, 0),
	)
}

// ProvideWorker assembles the worker lifecycle.
func ProvideWorker(
	l *applogger.Logger,
	s *usecase.Scheduler,
	ms *xhttp.Server,
	pub repository.Publisher,
	c pkgcache.Service,
) *server.Worker {
	return server.NewWorker(l, s, ms, collectorCloser{l}, pub, c)
}

// ProvideReadCache creates the server's snapshot byte cache.
func ProvideReadCache() *pkgcache.MemoryCache {
	return pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(8))
}

// ProvideSnapshotReader creates the cached snapshot reader.
func ProvideSnapshotReader(cfg *config.Config, c *pkgcache.MemoryCache) *internalrepo.SnapshotReader {
	return internalrepo.NewSnapshotReader(cfg.Snapshot.Path, c)
}

// ProvideSiteHandler creates the HTTP routes.
func ProvideSiteHandler(
	cfg *config.Config,
	loc *time.Location,
	reader *internalrepo.SnapshotReader,
	l *applogger.Logger,
) *web.SiteHandler {
	return web.NewSiteHandler(l.With(applogger.String("component", "web")), reader, web.SiteConfig{
		StaticDir:    cfg.Server.StaticDir,
		PollInterval: cfg.Server.LivePollInterval,
		Location:     loc,
	})
}

// ProvideHTTPServer creates the echo server for the site.
func ProvideHTTPServer(cfg *config.Config, h *web.SiteHandler, l *applogger.Logger) *xhttp.Server {
	return xhttp.NewServer(h, l,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(cfg.Metrics.Enabled, cfg.Server.SlowRequest),
		xhttp.WithRateLimit(ratelimit.New(), cfg.Server.RateLimitPerMin),
	)
}

// ProvideServerApp assembles the HTTP server lifecycle.
func ProvideServerApp(l *applogger.Logger, srv *xhttp.Server, c *pkgcache.MemoryCache) *server.App {
	return server.New(l, srv, c)
}

type collectorCloser struct{ l *applogger.Logger }

func (c collectorCloser) Close() error {
	c.l.RemoveCollector()
	return nil
}

var _ io.Closer = collectorCloser{}
