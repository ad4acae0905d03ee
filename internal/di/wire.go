//go:build wireinject
// +build wireinject

package di

import (
	"Velra/pkg/config"
	"Velra/pkg/server"

	"github.com/google/wire"
)

// InitializeWorker wires up the refresh worker.
// Wire will generate the implementation of this function.
func InitializeWorker(cfg *config.Config) (*server.Worker, error) {
	wire.Build(
		ProvideLogger,
		ProvideLocation,
		ProvideMetrics,

		// Infrastructure
		ProvideSnapshotStore,
		ProvideGenerator,
		ProvidePublisher,
		ProvideCache,
		ProvideLocker,

		// Use cases
		ProvideRefresher,
		ProvideScheduler,

		ProvideWorkerMetricsServer,
		ProvideWorker,
	)
	return &server.Worker{}, nil
}

// InitializeServer wires up the HTTP server.
func InitializeServer(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideLocation,
		ProvideReadCache,
		ProvideSnapshotReader,
		ProvideSiteHandler,
		ProvideHTTPServer,
		ProvideServerApp,
	)
	return &server.App{}, nil
}
