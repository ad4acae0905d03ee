package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	xhttp "Velra/pkg/http"
	applogger "Velra/pkg/logger"
)

// App runs the read-only HTTP surface until interrupted.
type App struct {
	httpServer *xhttp.Server
	closers    []io.Closer
	l          *applogger.Logger
}

// New creates a new App instance. closers are released after the server stops.
func New(l *applogger.Logger, httpServer *xhttp.Server, closers ...io.Closer) *App {
	return &App{httpServer: httpServer, closers: closers, l: l}
}

// Run starts the HTTP server and blocks until a signal or a listen failure.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	var runErr error
	select {
	case <-ctx.Done():
		a.l.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}

	a.shutdown()
	return runErr
}

func (a *App) shutdown() {
	if err := a.httpServer.Stop(context.Background()); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}
	closeAll(a.l, a.closers)
	a.l.Info("shutdown complete")
}

func closeAll(l *applogger.Logger, closers []io.Closer) {
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			l.Warn("close error", applogger.Error(err))
		}
	}
}
