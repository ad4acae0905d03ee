package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"Velra/internal/usecase"
	xhttp "Velra/pkg/http"
	applogger "Velra/pkg/logger"
)

// Worker runs the refresh scheduler, optionally exposing /metrics.
type Worker struct {
	scheduler  *usecase.Scheduler
	metricsSrv *xhttp.Server
	closers    []io.Closer
	l          *applogger.Logger
}

// NewWorker creates a Worker. metricsSrv may be nil; closers are released on exit.
func NewWorker(l *applogger.Logger, scheduler *usecase.Scheduler, metricsSrv *xhttp.Server, closers ...io.Closer) *Worker {
	return &Worker{scheduler: scheduler, metricsSrv: metricsSrv, closers: closers, l: l}
}

// Run blocks until the loop is interrupted, or returns after one startup
// check when once is set.
func (w *Worker) Run(once bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeAll(w.l, w.closers)

	if once {
		w.l.Info("worker running once")
		return ignoreCanceled(w.scheduler.RunOnce(ctx))
	}

	if w.metricsSrv != nil {
		if err := w.metricsSrv.Start(); err != nil {
			return err
		}
		defer func() {
			if err := w.metricsSrv.Stop(context.Background()); err != nil {
				w.l.Warn("metrics server stop error", applogger.Error(err))
			}
		}()
	}

	w.l.Info("worker loop started")
	err := ignoreCanceled(w.scheduler.Run(ctx))
	w.l.Info("worker stopped")
	return err
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
