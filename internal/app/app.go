// Package app wires the avisos daemon: store, services, HTTP API, live feed
// and the purge scheduler, and runs them until a shutdown signal.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/avisos/internal/config"
	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/dmitrijs2005/avisos/internal/scheduler"
	"github.com/dmitrijs2005/avisos/internal/server/httpapi"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	runtime   *Runtime
	server    *httpapi.Server
	scheduler *scheduler.Scheduler
}

// NewLogger builds the configured structured logger on stdout.
func NewLogger(c *config.Config) (logging.Logger, error) {
	l, err := logging.New(c.LogLevel, c.LogFormat, os.Stdout)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	rt, err := NewRuntime(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	h := httpapi.NewHandler(httpapi.Deps{
		Notes:          rt.Notes,
		Lifecycle:      rt.Lifecycle,
		Query:          rt.Query,
		Users:          rt.Users,
		Clock:          rt.now,
		Log:            logger.With("module", "http"),
		WSWriteTimeout: c.WSWriteTimeout,
		WSPingInterval: c.WSPingInterval,
	})
	srv := httpapi.NewServer(c.HTTPAddr, h.Router(), logger, c.ShutdownTimeout)
	srv.OnShutdown(h.CloseLive)

	sch := scheduler.New(rt.Lifecycle, scheduler.Options{
		Interval:   c.PurgeInterval,
		RetryDelay: c.PurgeRetryDelay,
		Timeout:    c.PurgeTimeout,
		Clock:      rt.now,
		Log:        logger.With("module", "scheduler"),
	})

	return &App{config: c, logger: logger, runtime: rt, server: srv, scheduler: sch}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) (stop func()) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run serves until ctx is cancelled, a shutdown signal arrives or a
// component fails, then releases the store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.server.Run(gctx) })
	g.Go(func() error { return app.scheduler.Run(gctx) })

	err := g.Wait()
	if cerr := app.runtime.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close store: %w", cerr)
	}
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}
