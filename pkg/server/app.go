package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"LaunchCast/internal/domain/repository"
	icache "LaunchCast/internal/service/cache"
	"LaunchCast/pkg/config"
	xhttp "LaunchCast/pkg/http"
	applogger "LaunchCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	publisher  repository.PlanPublisher
	store      icache.BytesCache
	log        *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	httpServer *xhttp.Server,
	publisher repository.PlanPublisher,
	store icache.BytesCache,
	log *applogger.Logger,
) *App {
	if log == nil {
		log = applogger.NewNop()
	}
	return &App{
		cfg:        cfg,
		httpServer: httpServer,
		publisher:  publisher,
		store:      store,
		log:        log,
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext serves until ctx is done, then shuts down.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("launchcast started",
		applogger.String("addr", a.httpServer.Addr()),
		applogger.Int("lookup_sources", len(a.cfg.Lookup.Sources)),
		applogger.Bool("cache", a.cfg.Cache.Enabled),
		applogger.Bool("kafka", a.cfg.Kafka.Enabled),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown(context.Background())
}

// shutdown stops the server first so no plan is published after the producer closes.
func (a *App) shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("plan publisher close error", applogger.Error(err))
		}
	}
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	a.log.Info("shutdown complete")
	return firstErr
}
