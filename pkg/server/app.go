package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	drepo "FactorLab/internal/domain/repository"
	internalrepo "FactorLab/internal/repository"
	"FactorLab/internal/usecase"
	"FactorLab/pkg/cache"
	"FactorLab/pkg/config"
	xhttp "FactorLab/pkg/http"
	applogger "FactorLab/pkg/logger"
	"FactorLab/pkg/util"
)

// App encapsulates the application lifecycle: run the regression batch,
// then optionally keep serving the results over HTTP.
type App struct {
	cfg     *config.Config
	runner  *usecase.Runner
	handler xhttp.Handler
	storage *internalrepo.Storage
	cache   cache.Service
	pub     drepo.ResultPublisher
	l       *applogger.Logger

	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	runner *usecase.Runner,
	handler xhttp.Handler,
	storage *internalrepo.Storage,
	c cache.Service,
	pub drepo.ResultPublisher,
	l *applogger.Logger,
) *App {
	return &App{
		cfg:     cfg,
		runner:  runner,
		handler: handler,
		storage: storage,
		cache:   c,
		pub:     pub,
		l:       l,
	}
}

// Run executes the batch and blocks in serve mode until interrupted.
// Storage, cache and publisher are closed on every exit path.
func (a *App) Run() error {
	defer a.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	params := usecase.RunParams{
		Tickers: a.cfg.Regression.Tickers,
		StartYM: util.TruncateYM(a.cfg.Regression.Start, "2015-01"),
		Carhart: a.cfg.Regression.Carhart,
		Workers: a.cfg.Regression.Workers,
	}

	results, err := a.runner.Run(ctx, params)
	if err != nil {
		a.l.Error("regression batch failed", applogger.Error(err))
		return err
	}
	a.l.Info("regression batch complete",
		applogger.Int("results", len(results)),
		applogger.Int("tickers", len(params.Tickers)),
		applogger.String("start_ym", params.StartYM),
	)

	if !a.cfg.Server.Enabled {
		return nil
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("serving results", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http server shutdown error", applogger.Error(err))
		return err
	}
	return nil
}

func (a *App) close() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.l.Error("publisher close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.l.Error("cache close error", applogger.Error(err))
		}
	}
	if a.storage != nil && a.storage.Client != nil {
		if err := a.storage.Client.Close(); err != nil {
			a.l.Error("storage close error", applogger.Error(err))
		}
	}
}
