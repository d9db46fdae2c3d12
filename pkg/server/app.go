package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StockScout/internal/domain/repository"
	"StockScout/internal/usecase"
	"StockScout/pkg/config"
	xhttp "StockScout/pkg/http"
	applogger "StockScout/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	engine     *usecase.ScreeningEngine
	handler    xhttp.Handler
	publisher  repository.MatchPublisher
	archive    repository.RunArchive
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	engine *usecase.ScreeningEngine,
	handler xhttp.Handler,
	publisher repository.MatchPublisher,
	archive repository.RunArchive,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		handler:   handler,
		publisher: publisher,
		archive:   archive,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	// stop accepting work first: running tasks are superseded and the
	// progress stream is closed, so websocket handlers unwind
	a.engine.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("archive close error", applogger.Error(err))
		}
	}
	a.logger.RemoveCollector()

	a.logger.Info("shutdown complete")
	return nil
}
