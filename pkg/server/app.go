package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stockview/internal/domain/repository"
	"stockview/pkg/cache"
	pkgch "stockview/pkg/clickhouse"
	"stockview/pkg/config"
	xhttp "stockview/pkg/http"
	pkgkafka "stockview/pkg/kafka"
	applogger "stockview/pkg/logger"
)

// Starter is anything with a cron-style start/stop lifecycle.
type Starter interface {
	Start(ctx context.Context) error
	Stop()
}

// App encapsulates the entire application lifecycle: HTTP server, dashboard
// refresh schedule, alert consumer and the infrastructure clients they share.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	refresher  Starter
	consumer   *pkgkafka.Consumer
	watcher    pkgkafka.MessageHandler
	publisher  repository.QuotePublisher
	redisStore *cache.RedisStore
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates an App with all dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	refresher Starter,
	consumer *pkgkafka.Consumer,
	watcher pkgkafka.MessageHandler,
	publisher repository.QuotePublisher,
	redisStore *cache.RedisStore,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		handler:    handler,
		refresher:  refresher,
		consumer:   consumer,
		watcher:    watcher,
		publisher:  publisher,
		redisStore: redisStore,
		chClient:   chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.logger

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if a.refresher != nil {
		if err := a.refresher.Start(ctx); err != nil {
			l.Error("dashboard refresher start error", applogger.Error(err))
			return err
		}
	}

	if a.consumer != nil && a.watcher != nil {
		a.consumer.RegisterHandler(a.watcher)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("alert watcher started", applogger.String("topic", a.watcher.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.logger

	if a.refresher != nil {
		a.refresher.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("kafka producer close error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	if a.redisStore != nil {
		if err := a.redisStore.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
