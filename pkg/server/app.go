package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"StabTrade/internal/usecase"
	pkgch "StabTrade/pkg/clickhouse"
	"StabTrade/pkg/config"
	xhttp "StabTrade/pkg/http"
	pkgkafka "StabTrade/pkg/kafka"
	applogger "StabTrade/pkg/logger"
)

// App encapsulates the long-running service lifecycle.
type App struct {
	cfg        *config.Config
	l          *applogger.Logger
	httpServer *xhttp.Server
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	processor  *usecase.YieldProcessor
	chClient   *pkgch.Client
}

// New creates a new App instance with all dependencies. consumer and
// chClient may be nil.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	processor *usecase.YieldProcessor,
	chClient *pkgch.Client,
) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		l:          l,
		httpServer: httpServer,
		consumer:   consumer,
		kh:         kh,
		processor:  processor,
		chClient:   chClient,
	}
}

// Run starts the application and blocks until ctx is cancelled or an
// interrupt arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.consumer != nil && a.kh != nil {
		if err := a.consumer.RegisterHandler(a.kh); err != nil {
			return err
		}
		if err := a.consumer.Start(); err != nil {
			a.l.Error("kafka consumer start error", applogger.Error(err))
			return err
		}
		a.l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}
	a.l.Info("service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("sinks", a.processor.Sinks()))

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then flushes sinks and closes clients.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if err := a.processor.Close(); err != nil {
		a.l.Warn("sink close error", applogger.Error(err))
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
