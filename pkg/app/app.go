package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/config"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/greeting"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/logging"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/metrics"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/middleware"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/peer"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/server"
	"github.com/Vasiliy82/ArchiScoper/helloworld/pkg/tracing"
)

// Deps - зависимости, из которых сервис собирает свой роутер
type Deps struct {
	Config  config.Config
	Logger  *zap.Logger
	Metrics *metrics.Collector
	Greeter *greeting.Service
}

// RouterFunc строит HTTP-роутер сервиса
type RouterFunc func(d Deps) http.Handler

// Run загружает конфиг, поднимает трейсинг, метрики и HTTP сервер и работает до SIGINT/SIGTERM
func Run(id config.Identity, router RouterFunc) error {
	cfg, err := config.Load(id)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment}, cfg.ServiceName)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := setupTracing(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ExporterTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	srv := server.New(cfg.ListenAddress, Handler(Build(cfg, log), router), log)
	log.Info("service configured",
		zap.String("peer", cfg.PeerName),
		zap.String("peer_url", cfg.PeerURL),
		zap.Duration("peer_timeout", cfg.PeerTimeout),
		zap.Bool("tracing", cfg.TracingEnabled),
	)
	return srv.Run(ctx)
}

// Build собирает зависимости сервиса по конфигу
func Build(cfg config.Config, log *zap.Logger) Deps {
	collector := metrics.NewCollector(cfg.Name)
	client := peer.NewClient(peer.Config{
		Name:    cfg.PeerName,
		BaseURL: cfg.PeerURL,
		Timeout: cfg.PeerTimeout,
	}, log)

	return Deps{
		Config:  cfg,
		Logger:  log,
		Metrics: collector,
		Greeter: greeting.NewService(cfg.Name, client, collector, log),
	}
}

// Handler оборачивает роутер сервиса в общие middleware: request ID, паника, трейсинг
func Handler(d Deps, router RouterFunc) http.Handler {
	h := router(d)
	h = tracing.WrapHTTPHandler(h, d.Config.ServiceName)
	h = middleware.Recovery(d.Logger)(h)
	return middleware.RequestID(h)
}

func setupTracing(ctx context.Context, cfg config.Config, log *zap.Logger) (func(context.Context) error, error) {
	tracing.SetupPropagation(cfg.XRay)
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warn("opentelemetry error", zap.Error(err))
	}))

	if !cfg.TracingEnabled {
		return func(context.Context) error { return nil }, nil
	}

	shutdown, err := tracing.InitTracer(ctx,
		tracing.TraceConfig{
			ExporterURL: cfg.ExporterURL,
			Protocol:    cfg.ExporterProtocol,
			SampleRate:  cfg.SampleRate,
			Timeout:     cfg.ExporterTimeout,
			XRay:        cfg.XRay,
		},
		tracing.AppInfo{
			Environment:       cfg.Environment,
			DomainName:        cfg.DomainName,
			ServiceName:       cfg.ServiceName,
			ServiceVersion:    cfg.ServiceVersion,
			ServiceInstanceID: cfg.ServiceInstanceID,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	log.Info("tracing enabled",
		zap.String("exporter_url", cfg.ExporterURL),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return shutdown, nil
}

// Main - точка входа для cmd/main.go
func Main(id config.Identity, router RouterFunc) {
	if err := Run(id, router); err != nil {
		fmt.Fprintf(os.Stderr, "%s-service: %v\n", id.Name, err)
		os.Exit(1)
	}
}
