package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	otellog "go.opentelemetry.io/otel/log"
	logglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mailtriage/internal/config"
	httpapi "github.com/fyrsmithlabs/mailtriage/internal/http"
	"github.com/fyrsmithlabs/mailtriage/internal/logging"
	"github.com/fyrsmithlabs/mailtriage/internal/notify"
	"github.com/fyrsmithlabs/mailtriage/internal/oracle"
	"github.com/fyrsmithlabs/mailtriage/internal/telemetry"
	"github.com/fyrsmithlabs/mailtriage/internal/testimonial"
	"github.com/fyrsmithlabs/mailtriage/internal/triage"
)

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	err = run(ctx, cfg)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// run wires every component from cfg and serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config) error {
	tel, err := telemetry.New(ctx, telemetry.FromAppConfig(cfg.Telemetry, cfg.Server.ServiceName, version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		_ = tel.Shutdown(context.Background())
	}()

	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	if h := tel.Health(); h.Degraded {
		logger.Warn(ctx, "telemetry degraded", zap.Strings("reasons", h.Reasons))
	}

	srv, err := newServer(ctx, cfg, tel, logger)
	if err != nil {
		return err
	}

	logger.Info(ctx, "starting mailtriage",
		zap.String("addr", srv.Addr()),
		zap.String("version", version),
		zap.String("oracle", cfg.Oracle.Provider),
		zap.String("alert_transport", cfg.Alert.Transport),
		zap.String("testimonials", cfg.Testimonials.Path),
	)
	return srv.Start(ctx)
}

func initLogger(cfg *config.Config) (*logging.Logger, error) {
	logCfg, err := logging.FromAppConfig(cfg.Logging, cfg.Server.ServiceName, cfg.Telemetry.Enabled)
	if err != nil {
		return nil, err
	}
	var provider otellog.LoggerProvider
	if cfg.Telemetry.Enabled {
		provider = logglobal.GetLoggerProvider()
	}
	return logging.NewLogger(logCfg, provider)
}

// newServer builds the classification pipeline and the HTTP server around it.
func newServer(ctx context.Context, cfg *config.Config, tel *telemetry.Telemetry, logger *logging.Logger) (*httpapi.Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := triage.NewMetrics(registry)

	store, err := testimonial.NewFileStore(cfg.Testimonials.Path)
	if err != nil {
		return nil, err
	}

	sender, err := notify.New(cfg, logger.Named("notify"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize alert transport: %w", err)
	}

	o, err := oracle.New(ctx, cfg.Oracle, logger.Named("oracle"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize oracle: %w", err)
	}

	clock := triage.SystemClock(cfg.Location())
	triageLogger := logger.Named("triage")
	ages := triage.NewAgeEvaluator(clock, triageLogger)

	dispatcher, err := triage.NewDispatcher(
		triage.NewAppointmentHandler(triageLogger, metrics),
		triage.PricingHandler{},
		triage.NewComplaintHandler(sender, ages, triageLogger, metrics),
		triage.NewFeedbackHandler(store, clock, triageLogger, metrics),
	)
	if err != nil {
		return nil, err
	}

	classifier, err := triage.NewClassifier(o, dispatcher, ages, triageLogger,
		triage.WithMetrics(metrics),
		triage.WithTracer(tel.Tracer(triage.InstrumentationName)),
		triage.WithOracleTimeout(cfg.Oracle.Timeout.Duration()),
	)
	if err != nil {
		return nil, err
	}

	return httpapi.NewServer(classifier, store, logger.Named("http"), &httpapi.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration(),
		StrictDates:     cfg.Server.StrictDates,
		ServiceName:     cfg.Server.ServiceName,
	},
		httpapi.WithGatherer(registry),
		httpapi.WithHTTPMetrics(httpapi.NewHTTPMetrics(tel.Meter("github.com/fyrsmithlabs/mailtriage/internal/http"), logger)),
	)
}
