package main

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/authnet-service/internal/adapters/authnet"
	"github.com/kevin07696/authnet-service/internal/adapters/postgres"
	"github.com/kevin07696/authnet-service/internal/config"
	"github.com/kevin07696/authnet-service/internal/forms"
	paymentHandler "github.com/kevin07696/authnet-service/internal/handlers/payment"
	"github.com/kevin07696/authnet-service/internal/middleware"
	"github.com/kevin07696/authnet-service/internal/services/audit"
	"github.com/kevin07696/authnet-service/internal/services/events"
	"github.com/kevin07696/authnet-service/internal/services/notification"
	paymentService "github.com/kevin07696/authnet-service/internal/services/payment"
	profileService "github.com/kevin07696/authnet-service/internal/services/profile"
	webhookService "github.com/kevin07696/authnet-service/internal/services/webhook"
	pkgmiddleware "github.com/kevin07696/authnet-service/pkg/middleware"
	"github.com/kevin07696/authnet-service/pkg/observability"
	"github.com/kevin07696/authnet-service/pkg/resilience"
	"github.com/kevin07696/authnet-service/pkg/shutdown"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting authnet service",
		zap.String("environment", cfg.Environment),
		zap.Bool("gateway_sandbox", cfg.Gateway.Debug),
	)

	ctx := context.Background()

	sm, err := initSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secret manager", zap.Error(err))
	}
	if err := resolveGatewaySecrets(ctx, sm, cfg, logger); err != nil {
		logger.Fatal("Failed to resolve gateway secrets", zap.Error(err))
	}

	dbPool, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	logger.Info("Database connection established",
		zap.String("database", cfg.Database.Database),
	)

	handler, rateLimiter, err := initDependencies(dbPool, cfg, logger)
	if err != nil {
		dbPool.Close()
		logger.Fatal("Failed to initialize dependencies", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Gateway.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	healthChecker := observability.NewHealthChecker(dbPool)
	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("HTTP server listening",
			zap.Int("port", cfg.Server.HTTPPort),
			zap.Int("metrics_port", cfg.Server.MetricsPort),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Stopped in reverse: HTTP first, database last.
	shutdownMgr := shutdown.NewManager(15*time.Second, logger)
	shutdownMgr.RegisterNoErr("database", dbPool.Close)
	shutdownMgr.RegisterNoErr("rate_limiter", rateLimiter.Shutdown)
	shutdownMgr.Register("metrics_server", func(ctx context.Context) error {
		return observability.ShutdownMetricsServer(ctx, metricsServer)
	})
	shutdownMgr.Register("http_server", httpServer.Shutdown)
	shutdownMgr.RegisterNoErr("readiness", func() { healthChecker.SetReady(false) })

	if err := shutdownMgr.WaitForSignal(); err != nil {
		logger.Error("Shutdown finished with errors", zap.Error(err))
	}
}

func initLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func initDependencies(dbPool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) (http.Handler, *pkgmiddleware.RateLimiter, error) {
	db := postgres.NewDBExecutor(dbPool)

	gatewayCfg := authnet.DefaultConfig(cfg.Gateway.LoginID, cfg.Gateway.TranKey, cfg.Gateway.Debug)
	gatewayCfg.AIMURL = cfg.Gateway.AIMURL
	gatewayCfg.CIMURL = cfg.Gateway.CIMURL
	gatewayCfg.Timeout = cfg.Gateway.Timeout
	gatewayCfg.DelimChar = cfg.Gateway.DelimChar

	responseSvc := audit.NewResponseService(db, postgres.NewResponseRepository(), logger)

	aim := audit.RecordingGateway(authnet.NewAIMAdapter(gatewayCfg, nil, logger), responseSvc, logger)
	cim := authnet.NewCIMAdapter(gatewayCfg, nil, logger)

	webhookSvc := webhookService.NewWebhookDeliveryService(cfg.Webhooks.URLs, cfg.Webhooks.Secret, nil, logger).
		WithRetry(cfg.Webhooks.MaxAttempts, resilience.WebhookBackoff()).
		WithTimeout(cfg.Webhooks.Timeout)

	dispatcher := events.NewDispatcher(logger)
	dispatcher.SubscribeAll(events.ResponseRecorder(responseSvc))
	dispatcher.SubscribeAll(events.MetricsListener())
	if webhookSvc.Enabled() {
		dispatcher.SubscribeAll(events.WebhookListener(webhookSvc))
	}

	if cfg.Gateway.MD5Hash == "" {
		logger.Warn("AUTHNET_MD5_HASH is empty, relay notifications are not verified")
	}
	notificationSvc := notification.NewService(cfg.Gateway.LoginID, cfg.Gateway.MD5Hash, dispatcher, logger)

	flow := paymentService.NewSubmissionFlow(aim, logger, checkoutOptions(cfg.Checkout)...)
	profileSvc := profileService.NewProfileService(db, postgres.NewProfileRepository(), cim, logger)

	var overrides []fs.FS
	if cfg.Server.TemplateDir != "" {
		overrides = append(overrides, os.DirFS(cfg.Server.TemplateDir))
	}
	renderer, err := paymentHandler.NewRenderer(logger, overrides...)
	if err != nil {
		return nil, nil, err
	}

	h := paymentHandler.NewHandler(notificationSvc, flow, profileSvc, responseSvc, renderer, logger)

	rateLimiter := pkgmiddleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(observability.HTTPMetrics)
	r.Use(middleware.NewSecurityHeaders(!cfg.IsProduction()).Middleware)

	identity := middleware.NewIdentity(cfg.Server.IdentityHeader, logger).WithOperators(cfg.Server.OperatorIDs)
	h.RegisterRoutes(r, identity, rateLimiter.Middleware)

	return r, rateLimiter, nil
}

func checkoutOptions(cfg config.CheckoutConfig) []paymentService.Option {
	extra := map[string]string{}
	var opts []paymentService.Option

	if cfg.Amount != "" {
		extra["amount"] = cfg.Amount
	} else {
		opts = append(opts, paymentService.WithPaymentForm(forms.NewPaymentFormWithAmount))
	}
	if cfg.Description != "" {
		extra["description"] = cfg.Description
	}
	if cfg.CollectShipping {
		opts = append(opts, paymentService.WithShippingForm(forms.NewShippingAddressForm))
	}
	return append(opts,
		paymentService.WithExtraData(extra),
		paymentService.WithContext(map[string]interface{}{"title": "Payment"}),
	)
}
