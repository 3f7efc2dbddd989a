package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Skotchmaster/market/pkg/authclient"
	"github.com/Skotchmaster/market/pkg/db"
	"github.com/Skotchmaster/market/pkg/events"
	"github.com/Skotchmaster/market/pkg/logging"
	"github.com/Skotchmaster/market/pkg/metrics"
	authmw "github.com/Skotchmaster/market/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/market/pkg/middleware/logging"
	metricsmw "github.com/Skotchmaster/market/pkg/middleware/metrics"
	"github.com/Skotchmaster/market/pkg/telemetry"
	"github.com/Skotchmaster/market/services/market/internal/config"
	"github.com/Skotchmaster/market/services/market/internal/httpserver"
	"github.com/Skotchmaster/market/services/market/internal/models"
	"github.com/Skotchmaster/market/services/market/internal/repo"
	"github.com/Skotchmaster/market/services/market/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_load_failed", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		logger.Error("telemetry_setup_failed", "error", err)
		os.Exit(1)
	}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, db.Options{
		Driver:      cfg.DBDriver,
		DSN:         cfg.DatabaseURL,
		ReplicaDSNs: cfg.Replicas(),
	})
	cancel()
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		if err := models.Migrate(gdb); err != nil {
			logger.Error("db_migrate_failed", "error", err)
			os.Exit(1)
		}
	}

	var publisher events.Publisher = events.Nop{}
	var producer *events.Producer
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		producer = events.NewProducer(brokers)
		publisher = producer
		logger.Info("kafka_enabled", "brokers", brokers)
	}

	m := metrics.New(cfg.ServiceName, prometheus.DefaultRegisterer)

	var refresher authmw.Refresher
	if cfg.AuthHTTPURL != "" {
		refresher = authclient.New(cfg.AuthHTTPURL)
	}

	r := &repo.GormRepo{DB: gdb}
	reviews := &service.ReviewService{Repo: r, Events: publisher}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Validator = httpserver.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(metricsmw.Requests(m))

	httpserver.Register(e, &httpserver.Deps{
		Catalog: &httpserver.CatalogHTTP{
			Svc:     &service.CatalogService{Repo: r},
			Reviews: reviews,
		},
		Cart: &httpserver.CartHTTP{
			Svc: &service.CartService{Repo: r, Events: publisher},
		},
		Orders: &httpserver.OrderHTTP{
			Svc:      &service.OrderService{Repo: r, Events: publisher, Metrics: m},
			Receipts: &service.ReceiptService{Repo: r, Events: publisher, Metrics: m},
		},
		Reviews:   &httpserver.ReviewHTTP{Svc: reviews},
		Favorites: &httpserver.FavoriteHTTP{Svc: &service.FavoriteService{Repo: r}},
		Health:    &httpserver.HealthHTTP{DB: gdb},
		Auth:      authmw.New([]byte(cfg.JWTAccessSecret), refresher),
		Gatherer:  prometheus.DefaultGatherer,
	})

	go func() {
		logger.Info("server_starting", "addr", cfg.Addr())
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server_stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_failed", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Warn("db_close_failed", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("telemetry_shutdown_failed", "error", err)
	}
	logger.Info("server_stopped")
}
