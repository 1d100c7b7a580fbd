package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Skotchmaster/dojo_backoffice/internal/config"
	"github.com/Skotchmaster/dojo_backoffice/internal/db"
	"github.com/Skotchmaster/dojo_backoffice/internal/hash"
	"github.com/Skotchmaster/dojo_backoffice/internal/httpserver"
	"github.com/Skotchmaster/dojo_backoffice/internal/jobs"
	"github.com/Skotchmaster/dojo_backoffice/internal/logging"
	loggingmw "github.com/Skotchmaster/dojo_backoffice/internal/middleware/logging"
	"github.com/Skotchmaster/dojo_backoffice/internal/mykafka"
	"github.com/Skotchmaster/dojo_backoffice/internal/repo"
	"github.com/Skotchmaster/dojo_backoffice/internal/service"
)

type eventProducer interface {
	service.Publisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb, err := db.Open(startCtx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_open_failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Error("db_migrate_failed", "error", err)
		os.Exit(1)
	}

	var prod eventProducer = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Error("kafka_producer_failed", "error", err)
			os.Exit(1)
		}
		prod = p
	}

	store := &repo.GormRepo{DB: gdb}
	hasher := hash.New(cfg.BcryptCost)
	issuer := &service.SessionIssuer{Store: store, TTL: cfg.SessionTTL}
	gate := &service.Gate{Accounts: store, Sessions: store}

	authSvc := &service.AuthService{
		Accounts: store,
		Hasher:   hasher,
		Sessions: issuer,
		Gate:     gate,
		Events:   prod,
		Topic:    cfg.KafkaTopic,
	}
	userSvc := &service.UserService{Accounts: store, Hasher: hasher, Sessions: issuer, Events: prod, Topic: cfg.KafkaTopic}
	scheduleSvc := &service.ScheduleService{Store: store}

	if _, err := service.Bootstrap(logging.IntoContext(startCtx, logger), store, hasher,
		cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	purge, err := jobs.StartPurge(cfg.SessionPurgeSchedule, jobs.NewPurgeJob(issuer, logger))
	if err != nil {
		logger.Error("purge_schedule_invalid", "schedule", cfg.SessionPurgeSchedule, "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.BodyLimit("1M"))
	if len(cfg.CORSAllowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderXRequestID, httpserver.SessionHeader},
			AllowCredentials: true,
		}))
	}

	cookies := httpserver.CookieConfig{Secure: cfg.CookieSecure}
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: authSvc, Cookies: cookies},
		UsersHandler:     &httpserver.UsersHTTP{Svc: userSvc},
		SchedulesHandler: &httpserver.SchedulesHTTP{Svc: scheduleSvc},
		Gate:             &httpserver.GateMiddleware{Gate: gate, Cookies: cookies},
		Ready:            func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Metrics:          promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	go func() {
		<-quit
		logger.Warn("force_exit")
		os.Exit(1)
	}()

	logger.Info("shutting_down")
	shutdown(logger, srv, purge.Stop(), gdb, prod)
	logger.Info("shutdown_complete")
}

func shutdown(logger *slog.Logger, srv *http.Server, purgeDone context.Context, gdb *gorm.DB, prod eventProducer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_error", "error", err)
	}

	select {
	case <-purgeDone.Done():
	case <-ctx.Done():
		logger.Error("purge_stop_timeout")
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db_close_error", "error", err)
		}
	} else {
		logger.Error("db_handle_error", "error", err)
	}

	if err := prod.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
}
