package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mediflow/hms-gateway/config"
	adminHandler "github.com/mediflow/hms-gateway/internal/handler/admin"
	authHandler "github.com/mediflow/hms-gateway/internal/handler/auth"
	bookingHandler "github.com/mediflow/hms-gateway/internal/handler/booking"
	doctorHandler "github.com/mediflow/hms-gateway/internal/handler/doctor"
	staffHandler "github.com/mediflow/hms-gateway/internal/handler/staff"
	"github.com/mediflow/hms-gateway/internal/email"
	"github.com/mediflow/hms-gateway/internal/middleware"
	"github.com/mediflow/hms-gateway/internal/remote"
	"github.com/mediflow/hms-gateway/internal/repository/postgres"
	"github.com/mediflow/hms-gateway/internal/router"
	auditService "github.com/mediflow/hms-gateway/internal/service/audit"
	"github.com/mediflow/hms-gateway/internal/session"
	"github.com/mediflow/hms-gateway/internal/worker"
	"github.com/mediflow/hms-gateway/pkg/logger"
	"github.com/mediflow/hms-gateway/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	m := metrics.NewMetrics(cfg.Monitoring.MetricsPrefix)

	// Local audit trail storage.
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	auditRepo := postgres.NewAuditRepository(db)
	auditSvc := auditService.NewService(auditRepo, appLogger.WithComponent("audit"))

	store, err := session.NewStore(session.Config{
		RedisURL:  cfg.Session.RedisURL,
		Secret:    cfg.Session.Secret,
		CipherKey: []byte(cfg.Session.CipherKey),
		TTL:       cfg.Session.TTL,
	}, m, appLogger.WithComponent("session"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to session store")
	}
	defer store.Close()

	client := remote.NewClient(remote.Config{
		BaseURL: cfg.RemoteAPI.BaseURL,
		Timeout: cfg.RemoteAPI.Timeout,
	}, m, appLogger.WithComponent("remote"))

	emailSvc := email.NewService(cfg.SMTP, appLogger.WithComponent("email"))

	authMiddleware := middleware.NewAuthMiddleware(store)

	authH := authHandler.NewHandler(client, store, auditSvc, m)
	bookingH := bookingHandler.NewHandler(client, emailSvc, auditSvc, m, appLogger.WithComponent("booking"))
	staffH := staffHandler.NewHandler(client, auditSvc)
	doctorH := doctorHandler.NewHandler(client, auditSvc)
	adminH := adminHandler.NewHandler(client, auditSvc)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Security.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Security.AllowedOrigins
	}

	r := router.NewRouter(authMiddleware, authH, bookingH, staffH, doctorH, adminH, router.Config{
		RateLimit: middleware.RateLimiterConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
			TTL:   cfg.RateLimit.TTL,
		},
		CORSConfig:    corsConfig,
		Timeout:       cfg.Server.RequestTimeout,
		MetricsPrefix: cfg.Monitoring.MetricsPrefix + "_router",
	})
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cleanupWorker := worker.NewAuditCleanupWorker(
		auditRepo,
		cfg.Audit.RetentionDays,
		cfg.Audit.CleanupInterval,
		appLogger.WithComponent("audit-cleanup"),
	)
	go cleanupWorker.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
