package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/opspulse/leadfunnel/config"
	"github.com/opspulse/leadfunnel/db"
	authhandler "github.com/opspulse/leadfunnel/internal/auth/handler"
	authrepo "github.com/opspulse/leadfunnel/internal/auth/repository/postgres"
	authservice "github.com/opspulse/leadfunnel/internal/auth/service"
	"github.com/opspulse/leadfunnel/internal/jobs"
	leadhandler "github.com/opspulse/leadfunnel/internal/lead/handler"
	leadrepo "github.com/opspulse/leadfunnel/internal/lead/repository/postgres"
	leadservice "github.com/opspulse/leadfunnel/internal/lead/service"
)

func main() {
	setupLogging()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	adminRepo := authrepo.NewAdminRepository(pool)
	tokenService := authservice.NewTokenService(cfg.TokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryDay)
	authService := authservice.NewAuthService(adminRepo, tokenService, cfg)
	sessionService := authservice.NewSessionService(adminRepo, tokenService)
	authHandler := authhandler.NewAuthHandler(authService, sessionService, cfg)

	leadRepo := leadrepo.NewLeadRepository(pool)
	leadService := leadservice.NewLeadService(leadRepo)
	leadHandler := leadhandler.NewLeadHandler(leadService)

	scheduler := jobs.NewScheduler(adminRepo, cfg.AttemptRetentionDays)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	app := fiber.New()
	authhandler.RegisterRoutes(app, authHandler)
	leadhandler.RegisterRoutes(app, leadHandler, authHandler.RequireAdmin())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", sig.String()).Info("shutting down")

	cancel()
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
}
