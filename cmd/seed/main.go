// Command seed provisions an admin account. It is the only way accounts are
// created; there is no signup endpoint.
package main

import (
	"context"
	"flag"

	log "github.com/sirupsen/logrus"

	"github.com/opspulse/leadfunnel/config"
	"github.com/opspulse/leadfunnel/db"
	"github.com/opspulse/leadfunnel/internal/auth/repository/postgres"
	"github.com/opspulse/leadfunnel/internal/auth/service"
)

func main() {
	var (
		email     = flag.String("email", "", "admin email (must be on the allow-list)")
		password  = flag.String("password", "", "initial password")
		name      = flag.String("name", "", "display name")
		mustReset = flag.Bool("must-reset", true, "force a password reset on first login")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	ctx := context.Background()
	pool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	repo := postgres.NewAdminRepository(pool)
	tokenService := service.NewTokenService(cfg.TokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryDay)
	authService := service.NewAuthService(repo, tokenService, cfg)

	admin, err := authService.CreateAdmin(ctx, *email, *password, *name, *mustReset)
	if err != nil {
		log.WithError(err).Fatal("failed to create admin")
	}

	log.WithFields(log.Fields{"id": admin.ID, "email": admin.Email}).Info("admin created")
}
