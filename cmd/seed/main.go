// Command seed creates the first admin account in a persistent store.
//
// Credentials are read from SEED_ADMIN_NAME, SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD; ADMIN_INVITE_TOKEN must be configured.
package main

import (
	"context"
	"fmt"
	"os"
	"taskmanager/internal/auth"
	"taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
	"taskmanager/internal/logging"
	"taskmanager/internal/server"
	"taskmanager/internal/service"
	"taskmanager/repository"
	"taskmanager/repository/breaker"
	"time"

	"github.com/sirupsen/logrus"
)

// openStore is repository.Open; tests replace it.
type openStore func(cfg *server.Config, logger *logrus.Logger) (breaker.Store, error)

func main() {
	cfg, err := server.ReadConfig(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})

	if err := run(cfg, adminFromEnv(), repository.Open, logger); err != nil {
		logger.WithField("event", "SEED_FAILED").Error(err)
		os.Exit(1)
	}
}

// run seeds the admin and closes the store on every path.
func run(cfg *server.Config, req models.RegisterRequest, open openStore, logger *logrus.Logger) error {
	if cfg.Store == server.StoreMemory {
		return fmt.Errorf("%w: seeding the memory store has no effect, set STORE", errors.ErrConfigInvalidFormat)
	}

	store, err := open(cfg, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithField("event", "STORE_CLOSE_FAILED").Warnf("close store: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := seedAdmin(ctx, store, cfg, req, logger)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logger.WithFields(logrus.Fields{"event": "SEED_DONE", "user_id": user.ID, "email": user.Email}).Info("admin account ready")
	return nil
}

func adminFromEnv() models.RegisterRequest {
	return models.RegisterRequest{
		Name:     os.Getenv("SEED_ADMIN_NAME"),
		Email:    os.Getenv("SEED_ADMIN_EMAIL"),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
	}
}

// seedAdmin registers req as an admin through the regular signup path.
func seedAdmin(ctx context.Context, users service.UserRepository, cfg *server.Config, req models.RegisterRequest, logger *logrus.Logger) (*models.AuthResponse, error) {
	if cfg.AdminInviteToken == "" {
		return nil, fmt.Errorf("%w: ADMIN_INVITE_TOKEN is required", errors.ErrConfigInvalidFormat)
	}
	req.AdminInviteToken = cfg.AdminInviteToken

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	return service.NewAuthService(users, tokens, cfg.AdminInviteToken, logger).Register(ctx, req)
}
