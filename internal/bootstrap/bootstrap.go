// Package bootstrap holds the start-up wiring shared by the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"volunteer-hub-backend/internal/config"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/repository/mongodb"
	"volunteer-hub-backend/internal/repository/postgres"
	"volunteer-hub-backend/internal/service"
)

// LoadConfig reads .env (when present) into the environment, then the YAML
// config, and initializes the process logger from it.
func LoadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// OpenStore connects to the configured backend.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		logger.Info("Connecting to PostgreSQL", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case "mongo":
		logger.Info("Connecting to MongoDB", "database", cfg.Database.MongoDatabase)
		return mongodb.Connect(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase, cfg.MongoConnectTimeout())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// NewEmailService picks the configured outbound email provider.
func NewEmailService(cfg *config.Config) service.EmailService {
	e := cfg.Email
	switch e.Provider {
	case "smtp":
		logger.Info("Email provider: SMTP", "host", e.SMTP.Host, "port", e.SMTP.Port)
		return service.NewSMTPEmailService(e.SMTP.Host, e.SMTP.Port, e.SMTP.User, e.SMTP.Password, e.From)
	case "sendgrid":
		logger.Info("Email provider: SendGrid")
		return service.NewSendGridEmailService(e.SendGridAPIKey, e.From, e.FromName)
	default:
		logger.Info("Email provider: log")
		return service.NewLogEmailService()
	}
}

// NewPushService returns nil when push is disabled or Firebase cannot be initialized;
// notifications are then stored without being pushed.
func NewPushService(ctx context.Context, cfg *config.Config) service.PushService {
	if !cfg.Push.Enabled {
		return nil
	}
	push, err := service.NewFirebasePushService(ctx, cfg.Push.ProjectID, cfg.Push.CredentialsFile)
	if err != nil {
		logger.Error("Push disabled: failed to initialize Firebase", "error", err)
		return nil
	}
	logger.Info("Push notifications enabled", "project_id", cfg.Push.ProjectID)
	return push
}
