package services

import (
	"context"
	"log"

	"github.com/portfolio/backend/internal/config"
)

// Open picks the backend the configuration asks for: MongoDB when a URI is
// set, otherwise the JSON file store under DataDir.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	if cfg.UseMongo() {
		return NewMongoBackend(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return NewMemoryBackend(cfg.DataDir)
}

// BootstrapAdmin creates the configured admin account if it does not exist.
// Nothing happens when no credentials are configured.
func BootstrapAdmin(ctx context.Context, admins AdminService, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	admin, created, err := admins.EnsureAdmin(ctx, email, password)
	if err != nil {
		return err
	}
	if created {
		log.Printf("[Admin] created admin account email=%s", admin.Email)
	}
	return nil
}
