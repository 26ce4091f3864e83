package cmd

import (
	"context"
	"fmt"

	"court-compare/core/config"
	"court-compare/core/database"
	"court-compare/core/staging"
	"court-compare/core/storage"
	"court-compare/feature/session"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// openStaging builds the configured staging backend.
func openStaging(ctx context.Context, cfg *config.Config, l *zap.Logger) (staging.Store, error) {
	switch cfg.Staging.Backend {
	case staging.BackendLocal, "":
		return staging.NewLocalStore(afero.NewOsFs(), cfg.Staging.Dir)
	case staging.BackendS3:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		store := staging.NewBucketStore(client, cfg.Storage.Bucket, cfg.Staging.Prefix, l)
		if err := store.Ensure(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown staging backend %q", cfg.Staging.Backend)
	}
}

// openSessions builds the configured session store, connecting to the
// database only when the database backend is selected.
func openSessions(cfg *config.Config, l *zap.Logger) (session.Store, error) {
	var db *gorm.DB
	if cfg.Session.Backend == session.BackendDatabase {
		conn, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		db = conn
		l.Info("Connected to session database", zap.String("driver", cfg.Database.Driver))
	}
	return session.New(cfg.Session, db)
}
