package session

import (
	"context"
	"errors"
	"fmt"

	"court-compare/core/reconcile"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a session has no cached result.
var ErrNotFound = errors.New("no comparison result for session")

// Store caches comparison results by session id.
type Store interface {
	Save(ctx context.Context, sessionID string, result *reconcile.Result) error
	Load(ctx context.Context, sessionID string) (*reconcile.Result, error)
	// Clear forgets one session. Clearing an unknown session is not an error.
	Clear(ctx context.Context, sessionID string) error
	// Purge forgets every session and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}

// Config holds configuration for the session store.
type Config struct {
	// Backend selects the store implementation (memory, database).
	Backend string `mapstructure:"backend" default:"memory"`
}

const (
	BackendMemory   = "memory"
	BackendDatabase = "database"
)

// New creates the configured store. db is only used by the database backend.
func New(cfg Config, db *gorm.DB) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendDatabase:
		if db == nil {
			return nil, errors.New("database session backend requires a database connection")
		}
		return NewDatabaseStore(db)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
