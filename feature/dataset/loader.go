package dataset

import (
	"context"
	"fmt"

	"court-compare/core/reconcile"
	"court-compare/core/staging"

	"github.com/spf13/afero"
)

// Loader turns staged snapshot files into datasets.
type Loader struct {
	store staging.Store
}

// NewLoader creates a loader reading from the staging area.
func NewLoader(store staging.Store) *Loader {
	return &Loader{store: store}
}

// Load opens and parses a staged file.
func (l *Loader) Load(ctx context.Context, name string) (reconcile.Dataset, error) {
	rc, err := l.store.Open(ctx, name)
	if err != nil {
		return reconcile.Dataset{}, err
	}
	defer rc.Close()

	return Parse(name, rc)
}

// LoadFile parses a snapshot file straight from a filesystem path.
func LoadFile(fs afero.Fs, path string) (reconcile.Dataset, error) {
	f, err := fs.Open(path)
	if err != nil {
		return reconcile.Dataset{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(path, f)
}
