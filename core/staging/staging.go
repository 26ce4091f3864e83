package staging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when a staged file does not exist.
	ErrNotFound = errors.New("staged file not found")
	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid staged file name")
)

// Store keeps uploaded snapshot files between comparison requests.
type Store interface {
	// Put stores the content under name, replacing any previous file.
	// size may be -1 when unknown.
	Put(ctx context.Context, name string, r io.Reader, size int64) error
	// Open returns the content of a staged file.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// List returns the staged file names in lexical order.
	List(ctx context.Context) ([]string, error)
	// Purge removes every staged file and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}

// CleanName reduces an uploaded file name to its base name.
func CleanName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." || strings.HasPrefix(base, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
