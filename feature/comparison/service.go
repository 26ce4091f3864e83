package comparison

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"court-compare/core/metrics"
	"court-compare/core/reconcile"
	"court-compare/core/staging"
	"court-compare/feature/dataset"
	"court-compare/feature/export"
	"court-compare/feature/session"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrMissingName is returned when a compare request omits a snapshot name.
var ErrMissingName = errors.New("both old and new snapshot names are required")

// Service handles comparison operations.
type Service struct {
	staging    staging.Store
	loader     *dataset.Loader
	sessions   session.Store
	reconciler *reconcile.Reconciler
	logger     *zap.Logger
	group      singleflight.Group
}

// NewService creates a new comparison service.
func NewService(store staging.Store, sessions session.Store, opts reconcile.Options, logger *zap.Logger) *Service {
	return &Service{
		staging:    store,
		loader:     dataset.NewLoader(store),
		sessions:   sessions,
		reconciler: reconcile.New(opts),
		logger:     logger,
	}
}

// Upload stages a snapshot file and returns the name it was stored under.
func (s *Service) Upload(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	clean, err := staging.CleanName(name)
	if err != nil {
		return "", err
	}
	if clean == export.ResultsFileName {
		return "", fmt.Errorf("%w: %s is reserved for exported results", staging.ErrInvalidName, clean)
	}
	if !dataset.Supported(clean) {
		return "", fmt.Errorf("%w: %s", dataset.ErrUnsupportedFormat, clean)
	}
	if err := s.staging.Put(ctx, clean, r, size); err != nil {
		return "", err
	}
	s.logger.Info("Snapshot staged", zap.String("name", clean), zap.Int64("size", size))
	return clean, nil
}

// ListStaged returns the staged snapshots, excluding exported results.
func (s *Service) ListStaged(ctx context.Context) ([]string, error) {
	names, err := s.staging.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name == export.ResultsFileName {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// Compare loads two staged snapshots, reconciles them and caches the result
// for the session. Identical concurrent requests share one comparison.
func (s *Service) Compare(ctx context.Context, sessionID, oldName, newName string) (*reconcile.Result, error) {
	if oldName == "" || newName == "" {
		return nil, ErrMissingName
	}

	key := sessionID + "\x00" + oldName + "\x00" + newName
	v, err, shared := s.group.Do(key, func() (any, error) {
		// Callers share this run, so one caller's cancellation must not fail the others.
		runCtx := context.WithoutCancel(ctx)
		start := time.Now()
		result, err := s.compareStaged(runCtx, oldName, newName)
		metrics.ObserveComparison(result, metrics.Outcome(err), time.Since(start))
		if err != nil {
			return nil, err
		}
		if err := s.store(runCtx, sessionID, result); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Comparison shared with concurrent request", zap.String("session", sessionID))
	}
	return v.(*reconcile.Result), nil
}

func (s *Service) compareStaged(ctx context.Context, oldName, newName string) (*reconcile.Result, error) {
	var (
		wg               sync.WaitGroup
		oldData, newData reconcile.Dataset
		oldErr, newErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		oldData, oldErr = s.loader.Load(ctx, oldName)
	}()
	go func() {
		defer wg.Done()
		newData, newErr = s.loader.Load(ctx, newName)
	}()
	wg.Wait()

	if oldErr != nil {
		return nil, fmt.Errorf("failed to load old snapshot: %w", oldErr)
	}
	if newErr != nil {
		return nil, fmt.Errorf("failed to load new snapshot: %w", newErr)
	}

	s.logger.Debug("Snapshots loaded",
		zap.String("old", oldName), zap.Int("old_rows", len(oldData.Rows)),
		zap.String("new", newName), zap.Int("new_rows", len(newData.Rows)),
	)
	return s.reconciler.Compare(oldData, newData)
}

// CompareInline reconciles two datasets supplied by the caller.
func (s *Service) CompareInline(ctx context.Context, sessionID string, oldData, newData reconcile.Dataset) (*reconcile.Result, error) {
	start := time.Now()
	result, err := s.reconciler.Compare(oldData, newData)
	metrics.ObserveComparison(result, metrics.Outcome(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, sessionID, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) store(ctx context.Context, sessionID string, result *reconcile.Result) error {
	for _, w := range result.Warnings {
		s.logger.Warn("Comparison warning",
			zap.String("session", sessionID),
			zap.String("kind", string(w.Kind)),
			zap.String("snapshot", string(w.Snapshot)),
			zap.String("message", w.Message),
		)
	}

	summary := result.Summary()
	s.logger.Info("Comparison finished",
		zap.String("session", sessionID),
		zap.Int("added", summary.Added),
		zap.Int("removed", summary.Removed),
		zap.Int("updated", summary.Updated),
	)

	if err := s.sessions.Save(ctx, sessionID, result); err != nil {
		return fmt.Errorf("failed to cache result: %w", err)
	}
	return nil
}

// Results returns the latest result of a session.
func (s *Service) Results(ctx context.Context, sessionID string) (*reconcile.Result, error) {
	return s.sessions.Load(ctx, sessionID)
}

// Export writes the latest result of a session as an xlsx workbook.
func (s *Service) Export(ctx context.Context, sessionID string, w io.Writer) error {
	result, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	return export.Write(w, result)
}

// ExportToStaging stores the latest result of a session in the staging area.
func (s *Service) ExportToStaging(ctx context.Context, sessionID string) error {
	result, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := export.ToStaging(ctx, s.staging, result); err != nil {
		return fmt.Errorf("failed to stage export: %w", err)
	}
	return nil
}

// ClearReport describes what a reset removed.
type ClearReport struct {
	Files int `json:"files"`
}

// Clear forgets the session result and purges the staging area.
func (s *Service) Clear(ctx context.Context, sessionID string) (*ClearReport, error) {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return nil, err
	}
	n, err := s.staging.Purge(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Session cleared", zap.String("session", sessionID), zap.Int("files", n))
	return &ClearReport{Files: n}, nil
}
