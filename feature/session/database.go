package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"court-compare/core/reconcile"

	"gorm.io/gorm"
)

// labelWarnings stores the result warnings next to the three tables.
const labelWarnings = "warnings"

// ResultRow is one cached table of a session result.
type ResultRow struct {
	SessionID string    `gorm:"column:session_id;primaryKey;size:64"`
	Label     string    `gorm:"column:label;primaryKey;size:16"`
	Payload   string    `gorm:"column:payload;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name used by ResultRow.
func (ResultRow) TableName() string {
	return "session_results"
}

// DatabaseStore keeps results in a gorm managed table.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore migrates the session table and returns the store.
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if err := db.AutoMigrate(&ResultRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session table: %w", err)
	}
	return &DatabaseStore{db: db}, nil
}

// Save replaces the cached rows of a session in one transaction.
func (s *DatabaseStore) Save(ctx context.Context, sessionID string, result *reconcile.Result) error {
	rows, err := encode(sessionID, result)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&ResultRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to save session %s: %w", sessionID, err)
		}
		return nil
	})
}

func (s *DatabaseStore) Load(ctx context.Context, sessionID string) (*reconcile.Result, error) {
	var rows []ResultRow
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return decode(rows)
}

func (s *DatabaseStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&ResultRow{}).Error; err != nil {
		return fmt.Errorf("failed to clear session %s: %w", sessionID, err)
	}
	return nil
}

func (s *DatabaseStore) Purge(ctx context.Context) (int, error) {
	var sessions int64
	if err := s.db.WithContext(ctx).Model(&ResultRow{}).Distinct("session_id").Count(&sessions).Error; err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&ResultRow{}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return int(sessions), nil
}

func encode(sessionID string, result *reconcile.Result) ([]ResultRow, error) {
	now := time.Now()
	tables := []struct {
		label   string
		payload any
	}{
		{string(reconcile.LabelAdded), result.Added},
		{string(reconcile.LabelRemoved), result.Removed},
		{string(reconcile.LabelUpdated), result.Updated},
		{labelWarnings, result.Warnings},
	}

	rows := make([]ResultRow, 0, len(tables))
	for _, t := range tables {
		data, err := json.Marshal(t.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s table: %w", t.label, err)
		}
		rows = append(rows, ResultRow{SessionID: sessionID, Label: t.label, Payload: string(data), UpdatedAt: now})
	}
	return rows, nil
}

func decode(rows []ResultRow) (*reconcile.Result, error) {
	result := &reconcile.Result{
		Added:   []reconcile.AddedRow{},
		Removed: []reconcile.RemovedRow{},
		Updated: []reconcile.UpdatedRow{},
	}

	for _, row := range rows {
		var target any
		switch row.Label {
		case string(reconcile.LabelAdded):
			target = &result.Added
		case string(reconcile.LabelRemoved):
			target = &result.Removed
		case string(reconcile.LabelUpdated):
			target = &result.Updated
		case labelWarnings:
			target = &result.Warnings
		default:
			continue
		}
		if err := json.Unmarshal([]byte(row.Payload), target); err != nil {
			return nil, fmt.Errorf("failed to decode %s table: %w", row.Label, err)
		}
	}
	return result, nil
}
