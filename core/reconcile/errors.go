package reconcile

import (
	"errors"
	"fmt"
)

// ErrSchema matches every SchemaError with errors.Is.
var ErrSchema = errors.New("schema error")

// RequiredColumns is the number of leading columns mapped to record fields.
const RequiredColumns = 4

// SchemaError reports an input that cannot be reconciled.
type SchemaError struct {
	Snapshot Snapshot
	Columns  int
	Reason   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s snapshot: %s", e.Snapshot, e.Reason)
}

// Is makes errors.Is(err, ErrSchema) true for any SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// WarningKind classifies a non-fatal condition found during reconciliation.
type WarningKind string

const (
	// WarningEmptyInput marks a one-sided diff caused by an empty snapshot.
	WarningEmptyInput WarningKind = "empty_input"
	// WarningDuplicateKey marks duplicate rows ignored under DuplicatesFirst.
	WarningDuplicateKey WarningKind = "duplicate_key"
)

// Warning is a degenerate but valid condition attached to a Result.
type Warning struct {
	Kind     WarningKind `json:"kind" yaml:"kind"`
	Snapshot Snapshot    `json:"snapshot" yaml:"snapshot"`
	Message  string      `json:"message" yaml:"message"`
}
