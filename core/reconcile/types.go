package reconcile

import (
	"fmt"
	"strings"
)

// Record is one court case row of a snapshot after column mapping.
type Record struct {
	// Name is the defendant name.
	Name string `json:"name"`

	// DateOfBirth is the textual date of birth.
	DateOfBirth string `json:"dob"`

	// CaseNumber is the court case number.
	CaseNumber string `json:"case_number"`

	// CourtDates is the free-form court dates cell. Nil means the cell was empty.
	CourtDates *string `json:"court_dates"`
}

// Key returns the identity key of the record.
func (r Record) Key() Key {
	return Key{Name: r.Name, DateOfBirth: r.DateOfBirth, CaseNumber: r.CaseNumber}
}

// Key is the composite identity of a case across snapshots.
type Key struct {
	Name        string
	DateOfBirth string
	CaseNumber  string
}

// Less orders keys by name, then date of birth, then case number.
func (k Key) Less(o Key) bool {
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	if k.DateOfBirth != o.DateOfBirth {
		return k.DateOfBirth < o.DateOfBirth
	}
	return k.CaseNumber < o.CaseNumber
}

func (k Key) String() string {
	return fmt.Sprintf("(%s, %s, %s)", k.Name, k.DateOfBirth, k.CaseNumber)
}

// Provenance tells which snapshot(s) a joined key came from.
type Provenance string

const (
	ProvenanceOldOnly Provenance = "old_only"
	ProvenanceNewOnly Provenance = "new_only"
	ProvenanceBoth    Provenance = "both"
)

// JoinedRow is one row of the full outer join of two snapshots.
type JoinedRow struct {
	Key
	CourtDatesOld *string
	CourtDatesNew *string
	Provenance    Provenance
}

// AddedRow is a record present only in the new snapshot.
type AddedRow struct {
	Name          string  `json:"name" yaml:"name"`
	DateOfBirth   string  `json:"dob" yaml:"dob"`
	CaseNumber    string  `json:"case_number" yaml:"case_number"`
	CourtDatesNew *string `json:"court_dates_new" yaml:"court_dates_new"`
}

// RemovedRow is a record present only in the old snapshot.
type RemovedRow struct {
	Name          string  `json:"name" yaml:"name"`
	DateOfBirth   string  `json:"dob" yaml:"dob"`
	CaseNumber    string  `json:"case_number" yaml:"case_number"`
	CourtDatesOld *string `json:"court_dates_old" yaml:"court_dates_old"`
}

// UpdatedRow is a record present in both snapshots whose court dates changed.
type UpdatedRow struct {
	Name          string  `json:"name" yaml:"name"`
	DateOfBirth   string  `json:"dob" yaml:"dob"`
	CaseNumber    string  `json:"case_number" yaml:"case_number"`
	CourtDatesOld *string `json:"court_dates_old" yaml:"court_dates_old"`
	CourtDatesNew *string `json:"court_dates_new" yaml:"court_dates_new"`
}

// Result is the three-way classification of a comparison.
type Result struct {
	Added    []AddedRow   `json:"added" yaml:"added"`
	Removed  []RemovedRow `json:"removed" yaml:"removed"`
	Updated  []UpdatedRow `json:"updated" yaml:"updated"`
	Warnings []Warning    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Empty reports whether nothing was added, removed or updated.
func (r *Result) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Updated) == 0
}

// Summary returns the row count of each table.
func (r *Result) Summary() Summary {
	return Summary{Added: len(r.Added), Removed: len(r.Removed), Updated: len(r.Updated)}
}

// Summary provides aggregate counts for a result.
type Summary struct {
	Added   int `json:"added" yaml:"added"`
	Removed int `json:"removed" yaml:"removed"`
	Updated int `json:"updated" yaml:"updated"`
}

// Label names one of the three result tables.
type Label string

const (
	LabelAdded   Label = "added"
	LabelRemoved Label = "removed"
	LabelUpdated Label = "updated"
)

// Labels lists the result tables in presentation order.
func Labels() []Label {
	return []Label{LabelAdded, LabelRemoved, LabelUpdated}
}

// Title returns the capitalized label, used as spreadsheet sheet name.
func (l Label) Title() string {
	s := string(l)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Columns returns the header of the table named by the label.
func (l Label) Columns() []string {
	switch l {
	case LabelAdded:
		return []string{"name", "dob", "case_number", "court_dates_new"}
	case LabelRemoved:
		return []string{"name", "dob", "case_number", "court_dates_old"}
	case LabelUpdated:
		return []string{"name", "dob", "case_number", "court_dates_old", "court_dates_new"}
	default:
		return nil
	}
}

// Table returns the rows of the labelled table as cells in header order.
// Absent court dates are returned as nil.
func (r *Result) Table(l Label) [][]any {
	var rows [][]any
	switch l {
	case LabelAdded:
		for _, a := range r.Added {
			rows = append(rows, []any{a.Name, a.DateOfBirth, a.CaseNumber, cell(a.CourtDatesNew)})
		}
	case LabelRemoved:
		for _, d := range r.Removed {
			rows = append(rows, []any{d.Name, d.DateOfBirth, d.CaseNumber, cell(d.CourtDatesOld)})
		}
	case LabelUpdated:
		for _, u := range r.Updated {
			rows = append(rows, []any{u.Name, u.DateOfBirth, u.CaseNumber, cell(u.CourtDatesOld), cell(u.CourtDatesNew)})
		}
	}
	return rows
}

func cell(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

// Dataset is a positional table as supplied by a loader.
type Dataset struct {
	// Columns holds the header cells. Only the count matters; names are ignored.
	Columns []string `json:"columns"`

	// Rows holds the data cells. Short rows are treated as padded with nil.
	Rows [][]any `json:"rows"`
}

// Snapshot identifies which side of a comparison an input came from.
type Snapshot string

const (
	SnapshotOld Snapshot = "old"
	SnapshotNew Snapshot = "new"
)

// DuplicatePolicy decides what happens when an identity key repeats within one snapshot.
type DuplicatePolicy string

const (
	// DuplicatesReject fails the comparison with a SchemaError.
	DuplicatesReject DuplicatePolicy = "reject"
	// DuplicatesFirst keeps the first occurrence and ignores later ones.
	DuplicatesFirst DuplicatePolicy = "first"
)

// ParseDuplicatePolicy validates a policy name. Empty selects DuplicatesReject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicatesReject:
		return DuplicatesReject, nil
	case DuplicatesFirst:
		return DuplicatesFirst, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q (want reject or first)", s)
	}
}

// Options controls reconciliation behavior.
type Options struct {
	Duplicates DuplicatePolicy
}
