package reconcile

import (
	"fmt"
	"sort"

	"court-compare/core/utils"
)

// Reconciler compares two snapshots of court case records.
// It holds no mutable state and is safe for concurrent use.
type Reconciler struct {
	opts Options
}

// New creates a Reconciler. A zero Options rejects duplicate keys.
func New(opts Options) *Reconciler {
	if opts.Duplicates == "" {
		opts.Duplicates = DuplicatesReject
	}
	return &Reconciler{opts: opts}
}

// Compare maps both datasets to records and reconciles them.
func Compare(oldData, newData Dataset) (*Result, error) {
	return New(Options{}).Compare(oldData, newData)
}

// Reconcile classifies already-mapped records with the default options.
func Reconcile(oldRecords, newRecords []Record) (*Result, error) {
	return New(Options{}).Reconcile(oldRecords, newRecords)
}

// Compare maps both datasets to records and reconciles them.
// Schema validation of both inputs happens before any classification.
func (r *Reconciler) Compare(oldData, newData Dataset) (*Result, error) {
	oldRecords, err := Normalize(SnapshotOld, oldData)
	if err != nil {
		return nil, err
	}
	newRecords, err := Normalize(SnapshotNew, newData)
	if err != nil {
		return nil, err
	}
	return r.Reconcile(oldRecords, newRecords)
}

// Normalize maps the first four columns of a dataset onto record fields.
// Key fields are coerced to text; an empty court dates cell stays absent.
// A dataset without header and rows is empty, not malformed.
func Normalize(snapshot Snapshot, ds Dataset) ([]Record, error) {
	if len(ds.Columns) == 0 && len(ds.Rows) == 0 {
		return nil, nil
	}
	if len(ds.Columns) < RequiredColumns {
		return nil, &SchemaError{
			Snapshot: snapshot,
			Columns:  len(ds.Columns),
			Reason:   fmt.Sprintf("expected at least %d columns, got %d", RequiredColumns, len(ds.Columns)),
		}
	}

	records := make([]Record, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		records = append(records, Record{
			Name:        utils.ToString(at(row, 0)),
			DateOfBirth: utils.ToString(at(row, 1)),
			CaseNumber:  utils.ToString(at(row, 2)),
			CourtDates:  utils.ToOptionalString(at(row, 3)),
		})
	}
	return records, nil
}

func at(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

// Reconcile joins both snapshots on the identity key and classifies every key.
func (r *Reconciler) Reconcile(oldRecords, newRecords []Record) (*Result, error) {
	joined, warnings, err := r.Join(oldRecords, newRecords)
	if err != nil {
		return nil, err
	}

	result := classify(joined)
	result.Warnings = warnings
	return result, nil
}

// Join builds the full outer join of two snapshots on the identity key.
// Rows come out in new-snapshot order followed by old-only keys in old-snapshot order.
func (r *Reconciler) Join(oldRecords, newRecords []Record) ([]JoinedRow, []Warning, error) {
	oldIdx, oldWarn, err := r.index(SnapshotOld, oldRecords)
	if err != nil {
		return nil, nil, err
	}
	newIdx, newWarn, err := r.index(SnapshotNew, newRecords)
	if err != nil {
		return nil, nil, err
	}

	var warnings []Warning
	if len(oldRecords) == 0 {
		warnings = append(warnings, Warning{
			Kind:     WarningEmptyInput,
			Snapshot: SnapshotOld,
			Message:  "old snapshot is empty; every new record is reported as added",
		})
	}
	if len(newRecords) == 0 {
		warnings = append(warnings, Warning{
			Kind:     WarningEmptyInput,
			Snapshot: SnapshotNew,
			Message:  "new snapshot is empty; every old record is reported as removed",
		})
	}
	warnings = append(warnings, oldWarn...)
	warnings = append(warnings, newWarn...)

	joined := make([]JoinedRow, 0, len(oldIdx.order)+len(newIdx.order))

	// Probe the old index with every new key.
	for _, key := range newIdx.order {
		newRec := newIdx.byKey[key]
		if oldRec, ok := oldIdx.byKey[key]; ok {
			joined = append(joined, JoinedRow{
				Key:           key,
				CourtDatesOld: oldRec.CourtDates,
				CourtDatesNew: newRec.CourtDates,
				Provenance:    ProvenanceBoth,
			})
			continue
		}
		joined = append(joined, JoinedRow{
			Key:           key,
			CourtDatesNew: newRec.CourtDates,
			Provenance:    ProvenanceNewOnly,
		})
	}

	for _, key := range oldIdx.order {
		if _, ok := newIdx.byKey[key]; ok {
			continue
		}
		joined = append(joined, JoinedRow{
			Key:           key,
			CourtDatesOld: oldIdx.byKey[key].CourtDates,
			Provenance:    ProvenanceOldOnly,
		})
	}

	return joined, warnings, nil
}

// keyIndex is a hash index of one snapshot with its first-seen key order.
type keyIndex struct {
	order []Key
	byKey map[Key]Record
}

func (r *Reconciler) index(snapshot Snapshot, records []Record) (*keyIndex, []Warning, error) {
	idx := &keyIndex{
		order: make([]Key, 0, len(records)),
		byKey: make(map[Key]Record, len(records)),
	}
	firstRow := make(map[Key]int, len(records))
	ignored := 0

	for i, rec := range records {
		key := rec.Key()
		if first, dup := firstRow[key]; dup {
			if r.opts.Duplicates == DuplicatesReject {
				return nil, nil, &SchemaError{
					Snapshot: snapshot,
					Columns:  RequiredColumns,
					Reason:   fmt.Sprintf("duplicate identity key %s at rows %d and %d", key, first+1, i+1),
				}
			}
			ignored++
			continue
		}
		firstRow[key] = i
		idx.order = append(idx.order, key)
		idx.byKey[key] = rec
	}

	var warnings []Warning
	if ignored > 0 {
		warnings = append(warnings, Warning{
			Kind:     WarningDuplicateKey,
			Snapshot: snapshot,
			Message:  fmt.Sprintf("%d duplicate rows ignored; first occurrence kept", ignored),
		})
	}
	return idx, warnings, nil
}

// classify splits joined rows into added, removed and updated tables,
// each sorted by identity key.
func classify(joined []JoinedRow) *Result {
	result := &Result{
		Added:   []AddedRow{},
		Removed: []RemovedRow{},
		Updated: []UpdatedRow{},
	}

	for _, row := range joined {
		switch row.Provenance {
		case ProvenanceNewOnly:
			result.Added = append(result.Added, AddedRow{
				Name:          row.Name,
				DateOfBirth:   row.DateOfBirth,
				CaseNumber:    row.CaseNumber,
				CourtDatesNew: row.CourtDatesNew,
			})
		case ProvenanceOldOnly:
			result.Removed = append(result.Removed, RemovedRow{
				Name:          row.Name,
				DateOfBirth:   row.DateOfBirth,
				CaseNumber:    row.CaseNumber,
				CourtDatesOld: row.CourtDatesOld,
			})
		case ProvenanceBoth:
			if sameValue(row.CourtDatesOld, row.CourtDatesNew) {
				continue
			}
			result.Updated = append(result.Updated, UpdatedRow{
				Name:          row.Name,
				DateOfBirth:   row.DateOfBirth,
				CaseNumber:    row.CaseNumber,
				CourtDatesOld: row.CourtDatesOld,
				CourtDatesNew: row.CourtDatesNew,
			})
		}
	}

	sort.Slice(result.Added, func(i, j int) bool {
		return keyOf(result.Added[i].Name, result.Added[i].DateOfBirth, result.Added[i].CaseNumber).
			Less(keyOf(result.Added[j].Name, result.Added[j].DateOfBirth, result.Added[j].CaseNumber))
	})
	sort.Slice(result.Removed, func(i, j int) bool {
		return keyOf(result.Removed[i].Name, result.Removed[i].DateOfBirth, result.Removed[i].CaseNumber).
			Less(keyOf(result.Removed[j].Name, result.Removed[j].DateOfBirth, result.Removed[j].CaseNumber))
	})
	sort.Slice(result.Updated, func(i, j int) bool {
		return keyOf(result.Updated[i].Name, result.Updated[i].DateOfBirth, result.Updated[i].CaseNumber).
			Less(keyOf(result.Updated[j].Name, result.Updated[j].DateOfBirth, result.Updated[j].CaseNumber))
	})

	return result
}

func keyOf(name, dob, caseNumber string) Key {
	return Key{Name: name, DateOfBirth: dob, CaseNumber: caseNumber}
}

// sameValue compares court dates cells. Absent equals absent and differs from every string.
func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
