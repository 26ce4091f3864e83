// Package reconcile compares two snapshots of court case records.
//
// Records are matched across snapshots by their identity key
// (name, date of birth, case number) and every key is classified:
//
//   - added: the key exists only in the new snapshot
//   - removed: the key exists only in the old snapshot
//   - updated: the key exists in both and the court dates cell changed
//
// Keys present in both snapshots with identical court dates are dropped.
//
// # Algorithm
//
// The old snapshot is indexed in a map keyed by identity, the new snapshot probes
// that index, and the remaining old keys are emitted afterwards. This full outer
// join runs in linear time. Each output table is sorted by key so that identical
// inputs always produce identical output.
//
// # Inputs
//
// Dataset is a positional table. Its first four columns become name, date of birth,
// case number and court dates whatever their header text. Key cells are coerced to
// text, so a date of birth serialized as a number still matches its textual form.
//
// # Errors
//
// A dataset with fewer than four columns fails with a *SchemaError, as does a
// repeated identity key under the DuplicatesReject policy. An empty snapshot is
// valid and yields a one-sided diff with an empty_input warning.
//
// # Usage
//
//	r := reconcile.New(reconcile.Options{Duplicates: reconcile.DuplicatesFirst})
//	result, err := r.Compare(oldDataset, newDataset)
//	if errors.Is(err, reconcile.ErrSchema) {
//	    // malformed input
//	}
package reconcile
