// Package dataset loads court case snapshots from spreadsheet files.
//
// Supported formats are xlsx (first sheet) and csv. Columns are not interpreted
// here: the reconciler maps the first four columns positionally, so this package
// only normalizes the table shape (header row, skipped blank rows, nil blank cells).
package dataset
