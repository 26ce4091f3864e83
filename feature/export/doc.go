// Package export serializes comparison results as a spreadsheet.
//
// The workbook has three sheets, Added, Removed and Updated, each with a header
// row of column names and no index column. Absent court dates are left empty.
package export
