package export

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"court-compare/core/reconcile"
	"court-compare/core/staging"

	"github.com/xuri/excelize/v2"
)

const (
	// ResultsFileName is the name of the workbook written into the staging area.
	ResultsFileName = "comparison_results.xlsx"
	// ContentType is the media type of an xlsx workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Workbook builds a workbook with one sheet per result table.
// The caller must Close the returned file.
func Workbook(result *reconcile.Result) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, label := range reconcile.Labels() {
		sheet := label.Title()
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		if err := writeTable(f, sheet, label.Columns(), result.Table(label)); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// writeTable writes the header in row 1 and data from row 2. Nil cells stay empty.
func writeTable(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for col, name := range header {
		if err := setCell(f, sheet, col+1, 1, name); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for col, v := range row {
			if v == nil {
				continue
			}
			if err := setCell(f, sheet, col+1, r+2, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// Write serializes the result as an xlsx workbook.
func Write(w io.Writer, result *reconcile.Result) error {
	f, err := Workbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ToStaging writes the workbook into the staging area as ResultsFileName.
func ToStaging(ctx context.Context, store staging.Store, result *reconcile.Result) error {
	var buf bytes.Buffer
	if err := Write(&buf, result); err != nil {
		return err
	}
	return store.Put(ctx, ResultsFileName, &buf, int64(buf.Len()))
}
