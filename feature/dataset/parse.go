package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"court-compare/core/reconcile"
	"court-compare/core/utils"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported snapshot format")
	// ErrMalformed wraps every failure to decode a supported file.
	ErrMalformed = errors.New("malformed snapshot")
)

// Supported reports whether name has an extension Parse can read.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	}
	return false
}

// Parse reads a snapshot file into a positional dataset.
// The format is chosen by the file extension. The first row is the header,
// fully blank rows are skipped and blank cells become nil.
func Parse(name string, r io.Reader) (reconcile.Dataset, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return reconcile.Dataset{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return reconcile.Dataset{}, fmt.Errorf("failed to parse %s: %w: %w", name, ErrMalformed, err)
	}

	return toDataset(rows), nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	opts := excelize.Options{RawCellValue: true}
	f, err := excelize.OpenReader(r, opts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	// Raw values keep dates as serial numbers instead of locale display text.
	rows, err := f.GetRows(sheet, opts)
	if err != nil {
		return nil, err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dateStyles := make(map[int]bool)
	for r, row := range rows {
		for c, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			styleID, err := f.GetCellStyle(sheet, cell)
			if err != nil {
				return nil, err
			}
			isDate, seen := dateStyles[styleID]
			if !seen {
				isDate = dateStyle(f, styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			typ, err := f.GetCellType(sheet, cell)
			if err != nil {
				return nil, err
			}
			if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
				continue
			}
			serial, err := strconv.ParseFloat(v, 64)
			if err != nil {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				return nil, fmt.Errorf("invalid date in %s: %w", cell, err)
			}
			row[c] = utils.ToString(t.Round(time.Second))
		}
	}
	return rows, nil
}

// dateStyle reports whether a cell style formats numbers as dates or times.
func dateStyle(f *excelize.File, styleID int) bool {
	if styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return dateFormatCode(*style.CustomNumFmt)
	}
	return builtinDateFormat(style.NumFmt)
}

// builtinDateFormat covers the built-in date and time formats, including the
// east asian ones.
func builtinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// dateFormatCode reports whether a custom number format has date or time tokens
// outside quoted literals, escaped characters and bracketed sections.
func dateFormatCode(code string) bool {
	var b strings.Builder
	quoted, bracket, escaped := false, false, false
	for _, ch := range code {
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && !quoted:
			escaped = true
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '[':
			bracket = true
		case ch == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(ch)
		}
	}
	return strings.ContainsAny(strings.ToLower(b.String()), "ymdhs")
}
