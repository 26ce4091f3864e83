package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"court-compare/core/reconcile"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func ptr(s string) *string { return &s }

func sampleResult() *reconcile.Result {
	return &reconcile.Result{
		Added:   []reconcile.AddedRow{{Name: "Doe", DateOfBirth: "1985-05-05", CaseNumber: "C200", CourtDatesNew: ptr("2024-02-01")}},
		Removed: []reconcile.RemovedRow{},
		Updated: []reconcile.UpdatedRow{{Name: "Lee", DateOfBirth: "1970-03-03", CaseNumber: "C300", CourtDatesNew: ptr("2024-03-03")}},
	}
}

func TestRender(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, FormatJSON, sampleResult()))

		var got reconcile.Result
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, sampleResult().Added, got.Added)
		assert.Nil(t, got.Updated[0].CourtDatesOld)
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, FormatYAML, sampleResult()))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Len(t, got["added"], 1)
		assert.Len(t, got["updated"], 1)
	})

	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, FormatTable, sampleResult()))

		out := buf.String()
		assert.Contains(t, out, "Added: 1  Removed: 0  Updated: 1")
		assert.Contains(t, out, "Removed (0)")
		assert.Contains(t, out, "Doe")
		assert.Contains(t, out, "2024-03-03")
	})
}

func TestResolveFormat(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	format, err := resolveFormat("", f)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format, "non-terminal output defaults to json")

	format, err = resolveFormat("YAML", f)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)

	_, err = resolveFormat("xml", f)
	assert.Error(t, err)
}

func TestExportFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, exportFile(fs, "results.xlsx", sampleResult()))

	data, err := afero.ReadFile(fs, "results.xlsx")
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows("Added")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "dob", "case_number", "court_dates_new"}, rows[0])
	assert.Equal(t, "Doe", rows[1][0])
}

func TestReadConfirmation(t *testing.T) {
	assert.True(t, readConfirmation(strings.NewReader("yes\n")))
	assert.True(t, readConfirmation(strings.NewReader("  yes")))
	assert.False(t, readConfirmation(strings.NewReader("y\n")))
	assert.False(t, readConfirmation(strings.NewReader("")))
}
