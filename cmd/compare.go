package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"court-compare/core/config"
	"court-compare/core/logger"
	"court-compare/core/reconcile"
	"court-compare/feature/dataset"
	"court-compare/feature/export"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Output formats of the compare command.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	// Flags for compare command
	compareFormat     string
	compareExport     string
	compareDuplicates string
)

// compareCmd compares two snapshot files on disk.
var compareCmd = &cobra.Command{
	Use:   "compare OLD NEW",
	Short: "Compare two court case snapshots",
	Long: `Compare two snapshot files (xlsx or csv) and report added, removed
and updated cases. The first four columns of each file are read as
name, date of birth, case number and court dates.

Examples:
  # Print the three tables
  compare week1.xlsx week2.xlsx

  # Machine readable output
  compare week1.csv week2.csv --format json

  # Write the result workbook and keep the first of any duplicate rows
  compare week1.xlsx week2.xlsx --export results.xlsx --duplicates first`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", "", "Output format: table, json or yaml (default table on a terminal, json otherwise)")
	compareCmd.Flags().StringVar(&compareExport, "export", "", "Also write the result as an xlsx workbook to this path")
	compareCmd.Flags().StringVar(&compareDuplicates, "duplicates", "", "Duplicate key policy: reject or first (overrides config)")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	if compareDuplicates != "" {
		cfg.Compare.Duplicates = compareDuplicates
	}
	opts, err := cfg.Compare.Options()
	if err != nil {
		return err
	}

	format, err := resolveFormat(compareFormat, os.Stdout)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	oldData, err := dataset.LoadFile(fs, args[0])
	if err != nil {
		return err
	}
	newData, err := dataset.LoadFile(fs, args[1])
	if err != nil {
		return err
	}

	result, err := reconcile.New(opts).Compare(oldData, newData)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		l.Warn(w.Message, zap.String("kind", string(w.Kind)), zap.String("snapshot", string(w.Snapshot)))
	}

	if compareExport != "" {
		if err := exportFile(fs, compareExport, result); err != nil {
			return err
		}
		l.Info("Result workbook written", zap.String("path", compareExport))
	}

	return render(cmd.OutOrStdout(), format, result)
}

// resolveFormat validates the requested format, defaulting to a table on
// terminals and JSON when output is piped.
func resolveFormat(requested string, out *os.File) (string, error) {
	format := strings.ToLower(requested)
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	case "":
		if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
			return FormatTable, nil
		}
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", requested)
	}
}

func exportFile(fs afero.Fs, path string, result *reconcile.Result) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := export.Write(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// render writes the result in the given format.
func render(w io.Writer, format string, result *reconcile.Result) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case FormatYAML:
		data, err := yaml.MarshalWithOptions(result, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return renderTables(w, result)
	}
}

func renderTables(w io.Writer, result *reconcile.Result) error {
	summary := result.Summary()
	fmt.Fprintf(w, "Added: %d  Removed: %d  Updated: %d\n", summary.Added, summary.Removed, summary.Updated)

	for _, label := range reconcile.Labels() {
		rows := result.Table(label)
		fmt.Fprintf(w, "\n%s (%d)\n", label.Title(), len(rows))
		if len(rows) == 0 {
			continue
		}

		table := tablewriter.NewTable(w)
		header := make([]any, 0, len(label.Columns()))
		for _, c := range label.Columns() {
			header = append(header, c)
		}
		table.Header(header...)

		for _, row := range rows {
			cells := make([]any, len(row))
			for i, v := range row {
				if v == nil {
					cells[i] = ""
					continue
				}
				cells[i] = v
			}
			if err := table.Append(cells...); err != nil {
				return err
			}
		}
		if err := table.Render(); err != nil {
			return err
		}
	}
	return nil
}
