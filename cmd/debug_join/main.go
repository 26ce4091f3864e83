package main

import (
	"fmt"
	"log"
	"os"

	"court-compare/core/config"
	"court-compare/core/reconcile"
	"court-compare/feature/dataset"

	"github.com/spf13/afero"
)

// debug_join prints the full outer join of two snapshots before classification,
// one line per identity key with its provenance.
func main() {
	if len(os.Args) != 3 {
		log.Fatalf("usage: %s OLD NEW", os.Args[0])
	}

	// Load config
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	opts, err := cfg.Compare.Options()
	if err != nil {
		log.Fatal(err)
	}

	fs := afero.NewOsFs()
	oldData, err := dataset.LoadFile(fs, os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	newData, err := dataset.LoadFile(fs, os.Args[2])
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("=== Snapshots ===")
	fmt.Printf("old: %d columns, %d rows\n", len(oldData.Columns), len(oldData.Rows))
	fmt.Printf("new: %d columns, %d rows\n", len(newData.Columns), len(newData.Rows))

	oldRecords, err := reconcile.Normalize(reconcile.SnapshotOld, oldData)
	if err != nil {
		log.Fatal(err)
	}
	newRecords, err := reconcile.Normalize(reconcile.SnapshotNew, newData)
	if err != nil {
		log.Fatal(err)
	}

	joined, warnings, err := reconcile.New(opts).Join(oldRecords, newRecords)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("\n=== Join ===")
	counts := make(map[reconcile.Provenance]int)
	for _, row := range joined {
		counts[row.Provenance]++
		fmt.Printf("%-8s %s old=%s new=%s\n", row.Provenance, row.Key, show(row.CourtDatesOld), show(row.CourtDatesNew))
	}

	fmt.Println("\n=== Summary ===")
	fmt.Printf("both=%d old_only=%d new_only=%d\n",
		counts[reconcile.ProvenanceBoth], counts[reconcile.ProvenanceOldOnly], counts[reconcile.ProvenanceNewOnly])
	for _, w := range warnings {
		fmt.Printf("warning: %s (%s)\n", w.Message, w.Kind)
	}
}

func show(v *string) string {
	if v == nil {
		return "<absent>"
	}
	return fmt.Sprintf("%q", *v)
}
