package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/label"
)

// catalogueLabels lists the well-known labels the operator catalogue
// registers, so `flowctl labels` has something concrete to show without
// a running graph to introspect.
var catalogueLabels = []string{
	"DATETIME", "CHARCNT", "STRLEN", "DUPLICATE", "UNIQUE",
	"COUNT", "PCT", "SUM", "ACC", "EPOCH_ID", "RATE",
	"TIMEDIFF", "PERSIST", "PERSIST_COUNT", "PERIOD", "PERIOD_COUNT",
}

func init() {
	rootCmd.AddCommand(newLabelsCmd())
}

type labelRow struct {
	Name    string `json:"name"`
	IndexID uint32 `json:"index_id"`
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Register and print the operator catalogue's well-known labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLabels()
		},
	}
}

func runLabels() error {
	reg := label.New()
	rows := make([]labelRow, 0, len(catalogueLabels))
	for _, name := range catalogueLabels {
		l := reg.RegisterIndexed(name)
		rows = append(rows, labelRow{Name: l.Name, IndexID: l.IndexID})
	}

	printVerbose("registry index length: %d\n", reg.IndexLen())

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tINDEX_ID")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\n", r.Name, r.IndexID)
	}
	return w.Flush()
}
