package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func init() {
	rootCmd.AddCommand(newTupleCmd())
}

func newTupleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tuple <label>...",
		Short: "Build a sample tuple from the given labels and print its layout",
		Long: `tuple attaches one string member per label argument to a fresh
small-class tuple and prints its starting class, member count, and
per-member labels -- useful for sanity-checking label spelling before
wiring an operator against it. Each argument is registered as one label
name; dotted paths are not split.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTuple(args)
		},
	}
}

func runTuple(names []string) error {
	reg := label.New()
	rec := tuple.New(reg, tuple.Small)

	for _, name := range names {
		m := wsdata.NewString(name)
		m.AttachLabel(reg.RegisterIndexed(name))
		if err := rec.AddMember(m); err != nil {
			return err
		}
	}

	fmt.Printf("class:   %s\n", tuple.Small)
	fmt.Printf("members: %d\n", rec.Len())
	for i, m := range rec.Members() {
		fmt.Printf("  [%d]", i)
		for _, l := range m.Labels {
			fmt.Printf(" %s(%d)", l.Name, l.IndexID)
		}
		fmt.Println()
	}
	return nil
}
