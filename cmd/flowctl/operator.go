package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowkit/flowkit/kid"
)

func init() {
	rootCmd.AddCommand(newOperatorCmd())
}

type operatorOptions struct {
	Name          string   `json:"name"`
	TableCapacity int      `json:"table_capacity"`
	ShareLabel    string   `json:"share_label,omitempty"`
	ValueLabels   []string `json:"value_labels,omitempty"`
	OutputLabel   string   `json:"output_label,omitempty"`
}

func newOperatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operator <name> [-- flags...]",
		Short: "Parse an operator's common flag surface and print the result",
		Long: `operator parses the -M/-J/-V/-L flags every keyed operator shares
(kid.Options) against the arguments following the operator name, and
prints the values that would be handed to the operator's constructor.

Example:
  flowctl operator keyadd -- -M 4096 -V bytes -V count -L TOTAL`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperator(args[0], args[1:])
		},
	}
	return cmd
}

func runOperator(name string, flags []string) error {
	opts := kid.NewOptions(name)
	if err := opts.Parse(flags); err != nil {
		return err
	}

	out := operatorOptions{
		Name:          name,
		TableCapacity: opts.TableCapacity,
		ShareLabel:    opts.ShareLabel,
		ValueLabels:   opts.ValueLabels,
		OutputLabel:   opts.OutputLabel,
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("operator:        %s\n", out.Name)
	fmt.Printf("table-capacity:  %d\n", out.TableCapacity)
	if out.ShareLabel != "" {
		fmt.Printf("share:           %s\n", out.ShareLabel)
	}
	for _, v := range out.ValueLabels {
		fmt.Printf("value:           %s\n", v)
	}
	if out.OutputLabel != "" {
		fmt.Printf("label:           %s\n", out.OutputLabel)
	}
	return nil
}
