package commands

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanval/table"
)

func newBatchCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build many tables in parallel and save them to the store",
	}
	cmd.AddCommand(newBatchLambdaCmd(e), newBatchNuCmd(e))

	return cmd
}

func newBatchLambdaCmd(e *env) *cobra.Command {
	var kMin, kMax, to int
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Build λ(k, 1..to) for k in [k-min, k-max]",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ks, err := span(kMin, kMax)
			if err != nil {
				return err
			}
			tables, err := e.runner().Lambda(cmd.Context(), ks, to)
			if err != nil {
				return err
			}
			list := make([]*table.Table, 0, len(tables))
			for _, k := range ks {
				list = append(list, tables[k])
			}

			return renderSummary(cmd, list)
		},
	}
	cmd.Flags().IntVar(&kMin, "k-min", 5, "smallest k")
	cmd.Flags().IntVar(&kMax, "k-max", 16, "largest k")
	cmd.Flags().IntVar(&to, "to", 200, "last stage")

	return cmd
}

func newBatchNuCmd(e *env) *cobra.Command {
	var h, kMin, kMax, to int
	cmd := &cobra.Command{
		Use:   "nu",
		Short: "Build ν(h, k, 0..to) for k in [k-min, k-max]",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ks, err := span(kMin, kMax)
			if err != nil {
				return err
			}
			src, err := e.lambdaSource(cmd.Context(), ks)
			if err != nil {
				return err
			}
			keys := make([]table.Key, 0, len(ks))
			for _, k := range ks {
				keys = append(keys, table.NuKey(h, k))
			}
			tables, err := e.runner().Nu(cmd.Context(), keys, to, src.Lookup)
			if err != nil {
				return err
			}
			list := make([]*table.Table, 0, len(tables))
			for _, t := range tables {
				list = append(list, t)
			}
			sort.Slice(list, func(i, j int) bool { return list[i].Key().K < list[j].Key().K })

			return renderSummary(cmd, list)
		},
	}
	cmd.Flags().IntVar(&h, "h", 3, "parameter h")
	cmd.Flags().IntVar(&kMin, "k-min", 5, "smallest k")
	cmd.Flags().IntVar(&kMax, "k-max", 12, "largest k")
	cmd.Flags().IntVar(&to, "to", 100, "last stage")

	return cmd
}

// renderSummary prints one line per table: key, row count and last value.
func renderSummary(cmd *cobra.Command, tables []*table.Table) error {
	data := pterm.TableData{{"table", "rows", "last stage", "last value"}}
	for _, t := range tables {
		last, _ := t.Last()
		data = append(data, []string{
			t.Key().String(),
			fmt.Sprint(t.Len()),
			fmt.Sprint(last.Stage),
			fmt.Sprintf("%.6f", last.Value),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}
