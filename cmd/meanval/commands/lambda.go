package commands

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanval/errs"
)

func newLambdaCmd(e *env) *cobra.Command {
	var k, from, to int
	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Build and print λ(k, from..to)",
		Long: `Build the λ(k, ·) table up to --to, resuming from the configured store when
it already holds a prefix, save it back and print stages --from..--to.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from < 1 || to < from {
				return errs.Wrapf(errs.ErrInvalidParameter, "stage range [%d, %d]", from, to)
			}
			tables, err := e.runner().Lambda(cmd.Context(), []int{k}, to)
			if err != nil {
				return err
			}

			return renderTable(cmd.OutOrStdout(), tables[k], from, to)
		},
	}
	cmd.Flags().IntVar(&k, "k", 8, "exponent k (≥ 4)")
	cmd.Flags().IntVar(&from, "from", 1, "first stage to print")
	cmd.Flags().IntVar(&to, "to", 20, "last stage")

	return cmd
}
