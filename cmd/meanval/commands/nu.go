package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/table"
)

func newNuCmd(e *env) *cobra.Command {
	var h, k, from, to int
	cmd := &cobra.Command{
		Use:   "nu",
		Short: "Build and print ν(h, k, from..to)",
		Long: `Build the ν(h, k, ·) table up to --to. λ(k, ·) is taken from the store when
present and computed on demand otherwise.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from < 0 || to < from {
				return errs.Wrapf(errs.ErrInvalidParameter, "stage range [%d, %d]", from, to)
			}
			src, err := e.lambdaSource(cmd.Context(), []int{k})
			if err != nil {
				return err
			}
			key := table.NuKey(h, k)
			tables, err := e.runner().Nu(cmd.Context(), []table.Key{key}, to, src.Lookup)
			if err != nil {
				return err
			}

			return renderTable(cmd.OutOrStdout(), tables[key], from, to)
		},
	}
	cmd.Flags().IntVar(&h, "h", 3, "parameter h (2 ≤ h ≤ k−1)")
	cmd.Flags().IntVar(&k, "k", 8, "exponent k (≥ 5)")
	cmd.Flags().IntVar(&from, "from", 0, "first stage to print")
	cmd.Flags().IntVar(&to, "to", 20, "last stage")

	return cmd
}

// lambdaSource seeds a λ source with whatever the store holds for ks; the
// rest is built on demand.
func (e *env) lambdaSource(ctx context.Context, ks []int) (*interp.LambdaSource, error) {
	src, err := interp.NewLambdaSource(nil, interp.WithLambdaOptions(e.cfg.LambdaOptions()...))
	if err != nil {
		return nil, err
	}
	for _, k := range ks {
		t, err := e.store.Load(ctx, table.LambdaKey(k))
		if errs.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if first, _ := t.First(); first.Stage != 1 {
			continue
		}
		if err = src.Add(t); err != nil {
			return nil, err
		}
	}

	return src, nil
}
