package commands

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/holder"
	"github.com/katalvlaran/meanval/interp"
	"github.com/katalvlaran/meanval/internal/logger"
	"github.com/katalvlaran/meanval/table"
)

func newExponentCmd(e *env) *cobra.Command {
	var (
		ksFlag string
		h, to  int
	)
	cmd := &cobra.Command{
		Use:   "exponent",
		Short: "Optimize the Hölder weighting over --ks and print φ",
		Long: `Optimize the coefficient assignment for the base exponents --ks against λ
(default) or against ν(h, ·, ·) when --h is given, then print the weights and
the aggregate exponent φ. ν tables are built up to --to.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ks, err := parseInts(ksFlag)
			if err != nil {
				return err
			}
			lam, err := e.lambdaSource(cmd.Context(), ks)
			if err != nil {
				return err
			}

			lookup := interp.Lookup(lam.Lookup)
			if h > 0 {
				keys := make([]table.Key, 0, len(ks))
				for _, k := range ks {
					keys = append(keys, table.NuKey(h, k))
				}
				built, err := e.runner().Nu(cmd.Context(), keys, to, lam.Lookup)
				if err != nil {
					return err
				}
				tables := make([]*table.Table, 0, len(built))
				for _, t := range built {
					tables = append(tables, t)
				}
				src, err := interp.NewNuSource(h, tables)
				if err != nil {
					return err
				}
				lookup = src.Lookup
			}

			opts := append(e.cfg.HolderOptions(), holder.WithLogger(logger.Base()))
			phi, res, err := holder.ComputeExponent(ks, lookup, opts...)
			if err != nil && !errs.Is(err, errs.ErrDidNotConverge) {
				return err
			}
			if rerr := renderCoefficients(cmd.OutOrStdout(), res, phi); rerr != nil {
				return rerr
			}

			return err
		},
	}
	cmd.Flags().StringVar(&ksFlag, "ks", "5,7,8,9,10,11,12,13,14,15,16", "comma separated base exponents")
	cmd.Flags().IntVar(&h, "h", 0, "use ν(h, k, ·) instead of λ(k, ·) when > 0")
	cmd.Flags().IntVar(&to, "to", 100, "last ν stage to build when --h is set")

	return cmd
}
