// Package commands implements the meanval cobra command tree.
package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/meanval/batch"
	"github.com/katalvlaran/meanval/config"
	"github.com/katalvlaran/meanval/errs"
	"github.com/katalvlaran/meanval/internal/logger"
	"github.com/katalvlaran/meanval/lambda"
	"github.com/katalvlaran/meanval/nu"
	"github.com/katalvlaran/meanval/store"
)

// env is the state shared by every subcommand after PersistentPreRunE.
type env struct {
	cfg   *config.Config
	store store.Store
}

// NewRoot returns the meanval root command with all subcommands attached.
func NewRoot() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "meanval",
		Short: "Recursive mean value exponent bounds",
		Long: `meanval computes mean value exponent bounds by running competing recursive
estimators and keeping the smallest bound at every stage.

Available commands:
  lambda   - Build λ(k, s) for one exponent
  nu       - Build ν(h, k, s) for one (h, k)
  batch    - Build many λ or ν tables in parallel
  exponent - Optimize a Hölder weighting and print φ

Examples:
  meanval lambda --k 8 --to 40
  meanval nu --h 3 --k 8 --to 100
  meanval batch lambda --k-min 5 --k-max 16 --to 1000
  meanval exponent --ks 5,7,8,9,10`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			logger.Sync()
			if e.store != nil {
				return e.store.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().String("config", "", "config file (TOML, YAML or JSON)")
	root.PersistentFlags().Bool("json-logs", false, "emit JSON logs on stderr")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	root.PersistentFlags().String("store", "", "table store kind: memory, dir or sqlite")
	root.PersistentFlags().String("store-path", "", "directory or database file of the store")
	root.PersistentFlags().Int("workers", 0, "parallel workers (0 = GOMAXPROCS)")

	root.AddCommand(newLambdaCmd(e))
	root.AddCommand(newNuCmd(e))
	root.AddCommand(newBatchCmd(e))
	root.AddCommand(newExponentCmd(e))

	return root
}

// setup resolves configuration, flags overriding file and environment.
func (e *env) setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	v, err := config.New(path)
	if err != nil {
		return err
	}
	flags := map[string]string{
		"json-logs":  "log.json",
		"verbose":    "log.verbose",
		"store":      "store.kind",
		"store-path": "store.path",
		"workers":    "workers",
	}
	for flag, key := range flags {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err = v.BindPFlag(key, f); err != nil {
				return errs.Wrapf(err, "bind --%s", flag)
			}
		}
	}

	if e.cfg, err = config.Load(v); err != nil {
		return err
	}
	if err = logger.Initialize(e.cfg.Log.JSON, e.cfg.Log.Verbose); err != nil {
		return errs.Wrap(err, "initialize logger")
	}
	if e.cfg.Log.JSON {
		pterm.DisableStyling()
	}
	if e.store, err = e.cfg.OpenStore(); err != nil {
		return err
	}
	logger.Logger.Debugw("configuration resolved",
		"store", e.cfg.Store.Kind,
		"workers", e.cfg.Workers,
		"grid_search", e.cfg.Lambda.GridSearch)

	return nil
}

// runner returns a batch runner wired to the resolved configuration.
func (e *env) runner() *batch.Runner {
	return &batch.Runner{
		Store:         e.store,
		Workers:       e.cfg.Workers,
		Logger:        logger.Base(),
		LambdaOptions: append(e.cfg.LambdaOptions(), lambda.WithLogger(logger.Base())),
		NuOptions:     []nu.Option{nu.WithLogger(logger.Base())},
	}
}
