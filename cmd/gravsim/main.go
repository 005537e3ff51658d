package main

import (
	"fmt"
	"os"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir     string
	verbose     bool
	dt          float64
	lenTime     float64
	epsilon     float64
	numBodies   int
	seed        int64
	parallel    bool
	workers     int
	sampleEvery int
	configFile  string
	preset      string
	ensemble    int
	noSave      bool
	scaleSizes  []int
	force       bool

	logger = zap.NewNop()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "direct-sum N-body gravity simulator",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [generator]",
		Short: "run a simulation and report its energy ledger",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of seeded runs to summarise")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	scaleCmd := &cobra.Command{
		Use:   "scale",
		Short: "time random systems of increasing size",
		Args:  cobra.NoArgs,
		RunE:  runScale,
	}
	scaleCmd.Flags().IntSliceVar(&scaleSizes, "sizes", []int{100, 200, 400, 800}, "particle counts")
	scaleCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	scaleCmd.Flags().Float64Var(&lenTime, "time", 0.01, "simulated orbits")
	scaleCmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "softening length")
	scaleCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	scaleCmd.Flags().BoolVar(&parallel, "parallel", false, "run passes on a worker pool")
	scaleCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = one per CPU)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show the energy report of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the total energy of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [generator]",
		Short: "list available presets for a generator",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for generator: %s\n", args[0])
				return
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initConfigCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	rootCmd.AddCommand(runCmd, scaleCmd, listCmd, showCmd, plotCmd, exportJSONCmd, presetsCmd, initConfigCmd)
	return rootCmd
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&lenTime, "time", config.DefaultLenTime, "simulated orbits (2π time units each)")
	cmd.Flags().Float64Var(&epsilon, "epsilon", config.DefaultEpsilon, "softening length")
	cmd.Flags().IntVarP(&numBodies, "particles", "n", config.DefaultParticles, "orbiting bodies for the random generator")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run passes on a worker pool")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = one per CPU)")
	cmd.Flags().IntVar(&sampleEvery, "sample-every", config.DefaultSampleEvery, "steps between energy samples")
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
