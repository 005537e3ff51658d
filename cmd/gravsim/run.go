package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/initcond"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// stabilityRadius bounds the orbits of both generators with room to spare.
const stabilityRadius = 4 * initcond.MaxRandomDistance

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Generator = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Generator, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Generator))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Generator = args[0]
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.LenTime = lenTime
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = epsilon
	}
	if flags.Changed("particles") {
		cfg.NumParticles = numBodies
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("sample-every") {
		cfg.SampleEvery = sampleEvery
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	opts, err := cfg.InitOptions()
	if err != nil {
		return err
	}

	if ensemble > 1 {
		return runEnsemble(cmd, cfg, opts)
	}

	gen, err := initcond.New(opts)
	if err != nil {
		return err
	}

	simCfg := cfg.SimConfig()
	acc := metrics.NewAccountant(cfg.Epsilon, nil)
	history := metrics.NewEnergyHistory(acc)

	s := sim.New(gen, sim.WithLogger(logger))
	s.AddObserver(history)
	s.AddMetric(metrics.NewEnergyDrift(acc))
	s.AddMetric(metrics.NewMomentumDrift())
	s.AddMetric(metrics.NewAngularMomentumDrift())
	s.AddMetric(metrics.NewStability(stabilityRadius))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s system for %d steps...\n", gen.Name(), simCfg.Steps())

	result, runErr := s.Run(simCfg)
	if result == nil {
		return runErr
	}

	names := bodyNames(gen)
	fmt.Fprintln(out, viz.Title.Render("initial"))
	fmt.Fprintln(out, viz.RenderLedger(names, result.Initial, nil))
	if runErr == nil {
		fmt.Fprintln(out, viz.Title.Render("final"))
		fmt.Fprintln(out, viz.RenderLedger(names, result.Initial, &result.Final))
	}
	fmt.Fprintln(out, viz.RenderSummary(summaryOf(result)))
	for _, e := range result.Errors {
		fmt.Fprintf(out, "warning: %v\n", e)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		params := storage.RunParams{
			Seed: cfg.Seed, Dt: cfg.Dt, LenTime: cfg.LenTime, Epsilon: cfg.Epsilon, BodyNames: names,
		}
		runID, err := st.Save(params, result, history.Samples())
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		logger.Info("run stored", zap.String("id", runID), zap.String("dir", dataDir))
		fmt.Fprintf(out, "run id: %s\n", runID)
	}

	return runErr
}

func runEnsemble(cmd *cobra.Command, cfg *config.Config, opts initcond.Options) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %d %s systems, seeds %d..%d\n", ensemble, opts.Kind, cfg.Seed, cfg.Seed+int64(ensemble)-1)

	results, err := sim.NewEnsemble(opts, ensemble, cfg.Seed, logger).Run(cfg.SimConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tBODIES\tSTEPS\tINITIAL\tFINAL\tDRIFT%")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.6e\t%.6e\t%.6f\n",
			cfg.Seed+int64(i), r.Particles, r.StepsTaken, r.Initial.Sum, r.Final.Sum, r.DriftPercent)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stats := sim.SummarizeDrift(results)
	fmt.Fprintf(out, "\ndrift mean %.6f%%, stddev %.6f%%, max |drift| %.6f%%\n", stats.Mean, stats.StdDev, stats.MaxAbs)
	return nil
}

func runScale(cmd *cobra.Command, args []string) error {
	simCfg := sim.Config{
		Dt:            dt,
		LenTime:       lenTime,
		Softening:     epsilon,
		Parallel:      parallel,
		Workers:       workers,
		ValidateState: true,
	}
	if err := simCfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scaling random systems, %d steps each\n\n", simCfg.Steps())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tBACKEND\tSTEPS\tTIME\tPER STEP\tDRIFT%")

	for _, n := range scaleSizes {
		gen, err := initcond.New(initcond.Options{Kind: initcond.KindRandom, Seed: seed, Count: n})
		if err != nil {
			return err
		}

		result, err := sim.New(gen, sim.WithLogger(logger)).Run(simCfg)
		if err != nil {
			return fmt.Errorf("%d bodies: %w", n, err)
		}

		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%v\t%.6f\n",
			result.Particles, result.Backend, result.StepsTaken, result.Elapsed, result.PerStep(), result.DriftPercent)
	}

	return w.Flush()
}

func bodyNames(gen initcond.Generator) []string {
	if n, ok := gen.(interface{ BodyNames() []string }); ok {
		return n.BodyNames()
	}
	return nil
}

func summaryOf(r *sim.Result) viz.Summary {
	return viz.Summary{
		Generator:     r.Generator,
		Particles:     r.Particles,
		Steps:         r.Steps,
		StepsTaken:    r.StepsTaken,
		Backend:       r.Backend,
		InitialEnergy: r.Initial.Sum,
		FinalEnergy:   r.Final.Sum,
		DriftPercent:  r.DriftPercent,
		Elapsed:       r.Elapsed,
		Metrics:       r.Metrics,
	}
}
