package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGENERATOR\tTIME\tBODIES\tSTEPS\tDT\tEPSILON\tDRIFT%")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%g\t%.6f\n",
			run.ID,
			run.Generator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.StepsTaken,
			run.Dt,
			run.Epsilon,
			float64(run.DriftPercent),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "seed: %d  dt: %g  len_time: %g  epsilon: %g\n\n", meta.Seed, meta.Dt, meta.LenTime, meta.Epsilon)

	initial := meta.Initial.Metrics()
	if meta.Final.Len() > 0 {
		final := meta.Final.Metrics()
		fmt.Fprintln(out, viz.RenderLedger(meta.BodyNames, initial, &final))
	} else {
		fmt.Fprintln(out, viz.RenderLedger(meta.BodyNames, initial, nil))
	}

	fmt.Fprintln(out, viz.RenderSummary(viz.Summary{
		Generator:     meta.Generator,
		Particles:     meta.Particles,
		Steps:         meta.Steps,
		StepsTaken:    meta.StepsTaken,
		Backend:       meta.Backend,
		InitialEnergy: float64(meta.InitialEnergy),
		FinalEnergy:   float64(meta.FinalEnergy),
		DriftPercent:  float64(meta.DriftPercent),
		Elapsed:       meta.Elapsed,
		Metrics:       meta.Float64Metrics(),
	}))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "generator: %s\n", meta.Generator)
	fmt.Fprintf(out, "samples: %d\n\n", len(history))
	fmt.Fprintln(out, viz.PlotEnergy(history, 80, 12))
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(args[0], cmd.OutOrStdout())
}
