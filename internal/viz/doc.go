// Package viz renders run reports for the terminal.
//
// [RenderLedger] prints the per-body energy table of a run, [RenderSummary]
// the summed totals and drift, and [PlotEnergy] an ASCII chart of the sampled
// total energy. Styling comes from lipgloss; colour is dropped automatically
// when output is not a terminal.
package viz
