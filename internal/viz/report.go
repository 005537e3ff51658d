package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/metrics"
)

// Summary is the run-level part of a report.
type Summary struct {
	Generator     string
	Particles     int
	Steps         int
	StepsTaken    int
	Backend       string
	InitialEnergy float64
	FinalEnergy   float64
	DriftPercent  float64
	Elapsed       time.Duration
	Metrics       map[string]float64
}

func (s Summary) perStep() time.Duration {
	if s.StepsTaken == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.StepsTaken)
}

// RenderLedger prints one row per body. When final is non-nil its energies
// are shown and the last column holds the relative kinetic energy change from
// initial; otherwise only initial is shown. Bodies past the end of names are
// labelled by index.
func RenderLedger(names []string, initial metrics.Ledger, final *metrics.Ledger) string {
	headers := []string{"body", "kinetic", "potential", "total"}
	if final != nil {
		headers = append(headers, "Δkinetic")
	}

	rows := make([][]string, 0, initial.Len())
	for i := 0; i < initial.Len(); i++ {
		l := initial
		if final != nil && i < final.Len() {
			l = *final
		}
		row := []string{
			bodyName(names, i),
			formatEnergy(l.Kinetic[i]),
			formatEnergy(l.Potential[i]),
			formatEnergy(l.Total[i]),
		}
		if final != nil {
			row = append(row, formatChange(initial.Kinetic[i], l.Kinetic[i]))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle.Padding(0, 1)
			}
			if col == 0 {
				return MetricLabel.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})

	return t.String()
}

func RenderSummary(s Summary) string {
	var b strings.Builder

	b.WriteString(Title.Render(fmt.Sprintf("%s system, %d bodies", s.Generator, s.Particles)))
	b.WriteString("\n")

	line := func(label, value string) {
		b.WriteString(MetricLabel.Render(fmt.Sprintf("%-18s", label)))
		b.WriteString(value)
		b.WriteString("\n")
	}

	line("steps", MetricValue.Render(fmt.Sprintf("%d/%d", s.StepsTaken, s.Steps)))
	if s.Backend != "" {
		line("backend", s.Backend)
	}
	line("initial energy", MetricValue.Render(formatEnergy(s.InitialEnergy)))
	line("final energy", MetricValue.Render(formatEnergy(s.FinalEnergy)))
	line("drift", DriftStyle(s.DriftPercent).Render(fmt.Sprintf("%.6f%%", s.DriftPercent)))
	if s.Elapsed > 0 {
		line("elapsed", s.Elapsed.Round(time.Microsecond).String())
		line("per step", s.perStep().String())
	}

	names := make([]string, 0, len(s.Metrics))
	for name := range s.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		line(name, fmt.Sprintf("%.6g", s.Metrics[name]))
	}

	return Panel.Render(strings.TrimRight(b.String(), "\n"))
}

// PlotEnergy charts the sampled total energy. It needs at least two samples.
func PlotEnergy(samples []metrics.Sample, width, height int) string {
	if len(samples) < 2 {
		return Subtle.Render("not enough samples to plot")
	}

	data := metrics.Totals(samples)
	caption := fmt.Sprintf("total energy, t = %.3g..%.3g", samples[0].Time, samples[len(samples)-1].Time)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

func bodyName(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("#%d", i)
}

func formatEnergy(e float64) string {
	return fmt.Sprintf("%.6e", e)
}

// formatChange is the relative change from before to after in percent.
func formatChange(before, after float64) string {
	if before == 0 {
		if after == 0 {
			return "0%"
		}
		return "n/a"
	}
	change := 100 * (after - before) / math.Abs(before)
	return fmt.Sprintf("%+.4f%%", change)
}
