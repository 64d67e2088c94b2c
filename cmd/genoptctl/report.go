package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"genopt/internal/evo"
	"genopt/internal/space"
	"genopt/internal/stats"
	"genopt/pkg/genopt"
)

type profileJSON struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        string      `json:"mutation_kind"`
	Probability float64     `json:"probability"`
	SearchSpace space.Space `json:"search_space"`
	MaxAttempts int         `json:"max_attempts,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func profileView(item genopt.ProfileItem) profileJSON {
	return profileJSON{
		ID:          item.ID,
		Name:        item.Name,
		Kind:        item.Config.Kind,
		Probability: item.Config.Probability,
		SearchSpace: item.Config.SearchSpace,
		MaxAttempts: item.Config.MaxAttempts,
		CreatedAt:   item.CreatedAt,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printConfig(w io.Writer, cfg evo.Config) {
	fmt.Fprintf(w, "config ok kind=%s probability=%g space=%s max_attempts=%d\n",
		cfg.Kind, cfg.Probability, cfg.Space.Kind, cfg.MaxAttempts)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("search space")
	t.AppendHeader(table.Row{"#", "param", "domain", "strategy"})
	for i, p := range cfg.Space.Params {
		t.AppendRow(table.Row{i, p.Name, describeDomain(cfg.Space.Kind, p.Spec), mutationStrategy(cfg.Space.Kind, p.Spec)})
	}
	t.Render()
}

func describeDomain(kind space.Kind, spec space.Spec) string {
	if kind == space.KindFixed {
		return fmt.Sprintf("%v", spec.Values)
	}
	switch spec.Type {
	case space.TypeInt:
		return fmt.Sprintf("int [%g, %g]", spec.Low, spec.High)
	case space.TypeFloat:
		return fmt.Sprintf("float [%g, %g)", spec.Low, spec.High)
	default:
		return fmt.Sprintf("%v", spec.Choices)
	}
}

func mutationStrategy(kind space.Kind, spec space.Spec) string {
	if kind == space.KindFixed {
		if spec.IsBinary() {
			return "flip"
		}
		return "resample"
	}
	switch spec.Type {
	case space.TypeInt:
		if spec.IsBooleanInt() {
			return "flip"
		}
		return "uniform int"
	case space.TypeFloat:
		return "uniform float"
	default:
		if len(spec.Choices) == 2 {
			return "flip"
		}
		return "resample"
	}
}

func printMutateSummary(w io.Writer, result genopt.MutateResult) {
	fired := 0
	touched := 0
	for _, outcome := range result.Outcomes {
		if outcome.Fired {
			fired++
		}
		touched += len(outcome.Touched())
	}
	fmt.Fprintf(w, "mutated individuals=%s fired=%s genes_touched=%s",
		humanize.Comma(int64(len(result.Individuals))), humanize.Comma(int64(fired)), humanize.Comma(int64(touched)))
	if result.BatchID != "" {
		fmt.Fprintf(w, " batch=%s", result.BatchID)
	}
	fmt.Fprintln(w)
}

func printTrialReport(w io.Writer, report stats.TrialReport) {
	fmt.Fprintf(w, "trial kind=%s probability=%g trials=%s fired=%s failed=%s fire_rate=%.4f\n",
		report.Kind,
		report.Probability,
		humanize.Comma(int64(report.Trials)),
		humanize.Comma(int64(report.Fired)),
		humanize.Comma(int64(report.Failed)),
		report.FireRate,
	)
	if report.FirstError != "" {
		fmt.Fprintf(w, "first error: %s\n", report.FirstError)
	}

	dist := table.NewWriter()
	dist.SetOutputMirror(w)
	dist.SetTitle("per fired trial")
	dist.AppendHeader(table.Row{"count", "mean", "stddev", "min", "max"})
	for _, row := range []struct {
		name string
		d    stats.Distribution
	}{
		{name: "loci drawn", d: report.Loci},
		{name: "genes touched", d: report.Touched},
		{name: "genes changed", d: report.Changed},
	} {
		dist.AppendRow(table.Row{row.name, fmt.Sprintf("%.3f", row.d.Mean), fmt.Sprintf("%.3f", row.d.StdDev), row.d.Min, row.d.Max})
	}
	dist.Render()

	genes := table.NewWriter()
	genes.SetOutputMirror(w)
	genes.SetTitle("per gene")
	genes.AppendHeader(table.Row{"param", "selected", "changed"})
	for _, g := range report.Genes {
		genes.AppendRow(table.Row{g.Name, humanize.Comma(int64(g.Selected)), humanize.Comma(int64(g.Changed))})
	}
	genes.Render()
}

func printProfiles(w io.Writer, items []genopt.ProfileItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no profiles")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"name", "kind", "probability", "params", "created"})
	for _, item := range items {
		t.AppendRow(table.Row{
			item.Name,
			item.Config.Kind,
			item.Config.Probability,
			item.Config.SearchSpace.Len(),
			humanize.Time(item.CreatedAt),
		})
	}
	t.Render()
}

func printTrialIndex(w io.Writer, entries []stats.TrialIndexEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no trials")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"trial", "profile", "kind", "probability", "trials", "fire rate", "failed", "created"})
	for _, e := range entries {
		created := e.CreatedAtUTC
		if ts, err := time.Parse(time.RFC3339Nano, e.CreatedAtUTC); err == nil {
			created = humanize.Time(ts)
		}
		t.AppendRow(table.Row{
			e.TrialID,
			e.Profile,
			e.Kind,
			e.Probability,
			humanize.Comma(int64(e.Trials)),
			fmt.Sprintf("%.4f", e.FireRate),
			e.Failed,
			created,
		})
	}
	t.Render()
}
