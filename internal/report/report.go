// Package report wires the pipeline together: load both datasets, compute
// the summaries, render the figures, join the datasets by household, and
// tabulate concordance. One call, one pass, no shared mutable state between
// stages.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/entericlab/entericreport/internal/category"
	"github.com/entericlab/entericreport/internal/chart"
	"github.com/entericlab/entericreport/internal/config"
	"github.com/entericlab/entericreport/internal/dataset"
	"github.com/entericlab/entericreport/internal/export"
	"github.com/entericlab/entericreport/internal/reshape"
	"github.com/entericlab/entericreport/internal/stats"
	"github.com/entericlab/entericreport/internal/utils"
)

// Result collects everything a run produced, for rendering and for the
// export manifest.
type Result struct {
	DetectionRows int
	CultureRows   int

	Prevalence []stats.PrevalenceSummary
	Top        []stats.PrevalenceSummary
	Burden     []stats.BurdenSummary
	Categories []category.Prevalence
	AMR        []stats.AMRProfileRow

	JoinStats   reshape.JoinStats
	Concordance *stats.Contingency // nil when the configured target is absent

	Charts   []string
	Exports  []string
	Warnings []string
}

// Run executes the full pipeline for cfg. Loader and pivot failures are
// fatal and return before any chart or export is written; join misses and a
// missing concordance target are demoted to warnings on the result.
func Run(cfg *config.Run) (*Result, error) {
	detections, err := dataset.LoadDetections(cfg.DetectionPath)
	if err != nil {
		return nil, err
	}
	cultures, err := dataset.LoadCultures(cfg.CulturePath)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DetectionRows: len(detections),
		CultureRows:   len(cultures),
	}

	res.Prevalence = stats.PrevalenceByTarget(detections)
	res.Top = stats.TopN(res.Prevalence, cfg.TopN)
	res.Burden = stats.BurdenByHousehold(detections)
	res.AMR = stats.AMRProfile(cultures)

	lookup := category.BuildLookup(detections)
	annotated := category.AttachCategories(detections, lookup)
	res.Categories = category.CategoryPrevalence(annotated)

	// Pivot before rendering: an ambiguous pivot aborts the run with no
	// artifacts on disk.
	wide, err := reshape.PivotWide(detections)
	if err != nil {
		return nil, err
	}

	if err := renderCharts(cfg, res, wide); err != nil {
		return nil, err
	}

	joined, jstats := reshape.JoinOnHousehold(cultures, wide)
	res.JoinStats = jstats
	if jstats.UnmatchedRows > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d of %d culture rows had no molecular match and joined with null detections",
				jstats.UnmatchedRows, jstats.CultureRows))
	}
	if jstats.OutputRows > jstats.CultureRows {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("household key fan-out: %d culture rows joined to %d output rows",
				jstats.CultureRows, jstats.OutputRows))
	}

	if hasTarget(wide, cfg.ConcordanceTarget) {
		a, b := reshape.ConcordanceColumns(joined, assayColumn(cfg.ConcordanceAssay), cfg.ConcordanceTarget)
		ct := stats.CrossTab(a, b, "culture "+cfg.ConcordanceAssay, "molecular "+cfg.ConcordanceTarget)
		res.Concordance = &ct
	} else {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("concordance target %q not present in the molecular panel; cross-tabulation skipped",
				cfg.ConcordanceTarget))
	}

	if cfg.ExportEnabled {
		if err := runExports(cfg, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func renderCharts(cfg *config.Run, res *Result, wide *reshape.WideTable) error {
	dir := cfg.ChartsDir
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create charts dir: %w", err)
	}
	type render struct {
		path string
		fn   func(string) error
	}
	renders := []render{
		{filepath.Join(dir, "prevalence_top.png"), func(p string) error {
			return chart.TopPrevalenceBar(res.Top, p)
		}},
		{filepath.Join(dir, "burden_histogram.png"), func(p string) error {
			return chart.BurdenHistogram(res.Burden, p)
		}},
		{filepath.Join(dir, "category_heatmap.png"), func(p string) error {
			return chart.CategoryHeatmap(res.Categories, p)
		}},
	}
	for _, st := range sampleTypes(wide) {
		name := fmt.Sprintf("detections_%s.png", sanitize(st))
		renders = append(renders, render{filepath.Join(dir, name), func(p string) error {
			return chart.DetectionHeatmap(wide, st, p)
		}})
	}

	for _, r := range renders {
		if err := r.fn(r.path); err != nil {
			return err
		}
		res.Charts = append(res.Charts, r.path)
	}
	return nil
}

func runExports(cfg *config.Run, res *Result) error {
	tables := export.Tables{Prevalence: res.Prevalence, Burden: res.Burden, AMR: res.AMR}
	if cfg.ExportFormat == "csv" || cfg.ExportFormat == "both" {
		written, err := export.WriteCSV(cfg.OutputDir, tables)
		if err != nil {
			return err
		}
		res.Exports = append(res.Exports, written...)
	}
	if cfg.ExportFormat == "parquet" || cfg.ExportFormat == "both" {
		written, err := export.WriteParquet(cfg.OutputDir, tables)
		if err != nil {
			return err
		}
		res.Exports = append(res.Exports, written...)
	}
	manifest, err := export.WriteManifest(cfg.OutputDir, export.Manifest{
		DetectionPath: cfg.DetectionPath,
		CulturePath:   cfg.CulturePath,
		DetectionRows: res.DetectionRows,
		CultureRows:   res.CultureRows,
		Artifacts:     append(append([]string{}, res.Charts...), res.Exports...),
	})
	if err != nil {
		return err
	}
	res.Exports = append(res.Exports, manifest)
	return nil
}

func sampleTypes(w *reshape.WideTable) []string {
	var out []string
	seen := make(map[string]bool)
	for _, row := range w.Rows {
		if !seen[row.SampleType] {
			seen[row.SampleType] = true
			out = append(out, row.SampleType)
		}
	}
	return out
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}

func hasTarget(w *reshape.WideTable, target string) bool {
	for _, t := range w.Targets {
		if t == target {
			return true
		}
	}
	return false
}

func assayColumn(name string) func(dataset.CultureRecord) *bool {
	switch name {
	case "ar_ec_detect":
		return func(c dataset.CultureRecord) *bool { return c.ARECDetect }
	case "tc_detect":
		return func(c dataset.CultureRecord) *bool { return c.TCDetect }
	case "ar_tc_detect":
		return func(c dataset.CultureRecord) *bool { return c.ARTCDetect }
	default:
		return func(c dataset.CultureRecord) *bool { return c.ECDetect }
	}
}
