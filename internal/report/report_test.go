package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/entericlab/entericreport/internal/config"
	"github.com/entericlab/entericreport/internal/dataset"
	"github.com/entericlab/entericreport/internal/reshape"
)

var tacRows = []string{
	"sample_id,household_id,sample_type,target_name,detect",
	"HH01-S1,HH01,stool,E_coli,1",
	"HH01-S1,HH01,stool,Rotavirus,1",
	"HH01-S1,HH01,stool,Giardia_18S,0",
	"HH01-S1,HH01,stool,CTX-M-ARG,NA",
	"HH02-S1,HH02,stool,E_coli,0",
	"HH02-S1,HH02,stool,Rotavirus,0",
	"HH02-S1,HH02,stool,Giardia_18S,1",
	"HH02-S1,HH02,stool,CTX-M-ARG,0",
	"HH01-W1,HH01,water,E_coli,1",
	"HH01-W1,HH01,water,Rotavirus,0",
	"HH01-W1,HH01,water,Giardia_18S,0",
	"HH01-W1,HH01,water,CTX-M-ARG,1",
}

var microRows = []string{
	"sample_id,household_id,sample_type,ec_detect,ar_ec_detect,tc_detect,ar_tc_detect,adjusted_esbl_cfu",
	"HH01-C1,HH01,stool,1,0,1,0,150",
	"HH02-C1,HH02,stool,0,0,1,1,20",
	"HH05-C1,HH05,stool,1,1,1,1,900",
}

func testConfig(t *testing.T) *config.Run {
	t.Helper()
	dir := t.TempDir()
	write := func(name string, rows []string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}
	return &config.Run{
		DetectionPath:     write("tac.csv", tacRows),
		CulturePath:       write("micro.csv", microRows),
		OutputDir:         filepath.Join(dir, "out"),
		ChartsDir:         filepath.Join(dir, "out", "figures"),
		TopN:              10,
		ConcordanceAssay:  "ec_detect",
		ConcordanceTarget: "E_coli",
		ExportFormat:      "csv",
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.DetectionRows != 12 || res.CultureRows != 3 {
		t.Fatalf("row counts mismatch: %+v", res)
	}
	if len(res.Prevalence) != 4 {
		t.Fatalf("want 4 prevalence rows, got %d", len(res.Prevalence))
	}
	// Two sample types → two detection heatmaps plus the three fixed charts.
	if len(res.Charts) != 5 {
		t.Fatalf("want 5 charts, got %v", res.Charts)
	}
	for _, p := range res.Charts {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("chart missing: %v", err)
		}
	}
	// HH05 has no molecular sample: the join keeps it and warns.
	if res.JoinStats.UnmatchedRows != 1 {
		t.Fatalf("join stats mismatch: %+v", res.JoinStats)
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("unmatched join rows should produce a warning")
	}
	if res.Concordance == nil {
		t.Fatalf("concordance should be computed for E_coli")
	}
	// Export disabled by default.
	if len(res.Exports) != 0 {
		t.Fatalf("exports written while disabled: %v", res.Exports)
	}
}

func TestRunWithExports(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExportEnabled = true
	cfg.ExportFormat = "both"
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 3 CSVs + 3 parquet files + manifest.
	if len(res.Exports) != 7 {
		t.Fatalf("want 7 export artifacts, got %v", res.Exports)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "manifest.json")); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
}

func TestRunLoaderErrorIsFatalBeforeArtifacts(t *testing.T) {
	cfg := testConfig(t)
	cfg.DetectionPath = filepath.Join(t.TempDir(), "missing.csv")
	cfg.ExportEnabled = true
	_, err := Run(cfg)
	var le *dataset.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("want *LoadError, got %v", err)
	}
	if _, statErr := os.Stat(cfg.ChartsDir); !os.IsNotExist(statErr) {
		t.Fatalf("charts dir should not exist after a fatal loader error")
	}
}

func TestRunPivotErrorIsFatalBeforeCharts(t *testing.T) {
	cfg := testConfig(t)
	rows := append(append([]string{}, tacRows...), "HH01-S1,HH01,stool,E_coli,0")
	if err := os.WriteFile(cfg.DetectionPath, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("rewrite tac csv: %v", err)
	}
	_, err := Run(cfg)
	var se *reshape.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("want *SchemaError, got %v", err)
	}
	if _, statErr := os.Stat(cfg.ChartsDir); !os.IsNotExist(statErr) {
		t.Fatalf("charts dir should not exist after a fatal pivot error")
	}
}

func TestRunMissingConcordanceTarget(t *testing.T) {
	cfg := testConfig(t)
	cfg.ConcordanceTarget = "Vibrio_cholerae"
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Concordance != nil {
		t.Fatalf("concordance should be skipped for an absent target")
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "Vibrio_cholerae") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing target should be reported in warnings: %v", res.Warnings)
	}
}

func TestRenderSections(t *testing.T) {
	cfg := testConfig(t)
	res, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := res.Render()
	for _, section := range []string{"[DATASET]", "[PREVALENCE", "[BURDEN]", "[CATEGORIES]", "[AMR PROFILE]", "[JOIN]", "[CONCORDANCE]", "[FIGURES]", "[NOTES]"} {
		if !strings.Contains(out, section) {
			t.Fatalf("render missing %s:\n%s", section, out)
		}
	}
	if !strings.Contains(out, "Culture rows: 3") {
		t.Fatalf("render missing culture row count:\n%s", out)
	}
}
