package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/entericlab/entericreport/internal/category"
	"github.com/entericlab/entericreport/internal/dataset"
	"github.com/entericlab/entericreport/internal/reshape"
	"github.com/entericlab/entericreport/internal/stats"
)

func assertPNG(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("chart %s is empty", path)
	}
}

func TestTopPrevalenceBar(t *testing.T) {
	rows := []stats.PrevalenceSummary{
		{Target: "Rotavirus", Prevalence: 0.8, N: 10},
		{Target: "Giardia_18S", Prevalence: 0.4, N: 10},
		{Target: "CTX-M-ARG", Prevalence: 0.1, N: 10},
	}
	path := filepath.Join(t.TempDir(), "prevalence.png")
	if err := TopPrevalenceBar(rows, path); err != nil {
		t.Fatalf("TopPrevalenceBar: %v", err)
	}
	assertPNG(t, path)
}

func TestTopPrevalenceBarEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	if err := TopPrevalenceBar(nil, path); err != nil {
		t.Fatalf("zero rows should render an empty chart, got %v", err)
	}
	assertPNG(t, path)
}

func TestBurdenHistogram(t *testing.T) {
	rows := []stats.BurdenSummary{
		{HouseholdID: "HH01", SampleType: "stool", NumDetected: 3},
		{HouseholdID: "HH02", SampleType: "stool", NumDetected: 1},
		{HouseholdID: "HH03", SampleType: "stool", NumDetected: 3},
		{HouseholdID: "HH01", SampleType: "water", NumDetected: 0},
		{HouseholdID: "HH02", SampleType: "water", NumDetected: 2},
	}
	path := filepath.Join(t.TempDir(), "burden.png")
	if err := BurdenHistogram(rows, path); err != nil {
		t.Fatalf("BurdenHistogram: %v", err)
	}
	assertPNG(t, path)
}

func TestBurdenHistogramEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "burden.png")
	if err := BurdenHistogram(nil, path); err != nil {
		t.Fatalf("zero rows should render an empty chart, got %v", err)
	}
	assertPNG(t, path)
}

func TestCategoryHeatmap(t *testing.T) {
	cells := []category.Prevalence{
		{SampleType: "stool", Category: category.Virus, Prevalence: 0.5, N: 4},
		{SampleType: "stool", Category: category.ARG, Prevalence: 0.25, N: 4},
		{SampleType: "water", Category: category.Virus, Prevalence: 0.1, N: 10},
	}
	path := filepath.Join(t.TempDir(), "categories.png")
	if err := CategoryHeatmap(cells, path); err != nil {
		t.Fatalf("CategoryHeatmap: %v", err)
	}
	assertPNG(t, path)
}

func TestCategoryHeatmapEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.png")
	if err := CategoryHeatmap(nil, path); err != nil {
		t.Fatalf("zero cells should render an empty chart, got %v", err)
	}
	assertPNG(t, path)
}

func TestDetectionHeatmap(t *testing.T) {
	recs := []dataset.DetectionRecord{
		{SampleID: "HH01-S1", HouseholdID: "HH01", SampleType: "stool", Target: "Rotavirus", Detect: dataset.Bool(true)},
		{SampleID: "HH01-S1", HouseholdID: "HH01", SampleType: "stool", Target: "Giardia_18S", Detect: dataset.Bool(false)},
		{SampleID: "HH02-S1", HouseholdID: "HH02", SampleType: "stool", Target: "Rotavirus", Detect: nil},
		{SampleID: "HH02-S1", HouseholdID: "HH02", SampleType: "stool", Target: "Giardia_18S", Detect: dataset.Bool(true)},
	}
	wide, err := reshape.PivotWide(recs)
	if err != nil {
		t.Fatalf("PivotWide: %v", err)
	}
	path := filepath.Join(t.TempDir(), "detections_stool.png")
	if err := DetectionHeatmap(wide, "stool", path); err != nil {
		t.Fatalf("DetectionHeatmap: %v", err)
	}
	assertPNG(t, path)
}

func TestDetectionHeatmapNoMatchingSampleType(t *testing.T) {
	wide := &reshape.WideTable{Targets: []string{"Rotavirus"}}
	path := filepath.Join(t.TempDir(), "detections_water.png")
	if err := DetectionHeatmap(wide, "water", path); err != nil {
		t.Fatalf("empty facet should render an empty chart, got %v", err)
	}
	assertPNG(t, path)
}
