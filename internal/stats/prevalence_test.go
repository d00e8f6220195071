package stats

import (
	"math"
	"testing"

	"github.com/entericlab/entericreport/internal/dataset"
)

func det(target, hh, st string, d *bool) dataset.DetectionRecord {
	return dataset.DetectionRecord{SampleID: hh + "-S1", HouseholdID: hh, SampleType: st, Target: target, Detect: d}
}

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func TestPrevalenceByTargetMissingExcluded(t *testing.T) {
	// Two valid results (one positive) and one missing: prevalence 0.5
	// over n=2, sd over the two valid values only.
	recs := []dataset.DetectionRecord{
		det("Rotavirus", "HH01", "stool", dataset.Bool(true)),
		det("Rotavirus", "HH02", "stool", dataset.Bool(false)),
		det("Rotavirus", "HH03", "stool", nil),
	}
	out := PrevalenceByTarget(recs)
	if len(out) != 1 {
		t.Fatalf("want 1 summary row, got %d", len(out))
	}
	s := out[0]
	if s.N != 2 {
		t.Fatalf("missing value counted: n=%d", s.N)
	}
	if s.Prevalence != 0.5 {
		t.Fatalf("prevalence = %g, want 0.5", s.Prevalence)
	}
	if !approx(s.SD, math.Sqrt(0.5), 1e-12) {
		t.Fatalf("sd = %g, want sqrt(0.5)", s.SD)
	}
}

func TestPrevalenceByTargetAllMissing(t *testing.T) {
	recs := []dataset.DetectionRecord{
		det("Sapovirus", "HH01", "stool", nil),
		det("Sapovirus", "HH02", "stool", nil),
	}
	out := PrevalenceByTarget(recs)
	if len(out) != 1 {
		t.Fatalf("all-missing group dropped")
	}
	if !math.IsNaN(out[0].Prevalence) || !math.IsNaN(out[0].SD) {
		t.Fatalf("all-missing group should be NaN/NaN, got %+v", out[0])
	}
}

func TestPrevalenceByTargetBounds(t *testing.T) {
	recs := []dataset.DetectionRecord{
		det("A", "HH01", "stool", dataset.Bool(true)),
		det("A", "HH02", "stool", dataset.Bool(true)),
		det("B", "HH01", "stool", dataset.Bool(false)),
		det("C", "HH01", "stool", dataset.Bool(true)),
		det("C", "HH02", "stool", dataset.Bool(false)),
		det("C", "HH03", "stool", dataset.Bool(false)),
	}
	for _, s := range PrevalenceByTarget(recs) {
		if s.Prevalence < 0 || s.Prevalence > 1 {
			t.Fatalf("prevalence out of [0,1]: %+v", s)
		}
	}
}

func TestPrevalenceSortOrder(t *testing.T) {
	recs := []dataset.DetectionRecord{
		det("Low", "HH01", "stool", dataset.Bool(false)),
		det("TieFirst", "HH01", "stool", dataset.Bool(true)),
		det("TieFirst", "HH02", "stool", dataset.Bool(false)),
		det("High", "HH01", "stool", dataset.Bool(true)),
		det("TieSecond", "HH01", "stool", dataset.Bool(true)),
		det("TieSecond", "HH02", "stool", dataset.Bool(false)),
		det("AllMissing", "HH01", "stool", nil),
	}
	out := PrevalenceByTarget(recs)
	got := make([]string, len(out))
	for i, s := range out {
		got[i] = s.Target
	}
	want := []string{"High", "TieFirst", "TieSecond", "Low", "AllMissing"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestTopN(t *testing.T) {
	recs := []dataset.DetectionRecord{
		det("A", "HH01", "stool", dataset.Bool(true)),
		det("B", "HH01", "stool", dataset.Bool(false)),
		det("C", "HH01", "stool", dataset.Bool(true)),
	}
	out := PrevalenceByTarget(recs)
	if got := TopN(out, 2); len(got) != 2 {
		t.Fatalf("TopN(2) returned %d rows", len(got))
	}
	if got := TopN(out, 10); len(got) != 3 {
		t.Fatalf("TopN beyond length should return all rows, got %d", len(got))
	}
	if got := TopN(out, 0); len(got) != 0 {
		t.Fatalf("TopN(0) should be empty, got %d", len(got))
	}
	// TopN matches a direct slice of the sorted summary.
	top := TopN(out, 2)
	for i := range top {
		if top[i].Target != out[i].Target {
			t.Fatalf("TopN diverges from sorted prefix at %d", i)
		}
	}
}

func TestBurdenByHousehold(t *testing.T) {
	recs := []dataset.DetectionRecord{
		det("A", "HH01", "stool", dataset.Bool(true)),
		det("B", "HH01", "stool", dataset.Bool(false)),
		det("C", "HH01", "stool", dataset.Bool(true)),
		det("D", "HH01", "stool", nil),
		det("A", "HH01", "water", dataset.Bool(true)),
		det("A", "HH02", "stool", dataset.Bool(false)),
	}
	out := BurdenByHousehold(recs)
	if len(out) != 3 {
		t.Fatalf("want 3 groups, got %d", len(out))
	}
	if out[0].HouseholdID != "HH01" || out[0].SampleType != "stool" || out[0].NumDetected != 2 {
		t.Fatalf("HH01/stool burden mismatch: %+v", out[0])
	}
	if out[1].SampleType != "water" || out[1].NumDetected != 1 {
		t.Fatalf("HH01/water burden mismatch: %+v", out[1])
	}
	if out[2].HouseholdID != "HH02" || out[2].NumDetected != 0 {
		t.Fatalf("HH02/stool burden mismatch: %+v", out[2])
	}
}

func TestAMRProfile(t *testing.T) {
	recs := []dataset.CultureRecord{
		{SampleID: "HH01-S1", HouseholdID: "HH01", SampleType: "stool",
			ECDetect: dataset.Bool(true), ARECDetect: dataset.Bool(false),
			TCDetect: dataset.Bool(true), ARTCDetect: dataset.Bool(false),
			AdjustedESBLCFU: dataset.Float(100)},
		{SampleID: "HH02-S1", HouseholdID: "HH02", SampleType: "stool",
			ECDetect: dataset.Bool(false), ARECDetect: nil,
			TCDetect: dataset.Bool(true), ARTCDetect: dataset.Bool(true),
			AdjustedESBLCFU: dataset.Float(50)},
		{SampleID: "HH01-W1", HouseholdID: "HH01", SampleType: "water",
			ECDetect: nil, ARECDetect: nil, TCDetect: nil, ARTCDetect: nil},
	}
	out := AMRProfile(recs)
	if len(out) != 2 {
		t.Fatalf("want 2 sample types, got %d", len(out))
	}
	st := out[0]
	if st.SampleType != "stool" || st.Samples != 2 {
		t.Fatalf("stool row mismatch: %+v", st)
	}
	if st.ECPrev != 0.5 {
		t.Fatalf("ec prevalence = %g, want 0.5", st.ECPrev)
	}
	if st.ARECPrev != 0.0 {
		// one non-missing ar_ec result, negative
		t.Fatalf("ar_ec prevalence = %g, want 0", st.ARECPrev)
	}
	if st.MeanESBLCFU != 75 {
		t.Fatalf("mean cfu = %g, want 75", st.MeanESBLCFU)
	}
	w := out[1]
	if !math.IsNaN(w.ECPrev) || !math.IsNaN(w.MeanESBLCFU) {
		t.Fatalf("water row with no results should be NaN: %+v", w)
	}
}
