// Package stats computes the descriptive summaries of the report:
// per-target prevalence, per-household burden, culture/AMR profiles, and
// the 2×2 concordance table. Missing results are excluded from means and
// standard deviations and contribute zero to sums.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/entericlab/entericreport/internal/dataset"
)

// PrevalenceSummary is the detection rate for one panel target.
type PrevalenceSummary struct {
	Target     string
	Prevalence float64 // fraction of non-missing results that are positive
	SD         float64 // sample standard deviation of the 0/1 results
	N          int     // non-missing results
}

// PrevalenceByTarget groups detection records by target and computes the
// mean and sample standard deviation of the detect flag, excluding missing
// results from both numerator and denominator. Rows are sorted descending
// by prevalence; ties keep first-appearance order and NaN rows (all results
// missing) sort last.
func PrevalenceByTarget(records []dataset.DetectionRecord) []PrevalenceSummary {
	vals := make(map[string][]float64)
	var order []string
	for _, r := range records {
		if _, seen := vals[r.Target]; !seen {
			order = append(order, r.Target)
			vals[r.Target] = nil
		}
		if r.Detect == nil {
			continue
		}
		x := 0.0
		if *r.Detect {
			x = 1.0
		}
		vals[r.Target] = append(vals[r.Target], x)
	}

	out := make([]PrevalenceSummary, 0, len(order))
	for _, target := range order {
		xs := vals[target]
		s := PrevalenceSummary{Target: target, N: len(xs)}
		if len(xs) == 0 {
			s.Prevalence = math.NaN()
			s.SD = math.NaN()
		} else {
			s.Prevalence = stat.Mean(xs, nil)
			if len(xs) > 1 {
				s.SD = stat.StdDev(xs, nil)
			} else {
				s.SD = math.NaN()
			}
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Prevalence, out[j].Prevalence
		switch {
		case math.IsNaN(pi):
			return false
		case math.IsNaN(pj):
			return true
		default:
			return pi > pj
		}
	})
	return out
}

// TopN returns the first n rows of an already-sorted summary. Ties beyond
// position n are dropped, matching a plain sort-and-slice.
func TopN(summaries []PrevalenceSummary, n int) []PrevalenceSummary {
	if n < 0 {
		n = 0
	}
	if n > len(summaries) {
		n = len(summaries)
	}
	return summaries[:n]
}

// BurdenSummary is the number of distinct targets detected in the samples
// of one (household, sample_type) group.
type BurdenSummary struct {
	HouseholdID string
	SampleType  string
	NumDetected int
}

// BurdenByHousehold groups by (household, sample_type) and counts positive
// detections. Missing results contribute zero to the sum.
func BurdenByHousehold(records []dataset.DetectionRecord) []BurdenSummary {
	type key struct{ hh, st string }
	counts := make(map[key]int)
	var order []key
	for _, r := range records {
		k := key{r.HouseholdID, r.SampleType}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
			counts[k] = 0
		}
		if r.Detect != nil && *r.Detect {
			counts[k]++
		}
	}
	out := make([]BurdenSummary, 0, len(order))
	for _, k := range order {
		out = append(out, BurdenSummary{HouseholdID: k.hh, SampleType: k.st, NumDetected: counts[k]})
	}
	return out
}
