package report

import (
	"fmt"
	"math"
	"strings"
)

// Render produces the sectioned text summary of a run, suitable for the
// terminal or a standalone file.
func (r *Result) Render() string {
	var b strings.Builder

	b.WriteString("[DATASET]\n")
	fmt.Fprintf(&b, "Molecular panel rows: %d\n", r.DetectionRows)
	fmt.Fprintf(&b, "Culture rows: %d\n", r.CultureRows)

	if len(r.Top) > 0 {
		fmt.Fprintf(&b, "\n[PREVALENCE — top %d targets]\n", len(r.Top))
		for _, s := range r.Top {
			if math.IsNaN(s.Prevalence) {
				fmt.Fprintf(&b, "- %s: no valid results\n", s.Target)
				continue
			}
			fmt.Fprintf(&b, "- %s: %.1f%% (sd %.3f, n=%d)\n", s.Target, 100*s.Prevalence, s.SD, s.N)
		}
	}

	if len(r.Burden) > 0 {
		b.WriteString("\n[BURDEN]\n")
		fmt.Fprintf(&b, "Household × sample-type groups: %d\n", len(r.Burden))
		min, max, sum := r.Burden[0].NumDetected, r.Burden[0].NumDetected, 0
		for _, g := range r.Burden {
			if g.NumDetected < min {
				min = g.NumDetected
			}
			if g.NumDetected > max {
				max = g.NumDetected
			}
			sum += g.NumDetected
		}
		fmt.Fprintf(&b, "Targets detected per group: min %d, max %d, mean %.2f\n",
			min, max, float64(sum)/float64(len(r.Burden)))
	}

	if len(r.Categories) > 0 {
		b.WriteString("\n[CATEGORIES]\n")
		for _, c := range r.Categories {
			if math.IsNaN(c.Prevalence) {
				fmt.Fprintf(&b, "- %s / %s: no valid results\n", c.SampleType, c.Category)
				continue
			}
			fmt.Fprintf(&b, "- %s / %s: %.1f%% (n=%d)\n", c.SampleType, c.Category, 100*c.Prevalence, c.N)
		}
	}

	if len(r.AMR) > 0 {
		b.WriteString("\n[AMR PROFILE]\n")
		for _, a := range r.AMR {
			fmt.Fprintf(&b, "- %s (n=%d): EC %s, AR-EC %s, TC %s, AR-TC %s, mean ESBL CFU %s\n",
				a.SampleType, a.Samples,
				pct(a.ECPrev), pct(a.ARECPrev), pct(a.TCPrev), pct(a.ARTCPrev),
				cfu(a.MeanESBLCFU))
		}
	}

	b.WriteString("\n[JOIN]\n")
	fmt.Fprintf(&b, "Culture rows: %d, matched: %d, unmatched: %d, output rows: %d\n",
		r.JoinStats.CultureRows, r.JoinStats.MatchedRows,
		r.JoinStats.UnmatchedRows, r.JoinStats.OutputRows)

	if r.Concordance != nil {
		b.WriteString("\n[CONCORDANCE]\n")
		b.WriteString(r.Concordance.Render())
	}

	if len(r.Charts) > 0 {
		b.WriteString("\n[FIGURES]\n")
		for _, p := range r.Charts {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if len(r.Exports) > 0 {
		b.WriteString("\n[EXPORTS]\n")
		for _, p := range r.Exports {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return b.String()
}

func pct(f float64) string {
	if math.IsNaN(f) {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", 100*f)
}

func cfu(f float64) string {
	if math.IsNaN(f) {
		return "—"
	}
	return fmt.Sprintf("%.1f", f)
}
