// Package reshape turns the long-format detection table into a wide
// per-sample table and joins it with the culture dataset by household.
package reshape

import (
	"fmt"

	"github.com/entericlab/entericreport/internal/dataset"
)

// SchemaError indicates a structural problem that makes a reshape
// ambiguous, such as duplicate (sample, target) pairs in the pivot input.
type SchemaError struct {
	Table    string
	SampleID string
	Target   string
	Msg      string
}

func (e *SchemaError) Error() string {
	if e.SampleID != "" || e.Target != "" {
		return fmt.Sprintf("%s: sample %q target %q: %s", e.Table, e.SampleID, e.Target, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Msg)
}

// WideRow is one sample with a detection value per panel target. A nil
// entry means the result was missing; an absent target key means the
// sample never carried that target (only possible after a join miss).
type WideRow struct {
	SampleID    string
	HouseholdID string
	SampleType  string
	Detect      map[string]*bool
}

// WideTable is the pivoted detection dataset: one row per sample, one
// logical column per distinct target, both in first-appearance order.
type WideTable struct {
	Targets []string
	Rows    []WideRow
}

// PivotWide reshapes the long detection table to one row per sample.
// Duplicate (sample, target) pairs make the pivot ambiguous and fail with
// *SchemaError rather than silently keeping either value.
func PivotWide(records []dataset.DetectionRecord) (*WideTable, error) {
	w := &WideTable{}
	rowIdx := make(map[string]int)
	seenTarget := make(map[string]bool)
	for _, r := range records {
		if !seenTarget[r.Target] {
			seenTarget[r.Target] = true
			w.Targets = append(w.Targets, r.Target)
		}
		i, ok := rowIdx[r.SampleID]
		if !ok {
			i = len(w.Rows)
			rowIdx[r.SampleID] = i
			w.Rows = append(w.Rows, WideRow{
				SampleID:    r.SampleID,
				HouseholdID: r.HouseholdID,
				SampleType:  r.SampleType,
				Detect:      make(map[string]*bool),
			})
		}
		if _, dup := w.Rows[i].Detect[r.Target]; dup {
			return nil, &SchemaError{
				Table:    "detections",
				SampleID: r.SampleID,
				Target:   r.Target,
				Msg:      "duplicate (sample, target) pair makes the pivot ambiguous",
			}
		}
		w.Rows[i].Detect[r.Target] = r.Detect
	}
	return w, nil
}

// Melt converts the wide table back to long format, targets in column
// order within each row. With no duplicate input pairs this is the inverse
// of PivotWide, except that samples missing a target entirely contribute no
// row for it.
func (w *WideTable) Melt() []dataset.DetectionRecord {
	var out []dataset.DetectionRecord
	for _, row := range w.Rows {
		for _, target := range w.Targets {
			d, ok := row.Detect[target]
			if !ok {
				continue
			}
			out = append(out, dataset.DetectionRecord{
				SampleID:    row.SampleID,
				HouseholdID: row.HouseholdID,
				SampleType:  row.SampleType,
				Target:      target,
				Detect:      d,
			})
		}
	}
	return out
}

// Column extracts one target's detection values in row order. Samples
// without the target yield nil.
func (w *WideTable) Column(target string) []*bool {
	out := make([]*bool, len(w.Rows))
	for i, row := range w.Rows {
		out[i] = row.Detect[target]
	}
	return out
}
