// Package export writes the summary tables produced by a report run to an
// output directory, as CSV and optionally Parquet, together with a run
// manifest. Exports are disabled by default and never run after a fatal
// pipeline error.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"path/filepath"
	"strconv"

	"github.com/entericlab/entericreport/internal/stats"
	"github.com/entericlab/entericreport/internal/utils"
)

// Tables bundles the three exportable summary tables of a run.
type Tables struct {
	Prevalence []stats.PrevalenceSummary
	Burden     []stats.BurdenSummary
	AMR        []stats.AMRProfileRow
}

// WriteCSV writes one CSV per table into dir and returns the written paths.
func WriteCSV(dir string, t Tables) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	var written []string
	write := func(name string, header []string, rows [][]string) error {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return err
		}
		if err := w.WriteAll(rows); err != nil {
			return err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	prevRows := make([][]string, len(t.Prevalence))
	for i, s := range t.Prevalence {
		prevRows[i] = []string{s.Target, num(s.Prevalence), num(s.SD), strconv.Itoa(s.N)}
	}
	if err := write("prevalence_summary.csv",
		[]string{"target_name", "prevalence", "sd", "n"}, prevRows); err != nil {
		return written, fmt.Errorf("export prevalence: %w", err)
	}

	burdenRows := make([][]string, len(t.Burden))
	for i, b := range t.Burden {
		burdenRows[i] = []string{b.HouseholdID, b.SampleType, strconv.Itoa(b.NumDetected)}
	}
	if err := write("burden_summary.csv",
		[]string{"household_id", "sample_type", "num_detected"}, burdenRows); err != nil {
		return written, fmt.Errorf("export burden: %w", err)
	}

	amrRows := make([][]string, len(t.AMR))
	for i, a := range t.AMR {
		amrRows[i] = []string{
			a.SampleType, strconv.Itoa(a.Samples),
			num(a.ECPrev), num(a.ARECPrev), num(a.TCPrev), num(a.ARTCPrev),
			num(a.MeanESBLCFU),
		}
	}
	if err := write("amr_profile.csv",
		[]string{"sample_type", "samples", "ec_prevalence", "ar_ec_prevalence",
			"tc_prevalence", "ar_tc_prevalence", "mean_adjusted_esbl_cfu"}, amrRows); err != nil {
		return written, fmt.Errorf("export amr profile: %w", err)
	}

	return written, nil
}

// num renders a float for CSV, using NA for undefined (NaN) values so the
// files round-trip through the same missing-value convention as the inputs.
func num(f float64) string {
	if math.IsNaN(f) {
		return "NA"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
