package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names expected in the molecular-panel dataset. Matching is
// case-insensitive and a couple of common aliases are accepted.
var detectionColumns = map[string][]string{
	"sample_id":    {"sample_id", "sampleid", "sample"},
	"household_id": {"household_id", "householdid", "household"},
	"sample_type":  {"sample_type", "sampletype"},
	"target_name":  {"target_name", "target"},
	"detect":       {"detect", "detected"},
}

// Column names expected in the culture/AMR dataset.
var cultureColumns = map[string][]string{
	"sample_id":         {"sample_id", "sampleid", "sample"},
	"household_id":      {"household_id", "householdid", "household"},
	"sample_type":       {"sample_type", "sampletype"},
	"ec_detect":         {"ec_detect"},
	"ar_ec_detect":      {"ar_ec_detect"},
	"tc_detect":         {"tc_detect"},
	"ar_tc_detect":      {"ar_tc_detect"},
	"adjusted_esbl_cfu": {"adjusted_esbl_cfu"},
}

// LoadDetections reads the molecular-panel CSV into typed records.
// It fails with *LoadError when the file is missing or a required column
// is absent; blank/NA detect cells become nil, not false.
func LoadDetections(path string) ([]DetectionRecord, error) {
	rows, idx, err := readTable(path, detectionColumns)
	if err != nil {
		return nil, err
	}
	out := make([]DetectionRecord, 0, len(rows))
	for i, rec := range rows {
		detect, ok := parseBool(field(rec, idx["detect"]))
		if !ok {
			return nil, &LoadError{File: path, Column: "detect", Row: i + 1,
				Msg: fmt.Sprintf("cannot interpret %q as a detection flag", field(rec, idx["detect"]))}
		}
		out = append(out, DetectionRecord{
			SampleID:    field(rec, idx["sample_id"]),
			HouseholdID: field(rec, idx["household_id"]),
			SampleType:  field(rec, idx["sample_type"]),
			Target:      field(rec, idx["target_name"]),
			Detect:      detect,
		})
	}
	return out, nil
}

// LoadCultures reads the culture/AMR CSV into typed records. Negative
// colony counts are rejected; missing cells are tolerated as nil.
func LoadCultures(path string) ([]CultureRecord, error) {
	rows, idx, err := readTable(path, cultureColumns)
	if err != nil {
		return nil, err
	}
	boolCols := []string{"ec_detect", "ar_ec_detect", "tc_detect", "ar_tc_detect"}
	out := make([]CultureRecord, 0, len(rows))
	for i, rec := range rows {
		cr := CultureRecord{
			SampleID:    field(rec, idx["sample_id"]),
			HouseholdID: field(rec, idx["household_id"]),
			SampleType:  field(rec, idx["sample_type"]),
		}
		dests := []**bool{&cr.ECDetect, &cr.ARECDetect, &cr.TCDetect, &cr.ARTCDetect}
		for c, col := range boolCols {
			v, ok := parseBool(field(rec, idx[col]))
			if !ok {
				return nil, &LoadError{File: path, Column: col, Row: i + 1,
					Msg: fmt.Sprintf("cannot interpret %q as a detection flag", field(rec, idx[col]))}
			}
			*dests[c] = v
		}
		raw := field(rec, idx["adjusted_esbl_cfu"])
		if !isMissing(raw) {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &LoadError{File: path, Column: "adjusted_esbl_cfu", Row: i + 1,
					Msg: fmt.Sprintf("cannot parse %q as a number", raw)}
			}
			if f < 0 {
				return nil, &LoadError{File: path, Column: "adjusted_esbl_cfu", Row: i + 1,
					Msg: fmt.Sprintf("colony count %g is negative", f)}
			}
			cr.AdjustedESBLCFU = &f
		}
		out = append(out, cr)
	}
	return out, nil
}

// readTable opens a CSV, validates that every canonical column resolves to
// exactly one header, and returns all data rows plus a canonical-name →
// column-index map.
func readTable(path string, want map[string][]string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &LoadError{File: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &LoadError{File: path, Msg: "file is empty"}
		}
		return nil, nil, &LoadError{File: path, Err: fmt.Errorf("read header: %w", err)}
	}

	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	idx := make(map[string]int, len(want))
	for canon, aliases := range want {
		found := -1
		for _, a := range aliases {
			if j, ok := byName[a]; ok {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, nil, &LoadError{File: path, Column: canon, Msg: "required column not found"}
		}
		idx[canon] = found
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, &LoadError{File: path, Err: fmt.Errorf("read row %d: %w", len(rows)+1, err)}
		}
		row := make([]string, len(rec))
		copy(row, rec)
		rows = append(rows, row)
	}
	return rows, idx, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "n/a", "nan", "null":
		return true
	}
	return false
}

// parseBool maps common spreadsheet encodings of a detection flag to a
// nullable boolean. The second return is false only for values that are
// neither a flag nor a recognized missing marker.
func parseBool(s string) (*bool, bool) {
	if isMissing(s) {
		return nil, true
	}
	switch strings.ToLower(s) {
	case "1", "true", "t", "yes", "y", "pos", "positive":
		return Bool(true), true
	case "0", "false", "f", "no", "n", "neg", "negative":
		return Bool(false), true
	}
	return nil, false
}
