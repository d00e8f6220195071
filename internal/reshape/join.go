package reshape

import (
	"regexp"

	"github.com/entericlab/entericreport/internal/dataset"
)

var householdPattern = regexp.MustCompile(`HH\d+`)

// DeriveHouseholdID extracts the household identifier embedded in a sample
// ID ("HH" followed by digits). The second return is false when the sample
// ID carries no household marker; such rows cannot join.
func DeriveHouseholdID(sampleID string) (string, bool) {
	m := householdPattern.FindString(sampleID)
	if m == "" {
		return "", false
	}
	return m, true
}

// JoinedRecord is a culture record extended with the wide molecular
// detections of a sample from the same household. Detections is nil for
// culture rows with no molecular match (left-join miss).
type JoinedRecord struct {
	Culture     dataset.CultureRecord
	HouseholdID string // derived from the culture sample ID; "" when underivable
	MolecularID string // sample ID of the matched wide row; "" on a miss
	Detections  map[string]*bool
}

// JoinStats reports how the join went. Household IDs are not unique on
// either side, so matching keys multiply rows; OutputRows > CultureRows
// signals fan-out rather than a defect.
type JoinStats struct {
	CultureRows   int
	MatchedRows   int // culture rows with at least one molecular match
	UnmatchedRows int // culture rows kept with nil detections
	OutputRows    int
}

// JoinOnHousehold left-joins culture records with the pivoted detection
// table on the household ID derived from each side's sample ID. Every
// culture row survives; unmatched rows keep nil detection columns.
func JoinOnHousehold(cultures []dataset.CultureRecord, wide *WideTable) ([]JoinedRecord, JoinStats) {
	byHousehold := make(map[string][]int)
	for i, row := range wide.Rows {
		hh, ok := DeriveHouseholdID(row.SampleID)
		if !ok {
			continue
		}
		byHousehold[hh] = append(byHousehold[hh], i)
	}

	var out []JoinedRecord
	stats := JoinStats{CultureRows: len(cultures)}
	for _, c := range cultures {
		hh, ok := DeriveHouseholdID(c.SampleID)
		matches := byHousehold[hh]
		if !ok || len(matches) == 0 {
			stats.UnmatchedRows++
			out = append(out, JoinedRecord{Culture: c, HouseholdID: hh})
			continue
		}
		stats.MatchedRows++
		for _, i := range matches {
			row := wide.Rows[i]
			out = append(out, JoinedRecord{
				Culture:     c,
				HouseholdID: hh,
				MolecularID: row.SampleID,
				Detections:  row.Detect,
			})
		}
	}
	stats.OutputRows = len(out)
	return out, stats
}

// ConcordanceColumns extracts the aligned culture/molecular detection pair
// used by the cross-tabulation: the given culture assay against the given
// panel target. Join misses contribute nil molecular values and are
// excluded downstream by the tabulator.
func ConcordanceColumns(joined []JoinedRecord, cultureFlag func(dataset.CultureRecord) *bool, target string) (culture, molecular []*bool) {
	culture = make([]*bool, len(joined))
	molecular = make([]*bool, len(joined))
	for i, j := range joined {
		culture[i] = cultureFlag(j.Culture)
		if j.Detections != nil {
			molecular[i] = j.Detections[target]
		}
	}
	return culture, molecular
}
