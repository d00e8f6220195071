package dataset

// DetectionRecord is one molecular-panel result: a single (sample, target)
// pair from the TAC card dataset. Detect is nil when the assay result is
// missing, which is distinct from a negative result.
type DetectionRecord struct {
	SampleID    string
	HouseholdID string
	SampleType  string
	Target      string
	Detect      *bool
}

// CultureRecord is one culture/AMR result per sample: E. coli and total
// coliform detection, their antibiotic-resistant counterparts, and the
// adjusted ESBL colony count.
type CultureRecord struct {
	SampleID        string
	HouseholdID     string
	SampleType      string
	ECDetect        *bool
	ARECDetect      *bool
	TCDetect        *bool
	ARTCDetect      *bool
	AdjustedESBLCFU *float64
}

// Bool returns a pointer to b. Convenience for building records in tests
// and for pivoted columns.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
