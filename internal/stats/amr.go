package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/entericlab/entericreport/internal/dataset"
)

// AMRProfileRow summarizes the culture/AMR dataset for one sample type:
// detection prevalence per culture assay and the mean adjusted ESBL colony
// count over samples where it was measured.
type AMRProfileRow struct {
	SampleType  string
	Samples     int
	ECPrev      float64
	ARECPrev    float64
	TCPrev      float64
	ARTCPrev    float64
	MeanESBLCFU float64
}

// AMRProfile groups culture records by sample type. Each prevalence is
// computed over the non-missing results of that assay; a sample type with
// no results for an assay gets NaN.
func AMRProfile(records []dataset.CultureRecord) []AMRProfileRow {
	type acc struct {
		n    int
		pos  [4]int
		cnt  [4]int
		cfus []float64
	}
	accs := make(map[string]*acc)
	var order []string
	for _, r := range records {
		a := accs[r.SampleType]
		if a == nil {
			a = &acc{}
			accs[r.SampleType] = a
			order = append(order, r.SampleType)
		}
		a.n++
		for i, flag := range []*bool{r.ECDetect, r.ARECDetect, r.TCDetect, r.ARTCDetect} {
			if flag == nil {
				continue
			}
			a.cnt[i]++
			if *flag {
				a.pos[i]++
			}
		}
		if r.AdjustedESBLCFU != nil {
			a.cfus = append(a.cfus, *r.AdjustedESBLCFU)
		}
	}

	prev := func(pos, cnt int) float64 {
		if cnt == 0 {
			return math.NaN()
		}
		return float64(pos) / float64(cnt)
	}

	out := make([]AMRProfileRow, 0, len(order))
	for _, st := range order {
		a := accs[st]
		row := AMRProfileRow{
			SampleType: st,
			Samples:    a.n,
			ECPrev:     prev(a.pos[0], a.cnt[0]),
			ARECPrev:   prev(a.pos[1], a.cnt[1]),
			TCPrev:     prev(a.pos[2], a.cnt[2]),
			ARTCPrev:   prev(a.pos[3], a.cnt[3]),
		}
		if len(a.cfus) > 0 {
			row.MeanESBLCFU = stat.Mean(a.cfus, nil)
		} else {
			row.MeanESBLCFU = math.NaN()
		}
		out = append(out, row)
	}
	return out
}
