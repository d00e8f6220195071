// Package chart renders the report figures as PNG files. Renderers are
// pure sinks: they read summary tables and never mutate them, and an empty
// table produces an empty chart rather than an error.
package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/entericlab/entericreport/internal/category"
	"github.com/entericlab/entericreport/internal/reshape"
	"github.com/entericlab/entericreport/internal/stats"
)

var (
	notDetectedGrey = color.RGBA{R: 0xbd, G: 0xbd, B: 0xbd, A: 0xff}
	detectedPurple  = color.RGBA{R: 0x6a, G: 0x3d, B: 0x9a, A: 0xff}
	missingWhite    = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// noTicks suppresses an axis's tick marks and labels. Used where there are
// too many categories to render legibly.
type noTicks struct{}

func (noTicks) Ticks(min, max float64) []plot.Tick { return nil }

// TopPrevalenceBar renders a horizontal bar chart of the given prevalence
// rows (highest at the top) to path.
func TopPrevalenceBar(rows []stats.PrevalenceSummary, path string) error {
	p := plot.New()
	p.Title.Text = "Most prevalent targets"
	p.X.Label.Text = "prevalence"
	p.X.Min = 0
	p.X.Max = 1

	if len(rows) > 0 {
		// The Y axis grows upward, so reverse to put the top target on top.
		vals := make(plotter.Values, len(rows))
		names := make([]string, len(rows))
		for i, r := range rows {
			j := len(rows) - 1 - i
			v := r.Prevalence
			if v != v { // NaN group renders as an empty bar
				v = 0
			}
			vals[j] = v
			names[j] = r.Target
		}
		bars, err := plotter.NewBarChart(vals, vg.Points(12))
		if err != nil {
			return fmt.Errorf("prevalence bars: %w", err)
		}
		bars.Horizontal = true
		bars.Color = detectedPurple
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.NominalY(names...)
	}

	if err := p.Save(6*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save prevalence chart: %w", err)
	}
	return nil
}

// BurdenHistogram renders the distribution of per-household target counts
// as grouped bars with bin width 1, one bar series per sample type.
func BurdenHistogram(rows []stats.BurdenSummary, path string) error {
	p := plot.New()
	p.Title.Text = "Detected targets per household"
	p.X.Label.Text = "targets detected"
	p.Y.Label.Text = "households"

	maxBurden := 0
	var sampleTypes []string
	seen := make(map[string]bool)
	for _, r := range rows {
		if r.NumDetected > maxBurden {
			maxBurden = r.NumDetected
		}
		if !seen[r.SampleType] {
			seen[r.SampleType] = true
			sampleTypes = append(sampleTypes, r.SampleType)
		}
	}

	if len(rows) > 0 {
		width := vg.Points(14) / vg.Length(len(sampleTypes))
		for i, st := range sampleTypes {
			counts := make(plotter.Values, maxBurden+1)
			for _, r := range rows {
				if r.SampleType == st {
					counts[r.NumDetected]++
				}
			}
			bars, err := plotter.NewBarChart(counts, width)
			if err != nil {
				return fmt.Errorf("burden bars %q: %w", st, err)
			}
			bars.Color = plotutil.Color(i)
			bars.LineStyle.Width = 0
			bars.Offset = width * vg.Length(i-len(sampleTypes)/2)
			p.Add(bars)
			p.Legend.Add(st, bars)
		}
		bins := make([]string, maxBurden+1)
		for i := range bins {
			bins[i] = fmt.Sprintf("%d", i)
		}
		p.NominalX(bins...)
		p.Legend.Top = true
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save burden chart: %w", err)
	}
	return nil
}

// CategoryHeatmap renders prevalence by (sample_type, category) with
// one-decimal percentage labels. Categories appear in the fixed display
// order on the X axis.
func CategoryHeatmap(cells []category.Prevalence, path string) error {
	p := plot.New()
	p.Title.Text = "Prevalence by sample type and category"

	if len(cells) > 0 {
		var sampleTypes []string
		seen := make(map[string]bool)
		for _, c := range cells {
			if !seen[c.SampleType] {
				seen[c.SampleType] = true
				sampleTypes = append(sampleTypes, c.SampleType)
			}
		}
		cats := category.DisplayOrder

		g := newGrid(len(cats), len(sampleTypes))
		for _, c := range cells {
			col := catIndex(cats, c.Category)
			row := strIndex(sampleTypes, c.SampleType)
			if col < 0 || row < 0 {
				continue
			}
			g.set(col, row, c.Prevalence)
		}

		hm := plotter.NewHeatMap(g, prevalencePalette{})
		hm.Min, hm.Max = 0, 1
		hm.NaN = missingWhite
		p.Add(hm)

		labels, err := gridLabels(g)
		if err != nil {
			return fmt.Errorf("heatmap labels: %w", err)
		}
		p.Add(labels)

		catNames := make([]string, len(cats))
		for i, c := range cats {
			catNames[i] = string(c)
		}
		p.X.Tick.Marker = centeredTicks(catNames)
		p.Y.Tick.Marker = centeredTicks(sampleTypes)
	}

	if err := p.Save(7*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save category heatmap: %w", err)
	}
	return nil
}

// DetectionHeatmap renders the full household × target detection grid for
// one sample type: grey for not detected, purple for detected, white for
// missing. Target tick labels are suppressed (too many to read).
func DetectionHeatmap(wide *reshape.WideTable, sampleType, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Detections by household — %s", sampleType)
	p.X.Label.Text = "target"
	p.Y.Label.Text = "household"

	var households []string
	seen := make(map[string]bool)
	for _, row := range wide.Rows {
		if row.SampleType != sampleType {
			continue
		}
		if !seen[row.HouseholdID] {
			seen[row.HouseholdID] = true
			households = append(households, row.HouseholdID)
		}
	}

	if len(households) > 0 && len(wide.Targets) > 0 {
		g := newGrid(len(wide.Targets), len(households))
		for _, row := range wide.Rows {
			if row.SampleType != sampleType {
				continue
			}
			r := strIndex(households, row.HouseholdID)
			for c, target := range wide.Targets {
				d, ok := row.Detect[target]
				if !ok || d == nil {
					continue
				}
				v := 0.0
				if *d {
					v = 1.0
				}
				g.set(c, r, v)
			}
		}
		hm := plotter.NewHeatMap(g, binaryPalette{})
		hm.Min, hm.Max = 0, 1
		hm.NaN = missingWhite
		p.Add(hm)

		p.X.Tick.Marker = noTicks{}
		p.Y.Tick.Marker = centeredTicks(households)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save detection heatmap: %w", err)
	}
	return nil
}

// binaryPalette is the two-color fill of the detection grid.
type binaryPalette struct{}

func (binaryPalette) Colors() []color.Color {
	return []color.Color{notDetectedGrey, detectedPurple}
}

// prevalencePalette shades from the not-detected grey to the detected
// purple as prevalence rises.
type prevalencePalette struct{}

func (prevalencePalette) Colors() []color.Color {
	const n = 64
	out := make([]color.Color, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = lerp(notDetectedGrey, detectedPurple, t)
	}
	return out
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func catIndex(cats []category.Category, c category.Category) int {
	for i, x := range cats {
		if x == c {
			return i
		}
	}
	return -1
}

func strIndex(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
