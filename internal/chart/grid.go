package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
)

// grid is a dense column-major GridXYZ over unit-spaced cell centers.
// Unset cells are NaN.
type grid struct {
	cols, rows int
	data       []float64
}

func newGrid(cols, rows int) *grid {
	g := &grid{cols: cols, rows: rows, data: make([]float64, cols*rows)}
	for i := range g.data {
		g.data[i] = math.NaN()
	}
	return g
}

func (g *grid) set(c, r int, v float64) { g.data[r*g.cols+c] = v }
func (g *grid) Dims() (c, r int)        { return g.cols, g.rows }
func (g *grid) Z(c, r int) float64      { return g.data[r*g.cols+c] }
func (g *grid) X(c int) float64         { return float64(c) }
func (g *grid) Y(r int) float64         { return float64(r) }

// centeredTicks places one labeled tick at each cell center.
func centeredTicks(names []string) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(names))
	for i, n := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: n}
	}
	return plot.ConstantTicks(ticks)
}

// gridLabels builds one-decimal percentage labels for every populated cell.
func gridLabels(g *grid) (*plotter.Labels, error) {
	var xys plotter.XYs
	var labels []string
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			v := g.Z(c, r)
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, fmt.Sprintf("%.1f%%", 100*v))
		}
	}
	return plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
}
