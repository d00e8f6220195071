package stats

import (
	"fmt"
	"math"
	"strings"
)

// Contingency is a 2×2 cross-tabulation of two binary detection methods.
// Counts[i][j] holds rows where method A == (i==1) and method B == (j==1).
// Rows where either value is missing are excluded entirely.
type Contingency struct {
	AName    string
	BName    string
	Counts   [2][2]int
	Excluded int // rows dropped because either column was missing
}

// CrossTab tabulates two aligned nullable boolean columns. The slices must
// be the same length; the shorter length is used if they differ.
func CrossTab(a, b []*bool, aName, bName string) Contingency {
	ct := Contingency{AName: aName, BName: bName}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] == nil || b[i] == nil {
			ct.Excluded++
			continue
		}
		ct.Counts[idx(*a[i])][idx(*b[i])]++
	}
	ct.Excluded += int(math.Abs(float64(len(a) - len(b))))
	return ct
}

func idx(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Total returns the number of rows counted in the table.
func (c Contingency) Total() int {
	return c.Counts[0][0] + c.Counts[0][1] + c.Counts[1][0] + c.Counts[1][1]
}

// RowPercent row-normalizes the table so each row sums to 100. A row with
// no observations yields NaN entries.
func (c Contingency) RowPercent() [2][2]float64 {
	var out [2][2]float64
	for i := 0; i < 2; i++ {
		total := c.Counts[i][0] + c.Counts[i][1]
		for j := 0; j < 2; j++ {
			if total == 0 {
				out[i][j] = math.NaN()
				continue
			}
			out[i][j] = 100 * float64(c.Counts[i][j]) / float64(total)
		}
	}
	return out
}

// Render formats the table with counts and one-decimal row percentages.
func (c Contingency) Render() string {
	pct := c.RowPercent()
	var b strings.Builder
	fmt.Fprintf(&b, "%-28s %18s %18s\n", c.AName+" \\ "+c.BName, bName(false), bName(true))
	for i := 0; i < 2; i++ {
		fmt.Fprintf(&b, "%-28s", bName(i == 1))
		for j := 0; j < 2; j++ {
			if math.IsNaN(pct[i][j]) {
				fmt.Fprintf(&b, " %10d (  —  )", c.Counts[i][j])
			} else {
				fmt.Fprintf(&b, " %10d (%5.1f%%)", c.Counts[i][j], pct[i][j])
			}
		}
		b.WriteString("\n")
	}
	if c.Excluded > 0 {
		fmt.Fprintf(&b, "excluded (missing in either column): %d\n", c.Excluded)
	}
	return b.String()
}

func bName(detected bool) string {
	if detected {
		return "detected"
	}
	return "not detected"
}
