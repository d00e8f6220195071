// Package category assigns each molecular-panel target to a coarse organism
// class via an ordered table of substring rules. First matching rule wins;
// anything unmatched is Other.
package category

import (
	"math"
	"strings"

	"github.com/entericlab/entericreport/internal/dataset"
)

// Category is the coarse class of a panel target.
type Category string

const (
	Other    Category = "Other"
	Helminth Category = "Helminth"
	Parasite Category = "Parasite"
	Virus    Category = "Virus"
	Bacteria Category = "Bacteria"
	ARG      Category = "ARG"
)

// DisplayOrder is the fixed ordering used on categorical chart axes.
var DisplayOrder = []Category{Other, Helminth, Parasite, Virus, Bacteria, ARG}

// rule maps a set of lowercase substring markers to a category. Rules are
// evaluated in order: a target naming both a parasite and an ARG marker
// classifies by whichever rule comes first.
type rule struct {
	patterns []string
	category Category
}

var rules = []rule{
	{[]string{"giardia", "crypto", "entamoeba", "e_histolytica", "cyclospora", "blasto"}, Parasite},
	{[]string{"rotavirus", "norovirus", "adenovirus", "astrovirus", "sapovirus", "enterovirus", "virus"}, Virus},
	{[]string{"coli", "shigella", "salmonella", "campylobacter", "vibrio", "aeromonas", "clostridi", "yersinia", "helicobacter"}, Bacteria},
	{[]string{"arg", "ctx-m", "ctx_m", "ndm", "kpc", "vana", "van_a", "mcr", "esbl", "erm", "qnr", "sul1", "sul2", "teta", "tet_a", "blatem", "bla_tem"}, ARG},
	{[]string{"ascaris", "trichuris", "necator", "ancylostoma", "strongyloides", "schisto", "taenia", "hymenolepis"}, Helminth},
}

// Categorize maps a target name to its category. Total and deterministic:
// every input yields exactly one category, defaulting to Other.
func Categorize(target string) Category {
	name := strings.ToLower(target)
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(name, p) {
				return r.category
			}
		}
	}
	return Other
}

// Lookup is the derived per-target category table, one entry per distinct
// target in first-appearance order.
type Lookup struct {
	Targets    []string
	Categories map[string]Category
}

// BuildLookup derives the category table from the detection records.
func BuildLookup(records []dataset.DetectionRecord) *Lookup {
	l := &Lookup{Categories: make(map[string]Category)}
	for _, r := range records {
		if _, seen := l.Categories[r.Target]; seen {
			continue
		}
		l.Targets = append(l.Targets, r.Target)
		l.Categories[r.Target] = Categorize(r.Target)
	}
	return l
}

// Annotated is a detection record carrying its target category.
type Annotated struct {
	dataset.DetectionRecord
	Category Category
}

// AttachCategories left-joins records with the lookup. The category is
// never empty: targets absent from the lookup classify directly.
func AttachCategories(records []dataset.DetectionRecord, l *Lookup) []Annotated {
	out := make([]Annotated, len(records))
	for i, r := range records {
		c, ok := l.Categories[r.Target]
		if !ok {
			c = Categorize(r.Target)
		}
		out[i] = Annotated{DetectionRecord: r, Category: c}
	}
	return out
}

// Prevalence is the mean detection rate for one (sample_type, category)
// cell. NaN when every underlying result is missing.
type Prevalence struct {
	SampleType string
	Category   Category
	Prevalence float64
	N          int // non-missing results in the cell
}

// CategoryPrevalence computes mean detect by (sample_type, category),
// excluding missing results from numerator and denominator. Cells are
// ordered by first-appearance sample type, then by DisplayOrder.
func CategoryPrevalence(records []Annotated) []Prevalence {
	type cell struct{ pos, n int }
	type key struct {
		st string
		c  Category
	}
	cells := make(map[key]*cell)
	var sampleTypes []string
	seenST := make(map[string]bool)
	for _, r := range records {
		if !seenST[r.SampleType] {
			seenST[r.SampleType] = true
			sampleTypes = append(sampleTypes, r.SampleType)
		}
		k := key{r.SampleType, r.Category}
		c := cells[k]
		if c == nil {
			c = &cell{}
			cells[k] = c
		}
		if r.Detect == nil {
			continue
		}
		c.n++
		if *r.Detect {
			c.pos++
		}
	}

	var out []Prevalence
	for _, st := range sampleTypes {
		for _, cat := range DisplayOrder {
			c, ok := cells[key{st, cat}]
			if !ok {
				continue
			}
			p := Prevalence{SampleType: st, Category: cat, N: c.n}
			if c.n > 0 {
				p.Prevalence = float64(c.pos) / float64(c.n)
			} else {
				p.Prevalence = math.NaN()
			}
			out = append(out, p)
		}
	}
	return out
}
