package search

import (
	"math"
	"sort"
)

// Field names a weighted text field of a catalog entry.
type Field string

const (
	FieldName        Field = "name"
	FieldBrand       Field = "brand"
	FieldDescription Field = "description"
	FieldHSNCode     Field = "hsn_code"
	FieldCategory    Field = "category"
	FieldSubcategory Field = "subcategory"
	FieldSupplier    Field = "supplier"
)

type FieldWeight struct {
	Field  Field
	Weight float64
}

// DefaultFieldWeights ranks name highest and supplier lowest.
var DefaultFieldWeights = []FieldWeight{
	{Field: FieldName, Weight: 0.40},
	{Field: FieldBrand, Weight: 0.20},
	{Field: FieldDescription, Weight: 0.15},
	{Field: FieldHSNCode, Weight: 0.10},
	{Field: FieldCategory, Weight: 0.08},
	{Field: FieldSubcategory, Weight: 0.05},
	{Field: FieldSupplier, Weight: 0.02},
}

const (
	DefaultThreshold = 0.6
	// exact field matches use this in place of a zero distance
	fieldEpsilon = 0x1p-52
)

// Scorer ranks a page of entries against free text using weighted fuzzy matching.
type Scorer struct {
	threshold float64
	weights   []FieldWeight
}

// NewScorer normalizes weights to sum to 1. A non-positive threshold falls back to DefaultThreshold.
func NewScorer(threshold float64, weights []FieldWeight) *Scorer {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	if len(weights) == 0 {
		weights = DefaultFieldWeights
	}
	var total float64
	for _, w := range weights {
		total += w.Weight
	}
	normalized := make([]FieldWeight, 0, len(weights))
	for _, w := range weights {
		if w.Weight <= 0 {
			continue
		}
		normalized = append(normalized, FieldWeight{Field: w.Field, Weight: w.Weight / total})
	}
	return &Scorer{threshold: threshold, weights: normalized}
}

func (s *Scorer) Threshold() float64 {
	return s.threshold
}

// FieldMatch is the per-field outcome used to build a score.
type FieldMatch struct {
	Field    Field
	Distance float64
}

// Match returns every field within the threshold and the combined distance.
// ok is false when no field matched.
func (s *Scorer) Match(entry CatalogEntry, p pattern) (matches []FieldMatch, distance float64, ok bool) {
	distance = 1
	for _, w := range s.weights {
		text := fieldText(entry, w.Field)
		if text == "" {
			continue
		}
		d := p.distance(text)
		if d > s.threshold {
			continue
		}
		ok = true
		matches = append(matches, FieldMatch{Field: w.Field, Distance: d})
		distance *= math.Pow(math.Max(d, fieldEpsilon), w.Weight)
	}
	return matches, distance, ok
}

// Score annotates entries with 1-distance, drops non-matching ones and sorts by
// descending score. Equal scores keep their input order.
func (s *Scorer) Score(entries []CatalogEntry, query string) []ScoredEntry {
	p := compilePattern(query)
	out := make([]ScoredEntry, 0, len(entries))
	for _, entry := range entries {
		if p.empty() {
			score := 1.0
			out = append(out, ScoredEntry{CatalogEntry: entry, Score: &score})
			continue
		}
		_, distance, ok := s.Match(entry, p)
		if !ok {
			continue
		}
		score := clampUnit(1 - distance)
		out = append(out, ScoredEntry{CatalogEntry: entry, Score: &score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Score > *out[j].Score
	})
	return out
}

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

func fieldText(entry CatalogEntry, field Field) string {
	switch field {
	case FieldName:
		return entry.Name
	case FieldBrand:
		return deref(entry.Brand)
	case FieldDescription:
		return deref(entry.Description)
	case FieldHSNCode:
		return deref(entry.HSNCode)
	case FieldCategory:
		return deref(entry.CategoryName)
	case FieldSubcategory:
		return deref(entry.SubcategoryName)
	case FieldSupplier:
		return entry.Supplier.Name
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
