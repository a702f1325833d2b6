package entity

import "sort"

// ResultFilter narrows a result set. Nil bounds and an empty extension match everything.
type ResultFilter struct {
	MaxPrice      *float64
	MinTrendScore *int
	MinROI        *float64
	Extension     string
}

// Match reports whether a result passes the filter
func (f ResultFilter) Match(r DomainResult) bool {
	if f.MaxPrice != nil && r.Price > *f.MaxPrice {
		return false
	}
	if f.MinTrendScore != nil && r.TrendScore < *f.MinTrendScore {
		return false
	}
	if f.MinROI != nil && r.ROIPotential < *f.MinROI {
		return false
	}
	if f.Extension != "" && NormalizeExtension(r.Extension) != NormalizeExtension(f.Extension) {
		return false
	}
	return true
}

// Apply returns the matching results ordered by ROI potential, highest first
func (f ResultFilter) Apply(results []DomainResult) []DomainResult {
	out := make([]DomainResult, 0, len(results))
	for _, r := range results {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ROIPotential > out[j].ROIPotential
	})
	return out
}
