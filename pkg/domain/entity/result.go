package entity

import (
	"fmt"
	"math"
	"time"
)

// ScoreBundle groups the scores derived for a single domain
type ScoreBundle struct {
	TrendScore        int `json:"trend_score"`
	BrandabilityScore int `json:"brandability_score"`
	MarketValue       int `json:"market_value"`
}

// DomainResult is an accepted domain, the unit persisted by result stores
type DomainResult struct {
	Domain            string    `json:"domain"`
	Extension         string    `json:"extension"`
	Price             float64   `json:"price"`
	TrendScore        int       `json:"trend_score"`
	BrandabilityScore int       `json:"brandability_score"`
	MarketValue       int       `json:"market_value"`
	Keyword           string    `json:"keyword"`
	FoundAt           time.Time `json:"found_at"`
	ROIPotential      float64   `json:"roi_potential"`
}

// NewDomainResult assembles a result and derives its ROI potential
func NewDomainResult(candidate DomainCandidate, price float64, scores ScoreBundle, foundAt time.Time) DomainResult {
	return DomainResult{
		Domain:            candidate.FQDN(),
		Extension:         NormalizeExtension(candidate.Extension),
		Price:             math.Round(price*100) / 100,
		TrendScore:        scores.TrendScore,
		BrandabilityScore: scores.BrandabilityScore,
		MarketValue:       scores.MarketValue,
		Keyword:           candidate.Name,
		FoundAt:           foundAt,
		ROIPotential:      ROIPotential(scores.MarketValue, price),
	}
}

// ROIPotential returns marketValue / price * 100 rounded to one decimal, or 0 for a free domain
func ROIPotential(marketValue int, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Round(float64(marketValue)/price*100*10) / 10
}

// Validate checks the fields a store relies on
func (r DomainResult) Validate() error {
	switch {
	case r.Domain == "":
		return fmt.Errorf("domain is empty")
	case r.Extension == "":
		return fmt.Errorf("extension is empty for %s", r.Domain)
	case r.Price < 0 || math.IsNaN(r.Price):
		return fmt.Errorf("price must be >= 0, got %v", r.Price)
	case r.TrendScore < 0 || r.TrendScore > 100:
		return fmt.Errorf("trend score out of range: %d", r.TrendScore)
	case r.BrandabilityScore < 0 || r.BrandabilityScore > 100:
		return fmt.Errorf("brandability score out of range: %d", r.BrandabilityScore)
	case r.MarketValue < 0:
		return fmt.Errorf("market value must be >= 0, got %d", r.MarketValue)
	}
	return nil
}

// CheckRecord is a single availability method invocation, written to the check log
type CheckRecord struct {
	Domain    string    `json:"domain"`
	Method    string    `json:"method"`
	Verdict   string    `json:"verdict"`
	Error     string    `json:"error,omitempty"`
	RTTMs     int64     `json:"rtt_ms"`
	CheckedAt time.Time `json:"checked_at"`
}
