package entity

import (
	"fmt"
	"strings"
)

const (
	// DefaultConcurrency bounds simultaneous per-domain pipelines
	DefaultConcurrency = 3
	// DefaultSimulatedAvailabilityRate is the share of domains reported available when real checking is off
	DefaultSimulatedAvailabilityRate = 0.08
)

// HuntConfig holds the options of a single hunt
type HuntConfig struct {
	MaxPrice        float64  `json:"max_price"`
	MaxCandidates   int      `json:"max_candidates"`
	MinTrendScore   int      `json:"min_trend_score"`
	Extensions      []string `json:"extensions"`
	Categories      []string `json:"categories"`
	UseRealChecking bool     `json:"use_real_checking"`
	UseRealPricing  bool     `json:"use_real_pricing"`
	UseRealTrend    bool     `json:"use_real_trend"`
	PersistResults  bool     `json:"persist_results"`

	Concurrency               int     `json:"concurrency"`
	SimulatedAvailabilityRate float64 `json:"simulated_availability_rate"`
	SkipSeen                  bool    `json:"skip_seen"`
}

// DefaultHuntConfig mirrors the defaults of the original sidebar
func DefaultHuntConfig() HuntConfig {
	return HuntConfig{
		MaxPrice:                  50,
		MaxCandidates:             2000,
		MinTrendScore:             70,
		Extensions:                []string{".com", ".ai", ".io"},
		Categories:                []string{"Tech", "AI/ML", "Trending"},
		UseRealChecking:           true,
		UseRealPricing:            true,
		UseRealTrend:              true,
		PersistResults:            true,
		Concurrency:               DefaultConcurrency,
		SimulatedAvailabilityRate: DefaultSimulatedAvailabilityRate,
	}
}

// Normalized returns a copy with deduplicated, dot-prefixed extensions and the default
// concurrency filled in. SimulatedAvailabilityRate is kept as given, so 0 means none.
func (c HuntConfig) Normalized() HuntConfig {
	out := c

	out.Extensions = make([]string, 0, len(c.Extensions))
	seen := make(map[string]bool)
	for _, ext := range c.Extensions {
		ext = NormalizeExtension(ext)
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out.Extensions = append(out.Extensions, ext)
	}

	out.Categories = make([]string, 0, len(c.Categories))
	seenCat := make(map[string]bool)
	for _, cat := range c.Categories {
		cat = strings.TrimSpace(cat)
		if cat == "" || seenCat[strings.ToLower(cat)] {
			continue
		}
		seenCat[strings.ToLower(cat)] = true
		out.Categories = append(out.Categories, cat)
	}

	if out.Concurrency <= 0 {
		out.Concurrency = DefaultConcurrency
	}
	return out
}

// Validate rejects numerically invalid settings. Empty categories or extensions are
// valid and simply produce an empty hunt.
func (c HuntConfig) Validate() error {
	if c.MaxPrice < 0 {
		return fmt.Errorf("max price must be >= 0, got %v", c.MaxPrice)
	}
	if c.MaxCandidates < 0 {
		return fmt.Errorf("max candidates must be >= 0, got %d", c.MaxCandidates)
	}
	if c.MinTrendScore < 0 || c.MinTrendScore > 100 {
		return fmt.Errorf("min trend score must be between 0 and 100, got %d", c.MinTrendScore)
	}
	if c.SimulatedAvailabilityRate < 0 || c.SimulatedAvailabilityRate > 1 {
		return fmt.Errorf("simulated availability rate must be between 0 and 1, got %v", c.SimulatedAvailabilityRate)
	}
	return nil
}

// Accepts is the gate applied before a domain becomes a result
func (c HuntConfig) Accepts(price float64, trendScore int) bool {
	return price <= c.MaxPrice && trendScore >= c.MinTrendScore
}
