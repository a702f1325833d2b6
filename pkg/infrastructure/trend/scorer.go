package trend

import (
	"context"
	"strings"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/service"
)

// Weighted pairs a signal with its weight in the trend score
type Weighted struct {
	Signal service.TrendSignal
	Weight float64
}

// Signal weights
const (
	SearchVolumeWeight     = 0.25
	SocialMentionsWeight   = 0.20
	NewsMentionsWeight     = 0.20
	CommercialIntentWeight = 0.20
	GrowthTrendWeight      = 0.15
)

const (
	minMarketValue = 100
	maxMarketValue = 100000
)

var commonWords = map[string]bool{
	"app": true, "hub": true, "lab": true, "pro": true, "tech": true, "cloud": true, "data": true,
	"smart": true, "web": true, "code": true, "pay": true, "shop": true, "health": true, "fit": true,
}

// ExtensionMultipliers scale market value by extension, keyed without the leading dot
var ExtensionMultipliers = map[string]float64{
	"com":  3.0,
	"ai":   2.5,
	"io":   2.0,
	"co":   1.8,
	"net":  1.5,
	"org":  1.3,
	"app":  1.4,
	"dev":  1.3,
	"tech": 1.2,
}

// industryMultipliers are checked in order; the first match wins
var industryMultipliers = []struct {
	term       string
	multiplier float64
}{
	{"ai", 1.5},
	{"crypto", 1.4},
	{"health", 1.3},
	{"finance", 1.3},
	{"tech", 1.2},
}

// Scorer implements service.Scorer
type Scorer struct {
	signals []Weighted
	rng     *Random
}

// Config holds scorer configuration
type Config struct {
	// Signals overrides the default simulated signal set
	Signals []Weighted
	// Social replaces the simulated social mentions signal
	Social service.TrendSignal
	Random *Random
}

// DefaultSignals returns the five simulated signals with their weights
func DefaultSignals(rng *Random) []Weighted {
	return []Weighted{
		{NewSearchVolumeSignal(rng), SearchVolumeWeight},
		{NewSocialSignal(rng), SocialMentionsWeight},
		{NewNewsSignal(rng), NewsMentionsWeight},
		{CommercialSignal{}, CommercialIntentWeight},
		{NewGrowthSignal(rng), GrowthTrendWeight},
	}
}

// NewScorer creates a new scorer
func NewScorer(config Config) *Scorer {
	if config.Random == nil {
		config.Random = NewRandom(0)
	}
	signals := config.Signals
	if signals == nil {
		signals = DefaultSignals(config.Random)
	}
	if config.Social != nil {
		signals = append([]Weighted(nil), signals...)
		for i := range signals {
			if signals[i].Signal.Name() == SocialMentions {
				signals[i].Signal = config.Social
			}
		}
	}
	return &Scorer{signals: signals, rng: config.Random}
}

// TrendScore implements service.Scorer. Signals that report !ok contribute nothing and
// their weight is not redistributed.
func (s *Scorer) TrendScore(ctx context.Context, keyword string) int {
	total := 0.0
	for _, w := range s.signals {
		score, ok := w.Signal.Score(ctx, keyword)
		if !ok {
			continue
		}
		total += clamp(score) * w.Weight
	}
	return int(clamp(total))
}

// Brandability implements service.Scorer
func (s *Scorer) Brandability(keyword string) int {
	return Brandability(keyword)
}

// Brandability scores how memorable a name is; it is deterministic
func Brandability(keyword string) int {
	keyword = strings.ToLower(keyword)
	n := len(keyword)
	score := 50

	switch {
	case n >= 4 && n <= 8:
		score += 25
	case n >= 9 && n <= 10:
		score += 15
	case n < 4:
		score += 10
	default:
		score -= 10
	}

	if n > 0 {
		vowels := 0
		for _, r := range keyword {
			if strings.ContainsRune("aeiou", r) {
				vowels++
			}
		}
		ratio := float64(vowels) / float64(n)
		if ratio >= 0.2 && ratio <= 0.6 {
			score += 20
		}
	}

	if strings.ContainsAny(keyword, "0123456789-_") {
		score -= 25
	}

	if commonWords[keyword] {
		score += 15
	}

	unique := make(map[rune]bool)
	for _, r := range keyword {
		unique[r] = true
	}
	if float64(len(unique)) < 0.7*float64(n) {
		score += 10
	}

	return int(clamp(float64(score)))
}

// MarketValue implements service.Scorer
func (s *Scorer) MarketValue(domain string, trendScore int) int {
	return marketValue(domain, trendScore, s.rng.Uniform(8, 25))
}

func marketValue(domain string, trendScore int, factor float64) int {
	name, ext := entity.SplitDomain(domain)
	value := float64(trendScore) * factor

	switch n := len(name); {
	case n <= 4:
		value *= 2.5
	case n <= 6:
		value *= 1.8
	case n <= 8:
		value *= 1.3
	case n > 12:
		value *= 0.7
	}

	if m, ok := ExtensionMultipliers[entity.ExtensionKey(ext)]; ok {
		value *= m
	}

	lower := strings.ToLower(name)
	for _, industry := range industryMultipliers {
		if strings.Contains(lower, industry.term) {
			value *= industry.multiplier
			break
		}
	}

	switch b := Brandability(name); {
	case b > 80:
		value *= 1.3
	case b > 60:
		value *= 1.1
	}

	switch {
	case value < minMarketValue:
		return minMarketValue
	case value > maxMarketValue:
		return maxMarketValue
	}
	return int(value)
}

// Bundle computes every score for keyword registered under domain
func (s *Scorer) Bundle(ctx context.Context, keyword, domain string) entity.ScoreBundle {
	trend := s.TrendScore(ctx, keyword)
	return entity.ScoreBundle{
		TrendScore:        trend,
		BrandabilityScore: s.Brandability(keyword),
		MarketValue:       s.MarketValue(domain, trend),
	}
}
