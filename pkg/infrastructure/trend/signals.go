package trend

import (
	"context"
	"strings"
)

var (
	hotTerms        = []string{"ai", "crypto", "nft", "web3", "metaverse", "defi", "cloud", "data", "smart", "quantum"}
	socialTerms     = []string{"viral", "meme", "social", "creator", "influencer", "tiktok", "nft", "crypto", "web3", "metaverse", "ai"}
	newsTerms       = []string{"ai", "climate", "crypto", "health", "quantum", "energy", "space", "finance", "bank", "election"}
	growthTerms     = []string{"ai", "crypto", "nft", "web3", "metaverse", "defi"}
	commercialTerms = []string{
		"buy", "purchase", "price", "cost", "cheap", "discount",
		"deal", "sale", "shop", "store", "market", "service",
		"product", "solution", "software", "app", "tool",
	}
)

// Signal names
const (
	SearchVolume     = "search_volume"
	SocialMentions   = "social_mentions"
	NewsMentions     = "news_mentions"
	CommercialIntent = "commercial_intent"
	GrowthTrend      = "growth_trend"
)

func containsAny(keyword string, terms []string) bool {
	keyword = strings.ToLower(keyword)
	for _, term := range terms {
		if strings.Contains(keyword, term) {
			return true
		}
	}
	return false
}

// SimulatedSignal is a random base score plus a bonus when the keyword contains a listed term
type SimulatedSignal struct {
	name    string
	rng     *Random
	baseLo  int
	baseHi  int
	terms   []string
	bonusLo int
	bonusHi int
}

// Name implements service.TrendSignal
func (s *SimulatedSignal) Name() string {
	return s.name
}

// Score implements service.TrendSignal
func (s *SimulatedSignal) Score(ctx context.Context, keyword string) (float64, bool) {
	score := s.rng.IntRange(s.baseLo, s.baseHi)
	if containsAny(keyword, s.terms) {
		score += s.rng.IntRange(s.bonusLo, s.bonusHi)
	}
	return clamp(float64(score)), true
}

// NewSearchVolumeSignal simulates a search volume proxy
func NewSearchVolumeSignal(rng *Random) *SimulatedSignal {
	return &SimulatedSignal{name: SearchVolume, rng: rng, baseLo: 40, baseHi: 95, terms: hotTerms, bonusLo: 5, bonusHi: 15}
}

// NewSocialSignal simulates a social mentions proxy
func NewSocialSignal(rng *Random) *SimulatedSignal {
	return &SimulatedSignal{name: SocialMentions, rng: rng, baseLo: 30, baseHi: 90, terms: socialTerms, bonusLo: 10, bonusHi: 20}
}

// NewNewsSignal simulates a news mentions proxy
func NewNewsSignal(rng *Random) *SimulatedSignal {
	return &SimulatedSignal{name: NewsMentions, rng: rng, baseLo: 30, baseHi: 90, terms: newsTerms, bonusLo: 5, bonusHi: 15}
}

// NewGrowthSignal simulates a growth trend proxy
func NewGrowthSignal(rng *Random) *SimulatedSignal {
	return &SimulatedSignal{name: GrowthTrend, rng: rng, baseLo: 40, baseHi: 95, terms: growthTerms, bonusLo: 5, bonusHi: 15}
}

// CommercialSignal scores 10 points per commercial indicator contained in the keyword
type CommercialSignal struct{}

// Name implements service.TrendSignal
func (CommercialSignal) Name() string {
	return CommercialIntent
}

// Score implements service.TrendSignal
func (CommercialSignal) Score(ctx context.Context, keyword string) (float64, bool) {
	keyword = strings.ToLower(keyword)
	score := 0.0
	for _, indicator := range commercialTerms {
		if strings.Contains(keyword, indicator) {
			score += 10
		}
	}
	return clamp(score), true
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
