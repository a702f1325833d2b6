package trend

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSignal struct {
	name  string
	score float64
	ok    bool
}

func (f fixedSignal) Name() string { return f.name }

func (f fixedSignal) Score(ctx context.Context, keyword string) (float64, bool) {
	return f.score, f.ok
}

func allSignals(score float64, missing string) []Weighted {
	names := []struct {
		name   string
		weight float64
	}{
		{SearchVolume, SearchVolumeWeight},
		{SocialMentions, SocialMentionsWeight},
		{NewsMentions, NewsMentionsWeight},
		{CommercialIntent, CommercialIntentWeight},
		{GrowthTrend, GrowthTrendWeight},
	}
	out := make([]Weighted, 0, len(names))
	for _, n := range names {
		out = append(out, Weighted{fixedSignal{n.name, score, n.name != missing}, n.weight})
	}
	return out
}

func TestTrendScore_Weights(t *testing.T) {
	tests := []struct {
		name     string
		signals  []Weighted
		expected int
	}{
		{"all full", allSignals(100, ""), 100},
		{"all half", allSignals(50, ""), 50},
		{"all zero", allSignals(0, ""), 0},
		{"clamped inputs", allSignals(250, ""), 100},
		{"negative inputs", allSignals(-40, ""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(Config{Signals: tt.signals, Random: NewRandom(1)})
			assert.Equal(t, tt.expected, s.TrendScore(context.Background(), "quicklab"))
		})
	}
}

// Missing signals drop their weight rather than renormalizing the rest
func TestTrendScore_MissingSignalIsNotRenormalized(t *testing.T) {
	tests := []struct {
		missing  string
		expected int
	}{
		{SearchVolume, 75},
		{SocialMentions, 80},
		{NewsMentions, 80},
		{CommercialIntent, 80},
		{GrowthTrend, 85},
	}

	for _, tt := range tests {
		t.Run(tt.missing, func(t *testing.T) {
			s := NewScorer(Config{Signals: allSignals(100, tt.missing), Random: NewRandom(1)})
			assert.Equal(t, tt.expected, s.TrendScore(context.Background(), "quicklab"))
		})
	}
}

func TestTrendScore_DefaultSignalsInRange(t *testing.T) {
	s := NewScorer(Config{Random: NewRandom(99)})
	for _, kw := range []string{"quicklab", "aicrypto", "buyappstore", "x", "", "web3defimetaverse"} {
		for i := 0; i < 100; i++ {
			score := s.TrendScore(context.Background(), kw)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}
}

func TestScorer_SocialReplacement(t *testing.T) {
	s := NewScorer(Config{Signals: allSignals(0, ""), Social: fixedSignal{SocialMentions, 100, true}})
	assert.Equal(t, 20, s.TrendScore(context.Background(), "quicklab"))
}

func TestCommercialSignal(t *testing.T) {
	tests := []struct {
		keyword  string
		expected float64
	}{
		{"quicklab", 0},
		{"shop", 10},
		{"buyappstore", 30},
		{"BuyCheapDealSaleShopStoreMarketServiceProductSolutionSoftwareAppTool", 100},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			score, ok := CommercialSignal{}.Score(context.Background(), tt.keyword)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, score)
		})
	}
}

func TestBrandability(t *testing.T) {
	tests := []struct {
		keyword  string
		expected int
	}{
		{"quicklab", 95},
		{"ai", 60},
		{"app", 100},
		{"my-domain1", 60},
		{"supercalifragilistic", 70},
		{"bbbbbb", 85},
		{"", 60},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.expected, Brandability(tt.keyword))
		})
	}
}

func TestBrandability_Deterministic(t *testing.T) {
	s := NewScorer(Config{})
	first := s.Brandability("quicklab")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, s.Brandability("quicklab"))
	}
}

func TestMarketValue(t *testing.T) {
	assert.InDelta(t, 4563, marketValue("quicklab.com", 90, 10), 1)
	assert.InDelta(t, 28125, marketValue("ai.com", 100, 25), 1)
	assert.Equal(t, minMarketValue, marketValue("x.zzz", 0, 8))
	assert.Equal(t, minMarketValue, marketValue("averyveryverylongname.xyz", 1, 8))
}

func TestMarketValue_FirstIndustryMatchWins(t *testing.T) {
	// "aicrypto" matches both ai and crypto; only ai applies
	withBoth := marketValue("aicrypto.xyz", 50, 10)
	// len 8 -> 1.3, ai -> 1.5, brandability of aicrypto is 95 -> 1.3
	assert.InDelta(t, 50*10*1.3*1.5*1.3, withBoth, 1)
}

func TestMarketValue_Range(t *testing.T) {
	s := NewScorer(Config{Random: NewRandom(7)})
	for _, d := range []string{"ai.com", "quicklab.io", "health.net", "x.org", "averyveryverylongname.dev"} {
		for trend := 0; trend <= 100; trend += 10 {
			v := s.MarketValue(d, trend)
			assert.GreaterOrEqual(t, v, minMarketValue)
			assert.LessOrEqual(t, v, maxMarketValue)
		}
	}
}

func TestBundle(t *testing.T) {
	s := NewScorer(Config{Signals: allSignals(90, ""), Random: NewRandom(3)})
	b := s.Bundle(context.Background(), "quicklab", "quicklab.com")
	assert.Equal(t, 90, b.TrendScore)
	assert.Equal(t, 95, b.BrandabilityScore)
	assert.GreaterOrEqual(t, b.MarketValue, minMarketValue)
}

func TestRedditSignal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"data":{"children":[
			{"data":{"score":100,"num_comments":50}},
			{"data":{"score":300,"num_comments":0}}
		]}}`)
	}))
	defer server.Close()

	signal := NewRedditSignal(RedditConfig{BaseURL: server.URL})
	assert.Equal(t, SocialMentions, signal.Name())

	score, ok := signal.Score(context.Background(), "quicklab")
	require.True(t, ok)
	assert.Equal(t, 50.0, score)

	_, ok = signal.Score(context.Background(), "down")
	assert.False(t, ok)
}

func TestRandom_IntRange(t *testing.T) {
	r := NewRandom(5)
	for i := 0; i < 100; i++ {
		v := r.IntRange(3, 6)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 6)
	}
	assert.Equal(t, 4, r.IntRange(4, 4))
}
