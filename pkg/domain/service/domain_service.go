package service

import (
	"context"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/shopspring/decimal"
)

// KeywordGenerator produces candidate names
type KeywordGenerator interface {
	// Generate returns at most limit distinct names built from the given categories
	Generate(categories []string, limit int) []string
}

// TrendingSource supplies currently trending words
type TrendingSource interface {
	Trending() []string
}

// AvailabilityChecker is one method of deciding whether a domain is registrable
type AvailabilityChecker interface {
	// Name identifies the method in logs and metrics
	Name() string
	// Check returns Unknown (optionally with an error) when it cannot decide
	Check(ctx context.Context, domain string) (entity.Verdict, error)
}

// AvailabilityResolver returns a conclusive verdict for a domain
type AvailabilityResolver interface {
	Resolve(ctx context.Context, domain string) entity.Verdict
}

// PriceSource quotes the registration price of a domain at a single registrar
type PriceSource interface {
	Name() string
	Price(ctx context.Context, domain string) (decimal.Decimal, error)
}

// PriceEstimator returns a quote for a domain and never fails
type PriceEstimator interface {
	Quote(ctx context.Context, domain string, config entity.HuntConfig) entity.PriceQuote
}

// TrendSignal is one weighted component of the trend score
type TrendSignal interface {
	Name() string
	// Score returns a value in [0,100]; ok is false when the signal could not be computed
	Score(ctx context.Context, keyword string) (score float64, ok bool)
}

// Scorer computes trend, brandability and market value
type Scorer interface {
	TrendScore(ctx context.Context, keyword string) int
	Brandability(keyword string) int
	MarketValue(domain string, trendScore int) int
}
