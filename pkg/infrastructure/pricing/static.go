package pricing

import (
	"context"
	"fmt"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/shopspring/decimal"
)

// StaticSource implements service.PriceSource from a fixed per-extension table
type StaticSource struct {
	name   string
	prices map[string]decimal.Decimal
}

// NewStaticSource creates a static source; table keys are extensions with or without the dot
func NewStaticSource(name string, table map[string]float64) *StaticSource {
	prices := make(map[string]decimal.Decimal, len(table))
	for ext, price := range table {
		prices[entity.ExtensionKey(ext)] = decimal.NewFromFloat(price)
	}
	return &StaticSource{name: name, prices: prices}
}

// Name implements service.PriceSource
func (s *StaticSource) Name() string {
	return s.name
}

// Price implements service.PriceSource
func (s *StaticSource) Price(ctx context.Context, domain string) (decimal.Decimal, error) {
	_, ext := entity.SplitDomain(domain)
	price, ok := s.prices[entity.ExtensionKey(ext)]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s has no price for %s", s.name, ext)
	}
	return price, nil
}
