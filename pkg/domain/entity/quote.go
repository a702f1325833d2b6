package entity

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PriceQuote is the purchase price of a domain together with every source consulted
type PriceQuote struct {
	Price      decimal.Decimal
	Source     string
	AllSources map[string]decimal.Decimal
}

// NewPriceQuote builds a quote from a set of per-source prices. The cheapest entry wins;
// on ties the source listed first in order wins. Sources missing from order are
// considered after the ordered ones, alphabetically.
func NewPriceQuote(prices map[string]decimal.Decimal, order []string) (PriceQuote, bool) {
	if len(prices) == 0 {
		return PriceQuote{}, false
	}

	names := make([]string, 0, len(prices))
	seen := make(map[string]bool, len(prices))
	for _, name := range order {
		if _, ok := prices[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0)
	for name := range prices {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	names = append(names, rest...)

	quote := PriceQuote{AllSources: make(map[string]decimal.Decimal, len(prices))}
	for i, name := range names {
		p := prices[name]
		quote.AllSources[name] = p
		if i == 0 || p.LessThan(quote.Price) {
			quote.Price = p
			quote.Source = name
		}
	}
	return quote, true
}

// Min returns the smallest value in AllSources
func (q PriceQuote) Min() decimal.Decimal {
	first := true
	var lowest decimal.Decimal
	for _, p := range q.AllSources {
		if first || p.LessThan(lowest) {
			lowest = p
			first = false
		}
	}
	return lowest
}

