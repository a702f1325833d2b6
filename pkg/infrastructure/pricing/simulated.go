package pricing

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/shopspring/decimal"
)

// Band is the simulated registration price range of an extension
type Band struct {
	Min float64
	Max float64
}

// Bands are keyed by extension without the leading dot
var Bands = map[string]Band{
	"com": {8.99, 15.99},
	"ai":  {25.99, 89.99},
	"io":  {35.99, 65.99},
	"co":  {25.99, 45.99},
	"net": {10.99, 18.99},
	"org": {12.99, 20.99},
}

// DefaultBand applies to extensions missing from Bands
var DefaultBand = Band{15.99, 35.99}

// Registrars are the display names simulated quotes are attributed to
var Registrars = []string{"namecheap", "godaddy", "porkbun", "namesilo", "hostinger"}

var premiumTerms = []string{"ai", "crypto", "nft", "web3", "meta", "bet", "cash", "pay", "bank", "coin", "token", "defi"}

// Simulated draws prices from per-extension bands
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated price source
func NewSimulated(seed int64) *Simulated {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulated{rng: rand.New(rand.NewSource(seed))}
}

// BandFor returns the price range for a domain after length and premium adjustments
func BandFor(domain string) Band {
	name, ext := entity.SplitDomain(domain)
	band, ok := Bands[entity.ExtensionKey(ext)]
	if !ok {
		band = DefaultBand
	}

	switch {
	case len(name) <= 4:
		band.Max *= 1.5
	case len(name) <= 6:
		band.Max *= 1.2
	}
	for _, term := range premiumTerms {
		if strings.Contains(name, term) {
			band.Max *= 1.3
			break
		}
	}
	return band
}

// Price draws a single price for domain, rounded to cents
func (s *Simulated) Price(domain string) decimal.Decimal {
	band := BandFor(domain)
	s.mu.Lock()
	draw := band.Min + s.rng.Float64()*(band.Max-band.Min)
	s.mu.Unlock()
	return decimal.NewFromFloat(draw).Round(2)
}

// Quote returns a simulated quote: the drawn price attributed to one registrar and
// strictly-not-cheaper perturbations of it for the others
func (s *Simulated) Quote(domain string) entity.PriceQuote {
	price := s.Price(domain)

	s.mu.Lock()
	winner := s.rng.Intn(len(Registrars))
	prices := make(map[string]decimal.Decimal, len(Registrars))
	for i, name := range Registrars {
		if i == winner {
			prices[name] = price
			continue
		}
		factor := decimal.NewFromFloat(1 + s.rng.Float64()*0.25)
		prices[name] = price.Mul(factor).Round(2)
	}
	s.mu.Unlock()

	quote, _ := entity.NewPriceQuote(prices, rotate(Registrars, winner))
	return quote
}

// rotate puts names[first] at the front so ties resolve to it
func rotate(names []string, first int) []string {
	out := make([]string, 0, len(names))
	out = append(out, names[first:]...)
	return append(out, names[:first]...)
}
