package generator

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/service"
	mapset "github.com/deckarep/golang-set/v2"
)

const (
	// TrendingCap bounds how many trending words join the vocabulary
	TrendingCap = 30
	// PairWindow bounds the pairwise bucket to the first words of the vocabulary
	PairWindow = 101
	// MadeUpCount is the number of invented words added by the Made-up category
	MadeUpCount = 40
)

// Bucket proportions of the requested limit, in percent
const (
	singleShare = 20
	pairShare   = 40
	prefixShare = 20
)

const (
	consonants = "bcdfghjklmnpqrstvwxyz"
	vowels     = "aeiou"
)

var madeUpPatterns = []string{"cvcv", "cvcvc", "cvccv", "ccvcv"}

// Generator implements service.KeywordGenerator
type Generator struct {
	mu       sync.Mutex
	rng      *rand.Rand
	trending service.TrendingSource
	words    map[string][]string
}

// Config holds generator configuration
type Config struct {
	// Trending feeds the Trending category; nil uses the simulated list
	Trending service.TrendingSource
	// Seed for shuffling and invented words; 0 seeds from the clock
	Seed int64
}

// NewGenerator creates a new keyword generator
func NewGenerator(config Config) *Generator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.Trending == nil {
		config.Trending = NewSimulatedTrending(seed)
	}

	words := make(map[string][]string, len(Categories))
	for name, list := range Categories {
		words[strings.ToLower(name)] = list
	}

	return &Generator{
		rng:      rand.New(rand.NewSource(seed)),
		trending: config.Trending,
		words:    words,
	}
}

// Generate implements service.KeywordGenerator. The output holds no duplicates and at
// most limit entries; its order carries no meaning.
func (g *Generator) Generate(categories []string, limit int) []string {
	if limit <= 0 {
		return []string{}
	}

	words := g.vocabulary(categories)
	if len(words) == 0 {
		return []string{}
	}

	c := newCollector(limit)
	buckets := []bucket{
		singles(words),
		pairs(words),
		withPrefixes(words),
		withSuffixes(words),
	}

	for i, b := range buckets {
		c.fill(b, quota(limit, i))
	}
	// Small vocabularies or overlapping buckets can leave room; top up in bucket order
	for _, b := range buckets {
		if c.full() {
			break
		}
		c.fill(b, limit)
	}

	return c.out
}

// vocabulary builds the shuffled, deduplicated union of the selected categories
func (g *Generator) vocabulary(categories []string) []string {
	set := make(map[string]struct{})
	add := func(w string) {
		if w = clean(w); w != "" {
			set[w] = struct{}{}
		}
	}

	for _, category := range categories {
		key := strings.ToLower(strings.TrimSpace(category))
		switch key {
		case strings.ToLower(TrendingCategory):
			trending := g.trending.Trending()
			if len(trending) > TrendingCap {
				trending = trending[:TrendingCap]
			}
			for _, w := range trending {
				add(w)
			}
		case strings.ToLower(MadeUpCategory):
			for _, w := range g.madeUp(MadeUpCount) {
				add(w)
			}
		default:
			for _, w := range g.words[key] {
				add(w)
			}
		}
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)

	g.mu.Lock()
	g.rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	g.mu.Unlock()

	return words
}

func (g *Generator) madeUp(n int) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pattern := madeUpPatterns[i%len(madeUpPatterns)]
		var sb strings.Builder
		for _, p := range pattern {
			if p == 'c' {
				sb.WriteByte(consonants[g.rng.Intn(len(consonants))])
			} else {
				sb.WriteByte(vowels[g.rng.Intn(len(vowels))])
			}
		}
		out = append(out, sb.String())
	}
	return out
}

// quota returns the share of limit for bucket i; the last bucket takes the remainder
func quota(limit, i int) int {
	single := limit * singleShare / 100
	pair := limit * pairShare / 100
	prefix := limit * prefixShare / 100
	switch i {
	case 0:
		return single
	case 1:
		return pair
	case 2:
		return prefix
	default:
		return limit - single - pair - prefix
	}
}

// clean lowercases a word and drops everything but letters and digits
func clean(w string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(w) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// bucket emits combinations until emit returns false
type bucket func(emit func(string) bool)

func singles(words []string) bucket {
	return func(emit func(string) bool) {
		for _, w := range words {
			if !emit(w) {
				return
			}
		}
	}
}

func pairs(words []string) bucket {
	window := words
	if len(window) > PairWindow {
		window = window[:PairWindow]
	}
	return func(emit func(string) bool) {
		for i, w1 := range window {
			for _, w2 := range window[i+1:] {
				if !emit(w1 + w2) {
					return
				}
			}
		}
	}
}

func withPrefixes(words []string) bucket {
	return func(emit func(string) bool) {
		for _, w := range words {
			for _, p := range Prefixes {
				if !emit(p + w) {
					return
				}
			}
		}
	}
}

func withSuffixes(words []string) bucket {
	return func(emit func(string) bool) {
		for _, w := range words {
			for _, s := range Suffixes {
				if !emit(w + s) {
					return
				}
			}
		}
	}
}

// collector accumulates distinct names up to a limit
type collector struct {
	limit int
	seen  mapset.Set[string]
	out   []string
}

func newCollector(limit int) *collector {
	return &collector{
		limit: limit,
		seen:  mapset.NewThreadUnsafeSetWithSize[string](limit),
		out:   make([]string, 0, limit),
	}
}

func (c *collector) full() bool {
	return len(c.out) >= c.limit
}

func (c *collector) add(name string) bool {
	if !c.seen.Add(name) {
		return false
	}
	c.out = append(c.out, name)
	return true
}

// fill drains b until quota new names were added or the collector is full
func (c *collector) fill(b bucket, quota int) {
	if quota <= 0 || c.full() {
		return
	}
	added := 0
	b(func(name string) bool {
		if c.add(name) {
			added++
		}
		return added < quota && !c.full()
	})
}
