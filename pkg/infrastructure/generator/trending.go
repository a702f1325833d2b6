package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"
)

var simulatedTrending = []string{
	"metaverse", "nft", "web3", "defi", "dao", "gamefi", "socialfi", "creator", "influencer",
	"sustainability", "agent", "copilot", "genai", "llm", "prompt", "solar", "ev", "climate",
	"remote", "nomad", "longevity", "biohack", "zk", "rollup", "stable", "vibe", "spatial",
	"robot", "drone", "fintech", "insurtech", "proptech", "edtech", "wearable", "quantum",
}

// SimulatedTrending returns a shuffled slice of a fixed trending vocabulary
type SimulatedTrending struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedTrending creates a simulated trending source
func NewSimulatedTrending(seed int64) *SimulatedTrending {
	return &SimulatedTrending{rng: rand.New(rand.NewSource(seed))}
}

// Trending implements service.TrendingSource
func (s *SimulatedTrending) Trending() []string {
	words := append([]string(nil), simulatedTrending...)
	s.mu.Lock()
	s.rng.Shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	s.mu.Unlock()
	return words
}

// RedditTrending extracts keywords from the titles of hot Reddit posts
type RedditTrending struct {
	client   *http.Client
	url      string
	fallback *SimulatedTrending
	logger   logrus.FieldLogger
}

// RedditConfig configures the Reddit trending source
type RedditConfig struct {
	URL     string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// NewRedditTrending creates a trending source backed by the Reddit hot listing
func NewRedditTrending(config RedditConfig) *RedditTrending {
	if config.URL == "" {
		config.URL = "https://www.reddit.com/r/all/hot.json?limit=50"
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &RedditTrending{
		client:   &http.Client{Timeout: config.Timeout},
		url:      config.URL,
		fallback: NewSimulatedTrending(time.Now().UnixNano()),
		logger:   config.Logger,
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string `json:"title"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Trending implements service.TrendingSource, falling back to the simulated list on error
func (r *RedditTrending) Trending() []string {
	words, err := r.fetch(context.Background())
	if err != nil || len(words) == 0 {
		r.logger.WithError(err).Debug("reddit trending unavailable, using simulated list")
		return r.fallback.Trending()
	}
	return words
}

func (r *RedditTrending) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "DomainHunter/2.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode reddit listing: %w", err)
	}

	seen := make(map[string]bool)
	var words []string
	for _, child := range listing.Data.Children {
		for _, w := range strings.Fields(strings.ToLower(child.Data.Title)) {
			if len(w) <= 3 || !isAlpha(w) || seen[w] {
				continue
			}
			seen[w] = true
			words = append(words, w)
		}
	}
	return words, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
