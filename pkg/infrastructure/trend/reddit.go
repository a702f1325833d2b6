package trend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// RedditSignal implements service.TrendSignal from the engagement of recent Reddit posts
type RedditSignal struct {
	client  *http.Client
	baseURL string
	logger  logrus.FieldLogger
}

// RedditConfig holds Reddit signal configuration
type RedditConfig struct {
	BaseURL string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// NewRedditSignal creates a social mentions signal backed by Reddit search
func NewRedditSignal(config RedditConfig) *RedditSignal {
	if config.BaseURL == "" {
		config.BaseURL = "https://www.reddit.com/search.json"
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &RedditSignal{
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: config.BaseURL,
		logger:  config.Logger,
	}
}

// Name implements service.TrendSignal
func (r *RedditSignal) Name() string {
	return SocialMentions
}

type redditSearch struct {
	Data struct {
		Children []struct {
			Data struct {
				Score       int `json:"score"`
				NumComments int `json:"num_comments"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Score implements service.TrendSignal; ok is false when Reddit cannot be queried
func (r *RedditSignal) Score(ctx context.Context, keyword string) (float64, bool) {
	engagement, err := r.engagement(ctx, keyword)
	if err != nil {
		r.logger.WithError(err).WithField("keyword", keyword).Debug("reddit signal unavailable")
		return 0, false
	}
	return clamp(float64(engagement) / 10), true
}

func (r *RedditSignal) engagement(ctx context.Context, keyword string) (int, error) {
	params := url.Values{}
	params.Set("q", keyword)
	params.Set("sort", "new")
	params.Set("limit", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", "DomainHunter/2.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("reddit returned status %d", resp.StatusCode)
	}

	var search redditSearch
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return 0, fmt.Errorf("decode reddit search: %w", err)
	}

	total := 0
	for _, child := range search.Data.Children {
		total += child.Data.Score + child.Data.NumComments*2
	}
	return total, nil
}
