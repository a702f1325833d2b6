package pricing

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

var pricePattern = regexp.MustCompile(`\$?(\d+\.?\d*)`)

// ExtractPrice returns the first number in text, ignoring a leading dollar sign and thousands separators
func ExtractPrice(text string) (decimal.Decimal, error) {
	match := pricePattern.FindStringSubmatch(strings.ReplaceAll(text, ",", ""))
	if match == nil {
		return decimal.Zero, fmt.Errorf("no price in %q", strings.TrimSpace(text))
	}
	return decimal.NewFromString(match[1])
}

// ScrapeConfig describes where a registrar shows the price of a domain
type ScrapeConfig struct {
	Name string
	// URLTemplate contains a single %s for the domain
	URLTemplate string
	// Selector is the CSS selector of the price element
	Selector  string
	Timeout   time.Duration
	UserAgent string
}

// DefaultScrapeConfigs lists the registrar search pages the scraper knows about
func DefaultScrapeConfigs() []ScrapeConfig {
	return []ScrapeConfig{
		{Name: "godaddy", URLTemplate: "https://www.godaddy.com/domainsearch/find?checkAvail=1&domainToCheck=%s", Selector: `span[data-cy="price-display"]`},
		{Name: "namecheap", URLTemplate: "https://www.namecheap.com/domains/registration/results/?domain=%s", Selector: "span.price"},
		{Name: "hostinger", URLTemplate: "https://www.hostinger.com/domain-checker?domain=%s", Selector: ".price"},
		{Name: "namesilo", URLTemplate: "https://www.namesilo.com/domain/search-domains?query=%s", Selector: "span.domain_price"},
	}
}

// ScrapeSource implements service.PriceSource by reading a registrar search page
type ScrapeSource struct {
	config ScrapeConfig
	client *http.Client
}

// NewScrapeSource creates a new scraping price source
func NewScrapeSource(config ScrapeConfig) *ScrapeSource {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	return &ScrapeSource{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name implements service.PriceSource
func (s *ScrapeSource) Name() string {
	return s.config.Name
}

// Price implements service.PriceSource
func (s *ScrapeSource) Price(ctx context.Context, domain string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(s.config.URLTemplate, domain), nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s request: %w", s.config.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%s returned status %d", s.config.Name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s parse html: %w", s.config.Name, err)
	}

	selection := doc.Find(s.config.Selector).First()
	if selection.Length() == 0 {
		return decimal.Zero, fmt.Errorf("%s: no element matches %q", s.config.Name, s.config.Selector)
	}
	return ExtractPrice(selection.Text())
}
