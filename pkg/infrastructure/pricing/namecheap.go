package pricing

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	namecheapProductionURL = "https://api.namecheap.com/xml.response"
	namecheapSandboxURL    = "https://api.sandbox.namecheap.com/xml.response"
)

// NamecheapConfig holds Namecheap API credentials
type NamecheapConfig struct {
	APIUser  string
	APIKey   string
	Username string
	ClientIP string
	Sandbox  bool
	// BaseURL overrides the production or sandbox endpoint
	BaseURL string
	Timeout time.Duration
}

// NamecheapConfigFromEnv reads NAMECHEAP_* variables, loading the given dotenv files first.
// Missing dotenv files are ignored.
func NamecheapConfigFromEnv(files ...string) NamecheapConfig {
	_ = godotenv.Load(files...)
	return NamecheapConfig{
		APIUser:  os.Getenv("NAMECHEAP_API_USER"),
		APIKey:   os.Getenv("NAMECHEAP_API_KEY"),
		Username: os.Getenv("NAMECHEAP_USERNAME"),
		ClientIP: os.Getenv("NAMECHEAP_CLIENT_IP"),
		Sandbox:  strings.EqualFold(os.Getenv("NAMECHEAP_USE_SANDBOX"), "true"),
	}
}

// Complete reports whether every credential is set
func (c NamecheapConfig) Complete() bool {
	return c.APIUser != "" && c.APIKey != "" && c.Username != "" && c.ClientIP != ""
}

// NamecheapSource implements service.PriceSource with namecheap.users.getPricing
type NamecheapSource struct {
	config NamecheapConfig
	client *http.Client

	mu    sync.Mutex
	cache map[string]decimal.Decimal
}

// NewNamecheapSource creates a Namecheap price source
func NewNamecheapSource(config NamecheapConfig) *NamecheapSource {
	if config.BaseURL == "" {
		config.BaseURL = namecheapProductionURL
		if config.Sandbox {
			config.BaseURL = namecheapSandboxURL
		}
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &NamecheapSource{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		cache:  make(map[string]decimal.Decimal),
	}
}

// Name implements service.PriceSource
func (n *NamecheapSource) Name() string {
	return "namecheap"
}

type namecheapPricingResponse struct {
	XMLName xml.Name `xml:"ApiResponse"`
	Status  string   `xml:"Status,attr"`
	Errors  []struct {
		Number  string `xml:"Number,attr"`
		Message string `xml:",chardata"`
	} `xml:"Errors>Error"`
	ProductTypes []struct {
		Name       string `xml:"Name,attr"`
		Categories []struct {
			Name     string `xml:"Name,attr"`
			Products []struct {
				Name   string `xml:"Name,attr"`
				Prices []struct {
					Duration     int    `xml:"Duration,attr"`
					DurationType string `xml:"DurationType,attr"`
					Price        string `xml:"Price,attr"`
					YourPrice    string `xml:"YourPrice,attr"`
				} `xml:"Price"`
			} `xml:"Product"`
		} `xml:"ProductCategory"`
	} `xml:"CommandResponse>UserGetPricingResult>ProductType"`
}

// Price implements service.PriceSource. Prices are cached per extension.
func (n *NamecheapSource) Price(ctx context.Context, domain string) (decimal.Decimal, error) {
	_, ext := entity.SplitDomain(domain)
	tld := entity.ExtensionKey(ext)
	if tld == "" {
		return decimal.Zero, fmt.Errorf("no extension in %q", domain)
	}

	n.mu.Lock()
	price, ok := n.cache[tld]
	n.mu.Unlock()
	if ok {
		return price, nil
	}

	price, err := n.fetch(ctx, tld)
	if err != nil {
		return decimal.Zero, err
	}

	n.mu.Lock()
	n.cache[tld] = price
	n.mu.Unlock()
	return price, nil
}

func (n *NamecheapSource) fetch(ctx context.Context, tld string) (decimal.Decimal, error) {
	if !n.config.Complete() {
		return decimal.Zero, fmt.Errorf("namecheap credentials are not configured")
	}

	params := url.Values{}
	params.Add("ApiUser", n.config.APIUser)
	params.Add("ApiKey", n.config.APIKey)
	params.Add("UserName", n.config.Username)
	params.Add("ClientIp", n.config.ClientIP)
	params.Add("Command", "namecheap.users.getPricing")
	params.Add("ProductType", "DOMAIN")
	params.Add("ProductCategory", "REGISTER")
	params.Add("ActionName", "REGISTER")
	params.Add("ProductName", strings.ToUpper(tld))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("namecheap request for %s: %w", tld, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read namecheap response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("namecheap returned status %d", resp.StatusCode)
	}

	return parseNamecheapPricing(body, tld)
}

func parseNamecheapPricing(body []byte, tld string) (decimal.Decimal, error) {
	var apiResponse namecheapPricingResponse
	cleaned := bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	if err := xml.Unmarshal(cleaned, &apiResponse); err != nil {
		return decimal.Zero, fmt.Errorf("parse namecheap pricing: %w", err)
	}
	if !strings.EqualFold(apiResponse.Status, "OK") {
		if len(apiResponse.Errors) > 0 {
			e := apiResponse.Errors[0]
			return decimal.Zero, fmt.Errorf("namecheap error %s: %s", e.Number, strings.TrimSpace(e.Message))
		}
		return decimal.Zero, fmt.Errorf("namecheap status %q", apiResponse.Status)
	}

	for _, pt := range apiResponse.ProductTypes {
		for _, cat := range pt.Categories {
			if !strings.EqualFold(cat.Name, "register") {
				continue
			}
			for _, product := range cat.Products {
				if !strings.EqualFold(product.Name, tld) {
					continue
				}
				for _, p := range product.Prices {
					if p.Duration != 1 || !strings.EqualFold(p.DurationType, "YEAR") {
						continue
					}
					raw := p.YourPrice
					if raw == "" {
						raw = p.Price
					}
					price, err := decimal.NewFromString(raw)
					if err != nil {
						return decimal.Zero, fmt.Errorf("parse namecheap price %q: %w", raw, err)
					}
					return price, nil
				}
			}
		}
	}
	return decimal.Zero, fmt.Errorf("namecheap has no one-year register price for %s", tld)
}
