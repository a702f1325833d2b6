package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/version"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Hunt
	MaxPrice         float64  `long:"max-price" description:"Maximum purchase price in USD" default:"50"`
	MaxCandidates    int      `long:"max-candidates" description:"Maximum number of generated keywords" default:"2000"`
	MinTrend         int      `long:"min-trend" description:"Minimum trend score (0-100)" default:"70"`
	Extensions       []string `short:"e" long:"extension" description:"Extension to check (repeatable)" default:".com" default:".ai" default:".io"`
	Categories       []string `short:"c" long:"category" description:"Keyword category (repeatable)" default:"Tech" default:"AI/ML" default:"Trending"`
	SimulateChecking bool     `long:"simulate-checking" description:"Draw availability at random instead of querying WHOIS/DNS/HTTP"`
	SimulatePricing  bool     `long:"simulate-pricing" description:"Draw prices at random instead of asking registrars"`
	SimulateTrend    bool     `long:"simulate-trend" description:"Draw trend scores at random instead of computing them"`
	NoSave           bool     `long:"no-save" description:"Do not persist results to the store"`
	Workers          int      `long:"workers" description:"Number of concurrent domain pipelines" default:"3"`
	AvailabilityRate float64  `long:"availability-rate" description:"Share of domains reported available in simulated mode" default:"0.08"`
	Seed             int64    `long:"seed" description:"Seed for simulated draws (0 uses the clock)" default:"0"`

	// Availability
	DNSTimeout   int      `long:"dns-timeout" description:"DNS query timeout in seconds" default:"5"`
	HTTPTimeout  int      `long:"http-timeout" description:"HTTP probe timeout in seconds" default:"10"`
	WhoisTimeout int      `long:"whois-timeout" description:"WHOIS query timeout in seconds" default:"10"`
	DNSServers   []string `long:"dns-server" description:"DNS server host:port (repeatable)" default:"8.8.8.8:53" default:"1.1.1.1:53"`
	MinDelayMs   int      `long:"min-delay-ms" description:"Minimum courtesy delay before each check" default:"100"`
	MaxDelayMs   int      `long:"max-delay-ms" description:"Maximum courtesy delay before each check" default:"500"`
	Rate         float64  `long:"rate" description:"Maximum availability checks per second across workers (0 disables)" default:"5"`
	UserAgent    string   `long:"user-agent" description:"HTTP User-Agent header (defaults to DomainHunter/<version>)"`
	CheckLogFile string   `long:"check-log" description:"JSONL log of every availability check"`

	// Pricing
	EnvFile string `long:"env-file" description:"Dotenv file with NAMECHEAP_* credentials" default:".env"`
	Scrape  bool   `long:"scrape" description:"Scrape registrar search pages for prices"`

	// Trend
	RedditURL string `long:"reddit-url" description:"Reddit base URL for social and trending signals" default:"https://www.reddit.com"`

	// Storage
	Store       string `long:"store" description:"Result store" choice:"json" choice:"sqlite" choice:"postgres" choice:"memory" default:"json"`
	DataDir     string `long:"data-dir" description:"Directory of the JSON store" default:"data"`
	SQLitePath  string `long:"sqlite-path" description:"SQLite database file" default:"data/domains.db"`
	PostgresDSN string `long:"postgres-dsn" description:"PostgreSQL connection string" env:"DOMAIN_HUNTER_POSTGRES_DSN"`

	// Dedup
	BloomFilterSize uint64  `long:"bloom-size" description:"Bloom filter size (number of expected elements)" default:"1000000"`
	BloomFilterFP   float64 `long:"bloom-fp" description:"Bloom filter false positive rate" default:"0.001"`
	BloomFilterFile string  `long:"bloom-file" description:"Bloom filter persistence file" default:"seen.filter"`
	SkipSeen        bool    `long:"skip-seen" description:"Skip domains checked in earlier runs"`

	// Output
	OutputFile string `short:"o" long:"output" description:"JSONL file receiving results as they are found" default:"result.jsonl"`
	ExportCSV  string `long:"export-csv" description:"Write the results of this hunt to a CSV file"`
	ExportJSON string `long:"export-json" description:"Write the results of this hunt to a JSON file"`
	ExportXLSX string `long:"export-xlsx" description:"Write the results of this hunt to an XLSX workbook"`

	// Subactions
	Stats  bool `long:"stats" description:"Print aggregate statistics of the store and exit"`
	Clear  bool `long:"clear" description:"Delete every stored result and exit"`
	Recent int  `long:"recent" description:"Print the N most recent stored results and exit" default:"0"`

	// UI
	ShowDashboard bool   `long:"dashboard" description:"Show interactive TUI dashboard"`
	MetricsAddr   string `long:"metrics-addr" description:"Serve Prometheus metrics on this address (e.g. :9090)"`
	LogLevel      string `long:"log-level" description:"Log level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	LogFile       string `long:"log-file" description:"Write logs to this file instead of stderr"`
	Version       bool   `short:"v" long:"version" description:"Print the version and exit"`

	DNSTimeoutDuration   time.Duration
	HTTPTimeoutDuration  time.Duration
	WhoisTimeoutDuration time.Duration
	MinDelay             time.Duration
	MaxDelay             time.Duration
}

// ParseFlags parses command line flags
func ParseFlags() (*Config, error) {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			// Help has been printed by the library, exit cleanly
			os.Exit(0)
		}
		return nil, err
	}
	return cfg, nil
}

func parseArgs(args []string) (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	// Convert timeouts
	cfg.DNSTimeoutDuration = time.Duration(cfg.DNSTimeout) * time.Second
	cfg.HTTPTimeoutDuration = time.Duration(cfg.HTTPTimeout) * time.Second
	cfg.WhoisTimeoutDuration = time.Duration(cfg.WhoisTimeout) * time.Second
	cfg.MinDelay = time.Duration(cfg.MinDelayMs) * time.Millisecond
	cfg.MaxDelay = time.Duration(cfg.MaxDelayMs) * time.Millisecond

	if cfg.UserAgent == "" {
		cfg.UserAgent = version.Current().UserAgent()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.HuntConfig().Validate(); err != nil {
		return fmt.Errorf("invalid hunt options: %w", err)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("number of workers must be > 0, got %d", c.Workers)
	}

	if c.DNSTimeoutDuration <= 0 {
		return fmt.Errorf("DNS timeout must be > 0, got %s", c.DNSTimeoutDuration)
	}

	if c.HTTPTimeoutDuration <= 0 {
		return fmt.Errorf("HTTP timeout must be > 0, got %s", c.HTTPTimeoutDuration)
	}

	if c.WhoisTimeoutDuration <= 0 {
		return fmt.Errorf("WHOIS timeout must be > 0, got %s", c.WhoisTimeoutDuration)
	}

	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("delay range must satisfy 0 <= min <= max, got %s..%s", c.MinDelay, c.MaxDelay)
	}

	if c.Rate < 0 {
		return fmt.Errorf("rate must be >= 0, got %v", c.Rate)
	}

	if c.Recent < 0 {
		return fmt.Errorf("recent must be >= 0, got %d", c.Recent)
	}

	if c.Store == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("the postgres store needs --postgres-dsn")
	}

	if c.BloomFilterFP <= 0 || c.BloomFilterFP >= 1 {
		return fmt.Errorf("bloom filter false positive rate must be between 0 and 1, got %f", c.BloomFilterFP)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// HuntConfig maps the flags onto the options of a single hunt
func (c *Config) HuntConfig() entity.HuntConfig {
	return entity.HuntConfig{
		MaxPrice:                  c.MaxPrice,
		MaxCandidates:             c.MaxCandidates,
		MinTrendScore:             c.MinTrend,
		Extensions:                c.Extensions,
		Categories:                c.Categories,
		UseRealChecking:           !c.SimulateChecking,
		UseRealPricing:            !c.SimulatePricing,
		UseRealTrend:              !c.SimulateTrend,
		PersistResults:            !c.NoSave,
		Concurrency:               c.Workers,
		SimulatedAvailabilityRate: c.AvailabilityRate,
		SkipSeen:                  c.SkipSeen,
	}.Normalized()
}

// IsSubaction reports whether the run only inspects or clears the store
func (c *Config) IsSubaction() bool {
	return c.Stats || c.Clear || c.Recent > 0
}
