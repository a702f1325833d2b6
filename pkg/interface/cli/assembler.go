package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/WangYihang/Domain-Hunter/pkg/application"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/service"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/availability"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/generator"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/metrics"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/pricing"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/storage"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/trend"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Assembler assembles all components for the application
type Assembler struct {
	config  *Config
	logger  *logrus.Logger
	metrics *metrics.Metrics

	store    repository.ResultStore
	filter   *storage.BloomFilter
	writer   *storage.ResultWriter
	checkLog *storage.CheckLogWriter
	logFile  *os.File
}

// NewAssembler creates a new assembler and configures logging
func NewAssembler(config *Config) (*Assembler, error) {
	a := &Assembler{
		config:  config,
		metrics: metrics.NewMetrics(prometheus.NewRegistry()),
	}
	if err := a.setupLogger(); err != nil {
		return nil, err
	}
	return a, nil
}

// Logger returns the configured application logger
func (a *Assembler) Logger() *logrus.Logger {
	return a.logger
}

// Metrics returns the Prometheus collectors shared by the hunt and the resolver
func (a *Assembler) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *Assembler) setupLogger() error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(a.config.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger.SetLevel(level)

	logPath := a.config.LogFile
	if logPath == "" && a.config.ShowDashboard {
		// The dashboard owns the terminal
		logPath = "domain-hunter.log"
	}

	var out io.Writer = os.Stderr
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		out = f
	}
	logger.SetOutput(out)

	a.logger = logger
	return nil
}

// AssembleStore opens the result store selected by --store
func (a *Assembler) AssembleStore(ctx context.Context) (repository.ResultStore, error) {
	if a.store != nil {
		return a.store, nil
	}

	var (
		store repository.ResultStore
		err   error
	)
	switch strings.ToLower(a.config.Store) {
	case "memory":
		store = storage.NewMemoryStore()
	case "sqlite":
		if dir := filepath.Dir(a.config.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
		store, err = storage.NewSQLiteStore(a.config.SQLitePath)
	case "postgres":
		store, err = storage.NewPostgresStore(ctx, a.config.PostgresDSN)
	case "json", "":
		store, err = storage.NewJSONFileStore(a.config.DataDir)
	default:
		return nil, fmt.Errorf("unknown store %q", a.config.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", a.config.Store, err)
	}

	a.logger.WithField("store", a.config.Store).Debug("result store opened")
	a.store = store
	return store, nil
}

// AssembleUseCase assembles the hunt use case with all dependencies
func (a *Assembler) AssembleUseCase(ctx context.Context) (*application.HuntUseCase, error) {
	store, err := a.AssembleStore(ctx)
	if err != nil {
		return nil, err
	}

	// Seen filter, loaded from the previous run if it exists
	a.filter = storage.NewBloomFilter(storage.Config{
		Size:              uint(a.config.BloomFilterSize),
		FalsePositiveRate: a.config.BloomFilterFP,
	})
	if err := a.filter.Load(a.config.BloomFilterFile); err != nil {
		a.logger.WithError(err).Warn("failed to load bloom filter")
	}

	a.writer, err = storage.NewResultWriter(a.config.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create result writer: %w", err)
	}

	resolver, err := a.assembleResolver()
	if err != nil {
		return nil, err
	}

	useCase := application.NewHuntUseCase(application.Dependencies{
		Generator: a.assembleGenerator(),
		Resolver:  resolver,
		Estimator: a.assembleEstimator(),
		Scorer:    a.assembleScorer(),
		Store:     store,
		Writer:    a.writer,
		Seen:      a.filter,
		Logger:    a.logger,
		Seed:      a.config.Seed,
	})
	useCase.RegisterObserver(a.metrics)

	return useCase, nil
}

func (a *Assembler) assembleGenerator() *generator.Generator {
	var trending service.TrendingSource
	if !a.config.SimulateTrend {
		trending = generator.NewRedditTrending(generator.RedditConfig{
			URL:     strings.TrimRight(a.config.RedditURL, "/") + "/r/all/hot.json?limit=50",
			Timeout: a.config.HTTPTimeoutDuration,
			Logger:  a.logger,
		})
	}
	return generator.NewGenerator(generator.Config{
		Trending: trending,
		Seed:     a.config.Seed,
	})
}

func (a *Assembler) assembleResolver() (*availability.Resolver, error) {
	if a.config.CheckLogFile != "" {
		checkLog, err := storage.NewCheckLogWriter(a.config.CheckLogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create check log: %w", err)
		}
		a.checkLog = checkLog
	}

	config := availability.ResolverConfig{
		MinDelay:      a.config.MinDelay,
		MaxDelay:      a.config.MaxDelay,
		RatePerSecond: a.config.Rate,
		OnCheck:       a.metrics.ObserveCheck,
		Logger:        a.logger,
		Seed:          a.config.Seed,
	}
	if a.checkLog != nil {
		config.CheckLog = a.checkLog
	}

	return availability.NewDefaultResolver(
		availability.WhoisConfig{Timeout: a.config.WhoisTimeoutDuration},
		availability.DNSConfig{Servers: a.config.DNSServers, Timeout: a.config.DNSTimeoutDuration},
		availability.HTTPConfig{Timeout: a.config.HTTPTimeoutDuration, UserAgent: a.config.UserAgent},
		config,
	), nil
}

func (a *Assembler) assembleEstimator() *pricing.Estimator {
	var sources []service.PriceSource

	namecheap := pricing.NamecheapConfigFromEnv(a.config.EnvFile)
	if namecheap.Complete() {
		namecheap.Timeout = a.config.HTTPTimeoutDuration
		sources = append(sources, pricing.NewNamecheapSource(namecheap))
	} else {
		a.logger.Debug("namecheap credentials not configured")
	}

	if a.config.Scrape {
		for _, sc := range pricing.DefaultScrapeConfigs() {
			sc.Timeout = a.config.HTTPTimeoutDuration
			sources = append(sources, pricing.NewScrapeSource(sc))
		}
	}

	return pricing.NewEstimator(pricing.Config{
		Sources: sources,
		Seed:    a.config.Seed,
		Logger:  a.logger,
	})
}

func (a *Assembler) assembleScorer() *trend.Scorer {
	config := trend.Config{Random: trend.NewRandom(a.config.Seed)}
	if !a.config.SimulateTrend {
		config.Social = trend.NewRedditSignal(trend.RedditConfig{
			BaseURL: strings.TrimRight(a.config.RedditURL, "/") + "/search.json",
			Timeout: a.config.HTTPTimeoutDuration,
			Logger:  a.logger,
		})
	}
	return trend.NewScorer(config)
}

// Close flushes and releases every assembled resource
func (a *Assembler) Close() error {
	var errs []error

	if a.filter != nil {
		if err := a.filter.Save(a.config.BloomFilterFile); err != nil {
			errs = append(errs, fmt.Errorf("failed to save bloom filter: %w", err))
		}
	}
	if a.writer != nil {
		if err := a.writer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close result writer: %w", err))
		}
	}
	if a.checkLog != nil {
		if err := a.checkLog.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close check log: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
