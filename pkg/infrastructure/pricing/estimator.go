package pricing

import (
	"context"
	"fmt"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/service"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Estimator implements service.PriceEstimator
type Estimator struct {
	sources   []service.PriceSource
	simulated *Simulated
	logger    logrus.FieldLogger
}

// Config holds estimator configuration
type Config struct {
	// Sources are consulted in order when real pricing is enabled
	Sources []service.PriceSource
	Seed    int64
	Logger  logrus.FieldLogger
}

// NewEstimator creates a new price estimator
func NewEstimator(config Config) *Estimator {
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	return &Estimator{
		sources:   config.Sources,
		simulated: NewSimulated(config.Seed),
		logger:    config.Logger,
	}
}

// Quote implements service.PriceEstimator. It falls back to simulation when real
// pricing is off or every source fails.
func (e *Estimator) Quote(ctx context.Context, domain string, config entity.HuntConfig) entity.PriceQuote {
	if config.UseRealPricing && len(e.sources) > 0 {
		if quote, ok := e.realQuote(ctx, domain); ok {
			return quote
		}
		e.logger.WithField("domain", domain).Debug("no price source answered, using simulated price")
	}
	return e.simulated.Quote(domain)
}

func (e *Estimator) realQuote(ctx context.Context, domain string) (entity.PriceQuote, bool) {
	prices := make(map[string]decimal.Decimal, len(e.sources))
	order := make([]string, 0, len(e.sources))

	for _, source := range e.sources {
		if ctx.Err() != nil {
			break
		}
		price, err := safePrice(ctx, source, domain)
		log := e.logger.WithField("domain", domain).WithField("source", source.Name())
		if err != nil {
			log.WithError(err).Debug("price source failed")
			continue
		}
		if price.IsNegative() {
			log.Debugf("dropping negative price %s", price)
			continue
		}
		if _, dup := prices[source.Name()]; dup {
			continue
		}
		prices[source.Name()] = price
		order = append(order, source.Name())
	}

	return entity.NewPriceQuote(prices, order)
}

func safePrice(ctx context.Context, source service.PriceSource, domain string) (price decimal.Decimal, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("price source %s panicked: %v", source.Name(), p)
		}
	}()
	return source.Price(ctx, domain)
}
