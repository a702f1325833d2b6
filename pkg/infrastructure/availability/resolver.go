package availability

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/service"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Resolver implements service.AvailabilityResolver as an ordered, fail-closed chain of checkers
type Resolver struct {
	checkers      []service.AvailabilityChecker
	methodTimeout time.Duration
	minDelay      time.Duration
	maxDelay      time.Duration
	limiter       *rate.Limiter
	checkLog      repository.CheckLogWriter
	onCheck       func(entity.CheckRecord)
	logger        logrus.FieldLogger

	mu  sync.Mutex
	rng *rand.Rand
}

// ResolverConfig holds resolver configuration
type ResolverConfig struct {
	Checkers []service.AvailabilityChecker
	// MethodTimeout bounds every single checker call
	MethodTimeout time.Duration
	// MinDelay and MaxDelay bound the random courtesy delay before each method
	MinDelay time.Duration
	MaxDelay time.Duration
	// RatePerSecond limits method invocations across all workers; <= 0 disables limiting
	RatePerSecond float64
	CheckLog      repository.CheckLogWriter
	OnCheck       func(entity.CheckRecord)
	Logger        logrus.FieldLogger
	Seed          int64
}

// NewResolver creates a new availability resolver
func NewResolver(config ResolverConfig) *Resolver {
	if config.MethodTimeout <= 0 {
		config.MethodTimeout = 5 * time.Second
	}
	if config.MaxDelay < config.MinDelay {
		config.MaxDelay = config.MinDelay
	}
	if config.Logger == nil {
		config.Logger = logrus.StandardLogger()
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}

	var limiter *rate.Limiter
	if config.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RatePerSecond), 1)
	}

	return &Resolver{
		checkers:      config.Checkers,
		methodTimeout: config.MethodTimeout,
		minDelay:      config.MinDelay,
		maxDelay:      config.MaxDelay,
		limiter:       limiter,
		checkLog:      config.CheckLog,
		onCheck:       config.OnCheck,
		logger:        config.Logger,
		rng:           rand.New(rand.NewSource(config.Seed)),
	}
}

// NewDefaultResolver chains WHOIS, DNS and HTTP checkers
func NewDefaultResolver(whoisConfig WhoisConfig, dnsConfig DNSConfig, httpConfig HTTPConfig, config ResolverConfig) *Resolver {
	config.Checkers = []service.AvailabilityChecker{
		NewWhoisChecker(whoisConfig),
		NewDNSChecker(dnsConfig),
		NewHTTPChecker(httpConfig),
	}
	return NewResolver(config)
}

// Resolve implements service.AvailabilityResolver. It never returns Unknown.
func (r *Resolver) Resolve(ctx context.Context, domain string) entity.Verdict {
	log := r.logger.WithField("domain", domain)

	for _, checker := range r.checkers {
		if ctx.Err() != nil {
			break
		}
		if err := r.wait(ctx); err != nil {
			break
		}

		verdict, err := r.check(ctx, checker, domain)
		if err != nil {
			log.WithError(err).WithField("method", checker.Name()).Debug("availability check inconclusive")
		}
		if verdict.IsConclusive() {
			log.WithField("method", checker.Name()).Debugf("domain is %s", verdict)
			return verdict
		}
	}

	log.Debug("no conclusive availability signal, assuming taken")
	return entity.Taken
}

// check runs a single checker under the method timeout, converting panics into Unknown
func (r *Resolver) check(ctx context.Context, checker service.AvailabilityChecker, domain string) (verdict entity.Verdict, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.methodTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			verdict = entity.Unknown
			err = fmt.Errorf("%s checker panicked: %v", checker.Name(), p)
		}
		r.record(domain, checker.Name(), verdict, err, start)
	}()

	return checker.Check(ctx, domain)
}

func (r *Resolver) record(domain, method string, verdict entity.Verdict, err error, start time.Time) {
	if r.checkLog == nil && r.onCheck == nil {
		return
	}
	record := entity.CheckRecord{
		Domain:    domain,
		Method:    method,
		Verdict:   verdict.String(),
		RTTMs:     time.Since(start).Milliseconds(),
		CheckedAt: start,
	}
	if err != nil {
		record.Error = err.Error()
	}
	if r.onCheck != nil {
		r.onCheck(record)
	}
	if r.checkLog != nil {
		if werr := r.checkLog.WriteCheck(record); werr != nil {
			r.logger.WithError(werr).Warn("failed to write check log")
		}
	}
}

// wait applies the rate limit and the random courtesy delay
func (r *Resolver) wait(ctx context.Context) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	delay := r.jitter()
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Resolver) jitter() time.Duration {
	if r.maxDelay <= 0 {
		return 0
	}
	span := r.maxDelay - r.minDelay
	if span <= 0 {
		return r.minDelay
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minDelay + time.Duration(r.rng.Int63n(int64(span)+1))
}
