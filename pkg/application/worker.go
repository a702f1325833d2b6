package application

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/sirupsen/logrus"
)

// processCandidate runs every extension of one candidate and counts it as checked
func (uc *HuntUseCase) processCandidate(ctx context.Context, session *HuntSession, candidate string) {
	// The slot may have been granted after a cancel
	if uc.stopRequested(ctx, session) {
		return
	}

	for _, ext := range session.Config.Extensions {
		if uc.stopRequested(ctx, session) {
			break
		}

		domain := entity.DomainCandidate{Name: candidate, Extension: ext}
		session.setCurrent(domain.FQDN())

		result, ok, err := uc.safeProcessDomain(ctx, session.Config, domain)
		if err != nil {
			uc.logger.WithError(err).WithField("domain", domain.FQDN()).Warn("domain pipeline failed")
			continue
		}
		if ok {
			uc.accept(ctx, session, result)
		}
	}

	session.markChecked()
	uc.notifyProgress(session)
}

// safeProcessDomain converts a panic anywhere in the pipeline into "not found"
func (uc *HuntUseCase) safeProcessDomain(ctx context.Context, config entity.HuntConfig, domain entity.DomainCandidate) (result entity.DomainResult, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			result, ok, err = entity.DomainResult{}, false, fmt.Errorf("panic: %v", p)
		}
	}()
	result, ok = uc.processDomain(ctx, config, domain)
	return result, ok, nil
}

// processDomain resolves, prices, scores and gates a single domain
func (uc *HuntUseCase) processDomain(ctx context.Context, config entity.HuntConfig, domain entity.DomainCandidate) (entity.DomainResult, bool) {
	fqdn := domain.FQDN()
	log := uc.logger.WithField("domain", fqdn)

	if uc.seen != nil {
		if config.SkipSeen && uc.seen.Contains(fqdn) {
			log.Debug("skipping domain seen in an earlier run")
			return entity.DomainResult{}, false
		}
		uc.seen.Add(fqdn)
	}

	var verdict entity.Verdict
	if config.UseRealChecking {
		verdict = uc.resolver.Resolve(ctx, fqdn)
	} else if uc.float64() < config.SimulatedAvailabilityRate {
		verdict = entity.Available
	} else {
		verdict = entity.Taken
	}
	if verdict != entity.Available {
		return entity.DomainResult{}, false
	}

	var price float64
	if config.UseRealPricing {
		quote := uc.estimator.Quote(ctx, fqdn, config)
		price, _ = quote.Price.Float64()
		log = log.WithField("source", quote.Source)
	} else {
		price = uc.uniform(10, config.MaxPrice)
	}
	// Gate on the stored, cent-rounded price
	price = math.Round(price*100) / 100

	var trendScore int
	if config.UseRealTrend {
		trendScore = uc.scorer.TrendScore(ctx, domain.Name)
	} else {
		trendScore = uc.intRange(config.MinTrendScore, 100)
	}

	if !config.Accepts(price, trendScore) {
		log.WithFields(logrus.Fields{"price": price, "trend": trendScore}).Debug("available but rejected by gate")
		return entity.DomainResult{}, false
	}

	scores := entity.ScoreBundle{
		TrendScore:        trendScore,
		BrandabilityScore: uc.scorer.Brandability(domain.Name),
		MarketValue:       uc.scorer.MarketValue(fqdn, trendScore),
	}
	return entity.NewDomainResult(domain, price, scores, time.Now()), true
}

// accept records a result on the session and forwards it to the sinks
func (uc *HuntUseCase) accept(ctx context.Context, session *HuntSession, result entity.DomainResult) {
	session.addResult(result)
	uc.logger.WithFields(logrus.Fields{
		"domain": result.Domain,
		"price":  result.Price,
		"trend":  result.TrendScore,
		"roi":    result.ROIPotential,
	}).Info("found domain")

	if uc.writer != nil {
		if err := uc.writer.Write(result); err != nil {
			uc.logger.WithError(err).Warn("failed to write result")
		}
	}

	if session.Config.PersistResults && uc.store != nil {
		if err := uc.store.Append(context.WithoutCancel(ctx), result); err != nil {
			uc.logger.WithError(err).WithField("domain", result.Domain).Warn("failed to persist result")
			uc.notifyStoreError(err)
		}
	}

	uc.notifyResult(result)
}
