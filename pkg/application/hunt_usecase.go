package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/service"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// HuntObserver observes a running hunt
type HuntObserver interface {
	OnProgress(progress entity.Progress)
	OnResult(result entity.DomainResult)
}

// FinishObserver is notified once when a hunt reaches a terminal state
type FinishObserver interface {
	OnFinish(summary entity.Summary)
}

// StoreErrorObserver is notified when a result could not be persisted
type StoreErrorObserver interface {
	OnStoreError(err error)
}

// HuntUseCase orchestrates generation, availability, pricing, scoring and filtering
type HuntUseCase struct {
	// Services
	generator service.KeywordGenerator
	resolver  service.AvailabilityResolver
	estimator service.PriceEstimator
	scorer    service.Scorer

	// Repositories
	store  repository.ResultStore
	writer repository.ResultWriter
	seen   repository.SeenFilter

	observers []HuntObserver
	logger    logrus.FieldLogger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Dependencies holds the collaborators of the use case. Store, Writer and Seen are optional.
type Dependencies struct {
	Generator service.KeywordGenerator
	Resolver  service.AvailabilityResolver
	Estimator service.PriceEstimator
	Scorer    service.Scorer
	Store     repository.ResultStore
	Writer    repository.ResultWriter
	Seen      repository.SeenFilter
	Logger    logrus.FieldLogger
	// Seed drives the simulated draws; 0 seeds from the clock
	Seed int64
}

// NewHuntUseCase creates a new hunt use case
func NewHuntUseCase(deps Dependencies) *HuntUseCase {
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.Seed == 0 {
		deps.Seed = time.Now().UnixNano()
	}
	return &HuntUseCase{
		generator: deps.Generator,
		resolver:  deps.Resolver,
		estimator: deps.Estimator,
		scorer:    deps.Scorer,
		store:     deps.Store,
		writer:    deps.Writer,
		seen:      deps.Seen,
		logger:    deps.Logger,
		rng:       rand.New(rand.NewSource(deps.Seed)),
	}
}

// RegisterObserver registers a hunt observer
func (uc *HuntUseCase) RegisterObserver(observer HuntObserver) {
	uc.observers = append(uc.observers, observer)
}

// Start validates the config, generates the candidates and runs the hunt in the background
func (uc *HuntUseCase) Start(ctx context.Context, config entity.HuntConfig) (*HuntSession, error) {
	config = config.Normalized()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid hunt config: %w", err)
	}
	if err := uc.checkDependencies(config); err != nil {
		return nil, err
	}

	var candidates []string
	if len(config.Extensions) > 0 {
		candidates = uc.generator.Generate(config.Categories, config.MaxCandidates)
	}

	session := newHuntSession(config, candidates)
	session.start()
	uc.logger.WithFields(logrus.Fields{
		"session":    session.ID.String(),
		"candidates": len(candidates),
		"extensions": config.Extensions,
	}).Info("hunt started")
	uc.notifyProgress(session)

	go uc.run(ctx, session)
	return session, nil
}

// Run starts a hunt and waits for it to finish
func (uc *HuntUseCase) Run(ctx context.Context, config entity.HuntConfig) (*HuntSession, error) {
	session, err := uc.Start(ctx, config)
	if err != nil {
		return nil, err
	}
	session.Wait()
	return session, nil
}

// Cancel stops a hunt cooperatively; in-flight domains finish
func (uc *HuntUseCase) Cancel(session *HuntSession) {
	session.Cancel()
}

// Progress returns the current counters of a hunt
func (uc *HuntUseCase) Progress(session *HuntSession) entity.Progress {
	return session.Progress()
}

// Results returns the accepted results matching filter, best ROI first
func (uc *HuntUseCase) Results(session *HuntSession, filter entity.ResultFilter) []entity.DomainResult {
	return filter.Apply(session.Results())
}

// Summary returns the final aggregates of a hunt
func (uc *HuntUseCase) Summary(session *HuntSession) entity.Summary {
	return session.Summary()
}

func (uc *HuntUseCase) checkDependencies(config entity.HuntConfig) error {
	var errs []error
	if uc.generator == nil {
		errs = append(errs, errors.New("keyword generator is required"))
	}
	if uc.scorer == nil {
		errs = append(errs, errors.New("scorer is required"))
	}
	if config.UseRealChecking && uc.resolver == nil {
		errs = append(errs, errors.New("real checking needs an availability resolver"))
	}
	if config.UseRealPricing && uc.estimator == nil {
		errs = append(errs, errors.New("real pricing needs a price estimator"))
	}
	return errors.Join(errs...)
}

// run drives the candidate loop on a bounded pool and finalizes the session
func (uc *HuntUseCase) run(ctx context.Context, session *HuntSession) {
	defer uc.finish(session)

	g := new(errgroup.Group)
	g.SetLimit(session.Config.Concurrency)

	for _, candidate := range session.candidates {
		if uc.stopRequested(ctx, session) {
			break
		}
		g.Go(func() error {
			uc.processCandidate(ctx, session, candidate)
			return nil
		})
	}
	_ = g.Wait()
}

func (uc *HuntUseCase) stopRequested(ctx context.Context, session *HuntSession) bool {
	if ctx.Err() != nil {
		session.Cancel()
	}
	return session.Cancelled()
}

func (uc *HuntUseCase) finish(session *HuntSession) {
	session.finish()
	defer session.release()
	summary := session.Summary()

	uc.logger.WithFields(logrus.Fields{
		"session": session.ID.String(),
		"state":   summary.State.String(),
		"checked": summary.Checked,
		"found":   summary.Found,
	}).Info("hunt finished")

	if uc.writer != nil {
		if err := uc.writer.Flush(); err != nil {
			uc.logger.WithError(err).Warn("failed to flush result writer")
		}
	}

	if session.Config.PersistResults {
		if recorder, ok := uc.store.(repository.SearchRecorder); ok {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := recorder.SaveSearch(ctx, session.Record()); err != nil {
				uc.logger.WithError(err).Warn("failed to save search record")
			}
			cancel()
		}
	}

	uc.notifyProgress(session)
	for _, observer := range uc.observers {
		if fo, ok := observer.(FinishObserver); ok {
			fo.OnFinish(summary)
		}
	}
}

func (uc *HuntUseCase) notifyProgress(session *HuntSession) {
	progress := session.Progress()
	for _, observer := range uc.observers {
		observer.OnProgress(progress)
	}
}

func (uc *HuntUseCase) notifyResult(result entity.DomainResult) {
	for _, observer := range uc.observers {
		observer.OnResult(result)
	}
}

func (uc *HuntUseCase) notifyStoreError(err error) {
	for _, observer := range uc.observers {
		if so, ok := observer.(StoreErrorObserver); ok {
			so.OnStoreError(err)
		}
	}
}

// float64 draws from [0,1)
func (uc *HuntUseCase) float64() float64 {
	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return uc.rng.Float64()
}

// uniform draws from [lo,hi]
func (uc *HuntUseCase) uniform(lo, hi float64) float64 {
	return lo + uc.float64()*(hi-lo)
}

// intRange draws from [lo,hi]
func (uc *HuntUseCase) intRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	uc.rngMu.Lock()
	defer uc.rngMu.Unlock()
	return lo + uc.rng.Intn(hi-lo+1)
}
