package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/generator"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/storage"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	names []string
}

func (g fakeGenerator) Generate(categories []string, limit int) []string {
	if limit < len(g.names) {
		return g.names[:limit]
	}
	return g.names
}

type fakeResolver struct {
	verdict entity.Verdict
	gate    chan struct{}
	panicOn string
	calls   atomic.Int64
}

func (r *fakeResolver) Resolve(ctx context.Context, domain string) entity.Verdict {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	if domain == r.panicOn {
		panic("resolver exploded")
	}
	return r.verdict
}

type fakeEstimator struct {
	prices map[string]string
	price  string
}

func (e fakeEstimator) Quote(ctx context.Context, domain string, config entity.HuntConfig) entity.PriceQuote {
	price := e.price
	if p, ok := e.prices[domain]; ok {
		price = p
	}
	quote, _ := entity.NewPriceQuote(map[string]decimal.Decimal{"fake": decimal.RequireFromString(price)}, nil)
	return quote
}

type fakeScorer struct {
	trend, brand, value int
}

func (s fakeScorer) TrendScore(ctx context.Context, keyword string) int { return s.trend }
func (s fakeScorer) Brandability(keyword string) int                   { return s.brand }
func (s fakeScorer) MarketValue(domain string, trendScore int) int     { return s.value }

type recordingObserver struct {
	mu          sync.Mutex
	progress    []entity.Progress
	results     []entity.DomainResult
	summaries   []entity.Summary
	storeErrors []error
	onResult    func()
}

func (o *recordingObserver) OnProgress(p entity.Progress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, p)
}

func (o *recordingObserver) OnResult(r entity.DomainResult) {
	o.mu.Lock()
	o.results = append(o.results, r)
	o.mu.Unlock()
	if o.onResult != nil {
		o.onResult()
	}
}

func (o *recordingObserver) OnFinish(s entity.Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.summaries = append(o.summaries, s)
}

func (o *recordingObserver) OnStoreError(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.storeErrors = append(o.storeErrors, err)
}

type failingStore struct {
	*storage.MemoryStore
}

func (s failingStore) Append(ctx context.Context, result entity.DomainResult) error {
	return errors.New("disk full")
}

func quietLogger() logrus.FieldLogger {
	logger, _ := test.NewNullLogger()
	return logger
}

func realConfig() entity.HuntConfig {
	return entity.HuntConfig{
		MaxPrice:        50,
		MaxCandidates:   100,
		MinTrendScore:   70,
		Extensions:      []string{".com"},
		Categories:      []string{"Tech"},
		UseRealChecking: true,
		UseRealPricing:  true,
		UseRealTrend:    true,
		Concurrency:     2,
	}
}

func TestHuntEndToEnd(t *testing.T) {
	resolver := &fakeResolver{verdict: entity.Available}
	store := storage.NewMemoryStore()
	uc := NewHuntUseCase(Dependencies{
		Generator: generator.NewGenerator(generator.Config{Seed: 1}),
		Resolver:  resolver,
		Estimator: fakeEstimator{price: "10.00"},
		Scorer:    fakeScorer{trend: 90, brand: 70, value: 5000},
		Store:     store,
		Logger:    quietLogger(),
		Seed:      1,
	})
	observer := &recordingObserver{}
	uc.RegisterObserver(observer)

	cfg := realConfig()
	cfg.MaxCandidates = 5
	cfg.PersistResults = true

	session, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)

	results := uc.Results(session, entity.ResultFilter{})
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, ".com", r.Extension)
		assert.Equal(t, 10.0, r.Price)
		assert.Equal(t, 90, r.TrendScore)
		assert.Equal(t, 70, r.BrandabilityScore)
		assert.Equal(t, 5000, r.MarketValue)
		assert.Equal(t, 50000.0, r.ROIPotential)
		assert.Equal(t, r.Keyword+".com", r.Domain)
	}

	progress := uc.Progress(session)
	assert.Equal(t, entity.StateCompleted, progress.State)
	assert.Equal(t, int64(5), progress.Checked)
	assert.Equal(t, int64(5), progress.Found)
	assert.Equal(t, 5, progress.TotalCandidates)
	assert.InDelta(t, 10.0, progress.AvgPrice, 1e-9)

	summary := uc.Summary(session)
	assert.Equal(t, int64(5), summary.Found)
	assert.InDelta(t, 50.0, summary.TotalInvestment, 1e-9)

	stored, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 5)

	searches, err := store.Searches(context.Background())
	require.NoError(t, err)
	require.Len(t, searches, 1)
	assert.Equal(t, session.ID.String(), searches[0].ID)
	assert.Equal(t, int64(5), searches[0].Found)

	observer.mu.Lock()
	defer observer.mu.Unlock()
	assert.Len(t, observer.results, 5)
	require.Len(t, observer.summaries, 1)
	assert.Equal(t, entity.StateCompleted, observer.summaries[0].State)
	last := observer.progress[len(observer.progress)-1]
	assert.Equal(t, entity.StateCompleted, last.State)
}

func TestHuntGate(t *testing.T) {
	tests := []struct {
		name     string
		minTrend int
		trend    int
		want     []string
	}{
		{name: "price gate", minTrend: 70, trend: 80, want: []string{"cheap.com"}},
		{name: "trend gate", minTrend: 90, trend: 80, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewHuntUseCase(Dependencies{
				Generator: fakeGenerator{names: []string{"cheap", "pricey"}},
				Resolver:  &fakeResolver{verdict: entity.Available},
				Estimator: fakeEstimator{prices: map[string]string{"cheap.com": "40", "pricey.com": "80"}},
				Scorer:    fakeScorer{trend: tt.trend, brand: 50, value: 1000},
				Logger:    quietLogger(),
			})
			cfg := realConfig()
			cfg.MinTrendScore = tt.minTrend

			session, err := uc.Run(context.Background(), cfg)
			require.NoError(t, err)

			var got []string
			for _, r := range session.Results() {
				got = append(got, r.Domain)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, int64(2), session.Progress().Checked)
		})
	}
}

func TestHuntRejectsTakenAndUnknown(t *testing.T) {
	for _, verdict := range []entity.Verdict{entity.Taken, entity.Unknown} {
		t.Run(verdict.String(), func(t *testing.T) {
			uc := NewHuntUseCase(Dependencies{
				Generator: fakeGenerator{names: []string{"alpha", "beta"}},
				Resolver:  &fakeResolver{verdict: verdict},
				Estimator: fakeEstimator{price: "1"},
				Scorer:    fakeScorer{trend: 100, brand: 100, value: 100},
				Logger:    quietLogger(),
			})
			session, err := uc.Run(context.Background(), realConfig())
			require.NoError(t, err)
			assert.Empty(t, session.Results())
			assert.Equal(t, int64(2), session.Progress().Checked)
		})
	}
}

func TestHuntCancel(t *testing.T) {
	names := make([]string, 1000)
	for i := range names {
		names[i] = fmt.Sprintf("name%d", i)
	}
	resolver := &fakeResolver{verdict: entity.Available, gate: make(chan struct{})}
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: names},
		Resolver:  resolver,
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90, brand: 70, value: 5000},
		Logger:    quietLogger(),
	})

	var sessionPtr atomic.Pointer[HuntSession]
	observer := &recordingObserver{onResult: func() {
		uc.Cancel(sessionPtr.Load())
	}}
	uc.RegisterObserver(observer)

	cfg := realConfig()
	cfg.MaxCandidates = 1000
	cfg.Concurrency = 1

	session, err := uc.Start(context.Background(), cfg)
	require.NoError(t, err)
	sessionPtr.Store(session)
	close(resolver.gate)

	select {
	case <-session.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("hunt did not stop after cancel")
	}

	assert.Equal(t, entity.StateCancelled, session.State())
	assert.GreaterOrEqual(t, len(session.Results()), 1)
	assert.Equal(t, int64(1), resolver.calls.Load())
	assert.Equal(t, int64(1), session.Progress().Checked)
}

func TestHuntContextCancelled(t *testing.T) {
	resolver := &fakeResolver{verdict: entity.Available}
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"a", "b", "c"}},
		Resolver:  resolver,
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90},
		Logger:    quietLogger(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session, err := uc.Run(ctx, realConfig())
	require.NoError(t, err)
	assert.Equal(t, entity.StateCancelled, session.State())
	assert.Zero(t, resolver.calls.Load())
}

func TestHuntRecoversPanics(t *testing.T) {
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"boom", "fine"}},
		Resolver:  &fakeResolver{verdict: entity.Available, panicOn: "boom.com"},
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90, brand: 60, value: 100},
		Logger:    quietLogger(),
	})
	session, err := uc.Run(context.Background(), realConfig())
	require.NoError(t, err)

	results := session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "fine.com", results[0].Domain)
	assert.Equal(t, int64(2), session.Progress().Checked)
	assert.Equal(t, entity.StateCompleted, session.State())
}

func TestHuntStoreFailureKeepsResult(t *testing.T) {
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"alpha"}},
		Resolver:  &fakeResolver{verdict: entity.Available},
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90, brand: 60, value: 100},
		Store:     failingStore{storage.NewMemoryStore()},
		Logger:    quietLogger(),
	})
	observer := &recordingObserver{}
	uc.RegisterObserver(observer)

	cfg := realConfig()
	cfg.PersistResults = true
	session, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Len(t, session.Results(), 1)
	observer.mu.Lock()
	defer observer.mu.Unlock()
	assert.Len(t, observer.storeErrors, 1)
}

func TestHuntWritesResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	writer, err := storage.NewResultWriter(path)
	require.NoError(t, err)

	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"alpha", "beta"}},
		Resolver:  &fakeResolver{verdict: entity.Available},
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90, brand: 60, value: 100},
		Writer:    writer,
		Logger:    quietLogger(),
	})
	_, err = uc.Run(context.Background(), realConfig())
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
	}
	assert.Equal(t, 2, lines)
}

func TestHuntSkipSeen(t *testing.T) {
	seen := storage.NewBloomFilter(storage.Config{Size: 1000})
	resolver := &fakeResolver{verdict: entity.Available}
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"alpha", "beta"}},
		Resolver:  resolver,
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90, brand: 60, value: 100},
		Seen:      seen,
		Logger:    quietLogger(),
	})

	cfg := realConfig()
	first, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, first.Results(), 2)
	assert.True(t, seen.Contains("alpha.com"))

	cfg.SkipSeen = true
	second, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, second.Results())
	assert.Equal(t, int64(2), resolver.calls.Load())
	assert.Equal(t, int64(2), second.Progress().Checked)
}

func TestHuntSimulatedMode(t *testing.T) {
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"alpha", "beta", "gamma"}},
		Scorer:    fakeScorer{brand: 60, value: 100},
		Logger:    quietLogger(),
		Seed:      7,
	})
	cfg := entity.HuntConfig{
		MaxPrice:                  50,
		MaxCandidates:             10,
		MinTrendScore:             70,
		Extensions:                []string{"com", ".io"},
		Categories:                []string{"Tech"},
		SimulatedAvailabilityRate: 1,
	}
	session, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)

	results := session.Results()
	require.Len(t, results, 6)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Price, 10.0)
		assert.LessOrEqual(t, r.Price, 50.0)
		assert.GreaterOrEqual(t, r.TrendScore, 70)
		assert.LessOrEqual(t, r.TrendScore, 100)
	}
}

func TestHuntEmptyExtensionsCompletesImmediately(t *testing.T) {
	resolver := &fakeResolver{verdict: entity.Available}
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"alpha"}},
		Resolver:  resolver,
		Estimator: fakeEstimator{price: "10"},
		Scorer:    fakeScorer{trend: 90},
		Logger:    quietLogger(),
	})
	cfg := realConfig()
	cfg.Extensions = nil

	session, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCompleted, session.State())
	assert.Zero(t, session.Progress().Checked)
	assert.Zero(t, session.Progress().TotalCandidates)
	assert.Zero(t, resolver.calls.Load())
}

func TestHuntStartValidation(t *testing.T) {
	tests := []struct {
		name   string
		deps   Dependencies
		mutate func(*entity.HuntConfig)
	}{
		{
			name:   "invalid trend",
			deps:   Dependencies{Generator: fakeGenerator{}, Scorer: fakeScorer{}, Resolver: &fakeResolver{}, Estimator: fakeEstimator{}},
			mutate: func(c *entity.HuntConfig) { c.MinTrendScore = 150 },
		},
		{
			name:   "missing resolver",
			deps:   Dependencies{Generator: fakeGenerator{}, Scorer: fakeScorer{}, Estimator: fakeEstimator{}},
			mutate: func(c *entity.HuntConfig) {},
		},
		{
			name:   "missing generator",
			deps:   Dependencies{Scorer: fakeScorer{}, Resolver: &fakeResolver{}, Estimator: fakeEstimator{}},
			mutate: func(c *entity.HuntConfig) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.deps.Logger = quietLogger()
			uc := NewHuntUseCase(tt.deps)
			cfg := realConfig()
			tt.mutate(&cfg)
			_, err := uc.Start(context.Background(), cfg)
			assert.Error(t, err)
		})
	}
}

func TestHuntGateUsesRoundedPrice(t *testing.T) {
	uc := NewHuntUseCase(Dependencies{
		Generator: fakeGenerator{names: []string{"edge"}},
		Resolver:  &fakeResolver{verdict: entity.Available},
		Estimator: fakeEstimator{price: "49.9951"},
		Scorer:    fakeScorer{trend: 90, brand: 60, value: 100},
		Logger:    quietLogger(),
	})
	cfg := realConfig()
	cfg.MaxPrice = 49.9952

	session, err := uc.Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, session.Results(), "49.9951 rounds to 50.00, above the cap")

	cfg.MaxPrice = 50
	session, err = uc.Run(context.Background(), cfg)
	require.NoError(t, err)
	results := session.Results()
	require.Len(t, results, 1)
	assert.Equal(t, 50.0, results[0].Price)
	assert.LessOrEqual(t, results[0].Price, cfg.MaxPrice)
}
