package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloomFilter_Basic(t *testing.T) {
	filter := NewBloomFilter(Config{
		Size:              1000,
		FalsePositiveRate: 0.01,
	})

	testDomain := "quicklab.com"

	if filter.Contains(testDomain) {
		t.Errorf("Filter should not contain %s initially", testDomain)
	}

	filter.Add(testDomain)

	if !filter.Contains(testDomain) {
		t.Errorf("Filter should contain %s after Add", testDomain)
	}
	if !filter.Contains("QuickLab.com") {
		t.Errorf("Filter lookups should be case-insensitive")
	}
}

func TestBloomFilter_SaveLoad(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "seen.filter")

	filter1 := NewBloomFilter(Config{
		Size:              1000,
		FalsePositiveRate: 0.01,
	})

	testDomains := []string{"quicklab.com", "neural.ai", "cloudhub.io"}
	for _, d := range testDomains {
		filter1.Add(d)
	}

	if err := filter1.Save(tmpFile); err != nil {
		t.Fatalf("Failed to save filter: %v", err)
	}

	filter2 := NewBloomFilter(Config{
		Size:              1000,
		FalsePositiveRate: 0.01,
	})

	if err := filter2.Load(tmpFile); err != nil {
		t.Fatalf("Failed to load filter: %v", err)
	}

	for _, d := range testDomains {
		if !filter2.Contains(d) {
			t.Errorf("Loaded filter should contain %s", d)
		}
	}
}

func TestBloomFilter_LoadMissingFile(t *testing.T) {
	filter := NewBloomFilter(Config{})
	assert.NoError(t, filter.Load(filepath.Join(t.TempDir(), "missing.filter")))
}

func sampleResults() []entity.DomainResult {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(name, ext string, price float64, trend, value int) entity.DomainResult {
		return entity.NewDomainResult(
			entity.DomainCandidate{Name: name, Extension: ext},
			price,
			entity.ScoreBundle{TrendScore: trend, BrandabilityScore: 80, MarketValue: value},
			at,
		)
	}
	return []entity.DomainResult{
		mk("quicklab", ".com", 9.99, 85, 5000),
		mk("cloudhub", ".com", 12.5, 72, 3000),
		mk("neural", ".ai", 45, 91, 9000),
	}
}

// exerciseStore runs the behaviour every ResultStore must share
func exerciseStore(t *testing.T, store repository.ResultStore) {
	t.Helper()
	ctx := context.Background()

	for _, r := range sampleResults() {
		require.NoError(t, store.Append(ctx, r))
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "quicklab.com", all[0].Domain)
	assert.Equal(t, "neural.ai", all[2].Domain)
	assert.Equal(t, 9.99, all[0].Price)
	assert.Equal(t, 85, all[0].TrendScore)
	assert.True(t, all[0].FoundAt.Equal(sampleResults()[0].FoundAt))

	recent, err := store.QueryRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "cloudhub.com", recent[0].Domain)
	assert.Equal(t, "neural.ai", recent[1].Domain)

	agg, err := store.Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.Count)
	assert.Equal(t, map[string]int{"com": 2, "ai": 1}, agg.ExtensionHistogram)
	assert.Equal(t, map[string]int{"0-10": 1, "10-25": 1, "25-50": 1}, agg.PriceHistogram)

	invalid := sampleResults()[0]
	invalid.Price = -1
	assert.ErrorIs(t, store.Append(ctx, invalid), repository.ErrInvalidResult)

	// duplicates are tolerated
	require.NoError(t, store.Append(ctx, sampleResults()[0]))
	all, err = store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	if recorder, ok := store.(repository.SearchRecorder); ok {
		record := entity.SearchRecord{
			ID:         "7f0c4f7e-7d0e-4a38-9c9e-2f4a8c3b1d11",
			Config:     entity.DefaultHuntConfig(),
			State:      entity.StateCompleted.String(),
			Checked:    10,
			Found:      3,
			StartedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC),
		}
		require.NoError(t, recorder.SaveSearch(ctx, record))
		searches, err := recorder.Searches(ctx)
		require.NoError(t, err)
		require.Len(t, searches, 1)
		assert.Equal(t, record.ID, searches[0].ID)
		assert.Equal(t, record.Config.Extensions, searches[0].Config.Extensions)
		assert.EqualValues(t, 3, searches[0].Found)
	}

	require.NoError(t, store.Clear(ctx))
	all, err = store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	agg, err = store.Aggregate(ctx)
	require.NoError(t, err)
	assert.Zero(t, agg.Count)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)

	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Append(context.Background(), sampleResults()[0]), repository.ErrStoreClosed)
}

func TestJSONFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJSONFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, store)

	require.NoError(t, store.Close())
	assert.ErrorIs(t, store.Append(context.Background(), sampleResults()[0]), repository.ErrStoreClosed)
}

func TestJSONFileStore_PersistsAndBacksUp(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewJSONFileStore(dir)
	require.NoError(t, err)
	results := sampleResults()
	require.NoError(t, store.Append(ctx, results[0]))
	require.NoError(t, store.Append(ctx, results[1]))

	reopened, err := NewJSONFileStore(dir)
	require.NoError(t, err)
	all, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	var backup domainsDocument
	data, err := os.ReadFile(filepath.Join(dir, domainsFile+backupSuffix))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Len(t, backup.Domains, 1)
}

func TestJSONFileStore_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	store, err := NewJSONFileStore(t.TempDir())
	require.NoError(t, err)

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			done <- store.Append(ctx, sampleResults()[0])
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "domains.db"))
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestResultWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.jsonl")
	w, err := NewResultWriter(path)
	require.NoError(t, err)

	for _, r := range sampleResults() {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []entity.DomainResult
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r entity.DomainResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &r))
		lines = append(lines, r)
	}
	require.Len(t, lines, 3)
	assert.Equal(t, "neural.ai", lines[2].Domain)
	assert.Equal(t, 20000.0, lines[2].ROIPotential)
}

func TestCheckLogWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checks.jsonl")
	w, err := NewCheckLogWriter(path)
	require.NoError(t, err)

	require.NoError(t, w.WriteCheck(entity.CheckRecord{Domain: "quicklab.com", Method: "dns", Verdict: "available"}))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"method":"dns"`)
}
