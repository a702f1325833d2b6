package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
)

// MemoryStore implements repository.ResultStore in process memory
type MemoryStore struct {
	mu       sync.RWMutex
	results  []entity.DomainResult
	searches []entity.SearchRecord
	closed   bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Compile-time interface checks.
var (
	_ repository.ResultStore    = (*MemoryStore)(nil)
	_ repository.SearchRecorder = (*MemoryStore)(nil)
)

// Append adds a single result
func (s *MemoryStore) Append(ctx context.Context, result entity.DomainResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidResult, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrStoreClosed
	}
	s.results = append(s.results, result)
	return nil
}

// All returns every result in insertion order
func (s *MemoryStore) All(ctx context.Context) ([]entity.DomainResult, error) {
	return s.QueryRecent(ctx, 0)
}

// QueryRecent returns the last limit results in insertion order
func (s *MemoryStore) QueryRecent(ctx context.Context, limit int) ([]entity.DomainResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrStoreClosed
	}
	return recent(s.results, limit), nil
}

// Aggregate summarizes the stored results
func (s *MemoryStore) Aggregate(ctx context.Context) (entity.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return entity.Aggregate{}, repository.ErrStoreClosed
	}
	return entity.ComputeAggregate(s.results), nil
}

// Clear deletes every result and search record
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrStoreClosed
	}
	s.results = nil
	s.searches = nil
	return nil
}

// SaveSearch records a finished hunt
func (s *MemoryStore) SaveSearch(ctx context.Context, record entity.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrStoreClosed
	}
	s.searches = append(s.searches, record)
	return nil
}

// Searches returns every recorded hunt
func (s *MemoryStore) Searches(ctx context.Context) ([]entity.SearchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, repository.ErrStoreClosed
	}
	return append([]entity.SearchRecord(nil), s.searches...), nil
}

// Close marks the store closed
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// recent copies the last limit entries; limit <= 0 copies everything
func recent(results []entity.DomainResult, limit int) []entity.DomainResult {
	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}
	return append([]entity.DomainResult{}, results...)
}
