package repository

import (
	"context"
	"errors"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
)

var (
	// ErrInvalidResult is returned when a result fails validation at the store boundary
	ErrInvalidResult = errors.New("invalid domain result")
	// ErrStoreClosed is returned when a closed store is used
	ErrStoreClosed = errors.New("result store is closed")
)

// ResultStore persists accepted results. Appends may be retried; duplicates are tolerated.
type ResultStore interface {
	// Append adds a single result
	Append(ctx context.Context, result entity.DomainResult) error
	// All returns every stored result in insertion order
	All(ctx context.Context) ([]entity.DomainResult, error)
	// QueryRecent returns the last limit results in insertion order; limit <= 0 means all
	QueryRecent(ctx context.Context, limit int) ([]entity.DomainResult, error)
	// Aggregate summarizes the stored results
	Aggregate(ctx context.Context) (entity.Aggregate, error)
	// Clear deletes every stored result and search record
	Clear(ctx context.Context) error
	// Close releases the underlying resources
	Close() error
}

// SearchRecorder is implemented by stores that also keep hunt history
type SearchRecorder interface {
	SaveSearch(ctx context.Context, record entity.SearchRecord) error
	Searches(ctx context.Context) ([]entity.SearchRecord, error)
}

// SeenFilter remembers domains checked in earlier runs
type SeenFilter interface {
	// Contains checks if a domain has been seen before
	Contains(domain string) bool
	// Add adds a domain to the filter
	Add(domain string)
	// Save persists the filter state
	Save(filename string) error
	// Load restores the filter state
	Load(filename string) error
}

// ResultWriter streams results as they are found
type ResultWriter interface {
	// Write writes a single result
	Write(result entity.DomainResult) error
	// Flush ensures all buffered data is written
	Flush() error
	// Close closes the writer
	Close() error
}

// CheckLogWriter records every availability method invocation
type CheckLogWriter interface {
	WriteCheck(record entity.CheckRecord) error
	Close() error
}
