package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/repository"
)

const (
	domainsFile  = "domains.json"
	searchesFile = "searches.json"
	backupSuffix = ".bak"
)

type domainsDocument struct {
	Domains     []entity.DomainResult `json:"domains"`
	LastUpdated string                `json:"last_updated,omitempty"`
}

type searchesDocument struct {
	Searches []entity.SearchRecord `json:"searches"`
}

// JSONFileStore implements repository.ResultStore on two JSON documents in a directory.
// Every write rewrites the whole document after copying the previous one to a .bak file.
type JSONFileStore struct {
	mu     sync.Mutex
	dir    string
	closed bool
}

// Compile-time interface checks.
var (
	_ repository.ResultStore    = (*JSONFileStore)(nil)
	_ repository.SearchRecorder = (*JSONFileStore)(nil)
)

// NewJSONFileStore creates the data directory and empty documents if needed
func NewJSONFileStore(dir string) (*JSONFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &JSONFileStore{dir: dir}

	for name, empty := range map[string]any{
		domainsFile:  domainsDocument{Domains: []entity.DomainResult{}},
		searchesFile: searchesDocument{Searches: []entity.SearchRecord{}},
	} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := writeJSON(path, empty); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

// Append adds a single result
func (s *JSONFileStore) Append(ctx context.Context, result entity.DomainResult) error {
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", repository.ErrInvalidResult, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrStoreClosed
	}

	var doc domainsDocument
	if err := readJSON(s.path(domainsFile), &doc); err != nil {
		return err
	}
	doc.Domains = append(doc.Domains, result)
	doc.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return s.replace(domainsFile, doc)
}

// All returns every result in insertion order
func (s *JSONFileStore) All(ctx context.Context) ([]entity.DomainResult, error) {
	return s.QueryRecent(ctx, 0)
}

// QueryRecent returns the last limit results in insertion order
func (s *JSONFileStore) QueryRecent(ctx context.Context, limit int) ([]entity.DomainResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, repository.ErrStoreClosed
	}

	var doc domainsDocument
	if err := readJSON(s.path(domainsFile), &doc); err != nil {
		return nil, err
	}
	return recent(doc.Domains, limit), nil
}

// Aggregate summarizes the stored results
func (s *JSONFileStore) Aggregate(ctx context.Context) (entity.Aggregate, error) {
	results, err := s.All(ctx)
	if err != nil {
		return entity.Aggregate{}, err
	}
	return entity.ComputeAggregate(results), nil
}

// Clear empties both documents
func (s *JSONFileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrStoreClosed
	}

	if err := s.replace(domainsFile, domainsDocument{Domains: []entity.DomainResult{}}); err != nil {
		return err
	}
	return s.replace(searchesFile, searchesDocument{Searches: []entity.SearchRecord{}})
}

// SaveSearch records a finished hunt
func (s *JSONFileStore) SaveSearch(ctx context.Context, record entity.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrStoreClosed
	}

	var doc searchesDocument
	if err := readJSON(s.path(searchesFile), &doc); err != nil {
		return err
	}
	doc.Searches = append(doc.Searches, record)
	return s.replace(searchesFile, doc)
}

// Searches returns every recorded hunt
func (s *JSONFileStore) Searches(ctx context.Context) ([]entity.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, repository.ErrStoreClosed
	}

	var doc searchesDocument
	if err := readJSON(s.path(searchesFile), &doc); err != nil {
		return nil, err
	}
	return doc.Searches, nil
}

// Close marks the store closed
func (s *JSONFileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *JSONFileStore) path(name string) string {
	return filepath.Join(s.dir, name)
}

// replace backs up the current document, then writes the new one through a temp file
func (s *JSONFileStore) replace(name string, doc any) error {
	path := s.path(name)
	if err := copyFile(path, path+backupSuffix); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("backup %s: %w", name, err)
	}
	return writeJSON(path, doc)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return os.Rename(tmp, path)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
