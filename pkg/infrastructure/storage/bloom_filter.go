package storage

import (
	"os"
	"strings"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// BloomFilter implements repository.SeenFilter using a Bloom filter
type BloomFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	size   uint
	fpRate float64
}

// Config holds Bloom filter configuration
type Config struct {
	Size              uint
	FalsePositiveRate float64
}

// NewBloomFilter creates a new Bloom filter
func NewBloomFilter(config Config) *BloomFilter {
	if config.Size == 0 {
		config.Size = 1_000_000
	}
	if config.FalsePositiveRate <= 0 {
		config.FalsePositiveRate = 0.001
	}
	return &BloomFilter{
		filter: bloom.NewWithEstimates(config.Size, config.FalsePositiveRate),
		size:   config.Size,
		fpRate: config.FalsePositiveRate,
	}
}

// Contains checks if a domain has been seen before
func (bf *BloomFilter) Contains(domain string) bool {
	bf.mu.RLock()
	defer bf.mu.RUnlock()
	return bf.filter.TestString(strings.ToLower(domain))
}

// Add adds a domain to the filter
func (bf *BloomFilter) Add(domain string) {
	bf.mu.Lock()
	defer bf.mu.Unlock()
	bf.filter.AddString(strings.ToLower(domain))
}

// Save persists the filter state
func (bf *BloomFilter) Save(filename string) error {
	bf.mu.RLock()
	defer bf.mu.RUnlock()

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = bf.filter.WriteTo(file)
	return err
}

// Load restores the filter state
func (bf *BloomFilter) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist yet, that's OK
		}
		return err
	}
	defer file.Close()

	filter := bloom.NewWithEstimates(bf.size, bf.fpRate)
	if _, err := filter.ReadFrom(file); err != nil {
		return err
	}

	bf.mu.Lock()
	bf.filter = filter
	bf.mu.Unlock()
	return nil
}
