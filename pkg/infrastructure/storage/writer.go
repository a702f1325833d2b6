package storage

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
)

// ResultWriter implements repository.ResultWriter as JSON lines
type ResultWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewResultWriter creates a new result writer
func NewResultWriter(filename string) (*ResultWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &ResultWriter{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

// Write writes a single result
func (w *ResultWriter) Write(result entity.DomainResult) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.encoder.Encode(result)
}

// Flush ensures all buffered data is written
func (w *ResultWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close closes the writer
func (w *ResultWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// CheckLogWriter implements repository.CheckLogWriter as JSON lines
type CheckLogWriter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewCheckLogWriter creates a new availability check log
func NewCheckLogWriter(filename string) (*CheckLogWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	return &CheckLogWriter{
		file: file,
		enc:  json.NewEncoder(file),
	}, nil
}

// WriteCheck writes a single check record
func (w *CheckLogWriter) WriteCheck(record entity.CheckRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.enc.Encode(record)
}

// Close closes the log file
func (w *CheckLogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}
