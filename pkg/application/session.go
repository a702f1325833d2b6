package application

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/google/uuid"
)

// HuntSession is the state of a single hunt. Counters and results only grow; every
// mutation goes through mu.
type HuntSession struct {
	ID     uuid.UUID
	Config entity.HuntConfig

	mu         sync.RWMutex
	state      entity.HuntState
	candidates []string
	checked    int64
	found      int64
	priceSum   float64
	results    []entity.DomainResult
	current    string
	startedAt  time.Time
	finishedAt time.Time

	cancelled atomic.Bool
	done      chan struct{}
}

func newHuntSession(config entity.HuntConfig, candidates []string) *HuntSession {
	return &HuntSession{
		ID:         uuid.New(),
		Config:     config,
		state:      entity.StateIdle,
		candidates: candidates,
		done:       make(chan struct{}),
	}
}

// Cancel asks the hunt to stop before its next candidate or extension
func (s *HuntSession) Cancel() {
	s.cancelled.Store(true)
}

// Cancelled reports whether Cancel was called
func (s *HuntSession) Cancelled() bool {
	return s.cancelled.Load()
}

// Done is closed once the hunt reaches a terminal state
func (s *HuntSession) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the hunt reaches a terminal state
func (s *HuntSession) Wait() {
	<-s.done
}

// State returns the lifecycle state
func (s *HuntSession) State() entity.HuntState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Results returns a copy of the accepted results in acceptance order
func (s *HuntSession) Results() []entity.DomainResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.DomainResult{}, s.results...)
}

// Progress returns a snapshot of the counters
func (s *HuntSession) Progress() entity.Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := entity.Progress{
		State:           s.state,
		TotalCandidates: len(s.candidates),
		Checked:         s.checked,
		Found:           s.found,
		CurrentDomain:   s.current,
		StartedAt:       s.startedAt,
	}
	if s.found > 0 {
		p.AvgPrice = s.priceSum / float64(s.found)
	}
	return p
}

// Summary returns the investment and value aggregates of the accepted results
func (s *HuntSession) Summary() entity.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := entity.Summarize(s.results)
	summary.State = s.state
	summary.Checked = s.checked
	switch {
	case !s.finishedAt.IsZero():
		summary.Duration = s.finishedAt.Sub(s.startedAt)
	case !s.startedAt.IsZero():
		summary.Duration = time.Since(s.startedAt)
	}
	return summary
}

// Record returns the persisted form of the session
func (s *HuntSession) Record() entity.SearchRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.SearchRecord{
		ID:         s.ID.String(),
		Config:     s.Config,
		State:      s.state.String(),
		Checked:    s.checked,
		Found:      s.found,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
	}
}

func (s *HuntSession) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = entity.StateRunning
	s.startedAt = time.Now()
}

func (s *HuntSession) setCurrent(domain string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = domain
}

func (s *HuntSession) addResult(r entity.DomainResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
	s.found++
	s.priceSum += r.Price
}

func (s *HuntSession) markChecked() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked++
}

func (s *HuntSession) finish() {
	s.mu.Lock()
	if s.cancelled.Load() {
		s.state = entity.StateCancelled
	} else {
		s.state = entity.StateCompleted
	}
	s.current = ""
	s.finishedAt = time.Now()
	s.mu.Unlock()
}

// release wakes up Wait once every finish hook has run
func (s *HuntSession) release() {
	close(s.done)
}
