package entity

import "time"

// HuntState is the lifecycle state of a hunt
type HuntState int

const (
	// StateIdle is a hunt that has not started
	StateIdle HuntState = iota
	// StateRunning is a hunt in progress
	StateRunning
	// StateCompleted is a hunt that exhausted its candidates
	StateCompleted
	// StateCancelled is a hunt stopped before exhausting its candidates
	StateCancelled
)

func (s HuntState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// IsTerminal reports whether the hunt has finished
func (s HuntState) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled
}

// Progress is a point-in-time view of a running hunt
type Progress struct {
	State           HuntState
	TotalCandidates int
	Checked         int64
	Found           int64
	AvgPrice        float64
	CurrentDomain   string
	StartedAt       time.Time
}

// SuccessRate returns found / checked as a percentage
func (p Progress) SuccessRate() float64 {
	if p.Checked == 0 {
		return 0
	}
	return float64(p.Found) / float64(p.Checked) * 100
}

// Summary holds the final aggregates of a hunt
type Summary struct {
	State               HuntState
	Checked             int64
	Found               int64
	TotalInvestment     float64
	TotalEstimatedValue int64
	AverageROI          float64
	Duration            time.Duration
}

// Summarize computes the investment, value and ROI aggregates over results
func Summarize(results []DomainResult) Summary {
	var s Summary
	s.Found = int64(len(results))
	for _, r := range results {
		s.TotalInvestment += r.Price
		s.TotalEstimatedValue += int64(r.MarketValue)
		s.AverageROI += r.ROIPotential
	}
	if len(results) > 0 {
		s.AverageROI /= float64(len(results))
	}
	return s
}

// SearchRecord is the persisted metadata of a finished hunt
type SearchRecord struct {
	ID         string     `json:"id"`
	Config     HuntConfig `json:"config"`
	State      string     `json:"state"`
	Checked    int64      `json:"checked"`
	Found      int64      `json:"found"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}
