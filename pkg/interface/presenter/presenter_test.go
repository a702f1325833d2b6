package presenter

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func sampleResults() []entity.DomainResult {
	return []entity.DomainResult{
		{Domain: "quicklab.com", Extension: ".com", Price: 12.5, TrendScore: 88, BrandabilityScore: 95, MarketValue: 4000, ROIPotential: 32000},
		{Domain: "neuroflow.ai", Extension: ".ai", Price: 45, TrendScore: 75, BrandabilityScore: 70, MarketValue: 9000, ROIPotential: 20000},
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: 5 * time.Second, want: "5s"},
		{in: 2*time.Minute + 3*time.Second, want: "2m 3s"},
		{in: time.Hour + 4*time.Minute + 9*time.Second, want: "1h 4m 9s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := entity.Summarize(sampleResults())
	summary.State = entity.StateCompleted
	summary.Checked = 10
	summary.Duration = 3 * time.Second

	PrintSummary(&buf, summary, sampleResults(), 100)
	out := buf.String()

	assert.Contains(t, out, "Hunt Complete")
	assert.Contains(t, out, "$57.50")
	assert.Contains(t, out, "$13000")
	assert.Contains(t, out, "quicklab.com")
	assert.Contains(t, out, "neuroflow.ai")
	assert.Contains(t, out, ".ai")
}

func TestPrintSummaryCancelled(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, entity.Summary{State: entity.StateCancelled}, nil, 80)
	assert.Contains(t, buf.String(), "Hunt Cancelled")
	assert.NotContains(t, buf.String(), "Top Domains")
}

func TestPrintResultsLimit(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, sampleResults(), 1, 80)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[1], "quicklab.com")
}

func TestPrintAggregate(t *testing.T) {
	var buf bytes.Buffer
	PrintAggregate(&buf, entity.ComputeAggregate(sampleResults()), 80)
	out := buf.String()
	assert.Contains(t, out, "Total Domains")
	assert.Contains(t, out, "Extensions:")
	assert.Contains(t, out, "10-25")
	assert.Contains(t, out, "80-100")
}

func TestDashboardView(t *testing.T) {
	quit := false
	d := NewDashboard(entity.DefaultHuntConfig(), func() { quit = true })
	assert.Equal(t, "Initializing...", d.View())

	d.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	d.OnProgress(entity.Progress{State: entity.StateRunning, TotalCandidates: 10, Checked: 4, Found: 1, AvgPrice: 12.5, StartedAt: time.Now()})
	d.OnResult(sampleResults()[0])

	view := d.View()
	assert.Contains(t, view, "Domain Hunter")
	assert.Contains(t, view, "quicklab.com")
	assert.Contains(t, view, "4 / 10")

	_, cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.NotNil(t, cmd)
	assert.True(t, quit)
}

func TestDashboardKeepsRecentBounded(t *testing.T) {
	d := NewDashboard(entity.DefaultHuntConfig(), nil)
	for i := 0; i < maxRecent+10; i++ {
		d.OnResult(sampleResults()[0])
	}
	assert.Len(t, d.recent, maxRecent)
}

func TestProgressPresenterCompletes(t *testing.T) {
	p := NewProgressPresenter(io.Discard, 80)
	p.OnProgress(entity.Progress{State: entity.StateRunning, TotalCandidates: 3, Checked: 1})
	p.OnProgress(entity.Progress{State: entity.StateRunning, TotalCandidates: 3, Checked: 3, Found: 2})
	p.OnFinish(entity.Summary{State: entity.StateCompleted, Found: 2})

	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("progress bar did not complete")
	}
	assert.Equal(t, int64(2), p.found.Load())
}
