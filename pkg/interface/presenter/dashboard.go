package presenter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxRecent bounds the discoveries kept for the dashboard
const maxRecent = 50

// Dashboard is a TUI dashboard for hunt progress
type Dashboard struct {
	config   entity.HuntConfig
	progress entity.Progress
	summary  *entity.Summary
	recent   []entity.DomainResult
	bar      progress.Model
	onQuit   func()
	width    int
	height   int
	mu       sync.RWMutex
}

type tickMsg time.Time

// NewDashboard creates a new TUI dashboard. onQuit is called when the user quits.
func NewDashboard(config entity.HuntConfig, onQuit func()) *Dashboard {
	return &Dashboard{
		config:   config,
		progress: entity.Progress{StartedAt: time.Now()},
		bar:      progress.New(progress.WithDefaultGradient()),
		onQuit:   onQuit,
	}
}

// Init initializes the dashboard
func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		tea.EnterAltScreen,
	)
}

// Update handles dashboard updates
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "ctrl+c":
			if d.onQuit != nil {
				d.onQuit()
			}
			return d, tea.Quit
		}

	case tea.WindowSizeMsg:
		d.mu.Lock()
		d.width = msg.Width
		d.height = msg.Height
		d.bar.Width = max(msg.Width/2-10, 10)
		d.mu.Unlock()
		return d, nil

	case tickMsg:
		// Continue ticking to keep the display updating
		return d, tickCmd()
	}

	return d, nil
}

// View renders the dashboard
func (d *Dashboard) View() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.width == 0 {
		return "Initializing..."
	}

	header := d.renderHeader()
	footer := d.renderFooter()

	availableHeight := d.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if availableHeight < 0 {
		availableHeight = 0
	}
	halfHeight := availableHeight / 2
	leftWidth := d.width / 2
	rightWidth := d.width - leftWidth

	// Row 1: Progress (Left) | Settings (Right)
	row1 := lipgloss.JoinHorizontal(
		lipgloss.Top,
		d.renderProgress(leftWidth, halfHeight),
		d.renderSettings(rightWidth, halfHeight),
	)

	// Row 2: Discoveries across the full width
	row2 := d.renderDiscoveries(d.width, availableHeight-halfHeight)

	return lipgloss.JoinVertical(lipgloss.Left, header, row1, row2, footer)
}

// OnProgress implements application.HuntObserver
func (d *Dashboard) OnProgress(p entity.Progress) {
	d.mu.Lock()
	d.progress = p
	d.mu.Unlock()
}

// OnResult implements application.HuntObserver
func (d *Dashboard) OnResult(r entity.DomainResult) {
	d.mu.Lock()
	d.recent = append(d.recent, r)
	if len(d.recent) > maxRecent {
		d.recent = d.recent[len(d.recent)-maxRecent:]
	}
	d.mu.Unlock()
}

// OnFinish implements application.FinishObserver
func (d *Dashboard) OnFinish(s entity.Summary) {
	d.mu.Lock()
	d.summary = &s
	d.mu.Unlock()
}

func (d *Dashboard) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7D56F4")).
		Padding(0, 1)

	timeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#999999"))

	elapsed := time.Duration(0)
	if !d.progress.StartedAt.IsZero() {
		elapsed = time.Since(d.progress.StartedAt)
	}
	if d.summary != nil {
		elapsed = d.summary.Duration
	}

	title := titleStyle.Render("🎯 Domain Hunter")
	timeInfo := timeStyle.Render(fmt.Sprintf(" %s | Running: %s | Time: %s",
		d.progress.State, formatDuration(elapsed), time.Now().Format("15:04:05")))

	return title + timeInfo
}

func (d *Dashboard) renderProgress(width, height int) string {
	style := panelStyle("#874BFD", width, height)

	p := d.progress
	percent := 0.0
	if p.TotalCandidates > 0 {
		percent = float64(p.Checked) / float64(p.TotalCandidates)
	}

	stats := []string{
		"📊 Hunt Progress",
		"",
		d.bar.ViewAs(percent),
		"",
		fmt.Sprintf("Candidates Checked: %d / %d", p.Checked, p.TotalCandidates),
		fmt.Sprintf("Domains Found:      %d", p.Found),
		fmt.Sprintf("Success Rate:       %.1f%%", p.SuccessRate()),
		fmt.Sprintf("Average Price:      $%.2f", p.AvgPrice),
		fmt.Sprintf("Checking:           %s", p.CurrentDomain),
	}

	if elapsed := time.Since(p.StartedAt).Seconds(); elapsed > 0 && !p.StartedAt.IsZero() {
		stats = append(stats, fmt.Sprintf("Check Rate:         %.2f names/s", float64(p.Checked)/elapsed))
	}

	if d.summary != nil {
		stats = append(stats,
			"",
			fmt.Sprintf("Total Investment:   $%.2f", d.summary.TotalInvestment),
			fmt.Sprintf("Estimated Value:    $%d", d.summary.TotalEstimatedValue),
			fmt.Sprintf("Average ROI:        %.1f%%", d.summary.AverageROI),
		)
	}

	return style.Render(strings.Join(stats, "\n"))
}

func (d *Dashboard) renderSettings(width, height int) string {
	style := panelStyle("#FF6B6B", width, height)

	c := d.config
	stats := []string{
		"⚙️  Settings",
		"",
		fmt.Sprintf("Max Price:     $%.2f", c.MaxPrice),
		fmt.Sprintf("Min Trend:     %d", c.MinTrendScore),
		fmt.Sprintf("Extensions:    %s", strings.Join(c.Extensions, " ")),
		fmt.Sprintf("Categories:    %s", strings.Join(c.Categories, ", ")),
		fmt.Sprintf("Workers:       %d", c.Concurrency),
		fmt.Sprintf("Availability:  %s", mode(c.UseRealChecking)),
		fmt.Sprintf("Pricing:       %s", mode(c.UseRealPricing)),
		fmt.Sprintf("Trend:         %s", mode(c.UseRealTrend)),
	}

	return style.Render(strings.Join(stats, "\n"))
}

func (d *Dashboard) renderDiscoveries(width, height int) string {
	style := panelStyle("#04B575", width, height)

	lines := []string{
		fmt.Sprintf("💎 Recent Discoveries (Total: %d)", d.progress.Found),
		"",
	}

	if len(d.recent) == 0 {
		lines = append(lines, "No domains found yet...")
	} else {
		// Height - 2 (border) - 2 (padding) - 2 (title + empty line)
		maxLines := max(height-6, 0)
		start := max(len(d.recent)-maxLines, 0)
		for _, r := range d.recent[start:] {
			lines = append(lines, fmt.Sprintf("  • %-28s $%7.2f  trend %3d  brand %3d  ROI %8.1f%%",
				r.Domain, r.Price, r.TrendScore, r.BrandabilityScore, r.ROIPotential))
		}
	}

	return style.Render(strings.Join(lines, "\n"))
}

func (d *Dashboard) renderFooter() string {
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#626262")).
		Padding(1, 0)

	if d.progress.State.IsTerminal() {
		return footerStyle.Render("Hunt finished. Press 'q' to exit")
	}
	return footerStyle.Render("Press 'q' or 'Ctrl+C' to stop the hunt")
}

func panelStyle(color string, width, height int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(1, 2).
		Width(max(width-2, 0)).  // Adjust for border
		Height(max(height-2, 0)) // Adjust for border
}

func mode(real bool) string {
	if real {
		return "live"
	}
	return "simulated"
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*500, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the dashboard
func (d *Dashboard) Run() error {
	p := tea.NewProgram(d, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
