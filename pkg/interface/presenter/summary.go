package presenter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/export"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/ts"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true).
			Padding(1, 2)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)
)

// TerminalWidth returns the width of the terminal, 80 when it cannot be detected
func TerminalWidth() int {
	size, err := ts.GetSize()
	if err != nil || size.Col() <= 0 {
		return 80
	}
	return size.Col()
}

func divider(width int) string {
	return keyStyle.Render(strings.Repeat("─", min(width, 100)))
}

func stat(key, value string) string {
	return fmt.Sprintf("  %s %-22s %s\n", keyStyle.Render("✓"), key, valueStyle.Render(value))
}

// PrintSummary prints the final statistics of a hunt and its best results
func PrintSummary(w io.Writer, summary entity.Summary, results []entity.DomainResult, width int) {
	title := "✨ Hunt Complete"
	if summary.State == entity.StateCancelled {
		title = "⏹  Hunt Cancelled"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(divider(width) + "\n")
	b.WriteString("📊 Statistics:\n")
	b.WriteString(stat("Candidates Checked", fmt.Sprintf("%d", summary.Checked)))
	b.WriteString(stat("Domains Found", fmt.Sprintf("%d", summary.Found)))
	b.WriteString(stat("Total Investment", fmt.Sprintf("$%.2f", summary.TotalInvestment)))
	b.WriteString(stat("Estimated Value", fmt.Sprintf("$%d", summary.TotalEstimatedValue)))
	b.WriteString(stat("Average ROI", fmt.Sprintf("%.1f%%", summary.AverageROI)))
	b.WriteString(stat("Duration", formatDuration(summary.Duration)))
	b.WriteString(divider(width) + "\n")
	fmt.Fprint(w, b.String())

	if len(results) > 0 {
		fmt.Fprintln(w, "\n💎 Top Domains:")
		PrintResults(w, results, 10, width)
		fmt.Fprintln(w, "\n📈 By Extension:")
		PrintExtensions(w, export.ExtensionAnalysis(results))
	}
}

// PrintResults prints up to limit results as a table; limit <= 0 prints all
func PrintResults(w io.Writer, results []entity.DomainResult, limit, width int) {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	// Domain column takes whatever the fixed columns leave
	domainWidth := min(max(width-52, 12), 40)
	fmt.Fprintf(w, "  %-*s %9s %6s %6s %9s %10s\n", domainWidth, "DOMAIN", "PRICE", "TREND", "BRAND", "VALUE", "ROI")
	for _, r := range results {
		fmt.Fprintf(w, "  %-*s %9s %6d %6d %9d %9.1f%%\n",
			domainWidth, truncate(r.Domain, domainWidth),
			fmt.Sprintf("$%.2f", r.Price),
			r.TrendScore, r.BrandabilityScore, r.MarketValue, r.ROIPotential)
	}
}

// PrintExtensions prints per-extension statistics
func PrintExtensions(w io.Writer, stats []export.ExtensionStats) {
	fmt.Fprintf(w, "  %-8s %6s %10s %10s %10s\n", "EXT", "COUNT", "AVG PRICE", "AVG TREND", "AVG ROI")
	for _, s := range stats {
		fmt.Fprintf(w, "  %-8s %6d %10s %10.1f %9.1f%%\n",
			s.Extension, s.Count, fmt.Sprintf("$%.2f", s.AvgPrice), s.AvgTrendScore, s.AvgROI)
	}
}

// PrintAggregate prints the statistics of a result store
func PrintAggregate(w io.Writer, agg entity.Aggregate, width int) {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📦 Stored Domains") + "\n")
	b.WriteString(divider(width) + "\n")
	b.WriteString(stat("Total Domains", fmt.Sprintf("%d", agg.Count)))
	b.WriteString(stat("Average Price", fmt.Sprintf("$%.2f", agg.AvgPrice)))
	b.WriteString(stat("Average Trend Score", fmt.Sprintf("%.1f", agg.AvgTrendScore)))
	writeHistogram(&b, "Extensions", agg.ExtensionHistogram)
	writeHistogram(&b, "Price Ranges", agg.PriceHistogram)
	writeHistogram(&b, "Trend Ranges", agg.TrendHistogram)
	b.WriteString(divider(width) + "\n")
	fmt.Fprint(w, b.String())
}

func writeHistogram(b *strings.Builder, title string, histogram map[string]int) {
	if len(histogram) == 0 {
		return
	}
	keys := make([]string, 0, len(histogram))
	for k := range histogram {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "\n%s:\n", title)
	for _, k := range keys {
		b.WriteString(stat(k, fmt.Sprintf("%d", histogram[k])))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	} else if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
