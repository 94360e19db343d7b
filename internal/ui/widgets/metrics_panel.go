package widgets

import (
	"fmt"

	"github.com/jontk/fsdash/internal/api"
	"github.com/rivo/tview"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Metric labels
const (
	LabelTotalRequests = "Total Requests"
	LabelAvgTime       = "Average Computation Time"
	LabelCacheSize     = "Cache Size"
)

var printer = message.NewPrinter(language.English)

// FormatCount formats n with digit grouping, e.g. 12,345
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatMs formats a duration in milliseconds with two decimals
func FormatMs(ms float64) string {
	return fmt.Sprintf("%.2f ms", ms)
}

// FormatMB formats a memory figure in megabytes with two decimals
func FormatMB(mb float64) string {
	return fmt.Sprintf("%.2f MB", mb)
}

// FormatEntries formats a cache size
func FormatEntries(n int) string {
	return FormatCount(n) + " entries"
}

// MetricsPanel shows aggregate statistics for both implementations side by side
type MetricsPanel struct {
	*tview.Flex

	basicRequests     *MetricCard
	basicAvg          *MetricCard
	optimizedRequests *MetricCard
	optimizedAvg      *MetricCard
	cacheSize         *MetricCard
}

// NewMetricsPanel creates a panel with placeholder values
func NewMetricsPanel() *MetricsPanel {
	p := &MetricsPanel{
		basicRequests:     NewMetricCard(LabelTotalRequests, "-"),
		basicAvg:          NewMetricCard(LabelAvgTime, "-"),
		optimizedRequests: NewMetricCard(LabelTotalRequests, "-"),
		optimizedAvg:      NewMetricCard(LabelAvgTime, "-"),
		cacheSize:         NewMetricCard(LabelCacheSize, "-"),
	}

	basic := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.basicRequests, 2, 0, false).
		AddItem(p.basicAvg, 2, 0, false).
		AddItem(nil, 0, 1, false)
	basic.SetBorder(true).SetTitle(" Basic Implementation ")

	optimized := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.optimizedRequests, 2, 0, false).
		AddItem(p.optimizedAvg, 2, 0, false).
		AddItem(p.cacheSize, 2, 0, false).
		AddItem(nil, 0, 1, false)
	optimized.SetBorder(true).SetTitle(" Optimized Implementation ")

	p.Flex = tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(basic, 0, 1, false).
		AddItem(optimized, 0, 1, false)
	return p
}

// Update projects stats onto the cards
func (p *MetricsPanel) Update(stats *api.AggregateStats) {
	if stats == nil {
		return
	}
	p.basicRequests.SetValue(FormatCount(stats.Basic.TotalRequests))
	p.basicAvg.SetValue(FormatMs(stats.Basic.AvgComputationTime))
	p.optimizedRequests.SetValue(FormatCount(stats.Optimized.TotalRequests))
	p.optimizedAvg.SetValue(FormatMs(stats.Optimized.AvgComputationTime))
	p.cacheSize.SetValue(FormatEntries(stats.Optimized.CacheSize))
}

// Lines returns the panel contents as "label: value" rows, basic group first
func (p *MetricsPanel) Lines() []string {
	cards := []*MetricCard{p.basicRequests, p.basicAvg, p.optimizedRequests, p.optimizedAvg, p.cacheSize}
	lines := make([]string, len(cards))
	for i, c := range cards {
		lines[i] = c.Label() + ": " + c.Value()
	}
	return lines
}

// RenderStats renders stats as plain text, as shown by the panel
func RenderStats(stats *api.AggregateStats) string {
	if stats == nil {
		return "No statistics available\n"
	}
	return fmt.Sprintf("Basic Implementation\n  %s: %s\n  %s: %s\n"+
		"Optimized Implementation\n  %s: %s\n  %s: %s\n  %s: %s\n",
		LabelTotalRequests, FormatCount(stats.Basic.TotalRequests),
		LabelAvgTime, FormatMs(stats.Basic.AvgComputationTime),
		LabelTotalRequests, FormatCount(stats.Optimized.TotalRequests),
		LabelAvgTime, FormatMs(stats.Optimized.AvgComputationTime),
		LabelCacheSize, FormatEntries(stats.Optimized.CacheSize),
	)
}
