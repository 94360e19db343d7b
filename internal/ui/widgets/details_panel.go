package widgets

import (
	"fmt"
	"strings"

	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/dashboard"
	"github.com/rivo/tview"
)

// DetailsPanel shows the most recent comparison for both implementations
type DetailsPanel struct {
	*tview.TextView
}

// NewDetailsPanel creates an empty details panel
func NewDetailsPanel() *DetailsPanel {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	tv.SetBorder(true).SetTitle(" Latest Request Details ")
	return &DetailsPanel{TextView: tv}
}

// Update renders r, or a placeholder when there is no result yet
func (d *DetailsPanel) Update(r dashboard.ComparisonResult, ok bool) {
	if !ok {
		d.SetText("[gray]No requests yet[white]")
		return
	}
	d.SetText(RenderDetails(r))
}

// RenderDetails formats a result with tview color tags
func RenderDetails(r dashboard.ComparisonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[gray]User %d at %s[white]\n\n", r.UserID, r.Timestamp)
	writeImplementation(&b, "[#4f46e5::b]"+dashboard.BasicSeriesName+"[-::-]", r.BasicTime, r.BasicMetrics)
	b.WriteString("\n")
	writeImplementation(&b, "[#059669::b]"+dashboard.OptimizedSeriesName+"[-::-]", r.OptimizedTime, r.OptimizedMetrics)
	fmt.Fprintf(&b, "\n[yellow]Improvement:[white] %s", improvementText(r.Improvement))
	return b.String()
}

func writeImplementation(b *strings.Builder, title string, ms float64, m api.RequestMetrics) {
	b.WriteString(title + "\n")
	fmt.Fprintf(b, "  [yellow]Computation Time:[white] %s\n", FormatMs(ms))
	fmt.Fprintf(b, "  [yellow]Cache Hit:[white] %s\n", yesNo(m.CacheHit))
	fmt.Fprintf(b, "  [yellow]Memory Usage:[white] %s\n", FormatMB(m.MemoryUsageMB))
}

func improvementText(s string) string {
	if s == dashboard.NotAvailable {
		return s
	}
	return s + "%"
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
