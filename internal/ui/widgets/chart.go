package widgets

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/dashboard"
	"github.com/jontk/fsdash/internal/ui/styles"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

const (
	basicMarker     = '●'
	optimizedMarker = '◆'
	lineRune        = '·'
	emptyChartText  = "No comparisons yet. Press t to run one."
)

// ComparisonChart plots the basic and optimized computation times of the
// recent comparisons as two line series over their timestamps.
type ComparisonChart struct {
	*tview.Box

	mu   sync.RWMutex
	data dashboard.Chart
}

// NewComparisonChart creates an empty chart
func NewComparisonChart() *ComparisonChart {
	c := &ComparisonChart{Box: tview.NewBox()}
	c.SetBorder(true).SetTitle(" Performance Comparison ")
	return c
}

// SetData replaces the plotted series
func (c *ComparisonChart) SetData(data dashboard.Chart) *ComparisonChart {
	c.mu.Lock()
	c.data = data
	c.mu.Unlock()
	return c
}

// Data returns the plotted series
func (c *ComparisonChart) Data() dashboard.Chart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Draw draws the chart
func (c *ComparisonChart) Draw(screen tcell.Screen) {
	c.DrawForSubclass(screen, c)

	x, y, width, height := c.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	data := c.Data()
	if data.Empty() {
		printCentered(screen, x, y+height/2, width, emptyChartText,
			tcell.StyleDefault.Foreground(styles.ColorDim))
		return
	}

	c.drawLegend(screen, x, y, width)

	top := niceCeil(data.Max())
	axisLabels := []string{fmt.Sprintf("%.1f", top), fmt.Sprintf("%.1f", top/2), "0"}
	axisWidth := 0
	for _, l := range axisLabels {
		axisWidth = max(axisWidth, runewidth.StringWidth(l))
	}
	axisWidth++

	plotX := x + axisWidth + 1
	plotY := y + 2
	plotW := width - axisWidth - 1
	plotH := height - 4
	if plotW < 2 || plotH < 1 {
		return
	}

	c.drawAxis(screen, x, plotX, plotY, plotW, plotH, axisWidth, axisLabels)
	c.drawSeries(screen, data.Basic, top, plotX, plotY, plotW, plotH, basicMarker, styles.BasicSeries)
	c.drawSeries(screen, data.Optimized, top, plotX, plotY, plotW, plotH, optimizedMarker, styles.OptimizedSeries)
	c.drawLabels(screen, data.Labels, plotX, plotY+plotH, plotW)
}

func (c *ComparisonChart) drawLegend(screen tcell.Screen, x, y, width int) {
	used := printAt(screen, x, y, width, string(basicMarker)+" "+dashboard.BasicSeriesName,
		tcell.StyleDefault.Foreground(styles.BasicSeries))
	used += printAt(screen, x+used, y, width-used, "   ", tcell.StyleDefault)
	used += printAt(screen, x+used, y, width-used, string(optimizedMarker)+" "+dashboard.OptimizedSeriesName,
		tcell.StyleDefault.Foreground(styles.OptimizedSeries))
	printRight(screen, x+used, y, width-used, dashboard.YAxisLabel,
		tcell.StyleDefault.Foreground(styles.ColorSubtext))
}

func (c *ComparisonChart) drawAxis(screen tcell.Screen, x, plotX, plotY, plotW, plotH, axisWidth int, labels []string) {
	style := tcell.StyleDefault.Foreground(styles.ColorDim)
	for row := 0; row < plotH; row++ {
		screen.SetContent(plotX-1, plotY+row, '│', nil, style)
	}
	screen.SetContent(plotX-1, plotY+plotH, '└', nil, style)
	for col := 0; col < plotW; col++ {
		screen.SetContent(plotX+col, plotY+plotH, '─', nil, style)
	}

	rows := []int{plotY, plotY + (plotH-1)/2, plotY + plotH - 1}
	for i, l := range labels {
		if i > 0 && rows[i] == rows[i-1] {
			continue
		}
		printRight(screen, x, rows[i], axisWidth-1, l, style)
	}
}

func (c *ComparisonChart) drawSeries(screen tcell.Screen, values []float64, top float64,
	plotX, plotY, plotW, plotH int, marker rune, color tcell.Color) {
	style := tcell.StyleDefault.Foreground(color)
	n := len(values)

	col := func(i int) int {
		if n == 1 {
			return plotW / 2
		}
		return i * (plotW - 1) / (n - 1)
	}
	row := func(v float64) float64 {
		r := float64(plotH-1) - v/top*float64(plotH-1)
		return math.Max(0, math.Min(float64(plotH-1), r))
	}

	for i := 0; i+1 < n; i++ {
		x0, x1 := col(i), col(i+1)
		y0, y1 := row(values[i]), row(values[i+1])
		for cx := x0 + 1; cx < x1; cx++ {
			t := float64(cx-x0) / float64(x1-x0)
			cy := int(math.Round(y0 + (y1-y0)*t))
			screen.SetContent(plotX+cx, plotY+cy, lineRune, nil, style)
		}
	}
	for i, v := range values {
		cy := int(math.Round(row(v)))
		screen.SetContent(plotX+col(i), plotY+cy, marker, nil, style)
	}
}

// drawLabels prints as many timestamps under the x axis as fit without overlap
func (c *ComparisonChart) drawLabels(screen tcell.Screen, labels []string, plotX, axisY, plotW int) {
	n := len(labels)
	if n == 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(styles.ColorSubtext)
	y := axisY + 1

	next := 0
	for i, l := range labels {
		cx := plotW / 2
		if n > 1 {
			cx = i * (plotW - 1) / (n - 1)
		}
		w := runewidth.StringWidth(l)
		start := cx - w/2
		start = max(start, 0)
		if start+w > plotW {
			start = plotW - w
		}
		if start < next || start < 0 {
			continue
		}
		printAt(screen, plotX+start, y, plotW-start, l, style)
		next = start + w + 1
	}
}

// niceCeil rounds v up to one significant step so the axis reads cleanly
func niceCeil(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	for _, step := range []float64{1, 2, 2.5, 5, 10} {
		if s := step * mag; s >= v {
			return s
		}
	}
	return 10 * mag
}
