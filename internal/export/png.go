package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jontk/fsdash/internal/dashboard"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 1024
	chartHeight = 480
)

// WriteChartPNG renders the two comparison series as a PNG line chart
func WriteChartPNG(w io.Writer, data dashboard.Chart) error {
	if data.Empty() {
		return exportErr(FormatPNG, fmt.Errorf("no comparisons to plot"))
	}

	ch := buildChart(data)
	if err := ch.Render(chart.PNG, w); err != nil {
		return exportErr(FormatPNG, err)
	}
	return nil
}

func buildChart(data dashboard.Chart) chart.Chart {
	n := len(data.Labels)
	xs := make([]float64, n)
	ticks := make([]chart.Tick, 0, n+1)
	for i, label := range data.Labels {
		xs[i] = float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: label})
	}

	basic := append([]float64(nil), data.Basic...)
	optimized := append([]float64(nil), data.Optimized...)

	// go-chart needs a non-zero x range, so a single point is widened
	minX, maxX := 0.5, float64(n)+0.5
	if n == 1 {
		xs = append(xs, 2)
		basic = append(basic, basic[0])
		optimized = append(optimized, optimized[0])
		maxX = 2
		ticks = append(ticks, chart.Tick{Value: 2, Label: ""})
	}

	top := data.Max() * 1.1
	if top <= 0 {
		top = 1
	}

	ch := chart.Chart{
		Title:      "Performance Comparison",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Request Time",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: minX, Max: maxX},
		},
		YAxis: chart.YAxis{
			Name:  dashboard.YAxisLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    dashboard.BasicSeriesName,
				XValues: xs,
				YValues: basic,
				Style:   seriesStyle(dashboard.BasicSeriesColor),
			},
			chart.ContinuousSeries{
				Name:    dashboard.OptimizedSeriesName,
				XValues: xs,
				YValues: optimized,
				Style:   seriesStyle(dashboard.OptimizedSeriesColor),
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

func seriesStyle(hex string) chart.Style {
	col := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}
