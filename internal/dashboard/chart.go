package dashboard

// Series names and colors shared by the terminal chart and the PNG export
const (
	BasicSeriesName      = "Basic Implementation"
	OptimizedSeriesName  = "Optimized Implementation"
	BasicSeriesColor     = "#4f46e5"
	OptimizedSeriesColor = "#059669"
	YAxisLabel           = "Time (ms)"
)

// Chart holds the two aligned series derived from history
type Chart struct {
	Labels    []string
	Basic     []float64
	Optimized []float64
}

// Empty reports whether there is nothing to plot
func (c Chart) Empty() bool {
	return len(c.Labels) == 0
}

// Max returns the largest value across both series
func (c Chart) Max() float64 {
	var m float64
	for i := range c.Labels {
		if c.Basic[i] > m {
			m = c.Basic[i]
		}
		if c.Optimized[i] > m {
			m = c.Optimized[i]
		}
	}
	return m
}

// ChartData projects results (oldest first) onto chart series
func ChartData(results []ComparisonResult) Chart {
	c := Chart{
		Labels:    make([]string, len(results)),
		Basic:     make([]float64, len(results)),
		Optimized: make([]float64, len(results)),
	}
	for i, r := range results {
		c.Labels[i] = r.Timestamp
		c.Basic[i] = r.BasicTime
		c.Optimized[i] = r.OptimizedTime
	}
	return c
}
