package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jontk/fsdash/internal/dashboard"
	"gopkg.in/yaml.v3"
)

const reportTitle = "Feature Store Comparisons"

var headers = []string{
	"Timestamp",
	"User ID",
	"Basic (ms)",
	"Optimized (ms)",
	"Improvement (%)",
	"Basic Cache Hit",
	"Optimized Cache Hit",
	"Basic Memory (MB)",
	"Optimized Memory (MB)",
}

// envelope is the structured document written for JSON and YAML
type envelope struct {
	Title      string                       `json:"title" yaml:"title"`
	ExportedAt string                       `json:"exported_at" yaml:"exported_at"`
	Total      int                          `json:"total" yaml:"total"`
	Records    []dashboard.ComparisonResult `json:"records" yaml:"records"`
}

// WriteHistory writes results (oldest first) to w in format
func WriteHistory(w io.Writer, results []dashboard.ComparisonResult, format Format, exportedAt time.Time) error {
	var err error
	switch format {
	case FormatText:
		err = writeText(w, results, exportedAt)
	case FormatCSV:
		err = writeCSV(w, results)
	case FormatJSON:
		err = writeJSON(w, results, exportedAt)
	case FormatMarkdown:
		err = writeMarkdown(w, results, exportedAt)
	case FormatYAML:
		err = writeYAML(w, results, exportedAt)
	default:
		err = fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return exportErr(format, err)
	}
	return nil
}

func row(r dashboard.ComparisonResult) []string {
	return []string{
		r.Timestamp,
		strconv.Itoa(r.UserID),
		strconv.FormatFloat(r.BasicTime, 'f', 2, 64),
		strconv.FormatFloat(r.OptimizedTime, 'f', 2, 64),
		r.Improvement,
		yesNo(r.BasicMetrics.CacheHit),
		yesNo(r.OptimizedMetrics.CacheHit),
		strconv.FormatFloat(r.BasicMetrics.MemoryUsageMB, 'f', 2, 64),
		strconv.FormatFloat(r.OptimizedMetrics.MemoryUsageMB, 'f', 2, 64),
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func writeText(w io.Writer, results []dashboard.ComparisonResult, exportedAt time.Time) error {
	rows := make([][]string, len(results))
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for i, r := range results {
		rows[i] = row(r)
		for j, cell := range rows[i] {
			widths[j] = max(widths[j], len(cell))
		}
	}

	separator := buildSeparator(widths)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", reportTitle)
	fmt.Fprintf(&b, "Exported at: %s\n", exportedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total records: %d\n\n", len(results))
	b.WriteString(separator + "\n")
	b.WriteString(buildRow(headers, widths) + "\n")
	b.WriteString(separator + "\n")
	for _, r := range rows {
		b.WriteString(buildRow(r, widths) + "\n")
	}
	b.WriteString(separator + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func buildSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

func buildRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = fmt.Sprintf(" %-*s ", w, cells[i])
	}
	return "|" + strings.Join(parts, "|") + "|"
}

func writeCSV(w io.Writer, results []dashboard.ComparisonResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func newEnvelope(results []dashboard.ComparisonResult, exportedAt time.Time) envelope {
	if results == nil {
		results = []dashboard.ComparisonResult{}
	}
	return envelope{
		Title:      reportTitle,
		ExportedAt: exportedAt.Format(time.RFC3339),
		Total:      len(results),
		Records:    results,
	}
}

func writeJSON(w io.Writer, results []dashboard.ComparisonResult, exportedAt time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newEnvelope(results, exportedAt)); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, results []dashboard.ComparisonResult, exportedAt time.Time) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newEnvelope(results, exportedAt)); err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	return enc.Close()
}

func writeMarkdown(w io.Writer, results []dashboard.ComparisonResult, exportedAt time.Time) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", reportTitle)
	fmt.Fprintf(&b, "_Exported at: %s, %d records_\n\n", exportedAt.Format("2006-01-02 15:04:05"), len(results))

	fmt.Fprintf(&b, "| %s |\n", strings.Join(headers, " | "))
	seps := make([]string, len(headers))
	for i := range seps {
		seps[i] = "---"
	}
	fmt.Fprintf(&b, "| %s |\n", strings.Join(seps, " | "))
	for _, r := range results {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(row(r), " | "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
