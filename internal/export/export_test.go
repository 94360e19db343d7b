package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jontk/fsdash/internal/api"
	"github.com/jontk/fsdash/internal/dashboard"
	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/fileperms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var exportedAt = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func makeResults(n int) []dashboard.ComparisonResult {
	results := make([]dashboard.ComparisonResult, n)
	for i := range results {
		at := exportedAt.Add(time.Duration(i) * 5 * time.Second)
		results[i] = dashboard.ComparisonResult{
			ID:               "id-" + string(rune('a'+i)),
			UserID:           i + 1,
			At:               at,
			Timestamp:        at.Format(dashboard.TimestampLayout),
			BasicTime:        100 + float64(i),
			BasicMetrics:     api.RequestMetrics{CacheHit: false, MemoryUsageMB: 50},
			OptimizedTime:    0.5,
			OptimizedMetrics: api.RequestMetrics{CacheHit: i > 0, MemoryUsageMB: 50.25},
			Improvement:      dashboard.Improvement(100+float64(i), 0.5),
		}
	}
	return results
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "text", want: FormatText},
		{in: "TXT", want: FormatText},
		{in: "csv", want: FormatCSV},
		{in: "json", want: FormatJSON},
		{in: "markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: "yaml", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "png", want: FormatPNG},
		{in: "html", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, fsderrors.IsType(err, fsderrors.ErrorTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteHistoryText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, makeResults(2), FormatText, exportedAt))

	s := buf.String()
	assert.Contains(t, s, "Feature Store Comparisons")
	assert.Contains(t, s, "Total records: 2")
	assert.Contains(t, s, "Improvement (%)")
	assert.Contains(t, s, "07:08:09")
	assert.Contains(t, s, "99.5")
}

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, makeResults(2), FormatCSV, exportedAt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, headers, records[0])
	assert.Equal(t, []string{"07:08:09", "1", "100.00", "0.50", "99.5", "No", "No", "50.00", "50.25"}, records[1])
	assert.Equal(t, "Yes", records[2][6])
}

func TestWriteHistoryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, makeResults(3), FormatJSON, exportedAt))

	var env struct {
		Title      string `json:"title"`
		ExportedAt string `json:"exported_at"`
		Total      int    `json:"total"`
		Records    []struct {
			UserID      int     `json:"user_id"`
			BasicTime   float64 `json:"basic_time"`
			Improvement string  `json:"improvement"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, reportTitle, env.Title)
	assert.Equal(t, "2024-05-06T07:08:09Z", env.ExportedAt)
	assert.Equal(t, 3, env.Total)
	require.Len(t, env.Records, 3)
	assert.Equal(t, 3, env.Records[2].UserID)
	assert.Equal(t, 102.0, env.Records[2].BasicTime)
}

func TestWriteHistoryJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, nil, FormatJSON, exportedAt))
	assert.Contains(t, buf.String(), `"records": []`)
}

func TestWriteHistoryYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, makeResults(1), FormatYAML, exportedAt))

	var env map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, reportTitle, env["title"])
	assert.Equal(t, 1, env["total"])

	records := env["records"].([]interface{})
	first := records[0].(map[string]interface{})
	assert.Equal(t, "99.5", first["improvement"])
	assert.Contains(t, first, "basic_metrics")
	assert.NotContains(t, first, "features")
}

func TestWriteHistoryMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistory(&buf, makeResults(2), FormatMarkdown, exportedAt))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "# Feature Store Comparisons", lines[0])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "| 07:08:14 | 2 |"))
}

func TestWriteHistoryUnsupported(t *testing.T) {
	err := WriteHistory(&bytes.Buffer{}, nil, FormatPNG, exportedAt)
	assert.True(t, fsderrors.IsType(err, fsderrors.ErrorTypeExport))
}

func TestWriteChartPNG(t *testing.T) {
	for _, n := range []int{1, 2, 10} {
		var buf bytes.Buffer
		require.NoError(t, WriteChartPNG(&buf, dashboard.ChartData(makeResults(n))), "n=%d", n)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "n=%d", n)
	}
}

func TestWriteChartPNGEmpty(t *testing.T) {
	err := WriteChartPNG(&bytes.Buffer{}, dashboard.ChartData(nil))
	assert.True(t, fsderrors.IsType(err, fsderrors.ErrorTypeExport))
}

func TestWriteChartPNGAllZero(t *testing.T) {
	data := dashboard.Chart{Labels: []string{"a", "b"}, Basic: []float64{0, 0}, Optimized: []float64{0, 0}}

	var buf bytes.Buffer
	require.NoError(t, WriteChartPNG(&buf, data))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestExporterHistoryFile(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir)
	exp.now = func() time.Time { return exportedAt }

	result, err := exp.ExportHistory(makeResults(2), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, FormatCSV, result.Format)
	assert.Equal(t, 2, result.Records)
	assert.True(t, strings.HasSuffix(result.FilePath, "comparisons_20240506_070809.csv"))
	assert.Greater(t, result.Size, int64(0))

	info, err := os.Stat(result.FilePath)
	require.NoError(t, err)
	assert.Equal(t, fileperms.ExportFile, info.Mode().Perm())
}

func TestExporterChartFile(t *testing.T) {
	exp := NewExporter(t.TempDir())

	result, err := exp.ExportChart(makeResults(4))
	require.NoError(t, err)

	raw, err := os.ReadFile(result.FilePath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, pngMagic))
	assert.True(t, strings.HasSuffix(result.FilePath, ".png"))
}

func TestExporterRejects(t *testing.T) {
	dir := t.TempDir()
	exp := NewExporter(dir)

	_, err := exp.ExportHistory(makeResults(1), FormatPNG)
	assert.True(t, fsderrors.IsType(err, fsderrors.ErrorTypeExport))

	_, err = exp.ExportChart(nil)
	assert.True(t, fsderrors.IsType(err, fsderrors.ErrorTypeExport))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed exports must not leave files behind")
}

func TestPathWithinBase(t *testing.T) {
	base := t.TempDir()

	_, err := pathWithinBase(base+"/out.csv", base)
	assert.NoError(t, err)

	_, err = pathWithinBase(base+"/../escape.csv", base)
	assert.Error(t, err)
}
