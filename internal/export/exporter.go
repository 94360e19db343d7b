package export

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jontk/fsdash/internal/dashboard"
	fsderrors "github.com/jontk/fsdash/internal/errors"
	"github.com/jontk/fsdash/internal/fileperms"
)

// Exporter writes timestamped export files into a directory
type Exporter struct {
	dir string
	now func() time.Time
}

// NewExporter creates an exporter rooted at dir. An empty dir defaults to
// ~/fsdash_exports.
func NewExporter(dir string) *Exporter {
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, "fsdash_exports")
	}
	return &Exporter{dir: dir, now: time.Now}
}

// Dir returns the export directory
func (e *Exporter) Dir() string {
	return e.dir
}

// ExportHistory writes results to a new file in format
func (e *Exporter) ExportHistory(results []dashboard.ComparisonResult, format Format) (*Result, error) {
	if format == FormatPNG {
		return nil, exportErr(format, fmt.Errorf("history cannot be written as png"))
	}

	now := e.now()
	result, err := e.write("comparisons", format, now, func(w *bufio.Writer) error {
		return WriteHistory(w, results, format, now)
	})
	if err != nil {
		return nil, err
	}
	result.Records = len(results)
	return result, nil
}

// ExportChart renders results as a PNG chart file
func (e *Exporter) ExportChart(results []dashboard.ComparisonResult) (*Result, error) {
	now := e.now()
	result, err := e.write("chart", FormatPNG, now, func(w *bufio.Writer) error {
		return WriteChartPNG(w, dashboard.ChartData(results))
	})
	if err != nil {
		return nil, err
	}
	result.Records = len(results)
	return result, nil
}

func (e *Exporter) write(prefix string, format Format, now time.Time, body func(*bufio.Writer) error) (*Result, error) {
	name := fmt.Sprintf("%s_%s.%s", prefix, now.Format("20060102_150405"), format)
	path, err := pathWithinBase(filepath.Join(e.dir, name), e.dir)
	if err != nil {
		return nil, exportErr(format, err)
	}

	if err := os.MkdirAll(e.dir, fileperms.ExportDir); err != nil {
		return nil, exportErr(format, fmt.Errorf("create directory %s: %w", e.dir, err))
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileperms.ExportFile)
	if err != nil {
		return nil, exportErr(format, fmt.Errorf("create file: %w", err))
	}

	w := bufio.NewWriter(f)
	werr := body(w)
	if werr == nil {
		werr = w.Flush()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(path)
		return nil, exportErr(format, werr)
	}

	result := &Result{Format: format, FilePath: path, Timestamp: now}
	if stat, err := os.Stat(path); err == nil {
		result.Size = stat.Size()
	}
	return result, nil
}

// pathWithinBase resolves path and rejects anything outside base
func pathWithinBase(path, base string) (string, error) {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return "", fmt.Errorf("resolve base %q: %w", base, err)
	}
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	rel, err := filepath.Rel(absBase, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside export directory %q", path, base)
	}
	return absPath, nil
}

// exportErr wraps err once; already-typed export errors pass through
func exportErr(format Format, err error) error {
	if fsderrors.IsType(err, fsderrors.ErrorTypeExport) {
		return err
	}
	return fsderrors.Export(string(format), err)
}
