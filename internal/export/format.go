// Package export writes comparison history to files in several formats and
// renders the comparison chart as a PNG image.
package export

import (
	"strings"
	"time"

	fsderrors "github.com/jontk/fsdash/internal/errors"
)

// Format is an export file format
type Format string

// Supported formats
const (
	FormatText     Format = "txt"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatYAML     Format = "yaml"
	FormatPNG      Format = "png"
)

// HistoryFormats lists the formats comparison history can be written in
var HistoryFormats = []Format{FormatText, FormatCSV, FormatJSON, FormatMarkdown, FormatYAML}

// ParseFormat maps a user-facing format name onto a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fsderrors.Invalid("export format", "unsupported format "+s)
	}
}

// Result describes a completed export
type Result struct {
	Format    Format
	FilePath  string
	Size      int64
	Records   int
	Timestamp time.Time
}
