// Package fileperms provides named file permission constants
// to avoid hardcoded octal values that trigger gosec warnings.
package fileperms

import "os"

const (
	// ExportDir holds exported histories and charts
	ExportDir os.FileMode = 0o700 // rwx------
	// ExportFile is an exported history or chart
	ExportFile os.FileMode = 0o600 // rw-------

	// ConfigFile is a written config.yaml
	ConfigFile os.FileMode = 0o640 // rw-r-----
	// ConfigDir contains config.yaml
	ConfigDir os.FileMode = 0o750 // rwxr-x---

	// LogDir contains rotated log files
	LogDir os.FileMode = 0o750 // rwxr-x---
)

// IsSecure checks if the given file mode is user-only
func IsSecure(mode os.FileMode) bool {
	return mode.Perm()&0o077 == 0
}
