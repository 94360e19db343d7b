package config

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"
)

// ExportFormats lists the history export formats the exporter understands
var ExportFormats = []string{"csv", "json", "markdown", "yaml", "text"}

// ValidationError represents a configuration error
type ValidationError struct {
	Field      string
	Message    string
	Suggestion string
}

// ValidationFix represents an automatic fix that can be applied
type ValidationFix struct {
	Field       string
	Description string
	OldValue    interface{}
	NewValue    interface{}
	Applied     bool
}

// ValidationResult represents the result of configuration validation
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
	Fixes  []ValidationFix
}

// Err collapses the result into a single error, nil when valid
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Validator validates and fixes fsdash configuration
type Validator struct {
	config  *Config
	result  *ValidationResult
	autoFix bool
}

// NewValidator creates a new configuration validator
func NewValidator(config *Config, autoFix bool) *Validator {
	return &Validator{
		config:  config,
		autoFix: autoFix,
		result: &ValidationResult{
			Valid:  true,
			Errors: []ValidationError{},
			Fixes:  []ValidationFix{},
		},
	}
}

// Validate performs configuration validation
func (v *Validator) Validate() *ValidationResult {
	if v.config == nil {
		v.addError("config", "Configuration is nil", "Initialize configuration")
		v.result.Valid = false
		return v.result
	}

	v.validateEndpoint()
	v.validateDurations()
	v.validateUser()
	v.validateExport()

	v.result.Valid = len(v.result.Errors) == 0
	return v.result
}

func (v *Validator) validateEndpoint() {
	if v.config.BaseURL == "" {
		v.fix("baseURL", "Missing base URL", "", DefaultBaseURL)
		return
	}
	if !isValidURL(v.config.BaseURL) {
		v.addError("baseURL", fmt.Sprintf("%q is not an absolute http(s) URL", v.config.BaseURL),
			"Use a value such as "+DefaultBaseURL)
	}
}

func (v *Validator) validateDurations() {
	if v.config.PollInterval == "" {
		v.fix("pollInterval", "Missing poll interval", "", "5s")
	} else if d, err := time.ParseDuration(v.config.PollInterval); err != nil || d <= 0 {
		v.fix("pollInterval", "Invalid poll interval", v.config.PollInterval, "5s")
	}

	if v.config.RequestTimeout != "" {
		if d, err := time.ParseDuration(v.config.RequestTimeout); err != nil || d < 0 {
			v.addError("requestTimeout", fmt.Sprintf("%q is not a valid duration", v.config.RequestTimeout),
				"Leave empty for no timeout, or use a value such as 10s")
		}
	}
}

func (v *Validator) validateUser() {
	if v.config.DefaultUserID < 1 {
		v.fix("defaultUserID", "User IDs start at 1", v.config.DefaultUserID, 1)
	}
}

func (v *Validator) validateExport() {
	format := strings.ToLower(v.config.Export.Format)
	if format == "" {
		v.fix("export.format", "Missing export format", "", "json")
		return
	}
	for _, f := range ExportFormats {
		if f == format {
			return
		}
	}
	v.addError("export.format", fmt.Sprintf("unsupported format %q", v.config.Export.Format),
		"Use one of: "+strings.Join(ExportFormats, ", "))
}

func (v *Validator) addError(field, message, suggestion string) {
	v.result.Errors = append(v.result.Errors, ValidationError{
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
}

// fix applies an automatic fix if autoFix is enabled
func (v *Validator) fix(field, description string, oldValue, newValue interface{}) {
	fix := ValidationFix{
		Field:       field,
		Description: description,
		OldValue:    oldValue,
		NewValue:    newValue,
	}

	if v.autoFix {
		v.applyFix(field, newValue)
		fix.Applied = true
	} else {
		v.addError(field, description, fmt.Sprintf("Set it to %v", newValue))
	}

	v.result.Fixes = append(v.result.Fixes, fix)
}

func (v *Validator) applyFix(field string, newValue interface{}) {
	switch field {
	case "baseURL":
		v.config.BaseURL = newValue.(string)
	case "pollInterval":
		v.config.PollInterval = newValue.(string)
	case "defaultUserID":
		v.config.DefaultUserID = newValue.(int)
	case "export.format":
		v.config.Export.Format = newValue.(string)
	}
}

func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ValidateAndFix validates configuration and optionally applies fixes
func ValidateAndFix(config *Config, autoFix bool) *ValidationResult {
	return NewValidator(config, autoFix).Validate()
}

// PrintValidationResult writes a formatted validation result
func PrintValidationResult(w io.Writer, result *ValidationResult) {
	if result.Valid {
		_, _ = fmt.Fprintf(w, "✅ Configuration is valid\n")
	} else {
		_, _ = fmt.Fprintf(w, "❌ Configuration has issues\n")
	}

	if len(result.Errors) > 0 {
		_, _ = fmt.Fprintf(w, "\n🚨 Errors (%d):\n", len(result.Errors))
		for _, err := range result.Errors {
			_, _ = fmt.Fprintf(w, "   • [%s] %s\n", err.Field, err.Message)
			if err.Suggestion != "" {
				_, _ = fmt.Fprintf(w, "     💡 %s\n", err.Suggestion)
			}
		}
	}

	applied := 0
	for _, fix := range result.Fixes {
		if fix.Applied {
			applied++
		}
	}
	if applied > 0 {
		_, _ = fmt.Fprintf(w, "\n🔧 Fixes applied (%d):\n", applied)
		for _, fix := range result.Fixes {
			if fix.Applied {
				_, _ = fmt.Fprintf(w, "   • [%s] %s: %v → %v\n", fix.Field, fix.Description, fix.OldValue, fix.NewValue)
			}
		}
	}
}
