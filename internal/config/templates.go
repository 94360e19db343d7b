package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/jontk/fsdash/internal/fileperms"
)

// ConfigTemplate is a starter configuration file
type ConfigTemplate struct {
	Name        string
	Description string
	Template    string
	Variables   map[string]string
}

// TemplateManager manages the built-in configuration templates
type TemplateManager struct {
	templates map[string]*ConfigTemplate
}

// NewTemplateManager creates a template manager with the built-in templates
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*ConfigTemplate)}
	tm.loadBuiltinTemplates()
	return tm
}

func (tm *TemplateManager) loadBuiltinTemplates() {
	tm.templates["local"] = &ConfigTemplate{
		Name:        "local",
		Description: "Backends running on this machine",
		Template: `# fsdash configuration: local backends
baseURL: {{.BaseURL}}
pollInterval: {{.PollInterval}}
requestTimeout: ""
defaultUserID: 1

ui:
  enableMouse: true
  showDetails: true

export:
  dir: $HOME/fsdash_exports
  format: json

log:
  level: info
`,
		Variables: map[string]string{
			"BaseURL":      DefaultBaseURL,
			"PollInterval": "5s",
		},
	}

	tm.templates["mock"] = &ConfigTemplate{
		Name:        "mock",
		Description: "Built-in mock backend for demos without the real services",
		Template: `# fsdash configuration: built-in mock backend
# start it with: fsdash mock serve
baseURL: http://{{.Addr}}
pollInterval: {{.PollInterval}}
defaultUserID: 1

mock:
  addr: {{.Addr}}
  basicLatency: {{.BasicLatency}}

log:
  level: debug
`,
		Variables: map[string]string{
			"Addr":         "127.0.0.1:8000",
			"BasicLatency": "100ms",
			"PollInterval": "2s",
		},
	}

	tm.templates["remote"] = &ConfigTemplate{
		Name:        "remote",
		Description: "Shared backends reached over the network",
		Template: `# fsdash configuration: remote backends
baseURL: {{.BaseURL}}
pollInterval: {{.PollInterval}}
requestTimeout: {{.RequestTimeout}}
defaultUserID: 1

export:
  dir: $HOME/fsdash_exports
  format: csv

log:
  level: warn
`,
		Variables: map[string]string{
			"BaseURL":        "https://features.example.com",
			"PollInterval":   "10s",
			"RequestTimeout": "15s",
		},
	}
}

// GetTemplate returns a template by name
func (tm *TemplateManager) GetTemplate(name string) (*ConfigTemplate, bool) {
	t, ok := tm.templates[name]
	return t, ok
}

// ListTemplates returns all templates sorted by name
func (tm *TemplateManager) ListTemplates() []*ConfigTemplate {
	out := make([]*ConfigTemplate, 0, len(tm.templates))
	for _, t := range tm.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GenerateConfig renders a template, with variables overriding its defaults
func (tm *TemplateManager) GenerateConfig(name string, variables map[string]string) (string, error) {
	ct, ok := tm.templates[name]
	if !ok {
		return "", fmt.Errorf("template '%s' not found", name)
	}

	vars := make(map[string]string, len(ct.Variables)+len(variables))
	for k, v := range ct.Variables {
		vars[k] = v
	}
	for k, v := range variables {
		vars[k] = v
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(ct.Template)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// SaveTemplateAsConfig renders a template into configPath
func (tm *TemplateManager) SaveTemplateAsConfig(name string, variables map[string]string, configPath string) error {
	content, err := tm.GenerateConfig(name, variables)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), fileperms.ConfigDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(content), fileperms.ConfigFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
