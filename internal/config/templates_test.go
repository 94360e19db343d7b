package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesRenderValidConfig(t *testing.T) {
	tm := NewTemplateManager()

	for _, ct := range tm.ListTemplates() {
		t.Run(ct.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, tm.SaveTemplateAsConfig(ct.Name, nil, path))

			cfg, err := LoadWithPath(path)
			require.NoError(t, err)

			result := NewValidator(cfg, false).Validate()
			assert.True(t, result.Valid, "template %s: %v", ct.Name, result.Errors)
		})
	}
}

func TestGenerateConfigOverrides(t *testing.T) {
	tm := NewTemplateManager()

	out, err := tm.GenerateConfig("local", map[string]string{"BaseURL": "http://10.0.0.5:9000"})
	require.NoError(t, err)
	assert.Contains(t, out, "baseURL: http://10.0.0.5:9000")
	assert.Contains(t, out, "pollInterval: 5s")

	_, err = tm.GenerateConfig("missing", nil)
	assert.Error(t, err)
}

func TestListTemplatesSorted(t *testing.T) {
	names := []string{}
	for _, ct := range NewTemplateManager().ListTemplates() {
		names = append(names, ct.Name)
	}
	assert.Equal(t, []string{"local", "mock", "remote"}, names)

	_, ok := NewTemplateManager().GetTemplate("mock")
	assert.True(t, ok)
}
