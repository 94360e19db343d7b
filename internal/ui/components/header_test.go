package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHeader(t *testing.T) {
	h := NewHeader("Feature Store Performance Demo")
	assert.Equal(t, "Feature Store Performance Demo  stats waiting", h.GetText(true))

	h.SetEndpoint("http://localhost:8000", false)
	h.SetPollInterval(5 * time.Second)
	h.SetStatsUpdated(time.Date(2024, 1, 1, 13, 14, 15, 0, time.Local))

	assert.Equal(t,
		"Feature Store Performance Demo  backend http://localhost:8000  stats 13:14:15 (every 5s)",
		h.GetText(true))

	h.SetEndpoint("http://127.0.0.1:8000", true)
	assert.Contains(t, h.GetText(true), "(mock)")
}
