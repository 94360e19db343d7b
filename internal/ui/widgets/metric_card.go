package widgets

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/ui/styles"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

// MetricCard displays a single labeled value: the label on the first row,
// the value on the second. Long values are truncated with an ellipsis.
type MetricCard struct {
	*tview.Box

	mu    sync.RWMutex
	label string
	value string
}

// NewMetricCard creates a card with the given label and value
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Box:   tview.NewBox(),
		label: label,
		value: value,
	}
}

// SetValue replaces the displayed value
func (m *MetricCard) SetValue(value string) *MetricCard {
	m.mu.Lock()
	m.value = value
	m.mu.Unlock()
	return m
}

// Label returns the card label
func (m *MetricCard) Label() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.label
}

// Value returns the displayed value
func (m *MetricCard) Value() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value
}

// Draw draws the card
func (m *MetricCard) Draw(screen tcell.Screen) {
	m.DrawForSubclass(screen, m)

	x, y, width, height := m.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	m.mu.RLock()
	label, value := m.label, m.value
	m.mu.RUnlock()

	labelStyle := tcell.StyleDefault.Foreground(styles.ColorSubtext)
	valueStyle := tcell.StyleDefault.Foreground(styles.ColorText).Bold(true)

	printAt(screen, x, y, width, runewidth.Truncate(label, width, "…"), labelStyle)
	if height > 1 {
		printAt(screen, x, y+1, width, runewidth.Truncate(value, width, "…"), valueStyle)
	}
}
