// Package views holds the screens composed from widgets: the comparison
// dashboard and the help overlay.
package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/ui/components"
	"github.com/rivo/tview"
)

// View represents a screen hosted by the application
type View interface {
	// Name returns the unique page name of the view
	Name() string

	// Title returns the display title for the view
	Title() string

	// Hints returns keyboard shortcut hints for the status bar
	Hints() []components.Hint

	// Render returns the tview primitive to be displayed
	Render() tview.Primitive

	// OnKey handles keyboard events, returns nil if handled
	OnKey(event *tcell.EventKey) *tcell.EventKey

	// Stop cleanly shuts down the view
	Stop() error
}

// QueueFunc schedules f on the UI goroutine, e.g. Application.QueueUpdateDraw
type QueueFunc func(f func())

// BaseView provides the name and title shared by all views
type BaseView struct {
	name  string
	title string
}

// NewBaseView creates a new base view instance
func NewBaseView(name, title string) *BaseView {
	return &BaseView{name: name, title: title}
}

// Name returns the view name
func (v *BaseView) Name() string {
	return v.name
}

// Title returns the view title
func (v *BaseView) Title() string {
	return v.title
}
