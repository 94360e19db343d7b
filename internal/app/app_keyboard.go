package app

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/export"
	"github.com/rivo/tview"
)

func (a *App) setupKeyboardShortcuts() {
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		_ = a.Stop()
		return nil
	}

	// The help overlay handles its own keys
	if a.IsHelpOpen() {
		return event
	}

	switch event.Key() {
	case tcell.KeyTab:
		a.cycleFocus(1)
		return nil
	case tcell.KeyBacktab:
		a.cycleFocus(-1)
		return nil
	case tcell.KeyRune:
	default:
		return event
	}

	// Digits typed into the user field belong to the field
	if _, typing := a.app.GetFocus().(*tview.InputField); typing && unicode.IsDigit(event.Rune()) {
		return event
	}

	switch event.Rune() {
	case 'q', 'Q':
		_ = a.Stop()
		return nil
	case '?':
		a.showHelp()
		return nil
	case 'e', 'E':
		a.exportHistory()
		return nil
	case 'x', 'X':
		a.exportChart()
		return nil
	}

	return a.view.OnKey(event)
}

func (a *App) cycleFocus(step int) {
	items := a.view.Focusables()
	if len(items) == 0 {
		return
	}

	current := a.app.GetFocus()
	next := 0
	for i, p := range items {
		if p == current {
			next = (i + step + len(items)) % len(items)
			break
		}
	}
	a.app.SetFocus(items[next])
}

func (a *App) exportHistory() {
	results := a.model.Snapshot().History
	if len(results) == 0 {
		a.statusBar.Warning("Nothing to export yet")
		return
	}

	format, err := export.ParseFormat(a.config.Export.Format)
	if err != nil {
		a.statusBar.Error(err.Error())
		return
	}

	res, err := a.exporter.ExportHistory(results, format)
	if err != nil {
		a.logger.Error().Err(err).Msg("History export failed")
		a.statusBar.Error(fmt.Sprintf("Export failed: %v", err))
		return
	}
	a.statusBar.Success(fmt.Sprintf("Exported %d comparisons to %s", res.Records, res.FilePath))
}

func (a *App) exportChart() {
	results := a.model.Snapshot().History
	if len(results) == 0 {
		a.statusBar.Warning("Nothing to chart yet")
		return
	}

	res, err := a.exporter.ExportChart(results)
	if err != nil {
		a.logger.Error().Err(err).Msg("Chart export failed")
		a.statusBar.Error(fmt.Sprintf("Chart export failed: %v", err))
		return
	}
	a.statusBar.Success("Chart saved to " + res.FilePath)
}
