// Package styles provides consistent styling for UI components that works with
// terminal color themes like Catppuccin, Dracula, Gruvbox, etc.
//
// Chrome uses ANSI color indices (0-15), which terminal themes define
// cohesively, so the dashboard follows the user's theme. The two chart series
// are the exception: they keep fixed brand colors so the terminal chart and
// the exported PNG look alike.
package styles

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ANSI color indices as tcell colors - these adapt to terminal themes
var (
	// ANSI 8 is typically a surface color slightly lighter than the background
	ColorSurface = tcell.ColorGray

	ColorText    = tcell.ColorDefault
	ColorSubtext = tcell.ColorSilver
	ColorDim     = tcell.ColorGray

	ColorAccent    = tcell.ColorYellow
	ColorHighlight = tcell.ColorGreen
	ColorInfo      = tcell.ColorBlue
	ColorWarning   = tcell.ColorYellow
	ColorError     = tcell.ColorRed
)

// Series colors
var (
	BasicSeries     = tcell.GetColor("#4f46e5")
	OptimizedSeries = tcell.GetColor("#059669")
)

// StyleInputField applies theme-aware styling to a tview InputField.
func StyleInputField(input *tview.InputField) *tview.InputField {
	return input.
		SetLabelColor(ColorAccent).
		SetFieldTextColor(ColorText).
		SetFieldBackgroundColor(ColorSurface).
		SetPlaceholderTextColor(ColorDim)
}

// StyleButton applies theme-aware styling to a tview Button. The focused
// button is highlighted green.
func StyleButton(button *tview.Button) *tview.Button {
	button.SetStyle(tcell.StyleDefault.Foreground(ColorText).Background(ColorSurface))
	button.SetActivatedStyle(tcell.StyleDefault.Foreground(ColorSurface).Background(ColorHighlight))
	return button
}

// StyleModal applies theme-aware styling to a tview Modal.
func StyleModal(modal *tview.Modal) *tview.Modal {
	return modal.
		SetTextColor(ColorText).
		SetButtonBackgroundColor(ColorSurface).
		SetButtonTextColor(ColorText)
}
