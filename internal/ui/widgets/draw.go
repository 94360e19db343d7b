package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// printAt writes text starting at (x, y), clipped to maxWidth cells.
// Returns the number of cells used.
func printAt(screen tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		screen.SetContent(x+used, y, r, nil, style)
		used += w
	}
	return used
}

// printCentered writes text centered within [x, x+width)
func printCentered(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, width, "…")
	pad := (width - runewidth.StringWidth(text)) / 2
	printAt(screen, x+pad, y, width-pad, text, style)
}

// printRight writes text right-aligned so it ends at x+width
func printRight(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, width, "…")
	pad := width - runewidth.StringWidth(text)
	printAt(screen, x+pad, y, width-pad, text, style)
}
