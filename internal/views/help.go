package views

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/jontk/fsdash/internal/ui/components"
	"github.com/rivo/tview"
)

// HelpPage is the page name of the help overlay
const HelpPage = "help"

// HelpView lists the keyboard shortcuts
type HelpView struct {
	*BaseView
	container *tview.Flex
	content   *tview.TextView
	onClose   func()
}

// NewHelpView creates the help overlay. onClose runs when Esc, q or ? is pressed.
func NewHelpView(hints []components.Hint, onClose func()) *HelpView {
	v := &HelpView{
		BaseView: NewBaseView(HelpPage, "Help"),
		onClose:  onClose,
	}

	v.content = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetText(helpContent(hints))

	modal := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.content, 0, 1, true).
		AddItem(tview.NewTextView().SetDynamicColors(true).SetText("[yellow]Press ESC or Q to close[white]"), 1, 0, false)
	modal.SetBorder(true).
		SetTitle(" Help & Keyboard Shortcuts ").
		SetTitleAlign(tview.AlignCenter)
	modal.SetInputCapture(v.OnKey)

	v.container = tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(modal, 20, 0, true).
			AddItem(nil, 0, 1, false), 60, 0, true).
		AddItem(nil, 0, 1, false)

	return v
}

// Render returns the overlay
func (v *HelpView) Render() tview.Primitive {
	return v.container
}

// Hints returns no hints; the overlay footer explains how to close it
func (v *HelpView) Hints() []components.Hint {
	return nil
}

// Text returns the help text without color tags
func (v *HelpView) Text() string {
	return v.content.GetText(true)
}

// OnKey closes the overlay on Esc, q or ?
func (v *HelpView) OnKey(event *tcell.EventKey) *tcell.EventKey {
	closing := event.Key() == tcell.KeyEsc ||
		(event.Key() == tcell.KeyRune && strings.ContainsRune("qQ?", event.Rune()))
	if closing {
		if v.onClose != nil {
			v.onClose()
		}
		return nil
	}
	return event
}

// Stop is a no-op
func (v *HelpView) Stop() error {
	return nil
}

func helpContent(hints []components.Hint) string {
	var b strings.Builder
	b.WriteString("[teal::b]Feature Store Performance Demo[white::-]\n\n")
	b.WriteString("Compares the basic and optimized feature retrieval backends for a user.\n")
	b.WriteString("Aggregate statistics refresh in the background.\n\n")
	b.WriteString("[teal::b]Keys[white::-]\n")
	for _, h := range hints {
		b.WriteString("  " + h.String() + "\n")
	}
	b.WriteString("  [yellow]<Enter>[white] Test from the user field\n")
	return b.String()
}
