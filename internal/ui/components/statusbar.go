package components

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Hint is one key binding shown in the status bar
type Hint struct {
	Key    string
	Action string
}

func (h Hint) String() string {
	return fmt.Sprintf("[yellow]<%s>[white] %s", h.Key, h.Action)
}

// StatusBar displays key hints, replaced temporarily by flash messages
type StatusBar struct {
	*tview.TextView

	mu         sync.RWMutex
	hints      []Hint
	message    string
	flashColor tcell.Color
	generation int
	timer      *time.Timer

	// queue runs display updates triggered off the UI goroutine
	queue func(func())
}

// NewStatusBar creates a new status bar component
func NewStatusBar() *StatusBar {
	s := &StatusBar{
		TextView:   tview.NewTextView(),
		flashColor: tcell.ColorDefault,
		queue:      func(f func()) { f() },
	}

	s.TextView.
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	return s
}

// SetQueue routes expiry redraws through queue, typically
// Application.QueueUpdateDraw.
func (s *StatusBar) SetQueue(queue func(func())) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if queue == nil {
		queue = func(f func()) { f() }
	}
	s.queue = queue
}

// SetHints sets the keyboard hints to display. An empty list is ignored.
func (s *StatusBar) SetHints(hints []Hint) {
	if len(hints) == 0 {
		return
	}
	s.mu.Lock()
	s.hints = append([]Hint(nil), hints...)
	s.mu.Unlock()
	s.updateDisplay()
}

// SetMessage shows message until duration passes; zero keeps it until cleared
func (s *StatusBar) SetMessage(message string, duration time.Duration) {
	s.flash(message, tcell.ColorDefault, duration)
}

// ClearMessage clears the current message and shows hints again
func (s *StatusBar) ClearMessage() {
	s.mu.Lock()
	s.message = ""
	s.flashColor = tcell.ColorDefault
	s.generation++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	s.updateDisplay()
}

// Flash displays a colored message for duration
func (s *StatusBar) Flash(message string, color tcell.Color, duration time.Duration) {
	s.flash(message, color, duration)
}

// Success displays a success message
func (s *StatusBar) Success(message string) {
	s.Flash("✓ "+message, tcell.ColorGreen, 3*time.Second)
}

// Error displays an error message
func (s *StatusBar) Error(message string) {
	s.Flash("✗ "+message, tcell.ColorRed, 5*time.Second)
}

// Warning displays a warning message
func (s *StatusBar) Warning(message string) {
	s.Flash("⚠ "+message, tcell.ColorYellow, 4*time.Second)
}

// Info displays an info message
func (s *StatusBar) Info(message string) {
	s.Flash("ℹ "+message, tcell.ColorTeal, 3*time.Second)
}

func (s *StatusBar) flash(message string, color tcell.Color, duration time.Duration) {
	s.mu.Lock()
	s.message = message
	s.flashColor = color
	s.generation++
	gen := s.generation
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if duration > 0 {
		s.timer = time.AfterFunc(duration, func() { s.expire(gen) })
	}
	s.mu.Unlock()

	s.updateDisplay()
}

// expire clears the message unless a newer one replaced it
func (s *StatusBar) expire(gen int) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.message = ""
	s.flashColor = tcell.ColorDefault
	s.timer = nil
	queue := s.queue
	s.mu.Unlock()

	queue(s.updateDisplay)
}

// Text returns the current markup
func (s *StatusBar) Text() string {
	return s.GetText(false)
}

func (s *StatusBar) updateDisplay() {
	s.mu.RLock()
	message := s.message
	color := s.flashColor
	hints := s.hints
	s.mu.RUnlock()

	var text string
	switch {
	case message != "" && color != tcell.ColorDefault:
		text = fmt.Sprintf("[%s]%s[white]", colorName(color), message)
	case message != "":
		text = message
	default:
		parts := make([]string, len(hints))
		for i, h := range hints {
			parts[i] = h.String()
		}
		text = strings.Join(parts, "  ")
	}

	if s.GetText(false) != text {
		s.SetText(text)
	}
}

// colorName returns the color name for tview markup
func colorName(color tcell.Color) string {
	switch color {
	case tcell.ColorRed:
		return "red"
	case tcell.ColorGreen:
		return "green"
	case tcell.ColorYellow:
		return "yellow"
	case tcell.ColorTeal:
		return "teal"
	default:
		return "white"
	}
}
