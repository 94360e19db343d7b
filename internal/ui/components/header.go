package components

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// Header shows the application title, the backend and the stats freshness
type Header struct {
	*tview.TextView

	mu           sync.RWMutex
	title        string
	endpoint     string
	pollInterval time.Duration
	statsUpdated time.Time
	mock         bool
}

// NewHeader creates a header with the given title
func NewHeader(title string) *Header {
	h := &Header{
		TextView: tview.NewTextView(),
		title:    title,
	}

	h.TextView.
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	h.updateDisplay()
	return h
}

// SetEndpoint sets the backend base URL shown in the header
func (h *Header) SetEndpoint(endpoint string, mock bool) {
	h.mu.Lock()
	h.endpoint = endpoint
	h.mock = mock
	h.mu.Unlock()
	h.updateDisplay()
}

// SetPollInterval sets the displayed stats refresh period
func (h *Header) SetPollInterval(d time.Duration) {
	h.mu.Lock()
	h.pollInterval = d
	h.mu.Unlock()
	h.updateDisplay()
}

// SetStatsUpdated records when stats were last refreshed
func (h *Header) SetStatsUpdated(t time.Time) {
	h.mu.Lock()
	changed := !h.statsUpdated.Equal(t)
	h.statsUpdated = t
	h.mu.Unlock()
	if changed {
		h.updateDisplay()
	}
}

func (h *Header) updateDisplay() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var b strings.Builder
	fmt.Fprintf(&b, "[teal::b]%s[white::-]", h.title)
	if h.endpoint != "" {
		fmt.Fprintf(&b, "  [gray]backend[white] %s", tview.Escape(h.endpoint))
		if h.mock {
			b.WriteString(" [yellow](mock)[white]")
		}
	}
	if h.statsUpdated.IsZero() {
		b.WriteString("  [gray]stats[white] waiting")
	} else {
		fmt.Fprintf(&b, "  [gray]stats[white] %s", h.statsUpdated.Format("15:04:05"))
	}
	if h.pollInterval > 0 {
		fmt.Fprintf(&b, " [gray](every %s)[white]", h.pollInterval)
	}

	h.SetText(b.String())
}
