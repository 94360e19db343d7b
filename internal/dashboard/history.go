package dashboard

import "sync"

// HistoryLimit is the number of comparison results kept for display
const HistoryLimit = 10

// History is a bounded FIFO of comparison results. When full, appending
// evicts the oldest entry.
type History struct {
	mu    sync.RWMutex
	items []ComparisonResult
	limit int
}

// NewHistory creates an empty history holding at most HistoryLimit results
func NewHistory() *History {
	return &History{limit: HistoryLimit}
}

// Append adds r as the newest entry
func (h *History) Append(r ComparisonResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, r)
	if over := len(h.items) - h.limit; over > 0 {
		// copy down so the backing array does not grow without bound
		n := copy(h.items, h.items[over:])
		h.items = h.items[:n]
	}
}

// Items returns the entries oldest first. The slice is a copy.
func (h *History) Items() []ComparisonResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ComparisonResult, len(h.items))
	copy(out, h.items)
	return out
}

// Len returns the number of entries
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.items)
}

