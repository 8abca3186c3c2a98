package webterm

import "strings"

// History keeps the most recently typed printable characters, oldest first.
// It is owned by a Session and not safe for concurrent use.
type History struct {
	entries []string
	start   int
	n       int
}

// NewHistory returns a history holding up to capacity characters,
// nil for capacity <= 0 (which KeyTranslator treats as disabled).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		return nil
	}
	return &History{entries: make([]string, capacity)}
}

// Add records one character, evicting the oldest when full.
func (h *History) Add(c string) {
	capacity := len(h.entries)
	if h.n < capacity {
		h.entries[(h.start+h.n)%capacity] = c
		h.n++
		return
	}
	h.entries[h.start] = c
	h.start = (h.start + 1) % capacity
}

func (h *History) Len() int {
	return h.n
}

func (h *History) Cap() int {
	return len(h.entries)
}

// Entries returns a copy of the recorded characters, oldest first.
func (h *History) Entries() []string {
	res := make([]string, h.n)
	for i := range h.n {
		res[i] = h.entries[(h.start+i)%len(h.entries)]
	}
	return res
}

func (h *History) String() string {
	return strings.Join(h.Entries(), "")
}

// Reset forgets everything.
func (h *History) Reset() {
	clear(h.entries)
	h.start, h.n = 0, 0
}
