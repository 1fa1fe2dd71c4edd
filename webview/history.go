package webview

// history is a per-view navigation stack used when the engine does not
// keep its own. pos points at the current entry; entries past pos are the
// forward stack and are discarded on a fresh navigation.
type history struct {
	entries []string
	pos     int
}

func newHistory() *history {
	return &history{pos: -1}
}

// push records a fresh navigation, truncating any forward entries.
func (h *history) push(url string) {
	h.entries = append(h.entries[:h.pos+1], url)
	h.pos = len(h.entries) - 1
}

// replace rewrites the current entry without growing the stack.
func (h *history) replace(url string) {
	if h.pos >= 0 {
		h.entries[h.pos] = url
	} else {
		h.push(url)
	}
}

// back steps to the previous entry, reporting false at the bottom.
func (h *history) back() (string, bool) {
	if h.pos <= 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// forward steps to the next entry, reporting false at the top.
func (h *history) forward() (string, bool) {
	if h.pos < 0 || h.pos >= len(h.entries)-1 {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}
