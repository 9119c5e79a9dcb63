package route

import "sync"

// Router owns the current route and its back/forward stack. Changes made
// through any of its methods are announced on Changes, including the ones
// the application itself triggered.
type Router interface {
	Current() Route
	Navigate(Route)
	Back() bool
	Forward() bool
	Changes() <-chan Route
}

const changeBuffer = 8

// History is an in-memory Router.
type History struct {
	mu      sync.Mutex
	entries []Route
	index   int
	changes chan Route
}

// NewHistory seeds the stack with initial. The initial route is not
// announced; callers evaluate it themselves on startup.
func NewHistory(initial Route) *History {
	return &History{
		entries: []Route{initial},
		changes: make(chan Route, changeBuffer),
	}
}

func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.index]
}

// Navigate pushes r, dropping any forward entries. Navigating to the route
// that is already current changes nothing and announces nothing.
func (h *History) Navigate(r Route) {
	h.mu.Lock()
	if h.entries[h.index] == r {
		h.mu.Unlock()
		return
	}
	h.entries = append(h.entries[:h.index+1], r)
	h.index++
	h.mu.Unlock()
	h.publish(r)
}

func (h *History) Back() bool {
	h.mu.Lock()
	if h.index == 0 {
		h.mu.Unlock()
		return false
	}
	h.index--
	r := h.entries[h.index]
	h.mu.Unlock()
	h.publish(r)
	return true
}

func (h *History) Forward() bool {
	h.mu.Lock()
	if h.index >= len(h.entries)-1 {
		h.mu.Unlock()
		return false
	}
	h.index++
	r := h.entries[h.index]
	h.mu.Unlock()
	h.publish(r)
	return true
}

func (h *History) Changes() <-chan Route {
	return h.changes
}

// Len reports the number of entries in the stack.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// publish never blocks. When the buffer is full the oldest pending change is
// dropped; listeners always read Current anyway.
func (h *History) publish(r Route) {
	for {
		select {
		case h.changes <- r:
			return
		default:
		}
		select {
		case <-h.changes:
		default:
		}
	}
}
