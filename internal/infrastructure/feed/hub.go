package feed

import "sync"

// Hub fans change notices out to the live subscriptions of each user. A
// notice only says "your result set changed"; subscribers re-query the store
// for the full set.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]map[chan struct{}]struct{}),
	}
}

// Subscribe registers a notification channel for ownerUID and returns it with
// its cancel func. The channel has a one-slot buffer: notices coalesce while
// the subscriber is busy re-querying.
func (h *Hub) Subscribe(ownerUID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[ownerUID] == nil {
		h.subs[ownerUID] = make(map[chan struct{}]struct{})
	}
	h.subs[ownerUID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[ownerUID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, ownerUID)
			}
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Notify wakes every subscription of ownerUID without blocking.
func (h *Hub) Notify(ownerUID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[ownerUID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
