package events

import "sync"

// Filter selects the events a subscriber wants. nil accepts everything.
type Filter func(Event) bool

type Hub struct {
	mu      sync.Mutex
	clients map[chan Event]Filter
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan Event]Filter)}
}

func (h *Hub) Subscribe() chan Event {
	return h.SubscribeFunc(nil)
}

// SubscribeFunc registers a channel that only receives events passing filter.
// Filtering at publish time keeps a full buffer made of wanted events only, so
// a dropped event is always covered by one still queued.
func (h *Hub) SubscribeFunc(filter Filter) chan Event {
	ch := make(chan Event, 10)
	h.mu.Lock()
	h.clients[ch] = filter
	h.mu.Unlock()
	return ch
}

// Unsubscribe is safe to call more than once for the same channel.
func (h *Hub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; !ok {
		return
	}
	delete(h.clients, ch)
	close(ch)
}

func (h *Hub) Publish(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch, filter := range h.clients {
		if filter != nil && !filter(evt) {
			continue
		}
		select {
		case ch <- evt:
		default:
			// drop if slow
		}
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
