package push

import (
	"sync"

	"github.com/rs/zerolog"
)

// subscriberBuffer bounds each subscriber's pending events. A subscriber
// that falls this far behind is dropped rather than allowed to stall the
// producers.
const subscriberBuffer = 32

// Subscriber is one live connection's event sink. Events arrive on C; the
// channel is closed when the subscriber is removed from the hub.
type Subscriber struct {
	C chan Event

	key    string
	closed bool
}

// Key returns the subject or job key this subscriber is registered under.
func (s *Subscriber) Key() string {
	return s.key
}

// Hub fans typed progress events out to live subscribers keyed by user id or
// job id. Subscriptions are ephemeral in-process state: nothing is persisted
// and no event history is replayed.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscriber]struct{}
	logger zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Subscribe registers a sink under key and enqueues the snapshot event so a
// late subscriber is not blind to prior state.
func (h *Hub) Subscribe(key string, snapshot Event) *Subscriber {
	sub := &Subscriber{C: make(chan Event, subscriberBuffer), key: key}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*Subscriber]struct{})
	}
	h.subs[key][sub] = struct{}{}
	sub.C <- snapshot
	h.logger.Debug().Str("key", key).Int("subscribers", len(h.subs[key])).Msg("push: subscriber added")
	return sub
}

// Unsubscribe removes a sink and closes its channel. When the last sink for
// a key is removed the key's list is discarded.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(sub)
}

// Publish fans an event out to every live sink under key. A sink whose
// buffer is full is pruned; the others are unaffected.
func (h *Hub) Publish(key string, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[key] {
		select {
		case sub.C <- ev:
		default:
			h.logger.Warn().Str("key", key).Msg("push: slow subscriber dropped")
			h.remove(sub)
		}
	}
}

// CloseKey sends a final event to every sink under key, then closes and
// removes them all. Used once a job reaches a terminal state so resources
// are freed without waiting for client disconnects.
func (h *Hub) CloseKey(key string, final Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[key] {
		select {
		case sub.C <- final:
		default:
		}
		h.remove(sub)
	}
}

// SubscriberCount reports the live sinks under key.
func (h *Hub) SubscriberCount(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key])
}

// remove must be called with h.mu held.
func (h *Hub) remove(sub *Subscriber) {
	set, ok := h.subs[sub.key]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.key)
	}
	if !sub.closed {
		sub.closed = true
		close(sub.C)
	}
}
