package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/studyplan/internal/logger"
)

// DefaultBuffer is the per-subscriber queue length.
const DefaultBuffer = 16

// Subscriber receives a tenant's events on C until it is unsubscribed.
type Subscriber struct {
	ID     string
	Tenant string
	C      <-chan Event

	out chan Event
}

// Hub fans events out to in-process subscribers, keyed by tenant.
// Publishing never blocks: a subscriber whose queue is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	log    *logger.Logger
	buffer int
	subs   map[string]map[*Subscriber]struct{}
}

// NewHub creates an empty hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:    logger.OrNop(log).With("component", "notify.Hub"),
		buffer: DefaultBuffer,
		subs:   make(map[string]map[*Subscriber]struct{}),
	}
}

// Subscribe registers a subscriber for tenant's events.
func (h *Hub) Subscribe(tenant string) *Subscriber {
	out := make(chan Event, h.buffer)
	s := &Subscriber{ID: uuid.NewString(), Tenant: tenant, C: out, out: out}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[tenant]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subs[tenant] = set
	}
	set[s] = struct{}{}

	h.log.Debug("subscriber added", "subscriber_id", s.ID, "tenant", tenant)
	return s
}

// Unsubscribe removes s and closes its channel. It is safe to call twice.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[s.Tenant]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.Tenant)
	}
	close(s.out)
	h.log.Debug("subscriber removed", "subscriber_id", s.ID, "tenant", s.Tenant)
}

// Publish delivers ev to the tenant's subscribers. It always returns nil.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[ev.Tenant] {
		select {
		case s.out <- ev:
		default:
			h.log.Warn("dropping event; subscriber queue full",
				"subscriber_id", s.ID, "tenant", ev.Tenant, "collection", ev.Collection)
		}
	}
	return nil
}

// Subscribers returns the number of subscribers for tenant.
func (h *Hub) Subscribers(tenant string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[tenant])
}
