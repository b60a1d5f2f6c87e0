// Package schedule holds the canonical itinerary and serves read views of it.
package schedule

import (
	"sync"
	"time"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

const subscriberBuffer = 1

// Change tells subscribers a new version of the schedule is available.
type Change struct {
	Version   uint64    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Holder owns the schedule. One writer publishes whole snapshots; any number
// of readers take deep copies.
type Holder struct {
	mu        sync.RWMutex
	schedule  types.Schedule
	version   uint64
	updatedAt time.Time

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

func NewHolder(initial types.Schedule) *Holder {
	return &Holder{
		schedule:  initial.Clone(),
		updatedAt: time.Now(),
		subs:      make(map[int]chan Change),
	}
}

// Snapshot returns a deep copy of the current schedule.
func (h *Holder) Snapshot() types.Schedule {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.schedule.Clone()
}

// SnapshotWithVersion returns the schedule and the version it belongs to.
func (h *Holder) SnapshotWithVersion() (types.Schedule, Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.schedule.Clone(), Change{Version: h.version, UpdatedAt: h.updatedAt}
}

func (h *Holder) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

// Publish replaces the schedule and notifies subscribers. It returns the new
// version.
func (h *Holder) Publish(s types.Schedule) uint64 {
	h.mu.Lock()
	h.schedule = s.Clone()
	h.version++
	h.updatedAt = time.Now()
	change := Change{Version: h.version, UpdatedAt: h.updatedAt}
	h.mu.Unlock()

	h.notify(change)
	return change.Version
}

// Subscribe returns a channel of changes and a function that cancels the
// subscription. Delivery never blocks the publisher: a slow subscriber only
// sees the latest pending change.
// After Close the returned channel is already closed.
func (h *Holder) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)

	h.subMu.Lock()
	defer h.subMu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.subMu.Lock()
		defer h.subMu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

// Close ends every subscription so open event streams return. Publish keeps
// working afterwards; only new subscriptions are refused.
func (h *Holder) Close() {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Holder) notify(change Change) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- change:
		default:
			// drop the stale pending change and keep the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- change:
			default:
			}
		}
	}
}
