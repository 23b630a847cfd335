package probe

import (
	"sync"

	"github.com/danmuck/scanctl/internal/observability"
)

// TickAborted is the sentinel Wait returns once the rendezvous has been
// aborted. Valid cycle ticks are never negative.
const TickAborted int64 = -1

// Rendezvous is the single-slot handoff between the scan cycle and the
// probe observer. Publish never parks the publisher; Wait parks until a
// publish or an abort. Exactly one unconsumed tick is retained and a
// newer publish overwrites it, so a waiter always receives the freshest
// tick, never a backlog.
type Rendezvous struct {
	mu      sync.Mutex
	cond    *sync.Cond
	tick    int64
	pending bool
	gen     uint64
	aborted bool
}

func NewRendezvous() *Rendezvous {
	r := &Rendezvous{}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Publish hands the observer a fresh tick. O(1) under the lock, wakes
// any parked waiter, drops the previous tick if it was never consumed.
// Publishes after Abort are dropped.
func (r *Rendezvous) Publish(tick int64) {
	r.mu.Lock()
	if r.aborted {
		r.mu.Unlock()
		return
	}
	r.tick = tick
	r.pending = true
	r.gen++
	r.cond.Broadcast()
	r.mu.Unlock()
	observability.RecordProbePublish()
}

// Wait blocks until a tick is available or the rendezvous aborts, and
// returns the tick or TickAborted. An already-pending publish is
// consumed without parking. Spurious wakeups are absorbed by the
// generation check.
func (r *Rendezvous) Wait() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted {
		return TickAborted
	}
	if r.pending {
		r.pending = false
		return r.tick
	}
	start := r.gen
	for r.gen == start && !r.aborted {
		r.cond.Wait()
	}
	if r.aborted {
		return TickAborted
	}
	r.pending = false
	return r.tick
}

// Abort releases every parked waiter with TickAborted and makes the
// sentinel sticky: later Wait calls return immediately. Idempotent.
func (r *Rendezvous) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted {
		return
	}
	r.aborted = true
	r.pending = false
	r.tick = TickAborted
	r.gen++
	r.cond.Broadcast()
}

// Reset rearms an aborted rendezvous for a new run. Callers serialize
// Reset against Wait; the lifecycle controller only resets between
// runs, when no observer is parked.
func (r *Rendezvous) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborted = false
	r.pending = false
}

// Aborted reports whether the sentinel is in effect.
func (r *Rendezvous) Aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}
