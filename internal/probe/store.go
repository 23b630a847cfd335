package probe

import (
	"sync"
	"time"
)

// Snapshot is one exported probe payload with its cycle tick.
type Snapshot struct {
	Tick    int64     `json:"tick"`
	Payload []byte    `json:"payload"`
	At      time.Time `json:"at"`
}

// SnapshotStore keeps the latest exported snapshot for the monitor
// surface. Latest-only: a new snapshot replaces the previous one.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest Snapshot
	ok     bool
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{latest: Snapshot{Tick: TickAborted}}
}

func (s *SnapshotStore) Put(tick int64, payload []byte) {
	snap := Snapshot{
		Tick:    tick,
		Payload: append([]byte(nil), payload...),
		At:      time.Now(),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = snap
	s.ok = true
}

func (s *SnapshotStore) Latest() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.ok
}
