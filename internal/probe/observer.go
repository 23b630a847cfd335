package probe

import (
	"github.com/rs/zerolog/log"

	"github.com/danmuck/scanctl/internal/observability"
)

// SnapshotSource renders one exportable payload for a published tick.
// Implementations are called from the observer goroutine only.
type SnapshotSource interface {
	Snapshot(tick int64) ([]byte, error)
}

// Observer is the probe consumer: parked in Wait until the scan cycle
// publishes, then renders and stores a snapshot for that tick.
type Observer struct {
	rdv    *Rendezvous
	source SnapshotSource
	store  *SnapshotStore
}

func NewObserver(rdv *Rendezvous, source SnapshotSource, store *SnapshotStore) *Observer {
	return &Observer{
		rdv:    rdv,
		source: source,
		store:  store,
	}
}

// Run consumes ticks until the rendezvous aborts. A failed snapshot is
// logged and skipped; the loop only exits on the abort sentinel.
func (o *Observer) Run() {
	for {
		tick := o.rdv.Wait()
		if tick == TickAborted {
			log.Debug().Msg("probe.observer.stopped")
			return
		}
		payload, err := o.source.Snapshot(tick)
		if err != nil {
			observability.RecordProbeSnapshot(false)
			log.Warn().Int64("tick", tick).Err(err).Msg("probe.snapshot.failed")
			continue
		}
		o.store.Put(tick, payload)
		observability.RecordProbeSnapshot(true)
	}
}
