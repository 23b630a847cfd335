package probe

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danmuck/scanctl/internal/testutil/testlog"
)

type stubSource struct {
	failTick int64
}

func (s stubSource) Snapshot(tick int64) ([]byte, error) {
	if tick == s.failTick {
		return nil, errors.New("render failed")
	}
	return fmt.Appendf(nil, "tick=%d", tick), nil
}

func awaitLatest(t *testing.T, store *SnapshotStore, tick int64) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap, ok := store.Latest(); ok && snap.Tick == tick {
			return snap
		}
		time.Sleep(time.Millisecond)
	}
	snap, ok := store.Latest()
	t.Fatalf("snapshot for tick %d never stored: ok=%v latest=%+v", tick, ok, snap)
	return Snapshot{}
}

func TestObserverExportsPublishedTick(t *testing.T) {
	testlog.Start(t)
	rdv := NewRendezvous()
	store := NewSnapshotStore()
	obs := NewObserver(rdv, stubSource{failTick: -2}, store)
	done := make(chan struct{})
	go func() {
		obs.Run()
		close(done)
	}()

	rdv.Publish(3)
	snap := awaitLatest(t, store, 3)
	if string(snap.Payload) != "tick=3" {
		t.Fatalf("payload: got=%q want=%q", snap.Payload, "tick=3")
	}
	if snap.At.IsZero() {
		t.Fatalf("snapshot missing export time")
	}

	rdv.Abort()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("observer did not stop on abort")
	}
}

func TestObserverSkipsFailedSnapshot(t *testing.T) {
	testlog.Start(t)
	rdv := NewRendezvous()
	store := NewSnapshotStore()
	obs := NewObserver(rdv, stubSource{failTick: 1}, store)
	done := make(chan struct{})
	go func() {
		obs.Run()
		close(done)
	}()

	rdv.Publish(1)
	time.Sleep(10 * time.Millisecond)
	if snap, ok := store.Latest(); ok {
		t.Fatalf("failed snapshot stored: %+v", snap)
	}

	rdv.Publish(2)
	awaitLatest(t, store, 2)

	rdv.Abort()
	<-done
}

func TestObserverStopsWithoutPublishes(t *testing.T) {
	testlog.Start(t)
	rdv := NewRendezvous()
	obs := NewObserver(rdv, stubSource{failTick: -2}, NewSnapshotStore())
	done := make(chan struct{})
	go func() {
		obs.Run()
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	rdv.Abort()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("observer did not exit")
	}
}
