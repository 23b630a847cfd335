package program

import (
	"time"

	"github.com/danmuck/scanctl/internal/clock"
)

// Metadata is the contract for program identity and display data.
type Metadata struct {
	ID          string
	Name        string
	Description string
}

// Publisher receives the tick of each completed scan cycle. The probe
// rendezvous satisfies it; a nil publisher disables probing.
type Publisher interface {
	Publish(tick int64)
}

// Program is the cyclic execution boundary driven by the runtime.
// Init runs before the timer arms and its failure aborts startup;
// RunCycle runs once per fire on the notification goroutine, never
// concurrently with itself; Cleanup runs exactly once per stop.
type Program interface {
	Metadata() Metadata
	Init(args []string) error
	RunCycle(now clock.TimeSpec)
	Cleanup()
	ScanPeriod() time.Duration
	CurrentTick() int64
}
