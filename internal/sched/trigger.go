package sched

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/observability"
)

// CycleRunner executes one scan pass for a stamped cycle time.
type CycleRunner interface {
	RunCycle(now clock.TimeSpec)
}

// Trigger adapts timer fires into scan cycles. On every fire it reads
// the clock source and publishes the stamp before running the cycle
// body, so the body and any observer see a time at least as fresh as
// the cycle start.
type Trigger struct {
	program string
	source  clock.Source
	runner  CycleRunner

	period   atomic.Int64
	stamp    atomic.Pointer[clock.TimeSpec]
	cycles   atomic.Int64
	overruns atomic.Int64
}

func NewTrigger(program string, source clock.Source, runner CycleRunner) *Trigger {
	if source == nil {
		source = clock.Wall
	}
	return &Trigger{
		program: program,
		source:  source,
		runner:  runner,
	}
}

// SetPeriod records the armed period for overrun accounting.
func (t *Trigger) SetPeriod(ns int64) {
	t.period.Store(ns)
}

// Fire stamps the cycle start and runs one scan pass. Faults inside
// the cycle body are not recovered; a broken program takes the process
// down.
func (t *Trigger) Fire() {
	now := t.source()
	t.stamp.Store(&now)

	start := time.Now()
	t.runner.RunCycle(now)
	elapsed := time.Since(start)

	t.cycles.Add(1)
	period := t.period.Load()
	overrun := period > 0 && elapsed.Nanoseconds() > period
	if overrun {
		t.overruns.Add(1)
		log.Warn().
			Str("program", t.program).
			Dur("elapsed", elapsed).
			Int64("period_ns", period).
			Msg("scan.cycle.overrun")
	}
	observability.RecordScanCycle(t.program, elapsed, overrun)
}

// LastStamp returns the most recent cycle timestamp, false before the
// first fire.
func (t *Trigger) LastStamp() (clock.TimeSpec, bool) {
	p := t.stamp.Load()
	if p == nil {
		return clock.TimeSpec{}, false
	}
	return *p, true
}

func (t *Trigger) Cycles() int64 {
	return t.cycles.Load()
}

func (t *Trigger) Overruns() int64 {
	return t.overruns.Load()
}
