package sched

import (
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/scanctl/internal/clock"
)

var ErrTimerConfig = errors.New("sched: invalid timer config")

// Config is one timer schedule: an initial delay, then an optional
// recurring period, both in nanoseconds. A zero delay disarms the
// schedule regardless of period; a zero period makes the schedule
// one-shot.
type Config struct {
	Delay  int64
	Period int64
}

// Every schedules the first fire one period out and every period after,
// the shape a steady scan cadence arms with.
func Every(period time.Duration) Config {
	ns := period.Nanoseconds()
	return Config{Delay: ns, Period: ns}
}

func (c Config) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("%w: negative delay %d", ErrTimerConfig, c.Delay)
	}
	if c.Period < 0 {
		return fmt.Errorf("%w: negative period %d", ErrTimerConfig, c.Period)
	}
	return nil
}

// Armed reports whether the schedule fires at all.
func (c Config) Armed() bool {
	return c.Delay > 0
}

// OneShot reports whether the schedule fires exactly once.
func (c Config) OneShot() bool {
	return c.Delay > 0 && c.Period == 0
}

// Spec is a schedule decomposed into second/nanosecond legs.
type Spec struct {
	Value    clock.TimeSpec `json:"value"`
	Interval clock.TimeSpec `json:"interval"`
}

// Spec splits both schedule fields into whole seconds and the
// sub-second nanosecond remainder.
func (c Config) Spec() Spec {
	return Spec{
		Value:    clock.FromNanos(c.Delay),
		Interval: clock.FromNanos(c.Period),
	}
}
