package counter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/program"
)

const defaultPeriod = 100 * time.Millisecond

// Program accumulates a stepped counter once per scan cycle.
type Program struct {
	pub    program.Publisher
	period time.Duration
	step   int64
	tick   atomic.Int64
	value  atomic.Int64
}

// New constructs a counter program publishing through pub; pub may be
// nil.
func New(pub program.Publisher) *Program {
	log.Debug().Msg("program.counter.New")
	return &Program{pub: pub, period: defaultPeriod, step: 1}
}

// Metadata returns stable identity and capability description.
func (p *Program) Metadata() program.Metadata {
	return program.Metadata{
		ID:          "prog.counter",
		Name:        "Counter",
		Description: "Stepped accumulator program",
	}
}

// Init resets cycle state. Optional arguments: start value, then step.
func (p *Program) Init(args []string) error {
	log.Debug().Strs("args", args).Msg("program.counter.Init")
	p.tick.Store(0)
	p.value.Store(0)
	p.step = 1
	if len(args) > 0 {
		start, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: bad start %q", program.ErrInvalidArgs, args[0])
		}
		p.value.Store(start)
	}
	if len(args) > 1 {
		step, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
		if err != nil || step == 0 {
			return fmt.Errorf("%w: bad step %q", program.ErrInvalidArgs, args[1])
		}
		p.step = step
	}
	return nil
}

func (p *Program) RunCycle(now clock.TimeSpec) {
	tick := p.tick.Add(1)
	value := p.value.Add(p.step)
	if p.pub != nil {
		p.pub.Publish(tick)
	}
	log.Trace().Int64("tick", tick).Int64("value", value).Int64("sec", now.Sec).Msg("program.counter.cycle")
}

func (p *Program) Cleanup() {
	log.Debug().Int64("tick", p.tick.Load()).Int64("value", p.value.Load()).Msg("program.counter.Cleanup")
}

func (p *Program) ScanPeriod() time.Duration {
	return p.period
}

func (p *Program) CurrentTick() int64 {
	return p.tick.Load()
}

// Value returns the accumulated counter.
func (p *Program) Value() int64 {
	return p.value.Load()
}

// Snapshot renders the probe payload for one published cycle.
func (p *Program) Snapshot(tick int64) ([]byte, error) {
	return json.Marshal(struct {
		Tick  int64 `json:"tick"`
		Value int64 `json:"value"`
	}{Tick: tick, Value: p.value.Load()})
}
