package blink

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/program"
)

const defaultPeriod = 100 * time.Millisecond

// Program alternates a boolean output every scan cycle. It is the
// deterministic reference program used for runtime verification.
type Program struct {
	pub    program.Publisher
	period time.Duration
	tick   atomic.Int64
	on     atomic.Bool
}

// New constructs a blink program publishing through pub; pub may be nil.
func New(pub program.Publisher) *Program {
	log.Debug().Msg("program.blink.New")
	return &Program{pub: pub, period: defaultPeriod}
}

// Metadata returns stable identity and capability description.
func (p *Program) Metadata() program.Metadata {
	return program.Metadata{
		ID:          "prog.blink",
		Name:        "Blink",
		Description: "Alternating boolean output program",
	}
}

// Init resets cycle state. An optional first argument overrides the
// scan period, e.g. "50ms".
func (p *Program) Init(args []string) error {
	log.Debug().Strs("args", args).Msg("program.blink.Init")
	p.tick.Store(0)
	p.on.Store(false)
	if len(args) == 0 {
		return nil
	}
	period, err := time.ParseDuration(strings.TrimSpace(args[0]))
	if err != nil || period <= 0 {
		return fmt.Errorf("%w: bad period %q", program.ErrInvalidArgs, args[0])
	}
	p.period = period
	return nil
}

func (p *Program) RunCycle(now clock.TimeSpec) {
	tick := p.tick.Add(1)
	on := tick%2 == 1
	p.on.Store(on)
	if p.pub != nil {
		p.pub.Publish(tick)
	}
	log.Trace().Int64("tick", tick).Bool("on", on).Int64("sec", now.Sec).Msg("program.blink.cycle")
}

func (p *Program) Cleanup() {
	log.Debug().Int64("tick", p.tick.Load()).Msg("program.blink.Cleanup")
	p.on.Store(false)
}

func (p *Program) ScanPeriod() time.Duration {
	return p.period
}

func (p *Program) CurrentTick() int64 {
	return p.tick.Load()
}

// Snapshot renders the probe payload for one published cycle.
func (p *Program) Snapshot(tick int64) ([]byte, error) {
	return json.Marshal(struct {
		Tick int64 `json:"tick"`
		On   bool  `json:"on"`
	}{Tick: tick, On: p.on.Load()})
}
