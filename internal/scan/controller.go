package scan

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/probe"
	"github.com/danmuck/scanctl/internal/program"
	"github.com/danmuck/scanctl/internal/sched"
)

var (
	ErrInitFailure    = errors.New("scan: program init failed")
	ErrLifecycleOrder = errors.New("scan: invalid lifecycle transition")
)

// MinScanPeriod floors the effective cycle period so a misconfigured
// program cannot arm a degenerate schedule.
const MinScanPeriod = time.Millisecond

// LifecyclePhase describes runtime phase transitions.
type LifecyclePhase string

const (
	PhaseStopped  LifecyclePhase = "stopped"
	PhaseStarting LifecyclePhase = "starting"
	PhaseRunning  LifecyclePhase = "running"
	PhaseStopping LifecyclePhase = "stopping"
)

// Status reports controller identity and cycle counters.
type Status struct {
	Program   string
	Phase     LifecyclePhase
	Period    time.Duration
	Tick      int64
	Cycles    int64
	Overruns  int64
	LastStamp clock.TimeSpec
	HasStamp  bool
}

// Controller owns the ordered start/stop sequence around one program.
// The phase machine serializes Start and Stop; both hold the lock for
// the whole sequence.
type Controller struct {
	mu       sync.Mutex
	phase    LifecyclePhase
	prog     program.Program
	trigger  *sched.Trigger
	timer    *sched.Timer
	rdv      *probe.Rendezvous
	override time.Duration
	period   time.Duration
}

// NewController wires one program to its probe rendezvous. A positive
// override replaces the program's own scan period.
func NewController(prog program.Program, rdv *probe.Rendezvous, source clock.Source, override time.Duration) *Controller {
	return &Controller{
		phase:    PhaseStopped,
		prog:     prog,
		rdv:      rdv,
		override: override,
		trigger:  sched.NewTrigger(prog.Metadata().ID, source, prog),
	}
}

// Start runs program init, computes the effective period, rearms the
// probe rendezvous and arms a fresh timer. On init failure nothing is
// armed and the phase returns to stopped.
func (c *Controller) Start(args []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseStopped {
		return transitionError(c.phase, PhaseStarting)
	}
	c.phase = PhaseStarting

	if err := c.prog.Init(args); err != nil {
		c.phase = PhaseStopped
		return fmt.Errorf("%w: %v", ErrInitFailure, err)
	}

	period := c.override
	if period <= 0 {
		period = c.prog.ScanPeriod()
	}
	if period < MinScanPeriod {
		log.Warn().Dur("period", period).Dur("floor", MinScanPeriod).Msg("scan.period.floored")
		period = MinScanPeriod
	}

	c.rdv.Reset()
	cfg := sched.Every(period)
	c.trigger.SetPeriod(cfg.Period)
	timer := &sched.Timer{}
	if err := timer.Arm(cfg, c.trigger.Fire); err != nil {
		c.prog.Cleanup()
		c.rdv.Abort()
		c.phase = PhaseStopped
		return err
	}
	c.timer = timer
	c.period = period
	c.phase = PhaseRunning
	log.Info().Str("program", c.prog.Metadata().ID).Dur("period", period).Msg("scan.started")
	return nil
}

// Stop tears the runtime down in order: drain and destroy the timer,
// run program cleanup, abort the rendezvous so a parked observer exits.
// Stopping a stopped (or never-started) controller is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseRunning {
		return nil
	}
	c.phase = PhaseStopping

	if c.timer != nil {
		c.timer.DisarmAndDestroy()
		c.timer = nil
	}
	c.prog.Cleanup()
	c.rdv.Abort()

	c.phase = PhaseStopped
	log.Info().Str("program", c.prog.Metadata().ID).Int64("tick", c.prog.CurrentTick()).Msg("scan.stopped")
	return nil
}

// Reprogram swaps the scan cadence of a running controller.
func (c *Controller) Reprogram(period time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseRunning {
		return transitionError(c.phase, PhaseRunning)
	}
	if period < MinScanPeriod {
		period = MinScanPeriod
	}
	cfg := sched.Every(period)
	if err := c.timer.Reprogram(cfg); err != nil {
		return err
	}
	c.trigger.SetPeriod(cfg.Period)
	c.period = period
	log.Info().Str("program", c.prog.Metadata().ID).Dur("period", period).Msg("scan.reprogrammed")
	return nil
}

func (c *Controller) Phase() LifecyclePhase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := Status{
		Program:  c.prog.Metadata().ID,
		Phase:    c.phase,
		Period:   c.period,
		Tick:     c.prog.CurrentTick(),
		Cycles:   c.trigger.Cycles(),
		Overruns: c.trigger.Overruns(),
	}
	if stamp, ok := c.trigger.LastStamp(); ok {
		st.LastStamp = stamp
		st.HasStamp = true
	}
	return st
}

func transitionError(from, to LifecyclePhase) error {
	return fmt.Errorf("%w: %s -> %s", ErrLifecycleOrder, from, to)
}
