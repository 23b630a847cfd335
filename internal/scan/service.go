package scan

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/danmuck/scanctl/internal/clock"
	"github.com/danmuck/scanctl/internal/logging"
	"github.com/danmuck/scanctl/internal/monitor"
	"github.com/danmuck/scanctl/internal/probe"
	"github.com/danmuck/scanctl/internal/program"
	progblink "github.com/danmuck/scanctl/internal/program/blink"
	progcounter "github.com/danmuck/scanctl/internal/program/counter"
)

var (
	ErrInvalidHeartbeatInterval = errors.New("scan: invalid heartbeat interval")
	ErrUnknownProgram           = errors.New("scan: unknown builtin program")
)

// ServiceConfig configures the standalone scan runtime.
type ServiceConfig struct {
	Name              string
	ProgramID         string
	ProgramArgs       []string
	ScanPeriod        time.Duration
	ProbeEnabled      bool
	HeartbeatInterval time.Duration
	MonitorAddr       string
	CorsOrigins       []string
}

// Runtime defaults for the standalone daemon.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Name:              "scan-ctl",
		ProgramID:         "prog.blink",
		ProgramArgs:       []string{},
		ScanPeriod:        0,
		ProbeEnabled:      true,
		HeartbeatInterval: 5 * time.Second,
		MonitorAddr:       ":9600",
		CorsOrigins:       []string{},
	}
}

// Service runs the scan runtime lifecycle as a standalone process.
type Service struct {
	cfg        ServiceConfig
	logger     zerolog.Logger
	controller *Controller
	registry   *program.Registry
	rdv        *probe.Rendezvous
	store      *probe.SnapshotStore
	prog       program.Program
}

// Service constructor using default runtime config.
func NewService() *Service {
	return NewServiceWithConfig(DefaultServiceConfig())
}

// Service constructor using explicit config.
func NewServiceWithConfig(cfg ServiceConfig) *Service {
	if strings.TrimSpace(cfg.Name) == "" {
		cfg.Name = "scan-ctl"
	}
	if strings.TrimSpace(cfg.ProgramID) == "" {
		cfg.ProgramID = "prog.blink"
	}
	return &Service{cfg: cfg, logger: logging.WithRuntime(cfg.Name)}
}

// Runtime entrypoint that blocks until process signal shutdown. The
// interrupt path is a persistent handler: SIGINT/SIGTERM cancel the
// context and the ordered stop sequence runs before Run returns.
func (s *Service) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.bootstrap(); err != nil {
		return err
	}
	return s.serve(ctx)
}

// Controller exposes the lifecycle owner for tests and tooling.
func (s *Service) Controller() *Controller {
	return s.controller
}

// Bootstrap sequence: registry, program resolve, controller start.
func (s *Service) bootstrap() error {
	if s.cfg.HeartbeatInterval <= 0 {
		return ErrInvalidHeartbeatInterval
	}

	s.rdv = probe.NewRendezvous()
	s.store = probe.NewSnapshotStore()

	reg, err := buildBuiltinRegistry(s.rdv)
	if err != nil {
		return err
	}
	s.registry = reg

	prog, ok := reg.Resolve(strings.TrimSpace(s.cfg.ProgramID))
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProgram, s.cfg.ProgramID)
	}
	s.prog = prog

	s.controller = NewController(prog, s.rdv, clock.Wall, s.cfg.ScanPeriod)
	if err := s.controller.Start(s.cfg.ProgramArgs); err != nil {
		return err
	}

	status := s.controller.Status()
	s.logger.Info().
		Str("program", status.Program).
		Str("phase", string(status.Phase)).
		Dur("period", status.Period).
		Msg("scan.service.ready")
	return nil
}

// Main loop: heartbeat logging plus observer and monitor supervision.
func (s *Service) serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.HeartbeatInterval)
	defer ticker.Stop()

	var observerWG sync.WaitGroup
	defer observerWG.Wait()
	defer s.shutdown()

	if s.cfg.ProbeEnabled {
		if src, ok := s.prog.(probe.SnapshotSource); ok {
			obs := probe.NewObserver(s.rdv, src, s.store)
			observerWG.Add(1)
			go func() {
				defer observerWG.Done()
				obs.Run()
			}()
		} else {
			s.logger.Warn().Str("program", s.cfg.ProgramID).Msg("scan.probe.unsupported")
		}
	}

	monitorErr := make(chan error, 1)
	if strings.TrimSpace(s.cfg.MonitorAddr) != "" {
		mon := s.buildMonitor()
		go func() {
			monitorErr <- mon.Serve()
		}()
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scan.service.shutdown")
			return nil
		case err := <-monitorErr:
			if err != nil {
				return err
			}
		case <-ticker.C:
			status := s.controller.Status()
			s.logger.Info().
				Str("phase", string(status.Phase)).
				Int64("tick", status.Tick).
				Int64("cycles", status.Cycles).
				Int64("overruns", status.Overruns).
				Msg("scan.service.heartbeat")
		}
	}
}

// Ordered teardown; runs before the observer wait so the abort inside
// Stop releases a parked observer.
func (s *Service) shutdown() {
	if err := s.controller.Stop(); err != nil {
		s.logger.Error().Err(err).Msg("scan.service.stop failed")
	}
}

func (s *Service) buildMonitor() *monitor.Server {
	mon := monitor.Appear(s.cfg.Name, s.cfg.MonitorAddr, s.cfg.CorsOrigins)
	mon.Status = s.statusView
	mon.Reprogram = s.reprogram
	mon.Store = s.store
	mon.Programs = s.registry.ListMetadata()
	return mon
}

func (s *Service) statusView() monitor.StatusView {
	status := s.controller.Status()
	view := monitor.StatusView{
		Program:  status.Program,
		Phase:    string(status.Phase),
		PeriodNS: status.Period.Nanoseconds(),
		Tick:     status.Tick,
		Cycles:   status.Cycles,
		Overruns: status.Overruns,
	}
	if status.HasStamp {
		stamp := status.LastStamp
		view.Stamp = &stamp
	}
	return view
}

func (s *Service) reprogram(period time.Duration) error {
	if err := s.controller.Reprogram(period); err != nil {
		if errors.Is(err, ErrLifecycleOrder) {
			return fmt.Errorf("%w: %v", monitor.ErrPhaseNotRunning, err)
		}
		return err
	}
	return nil
}

// Builtin-program resolver that builds the runtime registry.
func buildBuiltinRegistry(pub program.Publisher) (*program.Registry, error) {
	reg := program.NewRegistry()
	if err := reg.Register(progblink.New(pub)); err != nil {
		return nil, err
	}
	if err := reg.Register(progcounter.New(pub)); err != nil {
		return nil, err
	}
	return reg, nil
}
