package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/scanctl/internal/config"
	"github.com/danmuck/scanctl/internal/logging"
	"github.com/danmuck/scanctl/internal/monitor"
	"github.com/danmuck/scanctl/internal/probe"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/scanprobe/config.toml", "path to the probe config")
	watch := flag.Bool("watch", false, "poll continuously instead of once")
	interval := flag.Duration("interval", time.Second, "poll interval in watch mode")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg, err := config.LoadProbeConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load probe config")
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse probe timeout")
	}

	client := newProbeClient(cfg.Addr, timeout)
	log.Info().Str("addr", cfg.Addr).Msg("probe started")

	for {
		if err := client.pollOnce(); err != nil {
			log.Warn().Err(err).Msg("probe poll failed")
		}
		if !*watch {
			return
		}
		time.Sleep(*interval)
	}
}

// probeClient polls one runtime's monitor endpoints.
type probeClient struct {
	base string
	http *http.Client
}

func newProbeClient(addr string, timeout time.Duration) *probeClient {
	return &probeClient{
		base: strings.TrimRight(addr, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *probeClient) pollOnce() error {
	status, err := c.fetchStatus()
	if err != nil {
		return err
	}
	evt := log.Info().
		Str("program", status.Program).
		Str("phase", status.Phase).
		Int64("tick", status.Tick).
		Int64("cycles", status.Cycles).
		Int64("overruns", status.Overruns)
	if status.Stamp != nil {
		evt = evt.Int64("stamp_sec", status.Stamp.Sec).Int64("stamp_nsec", status.Stamp.Nsec)
	}
	evt.Msg("probe.status")

	snap, ok, err := c.fetchSnapshot()
	if err != nil {
		return err
	}
	if !ok {
		log.Info().Msg("probe.snapshot.none")
		return nil
	}
	log.Info().
		Int64("tick", snap.Tick).
		Str("payload", string(snap.Payload)).
		Time("at", snap.At).
		Msg("probe.snapshot")
	return nil
}

func (c *probeClient) fetchStatus() (monitor.StatusView, error) {
	resp, err := c.http.Get(c.base + "/status")
	if err != nil {
		return monitor.StatusView{}, fmt.Errorf("fetch status: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return monitor.StatusView{}, fmt.Errorf("fetch status: unexpected http %d", resp.StatusCode)
	}
	var view monitor.StatusView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return monitor.StatusView{}, fmt.Errorf("decode status: %w", err)
	}
	return view, nil
}

// fetchSnapshot reports ok=false when the runtime has not published yet or
// runs with probing disabled.
func (c *probeClient) fetchSnapshot() (probe.Snapshot, bool, error) {
	resp, err := c.http.Get(c.base + "/snapshot/latest")
	if err != nil {
		return probe.Snapshot{}, false, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusServiceUnavailable:
		return probe.Snapshot{}, false, nil
	default:
		return probe.Snapshot{}, false, fmt.Errorf("fetch snapshot: unexpected http %d", resp.StatusCode)
	}
	var snap probe.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return probe.Snapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, true, nil
}
