package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/scanctl/internal/scan"
)

type fileConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	Heartbeat   string   `toml:"heartbeat"`
	Program     struct {
		ID     string   `toml:"id"`
		Args   []string `toml:"args"`
		Period string   `toml:"period"`
		Probe  bool     `toml:"probe"`
	} `toml:"program"`
}

// loadServiceConfig layers a TOML file over the built-in defaults. Keys the
// file leaves out keep their default values.
func loadServiceConfig(path string) (scan.ServiceConfig, error) {
	cfg := scan.DefaultServiceConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return scan.ServiceConfig{}, fmt.Errorf("load runtime config: %w", err)
	}

	if meta.IsDefined("name") {
		name := strings.TrimSpace(raw.Name)
		if name != "" {
			cfg.Name = name
		}
	}

	if meta.IsDefined("addr") {
		// An explicitly empty addr disables the monitor server.
		cfg.MonitorAddr = strings.TrimSpace(raw.Addr)
	}

	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = normalizeOrigins(raw.CorsOrigins)
	}

	if meta.IsDefined("heartbeat") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Heartbeat))
		if err != nil {
			return scan.ServiceConfig{}, fmt.Errorf("parse heartbeat: %w", err)
		}
		cfg.HeartbeatInterval = d
	}

	if meta.IsDefined("program", "id") {
		id := strings.TrimSpace(raw.Program.ID)
		if id != "" {
			cfg.ProgramID = id
		}
	}

	if meta.IsDefined("program", "args") {
		cfg.ProgramArgs = raw.Program.Args
	}

	if meta.IsDefined("program", "period") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Program.Period))
		if err != nil {
			return scan.ServiceConfig{}, fmt.Errorf("parse program period: %w", err)
		}
		cfg.ScanPeriod = d
	}

	if meta.IsDefined("program", "probe") {
		cfg.ProbeEnabled = raw.Program.Probe
	}

	return cfg, nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
