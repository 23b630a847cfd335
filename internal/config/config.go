package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// RuntimeConfig is the on-disk shape for one scan runtime.
type RuntimeConfig struct {
	Name        string        `toml:"name"`
	Addr        string        `toml:"addr"`
	CorsOrigins []string      `toml:"cors_origins"`
	Heartbeat   string        `toml:"heartbeat"`
	Program     ProgramConfig `toml:"program"`
}

// ProgramConfig selects and parameterizes the cyclic program.
type ProgramConfig struct {
	ID     string   `toml:"id"`
	Args   []string `toml:"args"`
	Period string   `toml:"period"`
	Probe  bool     `toml:"probe"`
}

// ProbeConfig is the on-disk shape for the monitor poll client.
type ProbeConfig struct {
	Addr    string `toml:"addr"`
	Timeout string `toml:"timeout"`
}

func LoadRuntimeConfig(path string) (RuntimeConfig, error) {
	var cfg RuntimeConfig
	if err := loadToml(path, &cfg); err != nil {
		return RuntimeConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "scan-ctl"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9600"
	}
	if cfg.Program.ID == "" {
		cfg.Program.ID = "prog.blink"
	}
	if err := ValidateRuntimeConfig(cfg); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

func LoadProbeConfig(path string) (ProbeConfig, error) {
	var cfg ProbeConfig
	if err := loadToml(path, &cfg); err != nil {
		return ProbeConfig{}, err
	}
	if cfg.Addr == "" {
		cfg.Addr = "http://127.0.0.1:9600"
	}
	if cfg.Timeout == "" {
		cfg.Timeout = "5s"
	}
	if err := ValidateProbeConfig(cfg); err != nil {
		return ProbeConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateRuntimeConfig(cfg RuntimeConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("runtime config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("runtime config missing addr")
	}
	if cfg.Heartbeat != "" {
		if _, err := time.ParseDuration(cfg.Heartbeat); err != nil {
			return fmt.Errorf("runtime config bad heartbeat: %w", err)
		}
	}
	if err := ValidateProgramEntry(cfg.Program); err != nil {
		return fmt.Errorf("program invalid: %w", err)
	}
	return nil
}

func ValidateProgramEntry(cfg ProgramConfig) error {
	if strings.TrimSpace(cfg.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if cfg.Period != "" {
		d, err := time.ParseDuration(cfg.Period)
		if err != nil {
			return fmt.Errorf("bad period: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("period must be positive, got %s", cfg.Period)
		}
	}
	return nil
}

func ValidateProbeConfig(cfg ProbeConfig) error {
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("probe config missing addr")
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("probe config bad timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("probe config timeout must be positive, got %s", cfg.Timeout)
		}
	}
	return nil
}
