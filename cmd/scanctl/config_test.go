package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/danmuck/scanctl/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadServiceConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "scan-ctl" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.ProgramID != "prog.blink" {
		t.Fatalf("unexpected program: %q", cfg.ProgramID)
	}
	if cfg.MonitorAddr != ":9600" {
		t.Fatalf("unexpected addr: %q", cfg.MonitorAddr)
	}
	if cfg.HeartbeatInterval != 5*time.Second {
		t.Fatalf("unexpected heartbeat: %v", cfg.HeartbeatInterval)
	}
	if !cfg.ProbeEnabled {
		t.Fatalf("expected probe enabled by default")
	}
	if cfg.ScanPeriod != 0 {
		t.Fatalf("unexpected scan period: %v", cfg.ScanPeriod)
	}
}

func TestLoadServiceConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
name = "plc-7"
addr = "127.0.0.1:7600"
cors_origins = ["http://localhost:5173", "  "]
heartbeat = "750ms"

[program]
id = "prog.counter"
args = ["10", "3"]
period = "2ms"
probe = false
`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "plc-7" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.MonitorAddr != "127.0.0.1:7600" {
		t.Fatalf("unexpected addr: %q", cfg.MonitorAddr)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CorsOrigins)
	}
	if cfg.HeartbeatInterval != 750*time.Millisecond {
		t.Fatalf("unexpected heartbeat: %v", cfg.HeartbeatInterval)
	}
	if cfg.ProgramID != "prog.counter" {
		t.Fatalf("unexpected program: %q", cfg.ProgramID)
	}
	if len(cfg.ProgramArgs) != 2 || cfg.ProgramArgs[0] != "10" || cfg.ProgramArgs[1] != "3" {
		t.Fatalf("unexpected args: %+v", cfg.ProgramArgs)
	}
	if cfg.ScanPeriod != 2*time.Millisecond {
		t.Fatalf("unexpected scan period: %v", cfg.ScanPeriod)
	}
	if cfg.ProbeEnabled {
		t.Fatalf("expected probe disabled")
	}
}

func TestLoadServiceConfigEmptyAddrDisablesMonitor(t *testing.T) {
	path := writeConfig(t, `
addr = ""
`)

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MonitorAddr != "" {
		t.Fatalf("unexpected addr: %q", cfg.MonitorAddr)
	}
}

func TestLoadServiceConfigBadDuration(t *testing.T) {
	path := writeConfig(t, `
heartbeat = "abc"
`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}

	path = writeConfig(t, `
[program]
period = "soon"
`)
	if _, err := loadServiceConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadServiceConfigReadsGeneratedTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteTemplate(path, "runtime", false); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg, err := loadServiceConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Name != "scan-ctl" {
		t.Fatalf("unexpected name: %q", cfg.Name)
	}
	if cfg.ProgramID != "prog.blink" {
		t.Fatalf("unexpected program: %q", cfg.ProgramID)
	}
	if cfg.ScanPeriod != 100*time.Millisecond {
		t.Fatalf("unexpected scan period: %v", cfg.ScanPeriod)
	}
	if !cfg.ProbeEnabled {
		t.Fatalf("expected probe enabled")
	}
}
