package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/scanctl/internal/testutil/testlog"
)

func TestRuntimeTemplateLoads(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "runtime.toml")
	if err := WriteTemplate(path, "runtime", false); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg, err := LoadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Name != "scan-ctl" || cfg.Addr != ":9600" {
		t.Fatalf("unexpected identity: name=%q addr=%q", cfg.Name, cfg.Addr)
	}
	if cfg.Program.ID != "prog.blink" || !cfg.Program.Probe {
		t.Fatalf("unexpected program entry: %+v", cfg.Program)
	}
	if cfg.Program.Period != "100ms" {
		t.Fatalf("unexpected period: %q", cfg.Program.Period)
	}
}

func TestProbeTemplateLoads(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "probe.toml")
	if err := WriteTemplate(path, "probe", false); err != nil {
		t.Fatalf("write template: %v", err)
	}

	cfg, err := LoadProbeConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if !strings.HasPrefix(cfg.Addr, "http://") {
		t.Fatalf("unexpected addr: %q", cfg.Addr)
	}
	if cfg.Timeout != "5s" {
		t.Fatalf("unexpected timeout: %q", cfg.Timeout)
	}
}

func TestLoadRuntimeConfigDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[program]
id = "prog.counter"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRuntimeConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Name != "scan-ctl" || cfg.Addr != ":9600" {
		t.Fatalf("defaults not applied: name=%q addr=%q", cfg.Name, cfg.Addr)
	}
	if cfg.Program.ID != "prog.counter" {
		t.Fatalf("unexpected program id: %q", cfg.Program.ID)
	}
}

func TestLoadRuntimeConfigRejectsBadPeriod(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[program]
id = "prog.blink"
period = "abc"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadRuntimeConfig(path); err == nil {
		t.Fatalf("expected parse error for bad period")
	}
}

func TestTemplateUnknownKind(t *testing.T) {
	testlog.Start(t)
	if _, err := Template("mystery"); err == nil {
		t.Fatalf("expected unknown kind error")
	}
	if err := WriteTemplate(filepath.Join(t.TempDir(), "x.toml"), "mystery", false); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "runtime.toml")
	if err := WriteTemplate(path, "runtime", false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, "runtime", false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, "runtime", true); err != nil {
		t.Fatalf("forced overwrite failed: %v", err)
	}
}
