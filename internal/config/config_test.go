package config_test

import (
	"testing"

	"github.com/tracekit/synthnorm/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indent != 4 {
		t.Errorf("Indent = %d, want 4", cfg.Indent)
	}
	if cfg.ConvertNumber {
		t.Error("ConvertNumber should default to false")
	}
	if cfg.IDMapPath != "" {
		t.Errorf("IDMapPath = %q, want empty", cfg.IDMapPath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SYNTHNORM_INDENT", "2")
	t.Setenv("SYNTHNORM_CONVERT_NUMBER", "true")
	t.Setenv("SYNTHNORM_IDMAP", "/tmp/idmap.db")
	t.Setenv("SYNTHNORM_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indent != 2 {
		t.Errorf("Indent = %d, want 2", cfg.Indent)
	}
	if !cfg.ConvertNumber {
		t.Error("ConvertNumber = false, want true")
	}
	if cfg.IDMapPath != "/tmp/idmap.db" {
		t.Errorf("IDMapPath = %q, want /tmp/idmap.db", cfg.IDMapPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}
