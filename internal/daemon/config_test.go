package daemon

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("CODEQUEST_HOME", t.TempDir())

	cfg := DefaultConfig()
	if cfg.API.Port != 7321 {
		t.Errorf("port = %d, want 7321", cfg.API.Port)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("host = %s, want 127.0.0.1", cfg.API.Host)
	}
	if cfg.Engine.TickInterval != "1m" {
		t.Errorf("tick interval = %s, want 1m", cfg.Engine.TickInterval)
	}
	if !cfg.Telemetry.Prometheus {
		t.Error("prometheus should default on")
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CODEQUEST_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.Port != 7321 {
		t.Errorf("port = %d, want default", cfg.API.Port)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CODEQUEST_HOME", home)

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Engine.TickInterval = "30s"
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("port = %d, want 9999", loaded.API.Port)
	}
	if loaded.Engine.TickInterval != "30s" {
		t.Errorf("tick interval = %s, want 30s", loaded.Engine.TickInterval)
	}
}

func TestCodequestHomeOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CODEQUEST_HOME", dir)

	if got := CodequestHome(); got != dir {
		t.Errorf("home = %s, want %s", got, dir)
	}
	if got := filepath.Dir(filepath.Join(CodequestHome(), "config.toml")); got != dir {
		t.Errorf("config dir = %s, want %s", got, dir)
	}
}
