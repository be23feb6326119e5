package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != "http://localhost:8081/api" {
		t.Fatalf("default url: %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 10*time.Second {
		t.Fatalf("default timeout: %v", cfg.Server.Timeout)
	}
	if cfg.Poll.Tasks != 5*time.Second || cfg.Poll.Chat != 3*time.Second {
		t.Fatalf("default poll intervals: %v / %v", cfg.Poll.Tasks, cfg.Poll.Chat)
	}
	if cfg.DueSoonDays != 3 {
		t.Fatalf("default due-soon days: %d", cfg.DueSoonDays)
	}
	if cfg.Session.DBPath == "" {
		t.Fatal("default db path should be set")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  url: http://tracker.local:9000/api
  timeout: 3s
poll:
  tasks: 10s
session:
  db_path: /tmp/deck.db
due_soon_days: 5
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != "http://tracker.local:9000/api" {
		t.Fatalf("url not read: %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout != 3*time.Second {
		t.Fatalf("timeout not read: %v", cfg.Server.Timeout)
	}
	if cfg.Poll.Tasks != 10*time.Second {
		t.Fatalf("task poll not read: %v", cfg.Poll.Tasks)
	}
	// Unset fields still get defaults.
	if cfg.Poll.Chat != 3*time.Second {
		t.Fatalf("chat poll default: %v", cfg.Poll.Chat)
	}
	if cfg.Session.DBPath != "/tmp/deck.db" {
		t.Fatalf("db path not read: %q", cfg.Session.DBPath)
	}
	if cfg.DueSoonDays != 5 {
		t.Fatalf("due-soon days not read: %d", cfg.DueSoonDays)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  url: http://file.local/api\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKDECK_SERVER", "http://env.local/api")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.URL != "http://env.local/api" {
		t.Fatalf("env should win over file: %q", cfg.Server.URL)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("malformed config should fail")
	}
}
