package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`
	Poll struct {
		Tasks time.Duration `yaml:"tasks"`
		Chat  time.Duration `yaml:"chat"`
	} `yaml:"poll"`
	Session struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"session"`
	DueSoonDays int `yaml:"due_soon_days"`
}

// Load reads the config file if it exists and fills in defaults for
// everything left unset. A missing file is not an error; the defaults
// alone describe a working local setup.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = defaultPath()
	}
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if v := os.Getenv("TASKDECK_SERVER"); v != "" {
		cfg.Server.URL = v
	}
	if cfg.Server.URL == "" {
		cfg.Server.URL = "http://localhost:8081/api"
	}
	if cfg.Server.Timeout <= 0 {
		cfg.Server.Timeout = 10 * time.Second
	}
	if cfg.Poll.Tasks <= 0 {
		cfg.Poll.Tasks = 5 * time.Second
	}
	if cfg.Poll.Chat <= 0 {
		cfg.Poll.Chat = 3 * time.Second
	}
	if cfg.DueSoonDays <= 0 {
		cfg.DueSoonDays = 3
	}
	if cfg.Session.DBPath == "" {
		p, err := defaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.Session.DBPath = p
	}
	return &cfg, nil
}

func defaultPath() string {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "taskdeck.yaml"
	}
	return filepath.Join(cfg, "taskdeck", "config.yaml")
}

func defaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "taskdeck", "session.db"), nil
}
