package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const DefaultServer = "http://localhost:5000"

// Config is the CLI state kept in ~/.snake/config.yaml.
type Config struct {
	Server   string `yaml:"server"`
	Session  string `yaml:"session,omitempty"`
	Username string `yaml:"username,omitempty"`

	// BestScore is the last known best, shown when playing offline.
	BestScore int `yaml:"best_score,omitempty"`
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".snake", "config.yaml")
	}
	return filepath.Join(home, ".snake", "config.yaml")
}

// LoadConfig reads path; a missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{Server: DefaultServer}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("client: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("client: parse %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	return cfg, nil
}

// Save writes the config with owner-only permissions since it holds the
// session token.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("client: create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("client: encode config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearSession forgets the login.
func (c *Config) ClearSession() {
	c.Session = ""
	c.Username = ""
}
