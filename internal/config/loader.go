package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envBindings maps config keys onto the environment variables that override them.
var envBindings = map[string]string{
	"agent.model":    "LOREKEEPER_MODEL",
	"agent.apiKey":   "LOREKEEPER_API_KEY",
	"agent.apiBase":  "LOREKEEPER_API_BASE",
	"agent.provider": "LOREKEEPER_PROVIDER",
	"server.port":    "LOREKEEPER_PORT",
}

// ConfigPath returns the default configuration file path: ~/.lorekeeper/config.json.
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// DataDir returns the lorekeeper data directory: ~/.lorekeeper.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lorekeeper"
	}
	return filepath.Join(home, ".lorekeeper")
}

// SavesDir returns where `lorekeeper ask --save` keeps saved games.
func SavesDir() string {
	return filepath.Join(DataDir(), "saves")
}

// Load reads the config file at path over DefaultConfig and applies the
// LOREKEEPER_* environment overrides. If path is empty, ConfigPath() is used.
// A missing file yields the defaults; on parse failure it prints a warning
// and falls back to the defaults as well.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := newViper(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			warnDefaults(path, err)
			v = newViper(path)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		warnDefaults(path, err)
		cfg = DefaultConfig()
	}
	return &cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	default:
		v.SetConfigType("json")
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

func warnDefaults(path string, err error) {
	fmt.Fprintf(os.Stderr, "Warning: failed to parse config %s: %v\n", path, err)
	fmt.Fprintln(os.Stderr, "Using default configuration.")
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
