// Package config defines the configuration schema for lorekeeper.
//
// JSON keys use camelCase. The same keys are accepted from YAML files and,
// for a handful of settings, from LOREKEEPER_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lorekeeper/lorekeeper/internal/schema"
)

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey" mapstructure:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty" mapstructure:"apiBase"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty" mapstructure:"extraHeaders"`
}

// ProvidersConfig holds credentials for all supported LLM providers.
type ProvidersConfig struct {
	Custom     ProviderConfig `json:"custom" mapstructure:"custom"`
	Ollama     ProviderConfig `json:"ollama" mapstructure:"ollama"`
	OpenAI     ProviderConfig `json:"openai" mapstructure:"openai"`
	OpenRouter ProviderConfig `json:"openrouter" mapstructure:"openrouter"`
	DeepSeek   ProviderConfig `json:"deepseek" mapstructure:"deepseek"`
	Groq       ProviderConfig `json:"groq" mapstructure:"groq"`
	VLLM       ProviderConfig `json:"vllm" mapstructure:"vllm"`
}

func defaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{
		Ollama: ProviderConfig{APIBase: "http://localhost:11434/v1"},
	}
}

// AgentConfig holds the orchestrator knobs.
type AgentConfig struct {
	Model       string  `json:"model" mapstructure:"model"`
	Provider    string  `json:"provider,omitempty" mapstructure:"provider"` // forces a registry entry, e.g. "ollama"
	APIKey      string  `json:"apiKey,omitempty" mapstructure:"apiKey"`     // overrides the matched provider's key
	APIBase     string  `json:"apiBase,omitempty" mapstructure:"apiBase"`   // overrides the matched provider's base
	MaxTokens   int     `json:"maxTokens" mapstructure:"maxTokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxRounds   int     `json:"maxRounds" mapstructure:"maxRounds"`

	// TimeoutSeconds bounds one whole orchestration run, model calls included.
	TimeoutSeconds int  `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
	ToolGuidance   bool `json:"toolGuidance" mapstructure:"toolGuidance"`
}

func defaultAgentConfig() AgentConfig {
	return AgentConfig{
		Model:          "ollama/gpt-oss:20b",
		MaxTokens:      4096,
		Temperature:    0.7,
		MaxRounds:      6,
		TimeoutSeconds: 180,
		ToolGuidance:   true,
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string   `json:"host" mapstructure:"host"`
	Port           int      `json:"port" mapstructure:"port"`
	StaticDir      string   `json:"staticDir,omitempty" mapstructure:"staticDir"`
	AllowedOrigins []string `json:"allowedOrigins" mapstructure:"allowedOrigins"`
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{Host: "0.0.0.0", Port: 3001, AllowedOrigins: []string{"*"}}
}

// StoreConfig selects the world store backend.
type StoreConfig struct {
	Backend string `json:"backend" mapstructure:"backend"` // file | sqlite | memory
	Dir     string `json:"dir" mapstructure:"dir"`
	DBPath  string `json:"dbPath,omitempty" mapstructure:"dbPath"`
}

func defaultStoreConfig() StoreConfig {
	return StoreConfig{Backend: "file", Dir: "~/.lorekeeper/world"}
}

// TraceConfig controls the compressed run trace.
type TraceConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Dir     string `json:"dir" mapstructure:"dir"`
}

func defaultTraceConfig() TraceConfig {
	return TraceConfig{Dir: "~/.lorekeeper/traces"}
}

// LogConfig controls the process-wide slog handler.
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"` // text | json
}

// PromptsConfig points at an optional prompt catalog overlay.
type PromptsConfig struct {
	Path string `json:"path,omitempty" mapstructure:"path"`
}

// ---- Root config -----------------------------------------------------------

// Config is the root configuration object, loaded from ~/.lorekeeper/config.json.
type Config struct {
	Agent     AgentConfig     `json:"agent" mapstructure:"agent"`
	Providers ProvidersConfig `json:"providers" mapstructure:"providers"`
	Server    ServerConfig    `json:"server" mapstructure:"server"`
	Store     StoreConfig     `json:"store" mapstructure:"store"`
	Trace     TraceConfig     `json:"trace" mapstructure:"trace"`
	Log       LogConfig       `json:"log" mapstructure:"log"`
	Prompts   PromptsConfig   `json:"prompts" mapstructure:"prompts"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agent:     defaultAgentConfig(),
		Providers: defaultProvidersConfig(),
		Server:    defaultServerConfig(),
		Store:     defaultStoreConfig(),
		Trace:     defaultTraceConfig(),
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// StoreDir returns the expanded world store directory.
func (c *Config) StoreDir() string {
	if c.Store.Dir == "" {
		return filepath.Join(DataDir(), "world")
	}
	return expandHome(c.Store.Dir)
}

// StoreDBPath returns the expanded sqlite path, or "" to let the store
// derive one from StoreDir.
func (c *Config) StoreDBPath() string {
	return expandHome(c.Store.DBPath)
}

// TraceDir returns the expanded trace directory.
func (c *Config) TraceDir() string {
	if c.Trace.Dir == "" {
		return filepath.Join(DataDir(), "traces")
	}
	return expandHome(c.Trace.Dir)
}

// Timeout returns the per-run budget, zero meaning unbounded.
func (c *Config) Timeout() time.Duration {
	if c.Agent.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Agent.TimeoutSeconds) * time.Second
}

// AgentSettings projects the agent section onto the orchestrator settings.
func (c *Config) AgentSettings() schema.AgentSettings {
	return schema.NewAgentSettings(
		c.Agent.Model,
		c.Agent.MaxRounds,
		c.Agent.Temperature,
		c.Agent.MaxTokens,
		c.Timeout(),
	)
}

// ProviderByName returns a pointer to the ProviderConfig field matching the
// given registry name (e.g. "openrouter", "ollama"). Returns nil if unknown.
func (c *Config) ProviderByName(name string) *ProviderConfig {
	switch name {
	case "custom":
		return &c.Providers.Custom
	case "ollama":
		return &c.Providers.Ollama
	case "openai":
		return &c.Providers.OpenAI
	case "openrouter":
		return &c.Providers.OpenRouter
	case "deepseek":
		return &c.Providers.DeepSeek
	case "groq":
		return &c.Providers.Groq
	case "vllm":
		return &c.Providers.VLLM
	}
	return nil
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
