package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete dogfight configuration
type Config struct {
	Debate  DebateConfig  `mapstructure:"debate"`
	Oracle  OracleConfig  `mapstructure:"oracle"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// DebateConfig controls the round protocol
type DebateConfig struct {
	// MaxRounds is the round budget of a single debate (default: 3, min: 1)
	MaxRounds int `mapstructure:"max_rounds"`
	// ConsensusThreshold is the agreeing fraction of the roster that ends a debate (default: 0.67)
	ConsensusThreshold float64 `mapstructure:"consensus_threshold"`
	// MaxTokens is the token budget passed to the oracle on every call (default: 1000)
	MaxTokens int `mapstructure:"max_tokens"`
	// Debug logs every proposal, draft and vote at debug level
	Debug bool `mapstructure:"debug"`
	// Roster is the ordered list of actors taking part in a debate
	Roster []ActorConfig `mapstructure:"roster"`
	// RosterFile is an optional YAML or TOML file whose actors replace Roster
	RosterFile string `mapstructure:"roster_file"`
}

// ActorConfig describes one roster entry
type ActorConfig struct {
	Name      string `mapstructure:"name"`
	Expertise string `mapstructure:"expertise"`
}

// OracleConfig selects and tunes the text-generation backend
type OracleConfig struct {
	// Backend is one of "anthropic", "openai" or "echo" (default: "anthropic")
	Backend string `mapstructure:"backend"`
	// Model overrides the backend's default model
	Model string `mapstructure:"model"`
	// BaseURL points the backend at a compatible endpoint (OpenRouter, LM Studio, a proxy)
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds a single oracle call (default: 120, 0 = no timeout)
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether logging to a file is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory holding dogfight.log (default: the config directory)
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// ServerConfig controls `dogfight serve`
type ServerConfig struct {
	// Transport is "stdio" (default) or "http"
	Transport string `mapstructure:"transport"`
	// HTTPAddr is the listen address for the streamable HTTP transport (default: "localhost:8081")
	HTTPAddr string `mapstructure:"http_addr"`
	// WatchRoster reloads debate.roster_file when it changes on disk
	WatchRoster bool `mapstructure:"watch_roster"`
}

// TracingConfig controls OpenTelemetry export
type TracingConfig struct {
	// Enabled turns on span export (default: false)
	Enabled bool `mapstructure:"enabled"`
	// Endpoint is the OTLP/HTTP endpoint URL; empty uses the exporter's environment defaults
	Endpoint string `mapstructure:"endpoint"`
}

// DefaultRoster returns the four engineers used when no roster is configured.
func DefaultRoster() []ActorConfig {
	return []ActorConfig{
		{Name: "Security Engineer", Expertise: "security, compliance."},
		{Name: "Performance Engineer", Expertise: "performance, scalability."},
		{Name: "ML Engineer", Expertise: "machine learning, algorithms."},
		{Name: "Data Engineer", Expertise: "data management, analytics."},
	}
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Debate: DebateConfig{
			MaxRounds:          3,
			ConsensusThreshold: 0.67,
			MaxTokens:          1000,
			Debug:              false,
			Roster:             DefaultRoster(),
			RosterFile:         "",
		},
		Oracle: OracleConfig{
			Backend:        "anthropic",
			Model:          "",
			BaseURL:        "",
			TimeoutSeconds: 120,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Server: ServerConfig{
			Transport:   "stdio",
			HTTPAddr:    "localhost:8081",
			WatchRoster: false,
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Endpoint: "",
		},
	}
}

// Timeout returns the oracle timeout as a time.Duration (0 means no timeout)
func (c *OracleConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveDir returns the log directory, defaulting to the config directory.
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return ConfigDir()
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Debate defaults
	viper.SetDefault("debate.max_rounds", defaults.Debate.MaxRounds)
	viper.SetDefault("debate.consensus_threshold", defaults.Debate.ConsensusThreshold)
	viper.SetDefault("debate.max_tokens", defaults.Debate.MaxTokens)
	viper.SetDefault("debate.debug", defaults.Debate.Debug)
	viper.SetDefault("debate.roster", rosterDefault(defaults.Debate.Roster))
	viper.SetDefault("debate.roster_file", defaults.Debate.RosterFile)

	// Oracle defaults
	viper.SetDefault("oracle.backend", defaults.Oracle.Backend)
	viper.SetDefault("oracle.model", defaults.Oracle.Model)
	viper.SetDefault("oracle.base_url", defaults.Oracle.BaseURL)
	viper.SetDefault("oracle.timeout_seconds", defaults.Oracle.TimeoutSeconds)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Server defaults
	viper.SetDefault("server.transport", defaults.Server.Transport)
	viper.SetDefault("server.http_addr", defaults.Server.HTTPAddr)
	viper.SetDefault("server.watch_roster", defaults.Server.WatchRoster)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.endpoint", defaults.Tracing.Endpoint)
}

// rosterDefault converts the roster to the list-of-maps shape viper reads
// from config files, so `config show` prints defaults and file values alike.
func rosterDefault(actors []ActorConfig) []map[string]any {
	out := make([]map[string]any, 0, len(actors))
	for _, a := range actors {
		out = append(out, map[string]any{"name": a.Name, "expertise": a.Expertise})
	}
	return out
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dogfight")
	}
	// Fall back to ~/.config/dogfight
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dogfight"
	}
	return filepath.Join(home, ".config", "dogfight")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidBackends returns the list of supported oracle backends
func ValidBackends() []string {
	return []string{"anthropic", "openai", "echo"}
}

// ValidTransports returns the list of supported MCP server transports
func ValidTransports() []string {
	return []string{"stdio", "http"}
}
