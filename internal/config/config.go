// Package config loads viewctl's YAML/JSON5 configuration, resolving
// $include directives before decoding into the strongly typed Config below.
package config

import (
	"fmt"
	"time"
)

// Config is the root of viewctl's configuration file.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Condenser CondenserConfig `yaml:"condenser"`
	Matching  MatchingConfig  `yaml:"matching"`
	Server    ServerConfig    `yaml:"server"`
	Tape      TapeConfig      `yaml:"tape"`
}

// LogConfig holds logging settings. viewctl serve applies Level after
// loading its config; Format is not read, and the handler is always text.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// CondenserConfig controls when and how internal/condense triggers.
type CondenserConfig struct {
	Strategy         string        `yaml:"strategy"` // force or llm_summarizing
	MaxEvents        int           `yaml:"max_events"`
	MaxChars         int           `yaml:"max_chars"`
	KeepFirst        int           `yaml:"keep_first"`
	KeepRecent       int           `yaml:"keep_recent"`
	RetryMaxAttempts int           `yaml:"retry_max_attempts"`
	RetryInitial     time.Duration `yaml:"retry_initial"`
	RetryMax         time.Duration `yaml:"retry_max"`
}

// MatchingConfig selects how viewctl build treats orphaned tool calls:
// Strict makes the build fail with a matching error instead of filtering
// them.
type MatchingConfig struct {
	Strict bool `yaml:"strict"`
}

// ServerConfig binds the dev inspector.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// TapeConfig holds a fixture directory setting. viewctl's commands take
// explicit tape paths from their flags and do not read it.
type TapeConfig struct {
	Dir string `yaml:"dir"`
}

// Default returns the configuration viewctl runs with when no config file
// is given.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Condenser: CondenserConfig{
			Strategy:         "force",
			MaxEvents:        200,
			MaxChars:         120_000,
			KeepFirst:        2,
			KeepRecent:       20,
			RetryMaxAttempts: 4,
			RetryInitial:     500 * time.Millisecond,
			RetryMax:         30 * time.Second,
		},
		Matching: MatchingConfig{Strict: false},
		Server:   ServerConfig{Addr: "127.0.0.1:8787"},
		Tape:     TapeConfig{Dir: "./testdata/tapes"},
	}
}

// Load reads path (resolving $include directives), decodes it over the
// defaults, and validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := LoadRaw(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	decoded, err := decodeRawConfig(raw)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg = mergeOverrides(cfg, *decoded)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects a configuration that would produce a nonsensical
// condenser or server setup.
func (c Config) Validate() error {
	switch c.Condenser.Strategy {
	case "force", "llm_summarizing":
	default:
		return fmt.Errorf("config: condenser.strategy must be \"force\" or \"llm_summarizing\", got %q", c.Condenser.Strategy)
	}
	if c.Condenser.MaxEvents <= 0 {
		return fmt.Errorf("config: condenser.max_events must be positive")
	}
	if c.Condenser.KeepRecent < 0 || c.Condenser.KeepFirst < 0 {
		return fmt.Errorf("config: condenser.keep_first and keep_recent must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr must not be empty")
	}
	return nil
}

// mergeOverrides applies every non-zero field of override onto base,
// leaving base's defaults in place where override left a field zero.
func mergeOverrides(base, override Config) Config {
	if override.Log.Level != "" {
		base.Log.Level = override.Log.Level
	}
	if override.Log.Format != "" {
		base.Log.Format = override.Log.Format
	}
	if override.Condenser.Strategy != "" {
		base.Condenser.Strategy = override.Condenser.Strategy
	}
	if override.Condenser.MaxEvents != 0 {
		base.Condenser.MaxEvents = override.Condenser.MaxEvents
	}
	if override.Condenser.MaxChars != 0 {
		base.Condenser.MaxChars = override.Condenser.MaxChars
	}
	if override.Condenser.KeepFirst != 0 {
		base.Condenser.KeepFirst = override.Condenser.KeepFirst
	}
	if override.Condenser.KeepRecent != 0 {
		base.Condenser.KeepRecent = override.Condenser.KeepRecent
	}
	if override.Condenser.RetryMaxAttempts != 0 {
		base.Condenser.RetryMaxAttempts = override.Condenser.RetryMaxAttempts
	}
	if override.Condenser.RetryInitial != 0 {
		base.Condenser.RetryInitial = override.Condenser.RetryInitial
	}
	if override.Condenser.RetryMax != 0 {
		base.Condenser.RetryMax = override.Condenser.RetryMax
	}
	base.Matching.Strict = base.Matching.Strict || override.Matching.Strict
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Tape.Dir != "" {
		base.Tape.Dir = override.Tape.Dir
	}
	return base
}
