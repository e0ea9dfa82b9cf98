// Package config provides Viper-based configuration loading for the relay server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// WebSocketConfig holds WebSocket listener settings.
type WebSocketConfig struct {
	// Host is the bind address for the WebSocket listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the WebSocket listener.
	Port int `mapstructure:"port"`
	// WriteTimeout is the per-write deadline for outbound frames.
	// Zero disables the deadline.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// PingInterval is the keepalive ping cadence.
	PingInterval time.Duration `mapstructure:"ping_interval"`
	// PongTimeout is the duration to wait for a pong before the
	// connection is considered dead. Zero disables the deadline.
	PongTimeout time.Duration `mapstructure:"pong_timeout"`
	// MaxMessageBytes caps the size of one inbound frame.
	MaxMessageBytes int64 `mapstructure:"max_message_bytes"`
	// SendBuffer is the per-session outbox capacity.
	SendBuffer int `mapstructure:"send_buffer"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (w WebSocketConfig) Addr() string {
	return fmt.Sprintf("%s:%d", w.Host, w.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateWebSocket(c.WebSocket); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWebSocket(w WebSocketConfig) error {
	var errs []string
	if w.Port < 1 || w.Port > 65535 {
		errs = append(errs, fmt.Sprintf("websocket.port must be 1-65535, got %d", w.Port))
	}
	if w.WriteTimeout < 0 {
		errs = append(errs, "websocket.write_timeout must not be negative")
	}
	if w.PingInterval < 0 {
		errs = append(errs, "websocket.ping_interval must not be negative")
	}
	if w.PongTimeout < 0 {
		errs = append(errs, "websocket.pong_timeout must not be negative")
	}
	if w.PingInterval > 0 && w.PongTimeout > 0 && w.PingInterval >= w.PongTimeout {
		errs = append(errs, "websocket.ping_interval must be less than websocket.pong_timeout")
	}
	if w.MaxMessageBytes < 1 {
		errs = append(errs, fmt.Sprintf("websocket.max_message_bytes must be >= 1, got %d", w.MaxMessageBytes))
	}
	if w.SendBuffer < 1 {
		errs = append(errs, fmt.Sprintf("websocket.send_buffer must be >= 1, got %d", w.SendBuffer))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies
// environment variable overrides, and validates the result. An empty
// path skips the file and uses defaults plus environment only, so the
// server can run configured entirely from the environment.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with RELAY_ prefix
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("websocket.host", "0.0.0.0")
	v.SetDefault("websocket.port", 5000)
	v.SetDefault("websocket.write_timeout", "10s")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_timeout", "60s")
	v.SetDefault("websocket.max_message_bytes", 4096)
	v.SetDefault("websocket.send_buffer", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
