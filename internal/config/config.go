// Package config loads engine and CLI settings from YAML or TOML files.
package config

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// Config is the full wayfinder configuration.
type Config struct {
	Split      SplitConfig      `yaml:"split" toml:"split"`
	Cache      CacheConfig      `yaml:"cache" toml:"cache"`
	Transition TransitionConfig `yaml:"transition" toml:"transition"`
	Store      StoreConfig      `yaml:"store" toml:"store"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Server     ServerConfig     `yaml:"server" toml:"server"`
}

type SplitConfig struct {
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	Home      string  `yaml:"home" toml:"home"`
}

type CacheConfig struct {
	Capacity int `yaml:"capacity" toml:"capacity"`
}

type TransitionConfig struct {
	Duration        time.Duration `yaml:"duration" toml:"duration"`
	Timeout         time.Duration `yaml:"timeout" toml:"timeout"`
	DialogCrossfade bool          `yaml:"dialog_crossfade" toml:"dialog_crossfade"`
}

// StoreConfig selects where recovery records are persisted.
type StoreConfig struct {
	Kind   string        `yaml:"kind" toml:"kind"`
	Path   string        `yaml:"path" toml:"path"`
	Addr   string        `yaml:"addr" toml:"addr"`
	Prefix string        `yaml:"prefix" toml:"prefix"`
	TTL    time.Duration `yaml:"ttl" toml:"ttl"`
	// EncryptionKey is a hex encoded 32 byte key. Empty disables encryption.
	EncryptionKey string `yaml:"encryption_key,omitempty" toml:"encryption_key,omitempty"`
	// Redact lists regular expressions of param keys to mask before saving.
	Redact []string `yaml:"redact,omitempty" toml:"redact,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Split:      SplitConfig{Threshold: 600},
		Cache:      CacheConfig{Capacity: 4},
		Transition: TransitionConfig{Duration: 300 * time.Millisecond, DialogCrossfade: true},
		Store:      StoreConfig{Kind: StoreMemory},
		Log:        LogConfig{Level: "info", Format: "text"},
		Server:     ServerConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. The parser is chosen by extension:
// ".toml" uses TOML, anything else YAML. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Decode(bytes.NewReader(data), formatOf(path), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Decode reads a "yaml" or "toml" document into cfg, keeping fields it omits.
func Decode(r io.Reader, format string, cfg *Config) error {
	if format == "toml" {
		_, err := toml.NewDecoder(r).Decode(cfg)
		return err
	}
	err := yaml.NewDecoder(r).Decode(cfg)
	if err == io.EOF {
		return nil
	}
	return err
}

// Encode writes cfg as "yaml" or "toml".
func Encode(w io.Writer, format string, cfg Config) error {
	if format == "toml" {
		return toml.NewEncoder(w).Encode(cfg)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "yaml"
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Split.Threshold < 0 {
		return fmt.Errorf("split.threshold must not be negative")
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative")
	}
	if c.Transition.Duration < 0 || c.Transition.Timeout < 0 {
		return fmt.Errorf("transition durations must not be negative")
	}
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unknown store.kind %q", c.Store.Kind)
	}
	if c.Store.Kind == StoreRedis && c.Store.Addr == "" {
		return fmt.Errorf("store.addr is required for redis")
	}
	if _, err := c.Store.Key(); err != nil {
		return err
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}
	return nil
}

// Key decodes the encryption key. It returns nil when encryption is disabled.
func (s StoreConfig) Key() ([]byte, error) {
	if s.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key is not hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("store.encryption_key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// SlogLevel maps the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log.level %q", l.Level)
}
