// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package config loads host configuration from a YAML file overlaid with
// command-line flags.
package config

import (
	"errors"
	"io/fs"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
	"github.com/halo-sigs/plugin-editor-emoji/internal/logging"
	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	"github.com/halo-sigs/plugin-editor-emoji/internal/xdg"
)

// FlagConfig is the flag naming the config file.
const FlagConfig = "config"

// Default values.
const (
	DefaultLogFormat   = logging.FormatJSON
	DefaultLogLevel    = "info"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultAPIAddr     = "127.0.0.1:8090"
)

// Config is the host configuration.
type Config struct {
	LogFormat    string `koanf:"log-format"`
	LogLevel     string `koanf:"log-level"`
	MetricsAddr  string `koanf:"metrics-addr"`
	APIAddr      string `koanf:"api-addr"`
	PluginsDir   string `koanf:"plugins-dir"`
	Locale       string `koanf:"locale"`
	Dataset      string `koanf:"dataset"`
	HostVersion  string `koanf:"host-version"`
	StartRetries int    `koanf:"start-retries"`
	Watch        bool   `koanf:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogFormat:    DefaultLogFormat,
		LogLevel:     DefaultLogLevel,
		MetricsAddr:  DefaultMetricsAddr,
		APIAddr:      DefaultAPIAddr,
		Locale:       emoji.DefaultLocale,
		HostVersion:  plugin.DefaultHostVersion,
		StartRetries: plugin.DefaultStartRetries,
		Watch:        true,
	}
}

// RegisterFlags adds a flag for every config key to flags, defaulting to
// Default().
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String(FlagConfig, "", "config file path (default: XDG_CONFIG_HOME/editor-emoji/config.yaml)")
	flags.String("log-format", d.LogFormat, "log format (json or text)")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	flags.String("metrics-addr", d.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("api-addr", d.APIAddr, "editor API HTTP address")
	flags.String("plugins-dir", d.PluginsDir, "directory scanned for plugin manifests (default: XDG_DATA_HOME/editor-emoji/plugins)")
	flags.String("locale", d.Locale, emoji.LocaleUsage())
	flags.String("dataset", d.Dataset, "emoji-mart dataset file (empty = bundled)")
	flags.String("host-version", d.HostVersion, "host version checked against plugin requirements")
	flags.Int("start-retries", d.StartRetries, "retries for a failing plugin start")
	flags.Bool("watch", d.Watch, "reload plugins when the plugins directory changes")
}

// Load reads the config file named by the config flag, or the default file
// when the flag is unset, then overlays flags the user set. A missing
// default file is not an error; a missing explicit one is.
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	path, explicit := configPath(flags)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, oops.In("config").With("path", path).Wrapf(err, "load config file")
			}
		}
	}

	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.In("config").Wrapf(err, "load flags")
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "decode config")
	}

	if cfg.PluginsDir == "" {
		dir, err := xdg.PluginsDir()
		if err == nil {
			cfg.PluginsDir = dir
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configPath(flags *pflag.FlagSet) (string, bool) {
	if f := flags.Lookup(FlagConfig); f != nil && f.Value.String() != "" {
		return f.Value.String(), true
	}
	path, err := xdg.ConfigFile()
	if err != nil {
		// No home directory: run on flags alone.
		return "", false
	}
	return path, false
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	errb := oops.In("config").Code("INVALID_CONFIG")

	if !logging.ValidFormat(c.LogFormat) {
		return errb.With("log-format", c.LogFormat).Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errb.With("log-level", c.LogLevel).Wrap(err)
	}
	if c.APIAddr == "" {
		return errb.Errorf("api-addr is required")
	}
	if _, err := emoji.LoadLocale(c.Locale); err != nil {
		return errb.With("locale", c.Locale).Wrap(err)
	}
	if c.StartRetries < 0 {
		return errb.With("start-retries", c.StartRetries).Errorf("start-retries must not be negative")
	}
	if c.HostVersion == "" {
		return errb.Errorf("host-version is required")
	}
	return nil
}
