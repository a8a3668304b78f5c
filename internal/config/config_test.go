// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-sigs/plugin-editor-emoji/internal/config"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, config.DefaultAPIAddr, cfg.APIAddr)
	assert.Equal(t, config.DefaultMetricsAddr, cfg.MetricsAddr)
	assert.Equal(t, "zh", cfg.Locale)
	assert.Equal(t, 3, cfg.StartRetries)
	assert.True(t, cfg.Watch)
	assert.Equal(t, filepath.Join(dir, "data", "editor-emoji", "plugins"), cfg.PluginsDir)
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "config", "editor-emoji", "config.yaml"), `
log-format: text
locale: en
start-retries: 5
watch: false
`)

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 5, cfg.StartRetries)
	assert.False(t, cfg.Watch)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeConfig(t, path, "locale: en\napi-addr: 127.0.0.1:7000\nplugins-dir: /srv/plugins\n")

	cfg, err := config.Load(newFlags(t, "--config", path, "--locale", "zh"))
	require.NoError(t, err)

	assert.Equal(t, "zh", cfg.Locale)
	assert.Equal(t, "127.0.0.1:7000", cfg.APIAddr)
	assert.Equal(t, "/srv/plugins", cfg.PluginsDir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := config.Load(newFlags(t, "--config", filepath.Join(dir, "absent.yaml")))
	require.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeConfig(t, path, "log-format: [json\n")

	_, err := config.Load(newFlags(t, "--config", path))
	require.Error(t, err)
}

func TestRegisterFlags_LocaleHelpListsLocales(t *testing.T) {
	fs := newFlags(t)
	assert.Contains(t, fs.Lookup("locale").Usage, "en, zh")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"bad log format", func(c *config.Config) { c.LogFormat = "xml" }, "log-format"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, "log level"},
		{"no api addr", func(c *config.Config) { c.APIAddr = "" }, "api-addr"},
		{"unknown locale", func(c *config.Config) { c.Locale = "xx" }, "available: en, zh"},
		{"negative retries", func(c *config.Config) { c.StartRetries = -1 }, "start-retries"},
		{"no host version", func(c *config.Config) { c.HostVersion = "" }, "host-version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
