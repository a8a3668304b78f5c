// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (string, error)
		env  string
		set  string
		home string
		want string
	}{
		{"config from env", ConfigDir, "XDG_CONFIG_HOME", "/custom/config", "/home/u", "/custom/config/editor-emoji"},
		{"config default", ConfigDir, "XDG_CONFIG_HOME", "", "/home/u", "/home/u/.config/editor-emoji"},
		{"data from env", DataDir, "XDG_DATA_HOME", "/custom/data", "/home/u", "/custom/data/editor-emoji"},
		{"data default", DataDir, "XDG_DATA_HOME", "", "/home/u", "/home/u/.local/share/editor-emoji"},
		{"config file", ConfigFile, "XDG_CONFIG_HOME", "/c", "/home/u", "/c/editor-emoji/config.yaml"},
		{"plugins dir", PluginsDir, "XDG_DATA_HOME", "", "/home/u", "/home/u/.local/share/editor-emoji/plugins"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.set)
			t.Setenv("HOME", tt.home)

			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirs_NoHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", "")

	_, err := ConfigDir()
	assert.Error(t, err)
	_, err = ConfigFile()
	assert.Error(t, err)
	_, err = PluginsDir()
	assert.Error(t, err)
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, EnsureDir(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())

	// Idempotent.
	assert.NoError(t, EnsureDir(path))
}

func TestEnsureDir_FileInTheWay(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.Error(t, EnsureDir(filepath.Join(file, "sub")))
}
