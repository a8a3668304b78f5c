// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plugins "github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	"github.com/halo-sigs/plugin-editor-emoji/pkg/errutil"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

func TestParseManifest_Full(t *testing.T) {
	yaml := `
name: editor-emoji
version: 1.2.0
description: Emoji support for the default editor
requires: ">=2.21.0"
extension-points:
  - default:editor:extension:create
settings:
  locale: en
  suggestion-limit: 50
`
	m, err := plugins.ParseManifest([]byte(yaml))
	require.NoError(t, err)

	assert.Equal(t, "editor-emoji", m.Name)
	assert.Equal(t, "1.2.0", m.Version)
	assert.Equal(t, ">=2.21.0", m.Requires)
	assert.Equal(t, []string{"default:editor:extension:create"}, m.ExtensionPoints)
	assert.Equal(t, "en", m.Settings["locale"])
	assert.Equal(t, 50, m.Settings["suggestion-limit"])
}

func TestParseManifest_Minimal(t *testing.T) {
	m, err := plugins.ParseManifest([]byte("name: a\nversion: 0.1.0\n"))
	require.NoError(t, err)
	assert.Empty(t, m.ExtensionPoints)
	assert.Empty(t, m.Requires)
}

func TestParseManifest_InvalidName(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"uppercase not allowed", "name: Invalid\nversion: 1.0.0\n"},
		{"underscore not allowed", "name: my_plugin\nversion: 1.0.0\n"},
		{"starts with digit", "name: 1plugin\nversion: 1.0.0\n"},
		{"ends with hyphen", "name: plugin-\nversion: 1.0.0\n"},
		{"too long", "name: " + "a" + strings.Repeat("b", 64) + "\nversion: 1.0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plugins.ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "name")
			errutil.AssertErrorCode(t, err, plugins.CodeInvalidManifest)
		})
	}
}

func TestParseManifest_ValidNames(t *testing.T) {
	for _, name := range []string{"a", "editor-emoji", "plugin2", "a" + strings.Repeat("b", 63)} {
		t.Run(name, func(t *testing.T) {
			_, err := plugins.ParseManifest([]byte("name: " + name + "\nversion: 1.0.0\n"))
			assert.NoError(t, err)
		})
	}
}

func TestParseManifest_Version(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantErr bool
	}{
		{"semver", "1.0.0", false},
		{"prerelease", "2.0.0-beta.1", false},
		{"build metadata", "1.0.0+build.5", false},
		{"missing", `""`, true},
		{"not a version", "latest", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plugins.ParseManifest([]byte("name: p\nversion: " + tt.version + "\n"))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "version")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseManifest_InvalidRequires(t *testing.T) {
	_, err := plugins.ParseManifest([]byte("name: p\nversion: 1.0.0\nrequires: \"not a constraint\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires")
}

func TestParseManifest_InvalidExtensionPoints(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty entry", "name: p\nversion: 1.0.0\nextension-points:\n  - \"\"\n"},
		{"unclosed bracket", "name: p\nversion: 1.0.0\nextension-points:\n  - \"default:[editor\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plugins.ParseManifest([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "extension-points")
		})
	}
}

func TestParseManifest_EmptyInput(t *testing.T) {
	_, err := plugins.ParseManifest(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	_, err := plugins.ParseManifest([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestParseManifest_Whitespace(t *testing.T) {
	m, err := plugins.ParseManifest([]byte("name: \"  padded  \"\nversion: \" 1.0.0 \"\n"))
	require.NoError(t, err)
	assert.Equal(t, "padded", m.Name)
	assert.Equal(t, "1.0.0", m.Version)
}

func TestManifest_CompatibleWith(t *testing.T) {
	tests := []struct {
		name     string
		requires string
		host     string
		wantCode string
	}{
		{"no constraint", "", "0.1.0", ""},
		{"satisfied", ">=2.21.0", "2.21.0", ""},
		{"newer host", "^2.0.0", "2.30.1", ""},
		{"older host", ">=2.21.0", "2.20.9", plugins.CodeIncompatibleHost},
		{"major bump", "^2.0.0", "3.0.0", plugins.CodeIncompatibleHost},
		{"invalid host version", ">=1.0.0", "dev", plugins.CodeIncompatibleHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &plugins.Manifest{Name: "p", Version: "1.0.0", Requires: tt.requires}
			err := m.CompatibleWith(tt.host)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, tt.wantCode)
		})
	}
}

func TestManifest_Grants(t *testing.T) {
	m := &plugins.Manifest{
		Name:            "p",
		Version:         "1.0.0",
		ExtensionPoints: []string{"default:editor:*"},
	}

	assert.False(t, m.Grants(pluginsdk.ExtensionPointEditorCreate))
	assert.True(t, m.Grants("default:editor:toolbar"))
	assert.False(t, m.Grants("console:menu"))

	m.ExtensionPoints = []string{"default:**"}
	assert.True(t, m.Grants(pluginsdk.ExtensionPointEditorCreate))
}
