// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package plugin hosts editor plugins: it reads their manifests, constructs
// them through registered factories and drives their start/stop lifecycle.
package plugin

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin/capability"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// ManifestFile is the manifest file name looked up in each plugin directory.
const ManifestFile = "plugin.yaml"

// Manifest represents a plugin.yaml file.
type Manifest struct {
	Name            string         `yaml:"name" json:"name" jsonschema:"pattern=^[a-z]([a-z0-9-]*[a-z0-9])?$,maxLength=64"`
	Version         string         `yaml:"version" json:"version" jsonschema:"minLength=1"`
	Description     string         `yaml:"description,omitempty" json:"description,omitempty"`
	Requires        string         `yaml:"requires,omitempty" json:"requires,omitempty"`
	ExtensionPoints []string       `yaml:"extension-points,omitempty" json:"extension-points,omitempty"`
	Settings        map[string]any `yaml:"settings,omitempty" json:"settings,omitempty"`
}

// maxNameLength is the maximum allowed length for plugin names.
const maxNameLength = 64

// namePattern validates plugin names: must start with lowercase letter,
// followed by lowercase letters, digits, or hyphens.
// Cannot end with a hyphen. Single character names are allowed.
var namePattern = regexp.MustCompile(`^[a-z]([a-z0-9-]*[a-z0-9])?$`)

// ParseManifest parses and validates a plugin.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, oops.Code(CodeInvalidManifest).Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, oops.Code(CodeInvalidManifest).Wrapf(err, "invalid YAML")
	}

	m.Name = strings.TrimSpace(m.Name)
	m.Version = strings.TrimSpace(m.Version)
	m.Requires = strings.TrimSpace(m.Requires)

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	errb := oops.Code(CodeInvalidManifest).With("plugin", m.Name)

	if m.Name == "" || !namePattern.MatchString(m.Name) {
		return errb.Errorf("name %q must start with a-z, contain only a-z, 0-9, hyphens, and not end with a hyphen", m.Name)
	}
	if len(m.Name) > maxNameLength {
		return errb.Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return errb.Errorf("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return errb.With("version", m.Version).Wrapf(err, "version %q is not a semantic version", m.Version)
	}

	if m.Requires != "" {
		if _, err := semver.NewConstraint(m.Requires); err != nil {
			return errb.With("requires", m.Requires).Wrapf(err, "requires %q is not a version constraint", m.Requires)
		}
	}

	for i, p := range m.ExtensionPoints {
		if strings.TrimSpace(p) == "" {
			return errb.With("index", i).Errorf("extension-points[%d] is empty", i)
		}
		if _, err := glob.Compile(p, capability.Separator); err != nil {
			return errb.With("pattern", p).Wrapf(err, "extension-points[%d] is not a valid pattern", i)
		}
	}

	return nil
}

// CompatibleWith reports whether the host at hostVersion satisfies the
// manifest's requires constraint. An empty constraint accepts any host.
func (m *Manifest) CompatibleWith(hostVersion string) error {
	if m.Requires == "" {
		return nil
	}

	c, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return oops.Code(CodeInvalidManifest).With("plugin", m.Name).Wrap(err)
	}
	v, err := semver.NewVersion(hostVersion)
	if err != nil {
		return oops.Code(CodeIncompatibleHost).With("host_version", hostVersion).Wrapf(err, "invalid host version")
	}
	if !c.Check(v) {
		return oops.Code(CodeIncompatibleHost).
			With("plugin", m.Name).
			With("requires", m.Requires).
			With("host_version", hostVersion).
			Errorf("plugin %s requires host %s, running %s", m.Name, m.Requires, hostVersion)
	}
	return nil
}

// Grants reports whether the manifest grants the given extension point.
func (m *Manifest) Grants(point pluginsdk.ExtensionPoint) bool {
	for _, p := range m.ExtensionPoints {
		g, err := glob.Compile(p, capability.Separator)
		if err != nil {
			continue
		}
		if g.Match(string(point)) {
			return true
		}
	}
	return false
}
