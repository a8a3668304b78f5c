// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

import (
	"github.com/samber/oops"

	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// Error codes returned by the plugin host.
const (
	CodeInvalidManifest      = "INVALID_MANIFEST"
	CodePluginNotFound       = "PLUGIN_NOT_FOUND"
	CodeAlreadyLoaded        = "ALREADY_LOADED"
	CodeNoFactory            = "NO_FACTORY"
	CodeIncompatibleHost     = "INCOMPATIBLE_HOST"
	CodeExtensionPointDenied = "EXTENSION_POINT_DENIED"
	CodeExtensionExists      = "EXTENSION_EXISTS"
	CodeExtensionNotFound    = "EXTENSION_NOT_FOUND"
	CodeStartFailed          = "START_FAILED"
	CodeStopFailed           = "STOP_FAILED"
)

// ErrPluginNotFound creates an error for an unknown plugin name.
func ErrPluginNotFound(name string) error {
	return oops.Code(CodePluginNotFound).
		With("plugin", name).
		Errorf("plugin not found: %s", name)
}

// ErrExtensionPointDenied creates an error for a registration outside a
// plugin's granted extension points.
func ErrExtensionPointDenied(owner string, point pluginsdk.ExtensionPoint) error {
	return oops.Code(CodeExtensionPointDenied).
		With("plugin", owner).
		With("extension_point", string(point)).
		Errorf("plugin %s may not extend %s", owner, point)
}

// ErrExtensionExists creates an error for a duplicate extension name.
func ErrExtensionExists(point pluginsdk.ExtensionPoint, name string) error {
	return oops.Code(CodeExtensionExists).
		With("extension_point", string(point)).
		With("extension", name).
		Errorf("extension %s already registered on %s", name, point)
}

// ErrExtensionNotFound creates an error for unregistering an unknown extension.
func ErrExtensionNotFound(point pluginsdk.ExtensionPoint, name string) error {
	return oops.Code(CodeExtensionNotFound).
		With("extension_point", string(point)).
		With("extension", name).
		Errorf("extension %s not registered on %s", name, point)
}
