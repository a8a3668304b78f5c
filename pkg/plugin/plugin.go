// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package plugin defines the contract between a host runtime and the
// plugins it manages.
//
// The host constructs a plugin through a Factory, injecting a Context,
// then calls Start at activation and Stop at deactivation. Lifecycle calls
// for one instance are never overlapped by the host.
package plugin

import (
	"context"
	"log/slog"
)

// Plugin is implemented by every host-managed extension.
type Plugin interface {
	// Start activates the plugin. The plugin must be stopped.
	Start(ctx context.Context) error

	// Stop deactivates the plugin.
	Stop(ctx context.Context) error
}

// Stater is implemented by plugins that report their lifecycle state.
type Stater interface {
	State() State
}

// Factory constructs a plugin around a host-provided context.
type Factory func(pctx Context) (Plugin, error)

// Context is the opaque handle a host passes to a plugin at construction.
// The host owns it; plugins hold a reference for their lifetime.
type Context interface {
	// Name is the plugin name from its manifest.
	Name() string

	// Version is the plugin version from its manifest.
	Version() string

	// Logger returns a logger scoped to the plugin.
	Logger() *slog.Logger

	// Settings returns the plugin settings resolved by the host.
	Settings() Settings

	// Extensions returns the registry the plugin contributes extensions to.
	Extensions() ExtensionRegistry
}
