// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

import (
	"log/slog"

	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// pluginContext is the host handle passed to a plugin factory.
type pluginContext struct {
	name       string
	version    string
	logger     *slog.Logger
	settings   pluginsdk.Settings
	extensions pluginsdk.ExtensionRegistry
}

var _ pluginsdk.Context = (*pluginContext)(nil)

func (c *pluginContext) Name() string                           { return c.name }
func (c *pluginContext) Version() string                        { return c.version }
func (c *pluginContext) Logger() *slog.Logger                   { return c.logger }
func (c *pluginContext) Settings() pluginsdk.Settings           { return c.settings }
func (c *pluginContext) Extensions() pluginsdk.ExtensionRegistry { return c.extensions }
