// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package editoremoji is the editor emoji plugin. On start it builds the
// emoji extension from the configured catalog and contributes it to the
// editor; on stop it withdraws it.
package editoremoji

import (
	"context"
	_ "embed"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/halo-sigs/plugin-editor-emoji/internal/editor"
	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
	"github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// Name is the plugin name in its manifest.
const Name = "editor-emoji"

// Setting keys read from the plugin context.
const (
	SettingLocale          = "locale"
	SettingDataset         = "dataset"
	SettingEmoticons       = "emoticons"
	SettingSuggestionLimit = "suggestion-limit"
)

// Error codes returned by the plugin.
const (
	CodeInvalidContext = "INVALID_CONTEXT"
	CodeAlreadyStarted = "ALREADY_STARTED"
)

// ManifestYAML is the plugin.yaml shipped with the plugin.
//
//go:embed plugin.yaml
var ManifestYAML []byte

// Compile-time interface checks.
var (
	_ plugin.Plugin  = (*Plugin)(nil)
	_ plugin.Stater  = (*Plugin)(nil)
	_ plugin.Factory = Factory
)

// Plugin is the editor emoji plugin.
type Plugin struct {
	pctx   plugin.Context
	logger *slog.Logger

	mu    sync.Mutex
	state plugin.State
	ext   *editor.Extension
}

// New creates a stopped plugin bound to the host context pctx.
func New(pctx plugin.Context) (*Plugin, error) {
	if pctx == nil {
		return nil, oops.Code(CodeInvalidContext).Errorf("plugin context is required")
	}

	logger := pctx.Logger()
	if logger == nil {
		logger = slog.Default()
	}

	return &Plugin{
		pctx:   pctx,
		logger: logger,
		state:  plugin.StateStopped,
	}, nil
}

// Factory constructs the plugin for a host.
func Factory(pctx plugin.Context) (plugin.Plugin, error) {
	p, err := New(pctx)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Start builds the emoji extension and registers it on the editor
// extension point. The plugin stays stopped if any step fails.
func (p *Plugin) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == plugin.StateStarted {
		return oops.Code(CodeAlreadyStarted).
			With("plugin", p.pctx.Name()).
			Errorf("plugin already started")
	}

	registry := p.pctx.Extensions()
	if registry == nil {
		return oops.Code(CodeInvalidContext).
			With("plugin", p.pctx.Name()).
			Errorf("plugin context has no extension registry")
	}

	settings := p.pctx.Settings()
	catalog, err := emoji.Load(
		settings.String(SettingDataset, ""),
		settings.String(SettingLocale, emoji.DefaultLocale),
	)
	if err != nil {
		return oops.In("editoremoji").With("plugin", p.pctx.Name()).Wrapf(err, "load emoji catalog")
	}

	ext := editor.NewExtension(catalog,
		editor.WithEmoticons(settings.Bool(SettingEmoticons, true)),
		editor.WithSuggestionLimit(settings.Int(SettingSuggestionLimit, editor.DefaultSuggestionLimit)),
	)
	if err := registry.Register(plugin.ExtensionPointEditorCreate, ext); err != nil {
		ext.Close()
		return oops.In("editoremoji").
			With("plugin", p.pctx.Name()).
			With("extension_point", string(plugin.ExtensionPointEditorCreate)).
			Wrapf(err, "register emoji extension")
	}

	p.ext = ext
	p.state = plugin.StateStarted
	p.logger.Info("emoji extension registered",
		"locale", catalog.Locale().Name,
		"emojis", catalog.Len())
	return nil
}

// Stop withdraws the emoji extension. Stopping a stopped plugin is a no-op.
func (p *Plugin) Stop(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == plugin.StateStopped {
		return nil
	}

	if registry := p.pctx.Extensions(); registry != nil {
		if err := registry.Unregister(plugin.ExtensionPointEditorCreate, p.ext.ExtensionName()); err != nil {
			p.logger.Warn("emoji extension already withdrawn", "error", err)
		}
	}
	p.ext.Close()
	p.ext = nil
	p.state = plugin.StateStopped
	p.logger.Info("emoji extension withdrawn")
	return nil
}

// State reports the current lifecycle state.
func (p *Plugin) State() plugin.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Extension returns the registered extension, or nil while stopped.
func (p *Plugin) Extension() *editor.Extension {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ext
}
