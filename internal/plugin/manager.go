// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/halo-sigs/plugin-editor-emoji/pkg/errutil"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// DefaultHostVersion is the host version checked against manifest requires
// constraints when none is configured.
const DefaultHostVersion = "2.21.0"

// Defaults for start retries.
const (
	DefaultStartRetries = 3
	DefaultRetryBase    = 100 * time.Millisecond
)

// DiscoveredPlugin contains a manifest and its directory.
type DiscoveredPlugin struct {
	Manifest *Manifest
	Dir      string
}

type loadedPlugin struct {
	manifest   *Manifest
	dir        string
	instance   pluginsdk.Plugin
	state      pluginsdk.State
	activation string
}

// Info describes a loaded plugin.
type Info struct {
	Name       string          `json:"name"`
	Version    string          `json:"version"`
	State      pluginsdk.State `json:"-"`
	StateName  string          `json:"state"`
	Activation string          `json:"activation,omitempty"`
	Dir        string          `json:"dir,omitempty"`
}

// Manager discovers plugins and drives their lifecycle. Each plugin is
// constructed once per load through the factory registered under its
// manifest name, then started and stopped by the manager.
type Manager struct {
	pluginsDir   string
	hostVersion  string
	logger       *slog.Logger
	registry     *Registry
	startRetries uint64
	retryBase    time.Duration

	// lifecycle serializes transitions; mu guards the maps below.
	lifecycle sync.Mutex
	mu        sync.RWMutex
	factories map[string]pluginsdk.Factory
	overrides map[string]pluginsdk.Settings
	builtins  []*Manifest
	loaded    map[string]*loadedPlugin
	loadOrder []string
	started   []string
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithHostVersion sets the version checked against manifest requires constraints.
func WithHostVersion(v string) ManagerOption {
	return func(m *Manager) {
		m.hostVersion = v
	}
}

// WithLogger sets the logger for the manager and the plugins it hosts.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithRegistry sets the extension registry shared with the plugins.
func WithRegistry(r *Registry) ManagerOption {
	return func(m *Manager) {
		m.registry = r
	}
}

// WithFactory registers a plugin factory at construction time.
func WithFactory(name string, f pluginsdk.Factory) ManagerOption {
	return func(m *Manager) {
		m.factories[name] = f
	}
}

// WithBuiltin adds a manifest that LoadAll uses when the plugins directory
// holds no manifest with the same name.
func WithBuiltin(manifest *Manifest) ManagerOption {
	return func(m *Manager) {
		m.builtins = append(m.builtins, manifest)
	}
}

// WithSettings overlays settings on top of the manifest defaults for name.
func WithSettings(name string, s pluginsdk.Settings) ManagerOption {
	return func(m *Manager) {
		m.overrides[name] = s
	}
}

// WithStartRetries sets how many times a failed start is retried.
func WithStartRetries(n uint64) ManagerOption {
	return func(m *Manager) {
		m.startRetries = n
	}
}

// WithRetryBase sets the initial backoff between start retries.
func WithRetryBase(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.retryBase = d
	}
}

// NewManager creates a plugin manager.
func NewManager(pluginsDir string, opts ...ManagerOption) *Manager {
	m := &Manager{
		pluginsDir:   pluginsDir,
		hostVersion:  DefaultHostVersion,
		logger:       slog.Default(),
		startRetries: DefaultStartRetries,
		retryBase:    DefaultRetryBase,
		factories:    make(map[string]pluginsdk.Factory),
		overrides:    make(map[string]pluginsdk.Settings),
		loaded:       make(map[string]*loadedPlugin),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = NewRegistry(nil)
	}
	if m.retryBase <= 0 {
		m.retryBase = DefaultRetryBase
	}
	return m
}

// Registry returns the extension registry shared with hosted plugins.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// RegisterFactory makes a plugin implementation available under name.
func (m *Manager) RegisterFactory(name string, f pluginsdk.Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = f
}

// Discover finds all valid plugins in the plugins directory.
// Invalid plugins are logged and skipped.
func (m *Manager) Discover(_ context.Context) ([]*DiscoveredPlugin, error) {
	if m.pluginsDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(m.pluginsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oops.In("plugin").With("dir", m.pluginsDir).Wrapf(err, "read plugins directory")
	}

	var plugins []*DiscoveredPlugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		pluginDir := filepath.Join(m.pluginsDir, entry.Name())
		manifestPath := filepath.Join(pluginDir, ManifestFile)

		data, err := os.ReadFile(manifestPath) //nolint:gosec // manifestPath is constructed from ReadDir entries
		if err != nil {
			m.logger.Warn("skipping plugin without manifest",
				"dir", entry.Name(),
				"error", err)
			continue
		}

		manifest, err := ParseManifest(data)
		if err != nil {
			errutil.LogError(m.logger, "skipping plugin with invalid manifest", err, "dir", entry.Name())
			continue
		}

		plugins = append(plugins, &DiscoveredPlugin{
			Manifest: manifest,
			Dir:      pluginDir,
		})
	}

	return plugins, nil
}

// LoadAll discovers and loads all plugins in the plugins directory, then
// the builtin manifests not overridden by a discovered one.
// Plugins that fail to load are logged and skipped so one broken plugin
// does not keep the host from serving the others.
func (m *Manager) LoadAll(ctx context.Context) error {
	discovered, err := m.Discover(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(discovered))
	for _, dp := range discovered {
		seen[dp.Manifest.Name] = true
		if err := m.Add(dp.Manifest, dp.Dir); err != nil {
			errutil.LogError(m.logger, "failed to load plugin", err, "plugin", dp.Manifest.Name)
		}
	}

	for _, b := range m.builtins {
		if seen[b.Name] {
			continue
		}
		if err := m.Add(b, ""); err != nil {
			errutil.LogError(m.logger, "failed to load builtin plugin", err, "plugin", b.Name)
		}
	}
	return nil
}

// Add loads a plugin from its manifest: it checks host compatibility, grants
// the manifest's extension points and constructs the plugin through its
// factory. The plugin is left stopped.
func (m *Manager) Add(manifest *Manifest, dir string) error {
	if manifest == nil {
		return oops.Code(CodeInvalidManifest).Errorf("manifest is nil")
	}
	if err := manifest.Validate(); err != nil {
		return err
	}
	if err := manifest.CompatibleWith(m.hostVersion); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.loaded[manifest.Name]; ok {
		return oops.Code(CodeAlreadyLoaded).
			With("plugin", manifest.Name).
			Errorf("plugin already loaded: %s", manifest.Name)
	}
	factory, ok := m.factories[manifest.Name]
	if !ok {
		return oops.Code(CodeNoFactory).
			With("plugin", manifest.Name).
			Errorf("no implementation registered for plugin %s", manifest.Name)
	}

	if err := m.registry.Enforcer().SetGrants(manifest.Name, manifest.ExtensionPoints); err != nil {
		return oops.Code(CodeInvalidManifest).With("plugin", manifest.Name).Wrap(err)
	}

	pctx := &pluginContext{
		name:       manifest.Name,
		version:    manifest.Version,
		logger:     m.logger.With("plugin", manifest.Name),
		settings:   pluginsdk.Settings(manifest.Settings).Merge(m.overrides[manifest.Name]),
		extensions: m.registry.For(manifest.Name),
	}
	instance, err := factory(pctx)
	if err != nil {
		m.registry.Enforcer().RemoveGrants(manifest.Name)
		return oops.In("plugin").With("plugin", manifest.Name).Wrapf(err, "construct plugin")
	}

	m.loaded[manifest.Name] = &loadedPlugin{
		manifest: manifest,
		dir:      dir,
		instance: instance,
		state:    pluginsdk.StateStopped,
	}
	m.loadOrder = append(m.loadOrder, manifest.Name)

	m.logger.Info("loaded plugin",
		"plugin", manifest.Name,
		"version", manifest.Version)
	return nil
}

// Start activates the named plugin. Failed starts are retried with
// exponential backoff; starting a plugin that is already started is a no-op.
func (m *Manager) Start(ctx context.Context, name string) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	lp, err := m.get(name)
	if err != nil {
		return err
	}
	if m.stateOf(lp) == pluginsdk.StateStarted {
		return nil
	}

	activation := ulid.Make().String()
	log := m.logger.With("plugin", name, "activation", activation)

	attempts := 0
	backoff := retry.WithMaxRetries(m.startRetries, retry.NewExponential(m.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		StartAttempts.WithLabelValues(name).Inc()
		if err := lp.instance.Start(ctx); err != nil {
			m.registry.RemoveOwner(name)
			log.Warn("plugin start attempt failed", "attempt", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		LifecycleTransitions.WithLabelValues(name, TransitionStart, StatusError).Inc()
		return oops.Code(CodeStartFailed).
			With("plugin", name).
			With("activation", activation).
			With("attempts", attempts).
			Wrapf(err, "start plugin %s", name)
	}

	m.mu.Lock()
	lp.state = pluginsdk.StateStarted
	lp.activation = activation
	m.started = append(m.started, name)
	m.mu.Unlock()

	LifecycleTransitions.WithLabelValues(name, TransitionStart, StatusSuccess).Inc()
	PluginsStarted.Inc()
	log.Info("plugin started", "attempts", attempts)
	return nil
}

// Stop deactivates the named plugin. Stopping a plugin that is not started
// is a no-op. If the plugin's Stop fails it is still considered started.
func (m *Manager) Stop(ctx context.Context, name string) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.stop(ctx, name)
}

func (m *Manager) stop(ctx context.Context, name string) error {
	lp, err := m.get(name)
	if err != nil {
		return err
	}
	if m.stateOf(lp) == pluginsdk.StateStopped {
		return nil
	}

	m.mu.RLock()
	activation := lp.activation
	m.mu.RUnlock()
	log := m.logger.With("plugin", name, "activation", activation)

	if err := lp.instance.Stop(ctx); err != nil {
		LifecycleTransitions.WithLabelValues(name, TransitionStop, StatusError).Inc()
		return oops.Code(CodeStopFailed).
			With("plugin", name).
			With("activation", activation).
			Wrapf(err, "stop plugin %s", name)
	}
	if n := m.registry.RemoveOwner(name); n > 0 {
		log.Warn("removed extensions left behind by stopped plugin", "count", n)
	}

	m.mu.Lock()
	lp.state = pluginsdk.StateStopped
	lp.activation = ""
	m.started = slices.DeleteFunc(m.started, func(s string) bool { return s == name })
	m.mu.Unlock()

	LifecycleTransitions.WithLabelValues(name, TransitionStop, StatusSuccess).Inc()
	PluginsStarted.Dec()
	log.Info("plugin stopped")
	return nil
}

// Restart stops and starts the named plugin.
func (m *Manager) Restart(ctx context.Context, name string) error {
	if err := m.Stop(ctx, name); err != nil {
		return err
	}
	return m.Start(ctx, name)
}

// StartAll starts every loaded plugin in load order. Failures are logged and
// returned together; the remaining plugins are still started.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.RLock()
	names := slices.Clone(m.loadOrder)
	m.mu.RUnlock()

	var errs []error
	for _, name := range names {
		if err := m.Start(ctx, name); err != nil {
			errutil.LogError(m.logger, "failed to start plugin", err, "plugin", name)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StopAll stops every started plugin in reverse start order.
func (m *Manager) StopAll(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	return m.stopAll(ctx)
}

func (m *Manager) stopAll(ctx context.Context) error {
	m.mu.RLock()
	names := slices.Clone(m.started)
	m.mu.RUnlock()
	slices.Reverse(names)

	var errs []error
	for _, name := range names {
		if err := m.stop(ctx, name); err != nil {
			errutil.LogError(m.logger, "failed to stop plugin", err, "plugin", name)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reload stops and unloads every plugin, then loads and starts the plugins
// found in the plugins directory again.
func (m *Manager) Reload(ctx context.Context) error {
	if err := m.Close(ctx); err != nil {
		return err
	}
	if err := m.LoadAll(ctx); err != nil {
		return err
	}
	return m.StartAll(ctx)
}

// State reports the lifecycle state of the named plugin.
func (m *Manager) State(name string) (pluginsdk.State, error) {
	lp, err := m.get(name)
	if err != nil {
		return pluginsdk.StateStopped, err
	}
	return m.stateOf(lp), nil
}

// Info returns a description of every loaded plugin, sorted by name.
func (m *Manager) Info() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Info, 0, len(m.loaded))
	for name, lp := range m.loaded {
		out = append(out, Info{
			Name:       name,
			Version:    lp.manifest.Version,
			State:      lp.state,
			StateName:  lp.state.String(),
			Activation: lp.activation,
			Dir:        lp.dir,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ListPlugins returns names of all loaded plugins.
func (m *Manager) ListPlugins() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.loaded))
	for name := range m.loaded {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Ready reports whether every loaded plugin is started.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, lp := range m.loaded {
		if lp.state != pluginsdk.StateStarted {
			return false
		}
	}
	return true
}

// Close stops all plugins and unloads them.
func (m *Manager) Close(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	err := m.stopAll(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	for name, lp := range m.loaded {
		if lp.state == pluginsdk.StateStarted {
			continue
		}
		m.registry.Enforcer().RemoveGrants(name)
		delete(m.loaded, name)
	}
	m.loadOrder = slices.DeleteFunc(m.loadOrder, func(s string) bool {
		_, ok := m.loaded[s]
		return !ok
	})

	if err != nil {
		return oops.In("plugin").Wrapf(err, "close manager")
	}
	return nil
}

func (m *Manager) get(name string) (*loadedPlugin, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lp, ok := m.loaded[name]
	if !ok {
		return nil, ErrPluginNotFound(name)
	}
	return lp, nil
}

func (m *Manager) stateOf(lp *loadedPlugin) pluginsdk.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lp.state
}
