// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/halo-sigs/plugin-editor-emoji/internal/apiserver"
	"github.com/halo-sigs/plugin-editor-emoji/internal/config"
	"github.com/halo-sigs/plugin-editor-emoji/internal/editor"
	"github.com/halo-sigs/plugin-editor-emoji/internal/logging"
	"github.com/halo-sigs/plugin-editor-emoji/internal/observability"
	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	"github.com/halo-sigs/plugin-editor-emoji/internal/watch"
	"github.com/halo-sigs/plugin-editor-emoji/internal/xdg"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
	"github.com/halo-sigs/plugin-editor-emoji/plugins/editoremoji"
)

const shutdownTimeout = 5 * time.Second

// serveHooks lets tests drive runServe. Nil fields use the defaults.
type serveHooks struct {
	// signals replaces OS signal delivery.
	signals <-chan os.Signal
	// ready is called with the bound addresses once plugins are started.
	ready func(apiAddr, metricsAddr string)
	// logOutput replaces stderr for logs.
	logOutput io.Writer
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the plugin host",
		Long: `Load plugin manifests, start the editor emoji plugin and serve the
editor extension API until interrupted.

SIGHUP, or a change under the plugins directory when --watch is set,
reloads every plugin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, nil)
		},
	}

	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, hooks *serveHooks) error {
	if hooks == nil {
		hooks = &serveHooks{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logOutput := hooks.logOutput
	if logOutput == nil {
		logOutput = os.Stderr
	}
	logger := logging.SetDefault(logging.Options{
		Service: "editor-emoji",
		Version: version,
		Format:  cfg.LogFormat,
		Level:   level,
		Writer:  logOutput,
	})

	builtin, err := plugin.ParseManifest(editoremoji.ManifestYAML)
	if err != nil {
		return oops.In("serve").Wrapf(err, "parse builtin manifest")
	}

	mgr := plugin.NewManager(cfg.PluginsDir,
		plugin.WithLogger(logger),
		plugin.WithHostVersion(cfg.HostVersion),
		plugin.WithStartRetries(uint64(cfg.StartRetries)), //nolint:gosec // validated non-negative
		plugin.WithFactory(editoremoji.Name, editoremoji.Factory),
		plugin.WithBuiltin(builtin),
		plugin.WithSettings(editoremoji.Name, hostSettings(cfg)),
	)

	logger.Info("starting plugin host",
		"plugins_dir", cfg.PluginsDir,
		"host_version", cfg.HostVersion,
		"api_addr", cfg.APIAddr,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		obsServer *observability.Server
		metrics   *observability.Metrics
	)
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, mgr.Ready, plugin.RegisterMetrics, editor.RegisterMetrics)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.In("serve").Wrapf(err, "start observability server")
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	apiServer := apiserver.New(cfg.APIAddr, apiserver.NewHandler(mgr, metrics))
	apiErrCh, err := apiServer.Start()
	if err != nil {
		stopServers(nil, obsServer)
		return oops.In("serve").Wrapf(err, "start api server")
	}
	go monitorServerErrors(ctx, cancel, apiErrCh, "api")

	if err := mgr.LoadAll(ctx); err != nil {
		logger.Error("failed to load plugins", "error", err)
	}
	if err := mgr.StartAll(ctx); err != nil {
		logger.Error("failed to start plugins", "error", err)
	}

	var changes <-chan struct{}
	if cfg.Watch && cfg.PluginsDir != "" {
		w, err := startWatcher(ctx, cfg.PluginsDir, logger)
		if err != nil {
			logger.Warn("plugin directory watch disabled", "error", err)
		} else {
			defer func() { _ = w.Close() }()
			changes = w.Changes()
		}
	}

	sigCh := hooks.signals
	if sigCh == nil {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(ch)
		sigCh = ch
	}

	metricsAddr := ""
	if obsServer != nil {
		metricsAddr = obsServer.Addr()
	}
	logger.Info("plugin host ready", "plugins", mgr.ListPlugins(), "api_addr", apiServer.Addr())
	if hooks.ready != nil {
		hooks.ready(apiServer.Addr(), metricsAddr)
	}

	for running := true; running; {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("received SIGHUP, reloading plugins")
				reload(ctx, mgr, logger)
				continue
			}
			logger.Info("received shutdown signal", "signal", sig)
			running = false
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			logger.Info("plugins directory changed, reloading plugins")
			reload(ctx, mgr, logger)
		case <-ctx.Done():
			logger.Info("context cancelled, shutting down")
			running = false
		}
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	closeErr := mgr.Close(shutdownCtx)
	if closeErr != nil {
		logger.Warn("error stopping plugins", "error", closeErr)
	}
	stopServers(apiServer, obsServer)

	logger.Info("shutdown complete")
	return closeErr
}

// hostSettings returns the settings the host config imposes on the emoji
// plugin over its manifest defaults.
func hostSettings(cfg *config.Config) pluginsdk.Settings {
	s := pluginsdk.Settings{}
	if cfg.Locale != "" {
		s[editoremoji.SettingLocale] = cfg.Locale
	}
	if cfg.Dataset != "" {
		s[editoremoji.SettingDataset] = cfg.Dataset
	}
	return s
}

func startWatcher(ctx context.Context, dir string, logger *slog.Logger) (*watch.Watcher, error) {
	if err := xdg.EnsureDir(dir); err != nil {
		return nil, err
	}
	w, err := watch.New(dir, watch.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	go w.Run(ctx)
	return w, nil
}

func reload(ctx context.Context, mgr *plugin.Manager, logger *slog.Logger) {
	if err := mgr.Reload(ctx); err != nil {
		logger.Error("plugin reload failed", "error", err)
		return
	}
	logger.Info("plugins reloaded", "plugins", mgr.ListPlugins())
}

func stopServers(api *apiserver.Server, obs *observability.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if api != nil {
		errs = append(errs, api.Stop(ctx))
	}
	if obs != nil {
		errs = append(errs, obs.Stop(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		slog.Warn("error stopping servers", "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error. It
// returns when the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
