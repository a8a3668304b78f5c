// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-sigs/plugin-editor-emoji/internal/config"
	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	"github.com/halo-sigs/plugin-editor-emoji/plugins/editoremoji"
)

type runningHost struct {
	apiAddr     string
	metricsAddr string
	signals     chan os.Signal
	done        chan error
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.APIAddr = "127.0.0.1:0"
	cfg.MetricsAddr = "127.0.0.1:0"
	cfg.PluginsDir = t.TempDir()
	cfg.LogFormat = "text"
	cfg.StartRetries = 0
	return &cfg
}

func startHost(t *testing.T, cfg *config.Config) *runningHost {
	t.Helper()
	h := &runningHost{
		signals: make(chan os.Signal, 1),
		done:    make(chan error, 1),
	}
	ready := make(chan struct{})
	hooks := &serveHooks{
		signals:   h.signals,
		logOutput: io.Discard,
		ready: func(apiAddr, metricsAddr string) {
			h.apiAddr = apiAddr
			h.metricsAddr = metricsAddr
			close(ready)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { h.done <- runServe(ctx, cfg, hooks) }()

	select {
	case <-ready:
	case err := <-h.done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not become ready")
	}
	return h
}

func (h *runningHost) stop(t *testing.T) {
	t.Helper()
	h.signals <- syscall.SIGTERM
	select {
	case err := <-h.done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func (h *runningHost) plugins(t *testing.T) []plugin.Info {
	t.Helper()
	resp, err := http.Get("http://" + h.apiAddr + "/apis/host/v1/plugins") //nolint:gosec,noctx // test URL
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []plugin.Info
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	return infos
}

func statusOf(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx // test URL
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestServe_StartsBuiltinPlugin(t *testing.T) {
	h := startHost(t, testConfig(t))

	infos := h.plugins(t)
	require.Len(t, infos, 1)
	assert.Equal(t, editoremoji.Name, infos[0].Name)
	assert.Equal(t, "started", infos[0].StateName)

	assert.Equal(t, http.StatusOK, statusOf(t, "http://"+h.apiAddr+"/apis/editor/v1/extensions/emoji/suggestions?q=tada"))
	assert.Equal(t, http.StatusOK, statusOf(t, "http://"+h.metricsAddr+"/healthz/readiness"))
	assert.Equal(t, http.StatusOK, statusOf(t, "http://"+h.metricsAddr+"/metrics"))

	h.stop(t)
}

func TestServe_SIGHUPReloads(t *testing.T) {
	h := startHost(t, testConfig(t))
	before := h.plugins(t)
	require.Len(t, before, 1)

	h.signals <- syscall.SIGHUP

	assert.Eventually(t, func() bool {
		after := h.plugins(t)
		return len(after) == 1 && after[0].StateName == "started" && after[0].Activation != before[0].Activation
	}, 5*time.Second, 20*time.Millisecond)

	h.stop(t)
}

func TestServe_WatchReloadsOnManifestChange(t *testing.T) {
	cfg := testConfig(t)
	h := startHost(t, cfg)
	require.Equal(t, "1.0.0", h.plugins(t)[0].Version)

	dir := filepath.Join(cfg.PluginsDir, "emoji")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	manifest := "name: editor-emoji\nversion: 1.1.0\nextension-points:\n  - default:editor:extension:create\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, plugin.ManifestFile), []byte(manifest), 0o600))

	assert.Eventually(t, func() bool {
		infos := h.plugins(t)
		return len(infos) == 1 && infos[0].Version == "1.1.0" && infos[0].StateName == "started"
	}, 10*time.Second, 50*time.Millisecond)

	h.stop(t)
}

func TestServe_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsAddr = ""
	cfg.Watch = false

	h := startHost(t, cfg)
	assert.Empty(t, h.metricsAddr)
	assert.Len(t, h.plugins(t), 1)
	h.stop(t)
}

func TestServe_APIAddrInUse(t *testing.T) {
	first := startHost(t, testConfig(t))

	cfg := testConfig(t)
	cfg.APIAddr = first.apiAddr
	err := runServe(context.Background(), cfg, &serveHooks{logOutput: io.Discard})
	assert.Error(t, err)

	first.stop(t)
}

func TestHostSettings(t *testing.T) {
	cfg := config.Default()
	cfg.Locale = "en"
	cfg.Dataset = "/tmp/emoji.json"

	s := hostSettings(&cfg)
	assert.Equal(t, "en", s.String(editoremoji.SettingLocale, ""))
	assert.Equal(t, "/tmp/emoji.json", s.String(editoremoji.SettingDataset, ""))

	cfg.Dataset = ""
	assert.NotContains(t, hostSettings(&cfg), editoremoji.SettingDataset)
}
