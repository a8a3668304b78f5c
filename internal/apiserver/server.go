// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package apiserver serves the editor extension API, the host's plugin
// listing and its extension points over HTTP.
package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/halo-sigs/plugin-editor-emoji/internal/editor"
	"github.com/halo-sigs/plugin-editor-emoji/internal/observability"
	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// Host routes.
const (
	routePlugins         = "GET /apis/host/v1/plugins"
	routeExtensionPoints = "GET /apis/host/v1/extension-points"
	prefixEditor         = "/apis/editor/"
)

// ExtensionPoint lists the extensions registered on one point.
type ExtensionPoint struct {
	Point      pluginsdk.ExtensionPoint `json:"point"`
	Extensions []string                 `json:"extensions"`
}

// Host is the part of the plugin manager the API exposes.
type Host interface {
	Registry() *plugin.Registry
	Info() []plugin.Info
}

// Server serves the API on a TCP listener.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewHandler builds the API handler. When metrics is non-nil every route
// is counted and timed.
func NewHandler(host Host, metrics *observability.Metrics) http.Handler {
	instrument := func(_ string, h http.Handler) http.Handler { return h }
	if metrics != nil {
		instrument = metrics.Instrument
	}

	mux := http.NewServeMux()
	mux.Handle(prefixEditor, instrument("editor", editor.NewHandler(host.Registry())))
	mux.Handle(routePlugins, instrument("plugins", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, host.Info())
	})))
	mux.Handle(routeExtensionPoints, instrument("extension_points", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, extensionPoints(host.Registry()))
	})))
	return mux
}

func extensionPoints(reg *plugin.Registry) []ExtensionPoint {
	points := reg.Points()
	out := make([]ExtensionPoint, 0, len(points))
	for _, p := range points {
		exts := reg.Extensions(p)
		names := make([]string, 0, len(exts))
		for _, ext := range exts {
			names = append(names, ext.ExtensionName())
		}
		out = append(out, ExtensionPoint{Point: p, Extensions: names})
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("write response failed", "error", err)
	}
}

// New creates a server for addr ("host:port"; port 0 picks a free port).
func New(addr string, handler http.Handler) *Server {
	return &Server{addr: addr, handler: handler}
}

// Start begins serving. The returned channel receives a serve error, if
// any, and is closed when the server stops.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.In("apiserver").Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.In("apiserver").With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts the server down. Stopping a server that is not
// running is a no-op.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.running.Store(true)
		return oops.In("apiserver").With("operation", "shutdown_api_server").Wrap(err)
	}
	slog.Info("api server stopped")
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
