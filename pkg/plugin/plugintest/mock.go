// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package plugintest provides test doubles for plugin hosts.
package plugintest

import (
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// Compile-time interface checks.
var (
	_ plugin.Context           = (*MockContext)(nil)
	_ plugin.ExtensionRegistry = (*MockExtensionRegistry)(nil)
)

// MockContext is a testify mock of plugin.Context.
type MockContext struct {
	mock.Mock
}

// Name implements plugin.Context.
func (m *MockContext) Name() string {
	args := m.Called()
	return args.String(0)
}

// Version implements plugin.Context.
func (m *MockContext) Version() string {
	args := m.Called()
	return args.String(0)
}

// Logger implements plugin.Context.
func (m *MockContext) Logger() *slog.Logger {
	args := m.Called()
	if l, ok := args.Get(0).(*slog.Logger); ok {
		return l
	}
	return nil
}

// Settings implements plugin.Context.
func (m *MockContext) Settings() plugin.Settings {
	args := m.Called()
	if s, ok := args.Get(0).(plugin.Settings); ok {
		return s
	}
	return nil
}

// Extensions implements plugin.Context.
func (m *MockContext) Extensions() plugin.ExtensionRegistry {
	args := m.Called()
	if r, ok := args.Get(0).(plugin.ExtensionRegistry); ok {
		return r
	}
	return nil
}

// MockExtensionRegistry is a testify mock of plugin.ExtensionRegistry.
type MockExtensionRegistry struct {
	mock.Mock
}

// Register implements plugin.ExtensionRegistry.
func (m *MockExtensionRegistry) Register(point plugin.ExtensionPoint, ext plugin.Extension) error {
	args := m.Called(point, ext)
	return args.Error(0)
}

// Unregister implements plugin.ExtensionRegistry.
func (m *MockExtensionRegistry) Unregister(point plugin.ExtensionPoint, name string) error {
	args := m.Called(point, name)
	return args.Error(0)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewContext returns a MockContext with permissive expectations for the
// metadata accessors, wired to registry. Tests add expectations on the
// registry themselves.
func NewContext(name string, settings plugin.Settings, registry plugin.ExtensionRegistry) *MockContext {
	m := &MockContext{}
	m.On("Name").Return(name).Maybe()
	m.On("Version").Return("0.0.0-test").Maybe()
	m.On("Logger").Return(DiscardLogger()).Maybe()
	m.On("Settings").Return(settings).Maybe()
	m.On("Extensions").Return(registry).Maybe()
	return m
}
