// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

import "github.com/prometheus/client_golang/prometheus"

// Status values for lifecycle transition metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Transition names for lifecycle transition metrics.
const (
	TransitionStart = "start"
	TransitionStop  = "stop"
)

// LifecycleTransitions counts plugin start and stop attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var LifecycleTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "editor_plugin_transitions_total",
		Help: "Total number of plugin lifecycle transitions",
	},
	[]string{"plugin", "transition", "status"},
)

// StartAttempts counts individual start calls, including retries.
// Use RegisterMetrics to register this with a Prometheus registry.
var StartAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "editor_plugin_start_attempts_total",
		Help: "Total number of plugin start calls including retries",
	},
	[]string{"plugin"},
)

// PluginsStarted is the number of plugins currently started.
// Use RegisterMetrics to register this with a Prometheus registry.
var PluginsStarted = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "editor_plugins_started",
		Help: "Number of plugins in the started state",
	},
)

// RegisterMetrics registers plugin host metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(LifecycleTransitions)
	reg.MustRegister(StartAttempts)
	reg.MustRegister(PluginsStarted)
}
