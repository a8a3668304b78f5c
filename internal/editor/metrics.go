// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor

import "github.com/prometheus/client_golang/prometheus"

// SuggestionQueries counts suggestion lookups by whether the popup was shown.
// Use RegisterMetrics to register this with a Prometheus registry.
var SuggestionQueries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "editor_emoji_suggestion_queries_total",
		Help: "Total number of emoji suggestion queries",
	},
	[]string{"visible"},
)

// CommandMenuTriggers counts runs of the "Emoji" command-menu entry.
var CommandMenuTriggers = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "editor_emoji_command_menu_triggers_total",
		Help: "Total number of emoji command menu triggers",
	},
)

// RegisterMetrics registers editor metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SuggestionQueries)
	reg.MustRegister(CommandMenuTriggers)
}
