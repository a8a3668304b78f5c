// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

// State is a plugin lifecycle state.
type State uint8

// Lifecycle states. The zero value is StateStopped.
const (
	StateStopped State = iota
	StateStarted
)

// String returns the string representation of a State.
// Unrecognized states return "unknown".
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarted:
		return "started"
	default:
		return "unknown"
	}
}
