// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor

import "time"

// TriggerCommandMenu runs the command-menu entry. It marks the next
// suggestion as command-menu initiated, so an empty query lists every
// emoji, and clears the mark after the configured reset delay.
// It returns the text the editor inserts in place of the slash command.
func (e *Extension) TriggerCommandMenu() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.opts.SuggestionChar
	}

	CommandMenuTriggers.Inc()
	e.triggered = true
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.opts.CommandMenuReset, e.resetCommandMenu)

	return e.opts.SuggestionChar
}

// CommandMenuTriggered reports whether a command-menu trigger is active.
func (e *Extension) CommandMenuTriggered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.triggered
}

func (e *Extension) resetCommandMenu() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.triggered = false
}
