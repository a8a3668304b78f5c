// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Command editor-emoji hosts the editor emoji plugin and offers tools for
// its catalog and plugin manifests.
package main

import (
	"fmt"
	"os"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := NewRootCmd()
	cmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
