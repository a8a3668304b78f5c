// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the editor-emoji CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "editor-emoji",
		Short: "Emoji support for the default editor",
		Long: `editor-emoji hosts the editor emoji plugin: it loads plugin manifests,
starts the plugin and serves the emoji extension to the editor console.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewSearchCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateCmd())

	return cmd
}
