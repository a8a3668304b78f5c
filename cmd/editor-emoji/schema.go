// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the plugin.yaml JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchema(cmd.OutOrStdout(), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the schema to a file instead of stdout")

	return cmd
}

func runSchema(out io.Writer, output string) error {
	schema, err := plugin.GenerateSchema()
	if err != nil {
		return err
	}

	if output == "" {
		_, err := fmt.Fprintln(out, string(schema))
		return err //nolint:wrapcheck // stdout write
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
		return oops.In("cli").With("path", output).Wrapf(err, "create directory")
	}
	if err := os.WriteFile(output, schema, 0o600); err != nil {
		return oops.In("cli").With("path", output).Wrapf(err, "write schema")
	}
	fmt.Fprintf(out, "Generated %s\n", output)
	return nil
}
