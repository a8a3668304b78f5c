// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/halo-sigs/plugin-editor-emoji/internal/plugin"
	pluginsdk "github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// hostPoints are the extension points validate reports grants for.
var hostPoints = []pluginsdk.ExtensionPoint{
	pluginsdk.ExtensionPointEditorCreate,
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	var hostVersion string

	cmd := &cobra.Command{
		Use:   "validate <plugin.yaml>...",
		Short: "Validate plugin manifests",
		Long: `Check plugin manifests against the JSON Schema and the manifest rules,
and check that the host version satisfies their requirements.

Valid manifests are reported with the host extension points they may
extend.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), hostVersion, args)
		},
	}

	cmd.Flags().StringVar(&hostVersion, "host-version", plugin.DefaultHostVersion, "host version checked against plugin requirements")

	return cmd
}

func runValidate(out io.Writer, hostVersion string, paths []string) error {
	failed := 0
	for _, path := range paths {
		m, err := validateManifest(path, hostVersion)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%s: %s\n", path, plugin.FormatSchemaError(err))
			continue
		}
		if granted := grantedPoints(m); len(granted) > 0 {
			fmt.Fprintf(out, "%s: ok (extends %s)\n", path, strings.Join(granted, ", "))
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", path)
	}

	if failed > 0 {
		return oops.In("cli").With("failed", failed).Errorf("%d of %d manifests invalid", failed, len(paths))
	}
	return nil
}

func validateManifest(path, hostVersion string) (*plugin.Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a user-supplied CLI argument
	if err != nil {
		return nil, oops.In("cli").With("path", path).Wrapf(err, "read manifest")
	}
	if err := plugin.ValidateSchema(data); err != nil {
		return nil, err
	}
	m, err := plugin.ParseManifest(data)
	if err != nil {
		return nil, err
	}
	if err := m.CompatibleWith(hostVersion); err != nil {
		return nil, err
	}
	return m, nil
}

func grantedPoints(m *plugin.Manifest) []string {
	var out []string
	for _, p := range hostPoints {
		if m.Grants(p) {
			out = append(out, string(p))
		}
	}
	return out
}
