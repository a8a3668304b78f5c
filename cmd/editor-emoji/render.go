// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/halo-sigs/plugin-editor-emoji/internal/editor"
)

type renderConfig struct {
	catalogFlags
	noEmoticons bool
	html        bool
}

// NewRenderCmd creates the render subcommand.
func NewRenderCmd() *cobra.Command {
	cfg := &renderConfig{}

	cmd := &cobra.Command{
		Use:   "render <text>...",
		Short: "Apply the emoji input rules to text",
		Long: `Replace :shortcode: sequences and emoticons in text with emoji, as the
editor does while typing. With --html each argument is taken as a shortcode
and rendered as the emoji node the editor stores.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), cfg, args)
		},
	}

	cfg.register(cmd)
	cmd.Flags().BoolVar(&cfg.noEmoticons, "no-emoticons", false, "leave emoticons such as :) untouched")
	cmd.Flags().BoolVar(&cfg.html, "html", false, "render shortcodes as emoji node HTML")

	return cmd
}

func runRender(out io.Writer, cfg *renderConfig, args []string) error {
	catalog, err := cfg.load()
	if err != nil {
		return err
	}

	ext := editor.NewExtension(catalog, editor.WithEmoticons(!cfg.noEmoticons))
	defer ext.Close()

	if !cfg.html {
		fmt.Fprintln(out, ext.ApplyInputRules(strings.Join(args, " ")))
		return nil
	}

	for _, shortcode := range args {
		html, err := ext.RenderHTML(shortcode)
		if err != nil {
			return oops.In("cli").With("shortcode", shortcode).Wrap(err)
		}
		fmt.Fprintln(out, html)
	}
	return nil
}
