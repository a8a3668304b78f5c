// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
)

type catalogFlags struct {
	locale  string
	dataset string
}

func (f *catalogFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.locale, "locale", emoji.DefaultLocale, emoji.LocaleUsage())
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "emoji-mart dataset file (empty = bundled)")
}

func (f *catalogFlags) load() (*emoji.Catalog, error) {
	c, err := emoji.Load(f.dataset, f.locale)
	if err != nil {
		return nil, oops.In("cli").Wrapf(err, "load emoji catalog")
	}
	return c, nil
}

type searchConfig struct {
	catalogFlags
	limit  int
	asJSON bool
}

// NewSearchCmd creates the search subcommand.
func NewSearchCmd() *cobra.Command {
	cfg := &searchConfig{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the emoji catalog",
		Long: `Search the emoji catalog by shortcode or keyword prefix, the way the
editor's ":" suggestion popup does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), cfg, args[0])
		},
	}

	cfg.register(cmd)
	cmd.Flags().IntVar(&cfg.limit, "limit", 20, "maximum number of results (0 = unlimited)")
	cmd.Flags().BoolVar(&cfg.asJSON, "json", false, "print results as JSON")

	return cmd
}

func runSearch(out io.Writer, cfg *searchConfig, query string) error {
	catalog, err := cfg.load()
	if err != nil {
		return err
	}

	items := catalog.Search(query, cfg.limit)

	if cfg.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return oops.In("cli").Wrapf(err, "encode results")
		}
		return nil
	}

	if len(items) == 0 {
		loc := catalog.Locale()
		fmt.Fprintf(out, "%s %s\n", loc.SearchNoResults1, loc.SearchNoResults2)
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(out, "%s\t:%s:\t%s\n", item.Emoji, strings.Join(item.Shortcodes, ": :"), item.Name)
	}
	return nil
}
