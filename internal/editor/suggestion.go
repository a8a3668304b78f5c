// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor

import (
	"strconv"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
)

// Suggestion is the popup state for a query typed after the suggestion char.
type Suggestion struct {
	Query   string       `json:"query"`
	Visible bool         `json:"visible"`
	Items   []emoji.Item `json:"items"`
}

// Suggest returns the suggestion popup state for query.
//
// An empty query hides the popup unless the command menu triggered it, in
// which case every emoji is listed up to the suggestion limit.
func (e *Extension) Suggest(query string) Suggestion {
	return e.suggest(query, e.CommandMenuTriggered())
}

// SuggestAll is Suggest with the command-menu behaviour forced on.
func (e *Extension) SuggestAll(query string) Suggestion {
	return e.suggest(query, true)
}

func (e *Extension) suggest(query string, showAllOnEmpty bool) Suggestion {
	s := Suggestion{Query: query, Items: []emoji.Item{}}
	if query == "" && !showAllOnEmpty {
		SuggestionQueries.WithLabelValues(strconv.FormatBool(false)).Inc()
		return s
	}

	s.Visible = true
	s.Items = e.catalog.Search(query, e.opts.SuggestionLimit)
	SuggestionQueries.WithLabelValues(strconv.FormatBool(true)).Inc()
	return s
}
