// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor

import (
	"html"
	"sort"
	"strings"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
)

// Node is an emoji node as stored in the editor document.
type Node struct {
	Type  string            `json:"type"`
	Attrs map[string]string `json:"attrs"`
}

// Insert resolves a shortcode to the node the suggestion command inserts.
func (e *Extension) Insert(shortcode string) (Node, error) {
	item, err := e.catalog.MustLookup(shortcode)
	if err != nil {
		return Node{}, err
	}
	return Node{Type: ExtensionName, Attrs: map[string]string{"name": item.Name}}, nil
}

// RenderHTML renders the emoji called shortcode as HTML.
func (e *Extension) RenderHTML(shortcode string) (string, error) {
	item, err := e.catalog.MustLookup(shortcode)
	if err != nil {
		return "", err
	}
	return e.renderItem(item), nil
}

func (e *Extension) renderItem(item emoji.Item) string {
	var b strings.Builder
	b.WriteString(`<span data-type="emoji" data-name="`)
	b.WriteString(html.EscapeString(item.Name))
	b.WriteByte('"')

	keys := make([]string, 0, len(e.opts.HTMLAttributes))
	for k := range e.opts.HTMLAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(html.EscapeString(k))
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(e.opts.HTMLAttributes[k]))
		b.WriteByte('"')
	}

	b.WriteByte('>')
	b.WriteString(html.EscapeString(item.Emoji))
	b.WriteString("</span>")
	return b.String()
}
