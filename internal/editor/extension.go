// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package editor provides the emoji extension contributed to the rich-text
// editor: suggestions on ':', a command-menu entry, input rules that turn
// shortcodes and emoticons into emoji, and the HTML the emoji node renders to.
package editor

import (
	"sync"
	"time"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
	"github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

// ExtensionName is the name the emoji extension registers under.
const ExtensionName = "emoji"

// Defaults for the emoji extension.
const (
	DefaultSuggestionChar   = ":"
	DefaultSuggestionLimit  = 250
	DefaultCommandMenuReset = 100 * time.Millisecond
	DefaultNodeClass        = "emoji-node"
)

// CommandMenuItem describes the entry the extension adds to the editor's
// slash command menu.
type CommandMenuItem struct {
	Priority int      `json:"priority"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// DefaultCommandMenuItem is the "Emoji" command-menu entry.
func DefaultCommandMenuItem() CommandMenuItem {
	return CommandMenuItem{
		Priority: 120,
		Icon:     "streamline-color:smiley-emoji-terrified",
		Title:    "Emoji",
		Keywords: []string{"emoji", "表情", "biaoqing"},
	}
}

// Options configures the emoji extension.
type Options struct {
	EnableEmoticons  bool
	SuggestionChar   string
	SuggestionLimit  int
	HTMLAttributes   map[string]string
	CommandMenu      CommandMenuItem
	CommandMenuReset time.Duration
}

// Option mutates Options.
type Option func(*Options)

// WithEmoticons toggles emoticon input rules.
func WithEmoticons(enabled bool) Option {
	return func(o *Options) {
		o.EnableEmoticons = enabled
	}
}

// WithSuggestionLimit caps the number of suggestions. Values below one
// keep the default.
func WithSuggestionLimit(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.SuggestionLimit = n
		}
	}
}

// WithHTMLAttribute adds an attribute to every rendered emoji node.
func WithHTMLAttribute(key, value string) Option {
	return func(o *Options) {
		o.HTMLAttributes[key] = value
	}
}

// WithCommandMenuReset sets how long a command-menu trigger stays active.
func WithCommandMenuReset(d time.Duration) Option {
	return func(o *Options) {
		o.CommandMenuReset = d
	}
}

func defaultOptions() Options {
	return Options{
		EnableEmoticons:  true,
		SuggestionChar:   DefaultSuggestionChar,
		SuggestionLimit:  DefaultSuggestionLimit,
		HTMLAttributes:   map[string]string{"class": DefaultNodeClass},
		CommandMenu:      DefaultCommandMenuItem(),
		CommandMenuReset: DefaultCommandMenuReset,
	}
}

// Compile-time interface check.
var _ plugin.Extension = (*Extension)(nil)

// Extension is the emoji editor extension.
//
// Extension is safe for concurrent use. Close releases the command-menu
// timer; the extension must not be used afterwards.
type Extension struct {
	catalog *emoji.Catalog
	opts    Options

	mu        sync.Mutex
	triggered bool
	timer     *time.Timer
	closed    bool
}

// NewExtension creates the emoji extension over catalog.
func NewExtension(catalog *emoji.Catalog, opts ...Option) *Extension {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Extension{
		catalog: catalog,
		opts:    o,
	}
}

// ExtensionName implements plugin.Extension.
func (e *Extension) ExtensionName() string {
	return ExtensionName
}

// Catalog returns the catalog backing the extension.
func (e *Extension) Catalog() *emoji.Catalog {
	return e.catalog
}

// Options returns a copy of the extension options.
func (e *Extension) Options() Options {
	o := e.opts
	o.HTMLAttributes = make(map[string]string, len(e.opts.HTMLAttributes))
	for k, v := range e.opts.HTMLAttributes {
		o.HTMLAttributes[k] = v
	}
	return o
}

// Descriptor is the JSON shape the console uses to configure the editor.
type Descriptor struct {
	Name            string            `json:"name"`
	EnableEmoticons bool              `json:"enableEmoticons"`
	SuggestionChar  string            `json:"suggestionChar"`
	HTMLAttributes  map[string]string `json:"HTMLAttributes"`
	CommandMenu     CommandMenuItem   `json:"commandMenu"`
	Locale          string            `json:"locale,omitempty"`
	Categories      []CategoryRef     `json:"categories"`
	EmojiCount      int               `json:"emojiCount"`
	// Emoticons lists the emoticon input rules, longest first. It is empty
	// when emoticons are disabled.
	Emoticons []string `json:"emoticons,omitempty"`
}

// CategoryRef names a category without its members.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Descriptor describes the extension.
func (e *Extension) Descriptor() Descriptor {
	o := e.Options()
	d := Descriptor{
		Name:            ExtensionName,
		EnableEmoticons: o.EnableEmoticons,
		SuggestionChar:  o.SuggestionChar,
		HTMLAttributes:  o.HTMLAttributes,
		CommandMenu:     o.CommandMenu,
		EmojiCount:      e.catalog.Len(),
	}
	if loc := e.catalog.Locale(); loc != nil {
		d.Locale = loc.Name
	}
	if o.EnableEmoticons {
		d.Emoticons = e.catalog.Emoticons()
	}
	for _, cat := range e.catalog.Categories() {
		d.Categories = append(d.Categories, CategoryRef{ID: cat.ID, Name: cat.Name, Count: len(cat.Emojis)})
	}
	return d
}

// Close stops the command-menu reset timer.
func (e *Extension) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.triggered = false
	e.closed = true
}
