// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package emoji

import (
	"sort"
	"strings"
)

// Item is an emoji as the editor sees it.
type Item struct {
	Name       string   `json:"name"`
	Emoji      string   `json:"emoji"`
	Shortcodes []string `json:"shortcodes"`
	Tags       []string `json:"tags"`
	Version    float64  `json:"version,omitempty"`
	Emoticons  []string `json:"emoticons,omitempty"`
}

// Category groups items under a localized name.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Emojis []Item `json:"emojis"`
}

// Catalog is an immutable, indexed emoji collection.
// It is safe for concurrent use.
type Catalog struct {
	items       []Item
	categories  []Category
	locale      *Locale
	byShortcode map[string]int
	byEmoticon  map[string]int
}

// Convert converts an emoji-mart dataset into a catalog using locale for
// category names. A nil locale leaves category ids untranslated.
//
// Items are ordered by category, then by id for emojis that appear in no
// category. Entries without skins are skipped since they have nothing to
// render. Category members missing from the dataset are dropped.
func Convert(ds *Dataset, locale *Locale) *Catalog {
	aliases := make(map[string][]string)
	for alias, target := range ds.Aliases {
		aliases[target] = append(aliases[target], alias)
	}

	c := &Catalog{
		locale:      locale,
		byShortcode: make(map[string]int),
		byEmoticon:  make(map[string]int),
	}

	added := make(map[string]int, len(ds.Emojis))
	add := func(id string) {
		if _, seen := added[id]; seen {
			return
		}
		e, ok := ds.Emojis[id]
		if !ok || len(e.Skins) == 0 {
			return
		}
		item := convertEmoji(id, e, aliases[id])
		idx := len(c.items)
		c.items = append(c.items, item)
		added[id] = idx
		c.byShortcode[id] = idx
		for _, sc := range item.Shortcodes[1:] {
			if _, taken := c.byShortcode[sc]; !taken {
				c.byShortcode[sc] = idx
			}
		}
		for _, emoticon := range item.Emoticons {
			if _, taken := c.byEmoticon[emoticon]; !taken {
				c.byEmoticon[emoticon] = idx
			}
		}
	}

	for _, cat := range ds.Categories {
		for _, id := range cat.Emojis {
			add(id)
		}
	}
	rest := make([]string, 0)
	for id := range ds.Emojis {
		if _, seen := added[id]; !seen {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		add(id)
	}

	c.categories = make([]Category, 0, len(ds.Categories))
	for _, cat := range ds.Categories {
		members := make([]Item, 0, len(cat.Emojis))
		for _, id := range cat.Emojis {
			if idx, ok := added[id]; ok {
				members = append(members, c.items[idx])
			}
		}
		c.categories = append(c.categories, Category{
			ID:     cat.ID,
			Name:   locale.CategoryName(cat.ID),
			Emojis: members,
		})
	}

	return c
}

func convertEmoji(id string, e DatasetEmoji, aliases []string) Item {
	sort.Strings(aliases)
	shortcodes := make([]string, 0, len(aliases)+1)
	shortcodes = append(shortcodes, id)
	shortcodes = append(shortcodes, aliases...)

	tags := e.Keywords
	if tags == nil {
		tags = []string{}
	}

	return Item{
		Name:       id,
		Emoji:      e.Skins[0].Native,
		Shortcodes: shortcodes,
		Tags:       tags,
		Version:    e.Version,
		Emoticons:  e.Emoticons,
	}
}

// Bundled returns a catalog built from the compiled-in dataset.
func Bundled(locale string) (*Catalog, error) {
	loc, err := LoadLocale(locale)
	if err != nil {
		return nil, err
	}
	ds, err := BundledDataset()
	if err != nil {
		return nil, err
	}
	return Convert(ds, loc), nil
}

// Load returns a catalog built from an emoji-mart file on disk. An empty
// path falls back to the bundled dataset.
func Load(path, locale string) (*Catalog, error) {
	if path == "" {
		return Bundled(locale)
	}
	loc, err := LoadLocale(locale)
	if err != nil {
		return nil, err
	}
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}
	return Convert(ds, loc), nil
}

// Locale returns the locale used for category names.
func (c *Catalog) Locale() *Locale {
	return c.locale
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of all items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Categories returns the localized categories.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Lookup finds an item by any of its shortcodes. Surrounding colons are
// accepted, so ":smile:" and "smile" are equivalent.
func (c *Catalog) Lookup(shortcode string) (Item, bool) {
	shortcode = strings.Trim(shortcode, ":")
	idx, ok := c.byShortcode[shortcode]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// MustLookup is Lookup returning an UNKNOWN_EMOJI error on a miss.
func (c *Catalog) MustLookup(shortcode string) (Item, error) {
	item, ok := c.Lookup(shortcode)
	if !ok {
		return Item{}, ErrUnknownEmoji(shortcode)
	}
	return item, nil
}

// Emoticon finds the item an emoticon such as ":)" stands for.
func (c *Catalog) Emoticon(text string) (Item, bool) {
	idx, ok := c.byEmoticon[text]
	if !ok {
		return Item{}, false
	}
	return c.items[idx], true
}

// Emoticons returns every known emoticon, longest first.
func (c *Catalog) Emoticons() []string {
	out := make([]string, 0, len(c.byEmoticon))
	for e := range c.byEmoticon {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// Search returns items whose shortcodes or tags start with query,
// compared case-insensitively, in catalog order. An empty query matches
// everything. A limit of zero or less means no limit. The result is never
// nil.
func (c *Catalog) Search(query string, limit int) []Item {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Item, 0)
	for _, item := range c.items {
		if limit > 0 && len(out) >= limit {
			break
		}
		if query == "" || matches(item, query) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item Item, query string) bool {
	for _, sc := range item.Shortcodes {
		if strings.HasPrefix(strings.ToLower(sc), query) {
			return true
		}
	}
	for _, tag := range item.Tags {
		if strings.HasPrefix(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
