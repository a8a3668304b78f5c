// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package emoji

import (
	"encoding/json"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/samber/oops"
)

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "zh"

// Locale is an emoji-mart i18n table.
type Locale struct {
	Name             string            `json:"-"`
	Categories       map[string]string `json:"categories"`
	Search           string            `json:"search"`
	SearchNoResults1 string            `json:"search_no_results_1"`
	SearchNoResults2 string            `json:"search_no_results_2"`
	Pick             string            `json:"pick"`
	AddCustom        string            `json:"add_custom"`
}

// CategoryName returns the translated name for a category id, or the id
// itself when the table has no entry.
func (l *Locale) CategoryName(id string) string {
	if l == nil {
		return id
	}
	if name, ok := l.Categories[id]; ok && name != "" {
		return name
	}
	return id
}

// ParseLocale decodes an emoji-mart i18n JSON table.
func ParseLocale(name string, data []byte) (*Locale, error) {
	var l Locale
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, oops.Code(CodeUnknownLocale).With("locale", name).Wrapf(err, "decode locale")
	}
	l.Name = name
	return &l, nil
}

// LoadLocale returns a bundled locale by name. An empty name selects
// DefaultLocale. Region suffixes are ignored, so "zh-CN" loads "zh".
func LoadLocale(name string) (*Locale, error) {
	if name == "" {
		name = DefaultLocale
	}
	base := strings.ToLower(name)
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}

	data, err := bundled.ReadFile(path.Join("data", "i18n", base+".json"))
	if err != nil {
		return nil, ErrUnknownLocale(name)
	}
	return ParseLocale(base, data)
}

// LocaleUsage is flag help text for a locale flag.
func LocaleUsage() string {
	return "emoji category locale (" + strings.Join(Locales(), ", ") + ")"
}

// Locales lists the bundled locale names in sorted order.
func Locales() []string {
	entries, err := fs.ReadDir(bundled, "data/i18n")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names
}
