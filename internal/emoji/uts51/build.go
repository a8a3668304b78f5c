// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package uts51

import (
	"strings"
	"unicode"

	"github.com/samber/oops"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
)

// CategoryOrder is the emoji-mart category order.
var CategoryOrder = []string{"people", "nature", "foods", "activity", "places", "objects", "symbols", "flags"}

var groupCategory = map[string]string{
	"Smileys & Emotion": "people",
	"People & Body":     "people",
	"Animals & Nature":  "nature",
	"Food & Drink":      "foods",
	"Activities":        "activity",
	"Travel & Places":   "places",
	"Objects":           "objects",
	"Symbols":           "symbols",
	"Flags":             "flags",
}

var skinTones = []string{
	"light skin tone",
	"medium-light skin tone",
	"medium skin tone",
	"medium-dark skin tone",
	"dark skin tone",
}

var keycapIDs = map[string]string{
	"#": "hash", "*": "keycap_star", "10": "keycap_ten",
	"0": "zero", "1": "one", "2": "two", "3": "three", "4": "four",
	"5": "five", "6": "six", "7": "seven", "8": "eight", "9": "nine",
}

var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "for": true, "in": true,
	"of": true, "on": true, "the": true, "to": true, "with": true,
}

const (
	regionalIndicatorA = 0x1f1e6
	regionalIndicatorZ = 0x1f1ff
)

// Build turns parsed entries into an emoji-mart dataset.
//
// Entries in curated, matched by the unified code points of their first
// skin, keep their id, name, emoticons and version, and their keywords
// come first. Other entries get an id derived from the CLDR name. When a
// curated id differs from the derived one, the derived id becomes an
// alias. Single skin-tone variants are folded into the skins of their
// base emoji. Duplicate ids, curated emoji missing from entries and
// aliases to unknown ids are errors.
func Build(entries []Entry, curated *emoji.Dataset) (*emoji.Dataset, error) {
	overlay := make(map[string]emoji.DatasetEmoji)
	reserved := make(map[string]bool)
	if curated != nil {
		for _, e := range curated.Emojis {
			if len(e.Skins) == 0 {
				return nil, oops.Code(CodeInvalidSource).With("id", e.ID).Errorf("curated emoji has no skins")
			}
			overlay[strings.ToLower(e.Skins[0].Unified)] = e
			reserved[e.ID] = true
		}
	}

	ds := &emoji.Dataset{
		Emojis:  make(map[string]emoji.DatasetEmoji),
		Aliases: make(map[string]string),
	}
	members := make(map[string][]string, len(CategoryOrder))
	byName := make(map[string]string)
	derived := make(map[string]string)

	for _, entry := range entries {
		category, ok := groupCategory[entry.Group]
		if !ok {
			continue
		}

		base, qualifier, _ := strings.Cut(entry.Name, ": ")
		if isSkinTone(qualifier) {
			if id, ok := byName[base]; ok {
				e := ds.Emojis[id]
				e.Skins = append(e.Skins, emoji.Skin{Unified: entry.Unified, Native: entry.Native})
				ds.Emojis[id] = e
			}
			continue
		}
		if strings.Contains(qualifier, "skin tone") {
			continue
		}

		cur, hasCur := overlay[entry.Unified]
		derivedID := deriveID(entry)
		id := derivedID
		if hasCur {
			id = cur.ID
		}
		if _, dup := ds.Emojis[id]; dup || (reserved[id] && !(hasCur && cur.ID == id)) {
			return nil, oops.Code(CodeInvalidSource).
				With("id", id).
				With("name", entry.Name).
				Errorf("duplicate emoji id %q", id)
		}

		ds.Emojis[id] = mergeEmoji(id, entry, cur)
		byName[entry.Name] = id
		derived[id] = derivedID
		members[category] = append(members[category], id)
	}

	if curated != nil {
		for _, e := range curated.Emojis {
			if _, ok := ds.Emojis[e.ID]; !ok {
				return nil, oops.Code(CodeInvalidSource).With("id", e.ID).Errorf("curated emoji %q not in source", e.ID)
			}
		}
		for alias, target := range curated.Aliases {
			if _, ok := ds.Emojis[target]; !ok {
				return nil, oops.Code(CodeInvalidSource).With("alias", alias).Errorf("alias %q points at unknown emoji %q", alias, target)
			}
			if _, ok := ds.Emojis[alias]; ok {
				return nil, oops.Code(CodeInvalidSource).With("alias", alias).Errorf("alias %q shadows an emoji id", alias)
			}
			ds.Aliases[alias] = target
		}
	}

	ds.Categories = make([]emoji.DatasetCategory, 0, len(CategoryOrder))
	for _, category := range CategoryOrder {
		ids := members[category]
		if ids == nil {
			ids = []string{}
		}
		for _, id := range ids {
			d := derived[id]
			if d == id {
				continue
			}
			_, isID := ds.Emojis[d]
			_, isAlias := ds.Aliases[d]
			if !isID && !isAlias {
				ds.Aliases[d] = id
			}
		}
		ds.Categories = append(ds.Categories, emoji.DatasetCategory{ID: category, Emojis: ids})
	}
	return ds, nil
}

func mergeEmoji(id string, entry Entry, cur emoji.DatasetEmoji) emoji.DatasetEmoji {
	keywords := make([]string, 0, len(cur.Keywords)+4)
	keywords = append(keywords, cur.Keywords...)
	for _, w := range nameKeywords(entry.Name) {
		if !contains(keywords, w) {
			keywords = append(keywords, w)
		}
	}

	name := cur.Name
	if name == "" {
		name = titleName(entry.Name)
	}
	version := cur.Version
	if version == 0 {
		version = max(entry.Version, 1)
	}

	return emoji.DatasetEmoji{
		ID:        id,
		Name:      name,
		Keywords:  keywords,
		Skins:     []emoji.Skin{{Unified: entry.Unified, Native: entry.Native}},
		Version:   version,
		Emoticons: cur.Emoticons,
	}
}

func isSkinTone(qualifier string) bool {
	return contains(skinTones, qualifier)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// deriveID builds an emoji-mart style id from an entry: "flag-xx" for
// regional indicator pairs, number words for keycaps, and the snake_cased
// name otherwise.
func deriveID(entry Entry) string {
	if strings.HasPrefix(entry.Name, "flag: ") {
		if code, ok := regionCode(entry.Native); ok {
			return "flag-" + code
		}
	}
	if key, ok := strings.CutPrefix(entry.Name, "keycap: "); ok {
		if id, ok := keycapIDs[key]; ok {
			return id
		}
	}
	return slug(entry.Name)
}

func regionCode(native string) (string, bool) {
	rs := []rune(native)
	if len(rs) != 2 {
		return "", false
	}
	var b strings.Builder
	for _, r := range rs {
		if r < regionalIndicatorA || r > regionalIndicatorZ {
			return "", false
		}
		b.WriteRune('a' + r - regionalIndicatorA)
	}
	return b.String(), true
}

// slug lowercases name, strips diacritics and joins alphanumeric runs
// with underscores: "piñata" becomes "pinata", "T-Rex" becomes "t_rex".
func slug(name string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	pendingSep := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func nameKeywords(name string) []string {
	var out []string
	for _, w := range strings.Split(slug(name), "_") {
		if w == "" || smallWords[w] || contains(out, w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// titleName capitalizes every word of a CLDR name except inner small
// words: "face with tears of joy" becomes "Face with Tears of Joy".
func titleName(name string) string {
	words := strings.Split(name, " ")
	for i, w := range words {
		if w == "" || (i > 0 && smallWords[w]) {
			continue
		}
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
