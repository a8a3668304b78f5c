// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor

import (
	"strings"
	"unicode"
)

// ApplyInputRules converts typed shortcodes such as ":smile:" into emoji.
// When emoticons are enabled, a whitespace-delimited emoticon such as ":)"
// is converted as well. Unknown shortcodes are left untouched.
func (e *Extension) ApplyInputRules(text string) string {
	text = e.replaceShortcodes(text)
	if e.opts.EnableEmoticons {
		text = e.replaceEmoticons(text)
	}
	return text
}

func (e *Extension) replaceShortcodes(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		if text[i] != ':' {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i+1:], ':')
		if end <= 0 {
			b.WriteByte(text[i])
			i++
			continue
		}
		code := text[i+1 : i+1+end]
		item, ok := e.catalog.Lookup(code)
		if !ok || !isShortcode(code) {
			// the closing colon may open the next shortcode
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(item.Emoji)
		i += end + 2
	}
	return b.String()
}

func isShortcode(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '+' && r != '-' {
			return false
		}
	}
	return s != ""
}

func (e *Extension) replaceEmoticons(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	start := -1
	flush := func(end int) {
		word := text[start:end]
		if item, ok := e.catalog.Emoticon(word); ok {
			b.WriteString(item.Emoji)
		} else {
			b.WriteString(word)
		}
		start = -1
	}

	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				flush(i)
			}
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		flush(len(text))
	}
	return b.String()
}
