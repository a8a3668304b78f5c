// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package emoji

import (
	"strings"

	"github.com/samber/oops"
)

// Error codes for catalog failures.
const (
	CodeInvalidDataset = "INVALID_DATASET"
	CodeUnknownLocale  = "UNKNOWN_LOCALE"
	CodeUnknownEmoji   = "UNKNOWN_EMOJI"
)

// ErrUnknownLocale creates an error for a locale with no bundled table.
// The message lists the bundled locales.
func ErrUnknownLocale(name string) error {
	available := Locales()
	return oops.Code(CodeUnknownLocale).
		With("locale", name).
		With("available", available).
		Errorf("unknown locale: %s (available: %s)", name, strings.Join(available, ", "))
}

// ErrUnknownEmoji creates an error for a shortcode not in the catalog.
func ErrUnknownEmoji(shortcode string) error {
	return oops.Code(CodeUnknownEmoji).
		With("shortcode", shortcode).
		Errorf("unknown emoji: %s", shortcode)
}
