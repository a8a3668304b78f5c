// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

// Package emoji builds the emoji catalog offered by the editor.
//
// The source format is the emoji-mart dataset (categories, emojis and
// aliases). Converting it yields editor items keyed by shortcode:
//
//   - name: the emoji-mart id
//   - emoji: the native rendering of the first skin
//   - shortcodes: the id followed by every alias pointing at it
//   - tags: the emoji-mart keywords
//
// Category names come from an emoji-mart i18n table and fall back to the
// category id when the locale has no translation.
package emoji
