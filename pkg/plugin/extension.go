// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin

// ExtensionPoint identifies a place in the host where plugins contribute
// extensions.
type ExtensionPoint string

// Extension points offered by the host.
const (
	// ExtensionPointEditorCreate collects rich-text editor extensions when
	// an editor instance is created.
	ExtensionPointEditorCreate ExtensionPoint = "default:editor:extension:create"
)

// Extension is a contribution to an extension point.
type Extension interface {
	// ExtensionName identifies the extension within its extension point.
	ExtensionName() string
}

// ExtensionRegistry accepts extensions from a plugin.
type ExtensionRegistry interface {
	// Register adds ext to point.
	Register(point ExtensionPoint, ext Extension) error

	// Unregister removes the extension called name from point.
	Unregister(point ExtensionPoint, name string) error
}
