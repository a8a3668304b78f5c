// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package editor_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-sigs/plugin-editor-emoji/internal/editor"
	"github.com/halo-sigs/plugin-editor-emoji/internal/emoji"
	"github.com/halo-sigs/plugin-editor-emoji/pkg/errutil"
)

func newExtension(t *testing.T, opts ...editor.Option) *editor.Extension {
	t.Helper()
	catalog, err := emoji.Bundled("en")
	require.NoError(t, err)
	ext := editor.NewExtension(catalog, opts...)
	t.Cleanup(ext.Close)
	return ext
}

func TestNewExtension_Defaults(t *testing.T) {
	ext := newExtension(t)

	assert.Equal(t, "emoji", ext.ExtensionName())
	opts := ext.Options()
	assert.True(t, opts.EnableEmoticons)
	assert.Equal(t, ":", opts.SuggestionChar)
	assert.Equal(t, 250, opts.SuggestionLimit)
	assert.Equal(t, map[string]string{"class": "emoji-node"}, opts.HTMLAttributes)
	assert.Equal(t, 100*time.Millisecond, opts.CommandMenuReset)

	item := opts.CommandMenu
	assert.Equal(t, 120, item.Priority)
	assert.Equal(t, "Emoji", item.Title)
	assert.Equal(t, []string{"emoji", "表情", "biaoqing"}, item.Keywords)
}

func TestExtension_OptionsIsCopy(t *testing.T) {
	ext := newExtension(t)
	opts := ext.Options()
	opts.HTMLAttributes["class"] = "changed"

	assert.Equal(t, "emoji-node", ext.Options().HTMLAttributes["class"])
}

func TestExtension_Options(t *testing.T) {
	ext := newExtension(t,
		editor.WithEmoticons(false),
		editor.WithSuggestionLimit(3),
		editor.WithSuggestionLimit(0),
		editor.WithHTMLAttribute("title", "emoji"),
	)

	opts := ext.Options()
	assert.False(t, opts.EnableEmoticons)
	assert.Equal(t, 3, opts.SuggestionLimit, "non-positive limit keeps previous value")
	assert.Equal(t, "emoji", opts.HTMLAttributes["title"])
	assert.Equal(t, "emoji-node", opts.HTMLAttributes["class"])
}

func TestExtension_Descriptor(t *testing.T) {
	ext := newExtension(t)

	d := ext.Descriptor()
	assert.Equal(t, "emoji", d.Name)
	assert.Equal(t, "en", d.Locale)
	assert.Equal(t, ext.Catalog().Len(), d.EmojiCount)
	require.NotEmpty(t, d.Categories)
	assert.Equal(t, "people", d.Categories[0].ID)
	assert.Equal(t, "Smileys & People", d.Categories[0].Name)
	assert.Positive(t, d.Categories[0].Count)

	require.NotEmpty(t, d.Emoticons)
	assert.Contains(t, d.Emoticons, ":)")
	assert.Contains(t, d.Emoticons, "<3")
	for i := 1; i < len(d.Emoticons); i++ {
		assert.GreaterOrEqual(t, len(d.Emoticons[i-1]), len(d.Emoticons[i]), "longest first")
	}

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"HTMLAttributes":{"class":"emoji-node"}`)
}

func TestExtension_DescriptorEmoticonsDisabled(t *testing.T) {
	ext := newExtension(t, editor.WithEmoticons(false))

	d := ext.Descriptor()
	assert.Empty(t, d.Emoticons)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"emoticons"`)
}

func TestExtension_Suggest(t *testing.T) {
	ext := newExtension(t, editor.WithSuggestionLimit(5))

	hidden := ext.Suggest("")
	assert.False(t, hidden.Visible, "empty query hides the popup")
	assert.Empty(t, hidden.Items)

	s := ext.Suggest("thumbsup")
	assert.True(t, s.Visible)
	require.NotEmpty(t, s.Items)
	assert.Equal(t, "+1", s.Items[0].Name)

	none := ext.Suggest("zzzz")
	assert.True(t, none.Visible)
	assert.NotNil(t, none.Items)
	assert.Empty(t, none.Items)

	all := ext.SuggestAll("")
	assert.True(t, all.Visible)
	assert.Len(t, all.Items, 5, "limit applies")
}

func TestExtension_SuggestMetrics(t *testing.T) {
	ext := newExtension(t)
	before := testutil.ToFloat64(editor.SuggestionQueries.WithLabelValues("false"))

	ext.Suggest("")

	after := testutil.ToFloat64(editor.SuggestionQueries.WithLabelValues("false"))
	assert.InDelta(t, before+1, after, 0.001)
}

func TestExtension_TriggerCommandMenu(t *testing.T) {
	ext := newExtension(t, editor.WithCommandMenuReset(20*time.Millisecond))

	assert.False(t, ext.CommandMenuTriggered())
	inserted := ext.TriggerCommandMenu()
	assert.Equal(t, ":", inserted)
	assert.True(t, ext.CommandMenuTriggered())

	s := ext.Suggest("")
	assert.True(t, s.Visible, "command-menu trigger lists everything on empty query")
	assert.NotEmpty(t, s.Items)

	assert.Eventually(t, func() bool { return !ext.CommandMenuTriggered() },
		time.Second, 5*time.Millisecond, "trigger resets after delay")
	assert.False(t, ext.Suggest("").Visible)
}

func TestExtension_TriggerCommandMenuRestartsTimer(t *testing.T) {
	ext := newExtension(t, editor.WithCommandMenuReset(time.Hour))

	ext.TriggerCommandMenu()
	ext.TriggerCommandMenu()
	assert.True(t, ext.CommandMenuTriggered())

	ext.Close()
	assert.False(t, ext.CommandMenuTriggered(), "close clears the trigger")

	ext.TriggerCommandMenu()
	assert.False(t, ext.CommandMenuTriggered(), "closed extension ignores triggers")
}

func TestExtension_CommandMenuMetric(t *testing.T) {
	ext := newExtension(t)
	reg := prometheus.NewRegistry()
	editor.RegisterMetrics(reg)

	before := testutil.ToFloat64(editor.CommandMenuTriggers)
	ext.TriggerCommandMenu()
	assert.InDelta(t, before+1, testutil.ToFloat64(editor.CommandMenuTriggers), 0.001)
}

func TestExtension_Insert(t *testing.T) {
	ext := newExtension(t)

	node, err := ext.Insert("thumbsup")
	require.NoError(t, err)
	assert.Equal(t, "emoji", node.Type)
	assert.Equal(t, map[string]string{"name": "+1"}, node.Attrs)

	_, err = ext.Insert("not-an-emoji")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, emoji.CodeUnknownEmoji)
}

func TestExtension_RenderHTML(t *testing.T) {
	ext := newExtension(t, editor.WithHTMLAttribute("aria-label", `a "quoted" label`))

	out, err := ext.RenderHTML(":tada:")
	require.NoError(t, err)
	assert.Equal(t,
		`<span data-type="emoji" data-name="tada" aria-label="a &#34;quoted&#34; label" class="emoji-node">🎉</span>`,
		out)

	_, err = ext.RenderHTML("nope")
	require.Error(t, err)
}
