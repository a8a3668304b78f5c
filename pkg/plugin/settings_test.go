// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package plugin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/halo-sigs/plugin-editor-emoji/pkg/plugin"
)

func TestSettings_String(t *testing.T) {
	s := plugin.Settings{"locale": "en", "limit": 10, "nothing": nil}

	assert.Equal(t, "en", s.String("locale", "zh"))
	assert.Equal(t, "10", s.String("limit", ""))
	assert.Equal(t, "zh", s.String("missing", "zh"))
	assert.Equal(t, "zh", s.String("nothing", "zh"))
}

func TestSettings_Bool(t *testing.T) {
	s := plugin.Settings{"on": true, "str": "false", "bad": "maybe", "num": 1}

	assert.True(t, s.Bool("on", false))
	assert.False(t, s.Bool("str", true))
	assert.True(t, s.Bool("bad", true), "unparseable string falls back to default")
	assert.True(t, s.Bool("num", true), "non-bool type falls back to default")
	assert.False(t, s.Bool("missing", false))
}

func TestSettings_Int(t *testing.T) {
	s := plugin.Settings{"int": 3, "int64": int64(4), "float": 5.0, "str": "6", "bad": "x"}

	assert.Equal(t, 3, s.Int("int", 0))
	assert.Equal(t, 4, s.Int("int64", 0))
	assert.Equal(t, 5, s.Int("float", 0))
	assert.Equal(t, 6, s.Int("str", 0))
	assert.Equal(t, 7, s.Int("bad", 7))
	assert.Equal(t, 8, s.Int("missing", 8))
}

func TestSettings_Merge(t *testing.T) {
	base := plugin.Settings{"locale": "zh", "limit": 250}
	merged := base.Merge(plugin.Settings{"locale": "en"})

	assert.Equal(t, "en", merged.String("locale", ""))
	assert.Equal(t, 250, merged.Int("limit", 0))
	assert.Equal(t, "zh", base.String("locale", ""), "base must not be modified")
}

func TestSettings_NilMerge(t *testing.T) {
	var base plugin.Settings
	merged := base.Merge(nil)
	assert.NotNil(t, merged)
	assert.Empty(t, merged)
}
