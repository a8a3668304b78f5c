// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Editor Emoji Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertErrorCode asserts that err, or one of the errors joined into it,
// carries code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err, "expected an error with code %s", code)
	assert.Contains(t, Codes(err), code, "error: %v", err)
}

// AssertErrorContext asserts that some oops error in err has key set to
// value in its context.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	require.Error(t, err)
	for _, leaf := range leaves(err) {
		if oopsErr, ok := oops.AsOops(leaf); ok {
			if v, found := oopsErr.Context()[key]; found {
				assert.Equal(t, value, v, "context %q", key)
				return
			}
		}
	}
	assert.Failf(t, "missing error context", "no %q in context of %v", key, err)
}
