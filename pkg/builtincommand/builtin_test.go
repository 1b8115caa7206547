// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBuiltinCommand(t *testing.T) {
	assert.True(t, IsBuiltinCommand([]string{"swenv", "install"}))
	assert.True(t, IsBuiltinCommand([]string{"swenv", "download-assets", "--file", "x"}))
	assert.False(t, IsBuiltinCommand([]string{"swenv", "frobnicate"}))
	assert.False(t, IsBuiltinCommand([]string{"swenv"}))
}
