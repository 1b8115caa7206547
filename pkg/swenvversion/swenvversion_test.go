// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package swenvversion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultsUnknown(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Build)
	assert.NotEmpty(t, info.BuildDate)
}

func TestSemver(t *testing.T) {
	old := AssistantVersion
	defer func() { AssistantVersion = old }()

	AssistantVersion = "1.2.3"
	v := Semver()
	assert.NotNil(t, v)
	assert.Equal(t, "1.2.3", v.String())

	AssistantVersion = "not-a-version"
	assert.Nil(t, Semver())
}
