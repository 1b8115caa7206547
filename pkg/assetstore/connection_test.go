// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func clearEnv(t *testing.T) {
	for _, v := range []string{
		swenvconfig.UserAccessTokenEnvVar,
		swenvconfig.ProjectAccessTokenEnvVar,
		swenvconfig.SpaceIDEnvVar,
		swenvconfig.ProjectIDEnvVar,
	} {
		t.Setenv(v, "")
	}
	// keep netrc lookups away from the real home dir
	t.Setenv("HOME", t.TempDir())
}

func TestConnectionFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(swenvconfig.UserAccessTokenEnvVar, "abc123")
	t.Setenv(swenvconfig.SpaceIDEnvVar, "space-9")

	conn := ConnectionFromEnv("https://platform:12443")
	assert.Equal(t, "abc123", conn.Token)
	assert.Equal(t, "space-9", conn.SpaceID)
	assert.NoError(t, conn.Validate())
}

func TestConnectionBearerPrefixStripped(t *testing.T) {
	clearEnv(t)
	t.Setenv(swenvconfig.ProjectAccessTokenEnvVar, "Bearer abc123")
	t.Setenv(swenvconfig.ProjectIDEnvVar, "project-1")

	conn := ConnectionFromEnv("https://platform:12443")
	assert.Equal(t, "abc123", conn.Token)
}

func TestConnectionUserTokenWins(t *testing.T) {
	clearEnv(t)
	t.Setenv(swenvconfig.UserAccessTokenEnvVar, "user-token")
	t.Setenv(swenvconfig.ProjectAccessTokenEnvVar, "project-token")

	conn := ConnectionFromEnv("https://platform:12443")
	assert.Equal(t, "user-token", conn.Token)
}

func TestConnectionValidate(t *testing.T) {
	clearEnv(t)

	conn := ConnectionFromEnv("https://platform:12443")
	assert.ErrorIs(t, conn.Validate(), ErrMissingAccessToken)

	conn.Token = "abc123"
	assert.ErrorIs(t, conn.Validate(), ErrMissingScope)

	conn.ProjectID = "project-1"
	assert.NoError(t, conn.Validate())
}

func TestScopeParamPrefersSpace(t *testing.T) {
	conn := &Connection{SpaceID: "s", ProjectID: "p"}
	key, value := conn.scopeParam()
	assert.Equal(t, "space_id", key)
	assert.Equal(t, "s", value)

	conn.SpaceID = ""
	key, value = conn.scopeParam()
	assert.Equal(t, "project_id", key)
	assert.Equal(t, "p", value)
}

func TestEscapeQueryTerm(t *testing.T) {
	assert.Equal(t, `my\ data\:v1`, escapeQueryTerm("my data:v1"))
	assert.Equal(t, `dir\/file`, escapeQueryTerm("dir/file"))
}
