// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envdef

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFileEntries(t *testing.T) {
	base := t.TempDir()
	doc, err := Parse([]byte(`
files:
  - plain.py
  - path: deep/mod.py
  - path: other.py
    root: sub
`))
	require.NoError(t, err)
	require.NoError(t, doc.Normalize(base))

	assert.Equal(t, base, doc.Files[0].Root)
	assert.Equal(t, "plain.py", doc.Files[0].Name)

	assert.Equal(t, base, doc.Files[1].Root)
	assert.Equal(t, "deep/mod.py", doc.Files[1].Name)

	assert.Equal(t, filepath.Join(base, "sub"), doc.Files[2].Root)
}

func TestNormalizeKeepsAbsoluteRoot(t *testing.T) {
	doc, err := Parse([]byte("files:\n  - path: lib\n    root: /opt/env"))
	require.NoError(t, err)
	require.NoError(t, doc.Normalize(t.TempDir()))
	assert.Equal(t, filepath.Clean("/opt/env"), doc.Files[0].Root)
}

func TestNormalizeAssetClassification(t *testing.T) {
	doc, err := Parse([]byte(`
assets:
  - helpers/tools.py
  - tables/data.csv
  - name: lookup.csv
  - name: helper
    type: script
`))
	require.NoError(t, err)
	require.NoError(t, doc.Normalize(t.TempDir()))

	// bare .py path becomes a script asset named after its stem
	assert.Equal(t, AssetTypeScript, doc.Assets[0].AssetType)
	assert.Equal(t, "tools", doc.Assets[0].Name)
	assert.Equal(t, "helpers/tools.py", doc.Assets[0].Path)

	// anything else is a data asset named after the path
	assert.Equal(t, AssetTypeData, doc.Assets[1].AssetType)
	assert.Equal(t, "tables/data.csv", doc.Assets[1].Name)

	// a data asset given by name lands at the name
	assert.Equal(t, AssetTypeData, doc.Assets[2].AssetType)
	assert.Equal(t, "lookup.csv", doc.Assets[2].Path)

	// the type alias is folded and the script path gains the source suffix
	assert.Equal(t, AssetTypeScript, doc.Assets[3].AssetType)
	assert.Equal(t, "helper.py", doc.Assets[3].Path)
	assert.Empty(t, doc.Assets[3].Type)
}

func TestNormalizeReservedPrefix(t *testing.T) {
	for _, contents := range []string{
		"files: [swenv-extra.py]",
		"modules:\n  - path: swenv/lib",
		"assets: [swenv.csv]",
	} {
		doc, err := Parse([]byte(contents))
		require.NoError(t, err, contents)
		err = doc.Normalize(t.TempDir())
		assert.ErrorIs(t, err, ErrReservedPrefix, contents)
		assert.ErrorIs(t, err, ErrInvalidEnvironment, contents)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	base := t.TempDir()
	doc, err := Parse([]byte("files: [a.py]"))
	require.NoError(t, err)
	require.NoError(t, doc.Normalize(base))
	require.NoError(t, doc.Normalize(filepath.Join(base, "elsewhere")))
	assert.Equal(t, base, doc.Files[0].Root)
}

func TestMarkNormalized(t *testing.T) {
	doc, err := Parse([]byte("files: [a.py]"))
	require.NoError(t, err)
	doc.MarkNormalized()
	require.NoError(t, doc.Normalize(t.TempDir()))
	assert.Empty(t, doc.Files[0].Root)
}

func TestAbsolutePath(t *testing.T) {
	e := &FileEntry{Name: "lib", Path: "lib", Root: "/opt/env"}
	assert.Equal(t, filepath.Clean("/opt/env/lib"), e.AbsolutePath("/cwd", false))
	assert.Equal(t, filepath.Clean("/cwd/lib"), e.AbsolutePath("/cwd", true))
}
