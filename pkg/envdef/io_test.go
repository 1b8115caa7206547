// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envdef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: fromfile\nfiles: [lib]\n"), 0o644))

	doc, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "fromfile", doc.Name)
	require.Len(t, doc.Files, 1)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestReadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "swenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte("files: [unclosed"), 0o644))

	_, err := Read(path)
	assert.ErrorIs(t, err, ErrInvalidEnvironment)
}
