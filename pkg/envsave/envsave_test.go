// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envsave

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpd-tools/swenv/pkg/envdef"
)

func parseDoc(t *testing.T, contents string) *envdef.Document {
	doc, err := envdef.Parse([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, doc.Normalize(t.TempDir()))
	return doc
}

func TestSaveAndLoad(t *testing.T) {
	store := NewStore(t.TempDir())
	doc := parseDoc(t, "name: myenv\nfiles: [lib]\npip: [numpy, {path: wheels}]")

	saved, err := store.Save("experiment", doc)
	require.NoError(t, err)
	assert.Equal(t, Kind, saved.Kind)
	assert.Equal(t, APIVersion, saved.APIVersion)

	loaded, err := store.Load("experiment")
	require.NoError(t, err)
	assert.Equal(t, "experiment", loaded.Name)
	require.Len(t, loaded.Definition.Files, 1)
	assert.Equal(t, doc.Files[0].Root, loaded.Definition.Files[0].Root)
	require.Len(t, loaded.Definition.Pip, 2)
	assert.Equal(t, "numpy", loaded.Definition.Pip[0].Spec)
	assert.Equal(t, "wheels", loaded.Definition.Pip[1].IndexPath)
}

func TestLoadUnknown(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("nothing")
	assert.ErrorIs(t, err, ErrUnknownEnvironment)
}

func TestSaveNameValidation(t *testing.T) {
	store := NewStore(t.TempDir())
	doc := parseDoc(t, "files: [lib]")

	for _, name := range []string{"", "a/b", `a\b`, "swenv-mine", "swenv"} {
		_, err := store.Save(name, doc)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestList(t *testing.T) {
	store := NewStore(t.TempDir())
	doc := parseDoc(t, "files: [lib]")

	for _, name := range []string{"first", "second", "third"} {
		_, err := store.Save(name, doc)
		require.NoError(t, err)
	}

	saved, err := store.List()
	require.NoError(t, err)
	require.Len(t, saved, 3)
	// most recently saved first
	for i := 1; i < len(saved); i++ {
		assert.False(t, saved[i-1].SavedAt.Before(saved[i].SavedAt))
	}
}

func TestListEmpty(t *testing.T) {
	saved, err := NewStore(t.TempDir()).List()
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestRemove(t *testing.T) {
	store := NewStore(t.TempDir())
	doc := parseDoc(t, "files: [lib]")

	_, err := store.Save("gone", doc)
	require.NoError(t, err)
	require.NoError(t, store.Remove("gone"))

	_, err = store.Load("gone")
	assert.ErrorIs(t, err, ErrUnknownEnvironment)
	assert.ErrorIs(t, store.Remove("gone"), ErrUnknownEnvironment)
}

func TestLoadRejectsWrongSchema(t *testing.T) {
	dir := t.TempDir()
	contents := `{"apiVersion":"` + APIVersion + `","kind":"SomethingElse","name":"bad"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(contents), 0o644))

	_, err := NewStore(dir).Load("bad")
	assert.ErrorContains(t, err, "unsupported kind")
}

func TestTable(t *testing.T) {
	doc := parseDoc(t, "files: [lib]\nassets: [data.csv]")
	store := NewStore(t.TempDir())
	saved, err := store.Save("pretty", doc)
	require.NoError(t, err)

	out := Table([]*SavedEnv{saved})
	assert.Contains(t, out, "pretty")
	assert.Contains(t, out, "1 file(s)")
	assert.Contains(t, out, "1 asset(s)")
}
