// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package envsave persists resolved environment definitions under the
// assistant home so they can be reinstalled later by name.
package envsave

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/schema"
	"github.com/cpd-tools/swenv/pkg/utils"
)

var ErrInvalidName = fmt.Errorf("invalid environment name")
var ErrUnknownEnvironment = fmt.Errorf("no saved environment")

const Kind = "SavedEnvironment"
const APIVersion = schema.APIGroup + "/v1"

var manifestMeta = schema.ManifestMeta{APIVersion: APIVersion, Kind: Kind}

// SavedEnv is one persisted environment definition plus provenance.
type SavedEnv struct {
	schema.ManifestMeta

	Name        string            `json:"name"`
	SavedAt     time.Time         `json:"savedAt"`
	Annotations map[string]string `json:"annotations,omitempty"`
	Definition  *envdef.Document  `json:"definition"`
}

type Store struct {
	dir string
}

// NewStore returns a store rooted at dir, typically the saved/ directory
// under the assistant home.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save persists doc under name. The working directory's git state, when
// there is one, is recorded as provenance annotations.
func (s *Store) Save(name string, doc *envdef.Document) (*SavedEnv, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := utils.EnsureDirs(s.dir); err != nil {
		return nil, err
	}

	saved := &SavedEnv{
		ManifestMeta: manifestMeta,
		Name:         name,
		SavedAt:      time.Now().UTC(),
		Annotations:  collectGitAnnotations(),
		Definition:   doc,
	}

	contents, err := json.MarshalIndent(saved, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.path(name), append(contents, '\n'), 0o644); err != nil {
		return nil, err
	}
	return saved, nil
}

// Load reads the saved environment called name. The returned definition is
// already resolved.
func (s *Store) Load(name string) (*SavedEnv, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w named %q", ErrUnknownEnvironment, name)
		}
		return nil, err
	}

	saved := &SavedEnv{}
	if err := json.Unmarshal(contents, saved); err != nil {
		return nil, fmt.Errorf("parsing saved environment %q: %w", name, err)
	}
	if err := manifestMeta.ValidateSchema(saved.ManifestMeta); err != nil {
		return nil, fmt.Errorf("saved environment %q: %w", name, err)
	}

	if saved.Definition == nil {
		saved.Definition = &envdef.Document{}
	}
	saved.Definition.MarkNormalized()
	return saved, nil
}

// List returns every saved environment, most recently saved first.
func (s *Store) List() ([]*SavedEnv, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var saved []*SavedEnv
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		env, err := s.Load(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			return nil, err
		}
		saved = append(saved, env)
	}

	slices.SortFunc(saved, func(a, b *SavedEnv) int {
		return b.SavedAt.Compare(a.SavedAt)
	})
	return saved, nil
}

// Remove deletes the saved environment called name.
func (s *Store) Remove(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w named %q", ErrUnknownEnvironment, name)
		}
		return err
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("%w %q: name must not contain path separators", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, envdef.ReservedPrefix) {
		return fmt.Errorf("%w %q: the prefix %q is reserved", ErrInvalidName, name, envdef.ReservedPrefix)
	}
	return nil
}

// collectGitAnnotations records the commit (and tag, if any) of the working
// directory. Not being in a git repository is not an error.
func collectGitAnnotations() map[string]string {
	r, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}
	head, err := r.Head()
	if err != nil {
		return nil
	}

	result := map[string]string{
		"git.commit": head.Hash().String(),
	}

	tag, err := r.TagObject(head.Hash())
	if err == nil {
		result["git.tag"] = tag.Name
	} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return result
	}

	return result
}
