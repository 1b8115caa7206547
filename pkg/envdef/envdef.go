// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package envdef models the declarative software-environment definition: a
// small document naming local files, pip requirements and platform-managed
// assets. Shorthand notations (bare strings, scalar-for-list values,
// singular key variants) are resolved into one canonical form at parse and
// normalize time; everything downstream operates on the canonical form only.
package envdef

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"

	"github.com/cpd-tools/swenv/pkg/utils"
)

var ErrInvalidEnvironment = fmt.Errorf("invalid environment definition")
var ErrConflictingKeys = fmt.Errorf("%w: conflicting keys", ErrInvalidEnvironment)
var ErrMissingPath = fmt.Errorf("%w: a required 'path' field is missing", ErrInvalidEnvironment)
var ErrReservedPrefix = fmt.Errorf("%w: reserved prefix", ErrInvalidEnvironment)

// ReservedPrefix is disallowed at the start of any user-declared entry path.
// The packaged form of an environment installs its own content under this
// namespace, so a user file there would collide with it.
const ReservedPrefix = "swenv"

const (
	AssetTypeScript = "script"
	AssetTypeData   = "data_asset"

	// SourceSuffix marks files that must be reachable through the module
	// search path
	SourceSuffix = ".py"
)

// Document is a software-environment definition. The zero value is an empty
// environment.
type Document struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Base string `yaml:"base,omitempty" json:"base,omitempty"`

	Files   FileEntries  `yaml:"files,omitempty" json:"files,omitempty"`
	Modules FileEntries  `yaml:"modules,omitempty" json:"modules,omitempty"`
	Assets  AssetEntries `yaml:"assets,omitempty" json:"assets,omitempty"`
	Pip     Requirements `yaml:"pip,omitempty" json:"pip,omitempty"`

	// Bookkeeping flags written at packaging time. They record which
	// canonicalization pass already ran so a deployed copy is never
	// re-resolved against the wrong root directory.
	IgnoreEntryRoots bool `yaml:"file_path_ignore_root,omitempty" json:"file_path_ignore_root,omitempty"`
	Built            bool `yaml:"built_swenv,omitempty" json:"built_swenv,omitempty"`
	AssetsEmbedded   bool `yaml:"assets_added_to_sdist,omitempty" json:"assets_added_to_sdist,omitempty"`
	PipEmbedded      bool `yaml:"pip_added_to_sdist,omitempty" json:"pip_added_to_sdist,omitempty"`

	// CondaKeys and ExtraKeys carry top-level keys that installation does
	// not act on. Unknown keys are tolerated, not rejected, to stay forward
	// compatible with richer definitions.
	CondaKeys []string `yaml:"-" json:"-"`
	ExtraKeys []string `yaml:"-" json:"-"`

	normalized bool
}

// wrapParseError tags decode failures with ErrInvalidEnvironment unless the
// underlying entry unmarshaler already did.
func wrapParseError(err error) error {
	if errors.Is(err, ErrInvalidEnvironment) {
		return err
	}
	return fmt.Errorf("%w: %s", ErrInvalidEnvironment, err.Error())
}

var condaKeys = []string{"conda", "conda_channel", "conda_dependencies", "channel", "dependencies"}

var knownKeys = []string{
	"name", "base",
	"file", "files", "module", "modules", "asset", "assets", "pip",
	"file_path_ignore_root", "built_swenv", "assets_added_to_sdist", "pip_added_to_sdist",
}

func (d *Document) UnmarshalYAML(data []byte) error {
	type Alias struct {
		Name string `yaml:"name"`
		Base string `yaml:"base"`

		File  FileEntries `yaml:"file"`
		Files FileEntries `yaml:"files"`

		Module  FileEntries `yaml:"module"`
		Modules FileEntries `yaml:"modules"`

		Asset  AssetEntries `yaml:"asset"`
		Assets AssetEntries `yaml:"assets"`

		Pip Requirements `yaml:"pip"`

		IgnoreEntryRoots bool `yaml:"file_path_ignore_root"`
		Built            bool `yaml:"built_swenv"`
		AssetsEmbedded   bool `yaml:"assets_added_to_sdist"`
		PipEmbedded      bool `yaml:"pip_added_to_sdist"`
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return wrapParseError(err)
	}

	has := func(k string) bool {
		_, ok := raw[k]
		return ok
	}
	for singular, plural := range map[string]string{"file": "files", "module": "modules", "asset": "assets"} {
		if has(singular) && has(plural) {
			return fmt.Errorf("%w: use either key %q or %q but not both together", ErrConflictingKeys, singular, plural)
		}
	}

	alias := Alias{}
	if err := yaml.Unmarshal(data, &alias); err != nil {
		return wrapParseError(err)
	}

	d.Name = alias.Name
	d.Base = alias.Base
	// fold singular key variants into the plural keys
	d.Files = append(alias.Files, alias.File...)
	d.Modules = append(alias.Modules, alias.Module...)
	d.Assets = append(alias.Assets, alias.Asset...)
	d.Pip = alias.Pip
	d.IgnoreEntryRoots = alias.IgnoreEntryRoots
	d.Built = alias.Built
	d.AssetsEmbedded = alias.AssetsEmbedded
	d.PipEmbedded = alias.PipEmbedded

	d.CondaKeys = nil
	d.ExtraKeys = nil
	for k := range raw {
		switch {
		case lo.Contains(condaKeys, k):
			d.CondaKeys = append(d.CondaKeys, k)
		case !lo.Contains(knownKeys, k):
			d.ExtraKeys = append(d.ExtraKeys, k)
		}
	}
	slices.Sort(d.CondaKeys)
	slices.Sort(d.ExtraKeys)

	return nil
}

// FileEntry is one file or directory to expose on the module search path.
// Canonically Path is relative to Root and Root is absolute; both shorthand
// forms (bare string, mapping without root) are filled in by Normalize.
type FileEntry struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	Path string `yaml:"path" json:"path"`
	Root string `yaml:"root,omitempty" json:"root,omitempty"`

	fromString bool
}

func (e *FileEntry) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err == nil {
		*e = FileEntry{Name: s, Path: s, fromString: true}
		return nil
	}

	type Alias FileEntry
	alias := Alias{}
	if err := yaml.UnmarshalWithOptions(data, &alias, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEnvironment, err.Error())
	}
	if alias.Path == "" {
		return fmt.Errorf("%w: file entry must have 'path'", ErrMissingPath)
	}
	*e = FileEntry(alias)
	return nil
}

// AbsolutePath resolves the entry against its root. When ignoreRoot is set
// (the packaged form has self-contained paths) the root is skipped and the
// path resolves against baseDir instead.
func (e *FileEntry) AbsolutePath(baseDir string, ignoreRoot bool) string {
	if ignoreRoot || e.Root == "" {
		return utils.ResolvePath(baseDir, e.Path)
	}
	return utils.ResolvePath(e.Root, e.Path)
}

// AssetEntry references a file managed by the platform's asset store.
type AssetEntry struct {
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Path      string `yaml:"path,omitempty" json:"path,omitempty"`
	AssetType string `yaml:"asset_type,omitempty" json:"asset_type,omitempty"`

	// Type is accepted as an alias of AssetType; the platform UI writes
	// `type:` in the asset records it generates. Folded by Normalize.
	Type string `yaml:"type,omitempty" json:"-"`

	fromString bool
}

func (e *AssetEntry) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err == nil {
		*e = AssetEntry{Path: s, fromString: true}
		return nil
	}

	type Alias AssetEntry
	alias := Alias{}
	if err := yaml.UnmarshalWithOptions(data, &alias, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEnvironment, err.Error())
	}
	if alias.Name == "" && alias.Path == "" {
		return fmt.Errorf("%w: asset entry must have 'name' or 'path'", ErrInvalidEnvironment)
	}
	*e = AssetEntry(alias)
	return nil
}

// Requirement is one pip dependency: either a plain requirement-file line,
// or a local package-index directory given as {path: dir}.
type Requirement struct {
	Spec      string
	IndexPath string
}

func (r *Requirement) UnmarshalYAML(data []byte) error {
	var s string
	if err := yaml.Unmarshal(data, &s); err == nil {
		*r = Requirement{Spec: s}
		return nil
	}

	var m struct {
		Path string `yaml:"path"`
	}
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.Strict()); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidEnvironment, err.Error())
	}
	if m.Path == "" {
		return fmt.Errorf("%w: pip entry must have 'path'", ErrMissingPath)
	}
	*r = Requirement{IndexPath: m.Path}
	return nil
}

func (r *Requirement) MarshalYAML() ([]byte, error) {
	if r.IndexPath != "" {
		return yaml.Marshal(map[string]string{"path": r.IndexPath})
	}
	return yaml.Marshal(r.Spec)
}

func (r *Requirement) MarshalJSON() ([]byte, error) {
	if r.IndexPath != "" {
		return json.Marshal(map[string]string{"path": r.IndexPath})
	}
	return json.Marshal(r.Spec)
}

func (r *Requirement) UnmarshalJSON(data []byte) error {
	return r.UnmarshalYAML(data)
}

// FileEntries, AssetEntries and Requirements accept a single scalar where a
// list is expected, so a definition declaring one entry as a bare value
// still parses.

type FileEntries []*FileEntry

func (l *FileEntries) UnmarshalYAML(data []byte) error {
	var entries []*FileEntry
	if err := yaml.Unmarshal(data, &entries); err == nil {
		*l = entries
		return nil
	}
	single := &FileEntry{}
	if err := single.UnmarshalYAML(data); err != nil {
		return err
	}
	*l = FileEntries{single}
	return nil
}

type AssetEntries []*AssetEntry

func (l *AssetEntries) UnmarshalYAML(data []byte) error {
	var entries []*AssetEntry
	if err := yaml.Unmarshal(data, &entries); err == nil {
		*l = entries
		return nil
	}
	single := &AssetEntry{}
	if err := single.UnmarshalYAML(data); err != nil {
		return err
	}
	*l = AssetEntries{single}
	return nil
}

type Requirements []*Requirement

func (l *Requirements) UnmarshalYAML(data []byte) error {
	var entries []*Requirement
	if err := yaml.Unmarshal(data, &entries); err == nil {
		*l = entries
		return nil
	}
	single := &Requirement{}
	if err := single.UnmarshalYAML(data); err != nil {
		return err
	}
	*l = Requirements{single}
	return nil
}

// MarkNormalized flags the document as already canonical, making Normalize
// a no-op. Used for documents constructed in resolved form rather than
// parsed from user input.
func (d *Document) MarkNormalized() {
	d.normalized = true
}

// IsSourceFile reports whether path names a Python source file.
func IsSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceSuffix)
}

// IsEmpty reports whether the document declares nothing installable.
func (d *Document) IsEmpty() bool {
	return len(d.Files) == 0 && len(d.Modules) == 0 && len(d.Assets) == 0 && len(d.Pip) == 0
}

// Merge folds another document into this one: list-valued keys are
// concatenated, scalar keys keep the existing value unless unset.
func (d *Document) Merge(other *Document) {
	if d.Name == "" {
		d.Name = other.Name
	}
	if d.Base == "" {
		d.Base = other.Base
	}
	d.Files = append(d.Files, other.Files...)
	d.Modules = append(d.Modules, other.Modules...)
	d.Assets = append(d.Assets, other.Assets...)
	d.Pip = append(d.Pip, other.Pip...)
	d.CondaKeys = lo.Uniq(append(d.CondaKeys, other.CondaKeys...))
	d.ExtraKeys = lo.Uniq(append(d.ExtraKeys, other.ExtraKeys...))
}

var _ yaml.BytesUnmarshaler = (*Document)(nil)
var _ yaml.BytesUnmarshaler = (*FileEntry)(nil)
var _ yaml.BytesUnmarshaler = (*AssetEntry)(nil)
var _ yaml.BytesUnmarshaler = (*Requirement)(nil)
var _ yaml.BytesUnmarshaler = (*FileEntries)(nil)
var _ yaml.BytesUnmarshaler = (*AssetEntries)(nil)
var _ yaml.BytesUnmarshaler = (*Requirements)(nil)
var _ yaml.BytesMarshaler = (*Requirement)(nil)
