// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envdef

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Normalize rewrites every entry into canonical form, resolving shorthand
// notations against baseDir:
//
//   - file and module entries get an absolute Root and a Name (defaulted
//     from Path),
//   - asset entries get an AssetType (script for .py references, data_asset
//     otherwise) plus defaulted Name and Path,
//   - any entry whose path starts with the reserved prefix is rejected.
//
// Normalize is idempotent; a second call is a no-op so an already-resolved
// document is never re-anchored to a different directory.
func (d *Document) Normalize(baseDir string) error {
	if d.normalized {
		return nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", baseDir, err)
	}

	if err := normalizeFileEntries(d.Files, absBase, "file"); err != nil {
		return err
	}
	if err := normalizeFileEntries(d.Modules, absBase, "module"); err != nil {
		return err
	}
	if err := normalizeAssetEntries(d.Assets); err != nil {
		return err
	}

	d.normalized = true
	return nil
}

func normalizeFileEntries(entries FileEntries, absBase, kind string) error {
	for _, e := range entries {
		if e.fromString {
			e.Root = absBase
			e.fromString = false
		} else {
			if e.Name == "" {
				e.Name = e.Path
			}
			e.Root = resolveRoot(absBase, e.Root)
		}
		if hasReservedPrefix(e.Path) {
			return fmt.Errorf("%w %q: rename %s %q", ErrReservedPrefix, ReservedPrefix, kind, e.Path)
		}
	}
	return nil
}

func normalizeAssetEntries(entries AssetEntries) error {
	for _, e := range entries {
		if e.Type != "" && e.AssetType == "" {
			e.AssetType = e.Type
		}
		e.Type = ""

		if e.AssetType == "" {
			if IsSourceFile(e.Path) || IsSourceFile(e.Name) {
				e.AssetType = AssetTypeScript
			} else {
				e.AssetType = AssetTypeData
			}
		}

		switch {
		case e.Name == "":
			e.Name = assetNameFor(e.AssetType, e.Path)
		case e.Path == "":
			e.Path = assetPathFor(e.AssetType, e.Name)
		}
		e.fromString = false

		if hasReservedPrefix(e.Path) {
			return fmt.Errorf("%w %q: rename asset %q", ErrReservedPrefix, ReservedPrefix, e.Path)
		}
	}
	return nil
}

// assetNameFor derives the store-side asset name from a local path. Script
// assets are stored under their stem; data assets under the path itself.
func assetNameFor(assetType, path string) string {
	if assetType == AssetTypeScript {
		return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return path
}

// assetPathFor is the inverse: the local file a named asset lands in.
func assetPathFor(assetType, name string) string {
	if assetType == AssetTypeScript && !IsSourceFile(name) {
		return name + SourceSuffix
	}
	return name
}

func resolveRoot(absBase, root string) string {
	if root == "" {
		return absBase
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Clean(filepath.Join(absBase, root))
}

func hasReservedPrefix(path string) bool {
	return strings.HasPrefix(filepath.ToSlash(path), ReservedPrefix)
}
