// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envinstall

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/pip"
	"github.com/cpd-tools/swenv/pkg/runtimecontext"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/utils"
)

// apply materializes a normalized document. Caller holds the session mutex
// and the install lock.
func (s *Session) apply(ctx context.Context, doc *envdef.Document, baseDir string) error {
	s.reportIgnoredKeys(doc)

	if err := s.provisionFiles(doc, baseDir); err != nil {
		return err
	}
	if err := s.searchPath.Sync(); err != nil {
		return err
	}

	if err := s.installPip(ctx, doc, baseDir); err != nil {
		return err
	}

	if err := s.handleAssets(doc); err != nil {
		return err
	}

	if s.doc == nil {
		s.doc = doc
	} else {
		s.doc.Merge(doc)
	}
	return nil
}

func (s *Session) reportIgnoredKeys(doc *envdef.Document) {
	if len(doc.CondaKeys) > 0 {
		s.rec.Record("conda support is not yet implemented; ignoring key(s) %s", strings.Join(doc.CondaKeys, ", "))
	}
	for _, k := range doc.ExtraKeys {
		s.rec.Record("ignoring unrecognized key %q", k)
	}
}

// provisionFiles puts every declared file onto the module search path:
// directories directly, source files through their parent directory.
// Non-source files need no path entry, and missing files are reported but
// do not fail the installation. Module entries take no install action;
// the consumer imports them explicitly.
func (s *Session) provisionFiles(doc *envdef.Document, baseDir string) error {
	if len(doc.Modules) > 0 {
		s.rec.Record("import modules manually in the project")
	}
	for _, e := range doc.Files {
		abs := e.AbsolutePath(baseDir, doc.IgnoreEntryRoots)

		isDir, err := utils.DirExists(abs)
		if err != nil {
			return err
		}
		if isDir {
			s.prepend(abs)
			continue
		}

		exists, err := utils.FileExists(abs)
		if err != nil {
			return err
		}
		if !exists {
			s.rec.Record("file %s not found", abs)
			continue
		}
		if envdef.IsSourceFile(abs) {
			s.prepend(filepath.Dir(abs))
		}
	}
	return nil
}

func (s *Session) prepend(dir string) {
	if s.searchPath.Prepend(dir) {
		s.rec.Record("adding %s to the module search path", dir)
	}
}

func (s *Session) installPip(ctx context.Context, doc *envdef.Document, baseDir string) error {
	if len(doc.Pip) == 0 {
		return nil
	}

	runner := s.pipRunner
	if runner == nil {
		configFile := filepath.Join(s.config.InstallRoot, swenvconfig.PipConfigFilename)
		if ok, err := utils.FileExists(configFile); err != nil {
			return err
		} else if !ok {
			configFile = ""
		}
		runner = pip.NewExecRunner(configFile)
	}

	reqPath, cleanup, err := pip.WriteRequirementsFile(doc.Pip, baseDir)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	s.rec.Record("installing %d pip requirement(s)", len(doc.Pip))
	return runner.Install(ctx, reqPath)
}

// handleAssets decides what to do about declared assets. Environments
// packaged with embedded assets get them onto the search path; interactive
// sessions and unbuilt environments assume the assets are already in place.
// Only a built environment outside those cases queues downloads.
func (s *Session) handleAssets(doc *envdef.Document) error {
	if len(doc.Assets) == 0 {
		return nil
	}

	switch {
	case doc.AssetsEmbedded:
		s.rec.Record("assets were packaged with the environment")
		s.provisionAssets(doc.Assets)
		return s.searchPath.Sync()
	case s.rctx == runtimecontext.Interactive:
		s.rec.Record("assuming assets are present in the interactive session")
	case !doc.Built:
		s.rec.Record("assuming assets are available locally")
	default:
		s.pending = append(s.pending, doc.Assets...)
		s.rec.Record("%d asset(s) pending download. Run 'swenv download-assets' to fetch them", len(doc.Assets))
	}
	return nil
}

// provisionAssets makes script assets importable by putting their containing
// directory onto the search path. Data assets are used by path, not
// imported, so they need no path entry.
func (s *Session) provisionAssets(assets []*envdef.AssetEntry) {
	for _, e := range assets {
		if e.AssetType != envdef.AssetTypeScript {
			continue
		}
		abs := utils.ResolvePath(s.config.InstallRoot, e.Path)
		s.prepend(filepath.Dir(abs))
	}
}
