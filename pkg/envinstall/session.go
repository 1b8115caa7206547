// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package envinstall materializes a software-environment definition: local
// files go onto the module search path, pip requirements get installed, and
// platform assets are either assumed present or queued for download
// depending on the runtime context.
package envinstall

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cpd-tools/swenv/pkg/assetstore"
	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/msgs"
	"github.com/cpd-tools/swenv/pkg/pip"
	"github.com/cpd-tools/swenv/pkg/runtimecontext"
	"github.com/cpd-tools/swenv/pkg/searchpath"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/utils"
)

// Phase is the installation state of a session.
type Phase string

const (
	// PhaseIdle means nothing has been installed yet
	PhaseIdle Phase = "idle"
	// PhaseInstalled means a definition was applied and nothing is pending
	PhaseInstalled Phase = "installed"
	// PhasePendingAssets means a definition was applied but some declared
	// assets still have to be fetched from the asset store
	PhasePendingAssets Phase = "pending-assets"
)

// AssetDownloader fetches assets from the platform's asset store.
// *assetstore.Client is the production implementation.
type AssetDownloader interface {
	Lookup(ctx context.Context, assetType, name string) (*assetstore.Asset, error)
	Download(ctx context.Context, asset *assetstore.Asset, destPath string) error
}

var _ AssetDownloader = (*assetstore.Client)(nil)

// Session applies environment definitions and tracks what has been
// installed. All exported methods are safe for concurrent use; mutating
// operations additionally take the cross-process install lock.
type Session struct {
	mu sync.Mutex

	config *swenvconfig.Config
	rctx   runtimecontext.Context
	rec    *msgs.Recorder

	pipRunner     pip.Runner
	newDownloader func() (AssetDownloader, error)

	doc        *envdef.Document
	pending    []*envdef.AssetEntry
	searchPath *searchpath.List
}

type Option func(*Session)

// WithRuntimeContext overrides the detected runtime context.
func WithRuntimeContext(rctx runtimecontext.Context) Option {
	return func(s *Session) { s.rctx = rctx }
}

// WithPipRunner overrides the pip executable runner.
func WithPipRunner(r pip.Runner) Option {
	return func(s *Session) { s.pipRunner = r }
}

// WithDownloaderFactory overrides how the asset-store client is built. The
// factory runs on first use so credentials are only required when assets
// actually have to be fetched.
func WithDownloaderFactory(f func() (AssetDownloader, error)) Option {
	return func(s *Session) { s.newDownloader = f }
}

func NewSession(config *swenvconfig.Config, opts ...Option) (*Session, error) {
	rctx, err := runtimecontext.Detect()
	if err != nil {
		return nil, err
	}

	rec := msgs.NewRecorder()
	if config.Verbose {
		rec = msgs.NewVerboseRecorder()
	}

	s := &Session{
		config:     config,
		rctx:       rctx,
		rec:        rec,
		searchPath: searchpath.Load(),
	}
	s.newDownloader = func() (AssetDownloader, error) {
		conn := assetstore.ConnectionFromEnv(config.PlatformURL)
		if err := conn.Validate(); err != nil {
			return nil, err
		}
		return assetstore.NewClient(conn), nil
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Install resets the session and applies the definition at filePath. Entry
// paths resolve against the file's directory.
func (s *Session) Install(ctx context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return s.locked(ctx, func() error {
		return s.installFile(ctx, filePath)
	})
}

// InstallDefault resets the session and installs whatever default discovery
// finds in the install root: the resolved JSON companion, then the YAML
// definition, then the conventional environment directory. Finding nothing
// is not an error.
func (s *Session) InstallDefault(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	return s.locked(ctx, func() error {
		path, ok, err := s.config.DefaultDefinitionPath()
		if err != nil {
			return err
		}
		if ok {
			return s.installFile(ctx, path)
		}

		dir, ok, err := s.config.DefaultAssetDir()
		if err != nil {
			return err
		}
		if ok {
			return s.apply(ctx, implicitDocument(dir), s.config.InstallRoot)
		}

		s.rec.Record("no environment definition found in %s", s.config.InstallRoot)
		return nil
	})
}

// Add applies the definition at filePath on top of whatever is already
// installed.
func (s *Session) Add(ctx context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locked(ctx, func() error {
		return s.installFile(ctx, filePath)
	})
}

// InstallDocument applies an already-resolved document on top of the
// current state. Entry paths resolve against the install root.
func (s *Session) InstallDocument(ctx context.Context, doc *envdef.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locked(ctx, func() error {
		return s.apply(ctx, doc, s.config.InstallRoot)
	})
}

// DownloadPendingAssets fetches every queued asset from the asset store and
// provisions it into the install root. Requires platform credentials.
func (s *Session) DownloadPendingAssets(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locked(ctx, func() error {
		if len(s.pending) == 0 {
			s.rec.Record("no assets are pending download")
			return nil
		}
		return s.downloadPending(ctx)
	})
}

// DownloadAssets fetches every asset doc declares, regardless of the
// runtime context. Used by the download-assets command, which runs in a
// fresh process with no queued state.
func (s *Session) DownloadAssets(ctx context.Context, doc *envdef.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.locked(ctx, func() error {
		if len(doc.Assets) == 0 {
			s.rec.Record("the environment declares no assets")
			return nil
		}
		s.pending = append(s.pending, doc.Assets...)
		return s.downloadPending(ctx)
	})
}

func (s *Session) downloadPending(ctx context.Context) error {
	downloader, err := s.newDownloader()
	if err != nil {
		return err
	}

	for _, e := range s.pending {
		asset, err := downloader.Lookup(ctx, e.AssetType, e.Name)
		if err != nil {
			return err
		}
		dest := utils.ResolvePath(s.config.InstallRoot, e.Path)
		if err := downloader.Download(ctx, asset, dest); err != nil {
			return err
		}
		s.rec.Record("downloaded asset %q to %s", e.Name, dest)
	}

	s.provisionAssets(s.pending)
	if err := s.searchPath.Sync(); err != nil {
		return err
	}
	s.pending = nil
	return nil
}

// Reset discards all session state. The process environment keeps whatever
// a previous apply published.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.doc = nil
	s.pending = nil
	s.searchPath = searchpath.Load()
	s.rec.Reset()
}

// Phase reports the session's installation state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case len(s.pending) > 0:
		return PhasePendingAssets
	case s.doc != nil:
		return PhaseInstalled
	default:
		return PhaseIdle
	}
}

// Document returns the merged definition installed so far, or nil.
func (s *Session) Document() *envdef.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// PendingAssets returns the assets queued for download.
func (s *Session) PendingAssets() []*envdef.AssetEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*envdef.AssetEntry, len(s.pending))
	copy(out, s.pending)
	return out
}

// SearchPath returns the current module search path entries.
func (s *Session) SearchPath() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchPath.Entries()
}

func (s *Session) Messages() []string {
	return s.rec.Messages()
}

func (s *Session) RuntimeContext() runtimecontext.Context {
	return s.rctx
}

func (s *Session) locked(ctx context.Context, action func() error) error {
	return utils.WithInstallLock(ctx, s.config.InstallLockPath, action)
}

func (s *Session) installFile(ctx context.Context, filePath string) error {
	doc, err := envdef.Read(filePath)
	if err != nil {
		return err
	}

	baseDir := filepath.Dir(filePath)
	if err := doc.Normalize(baseDir); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	return s.apply(ctx, doc, baseDir)
}

// implicitDocument describes the conventional environment directory that is
// installed when no definition file exists. It is constructed in resolved
// form; dir is already absolute.
func implicitDocument(dir string) *envdef.Document {
	doc := &envdef.Document{
		Files: envdef.FileEntries{{
			Name: filepath.Base(dir),
			Path: filepath.Base(dir),
			Root: filepath.Dir(dir),
		}},
	}
	doc.MarkNormalized()
	return doc
}
