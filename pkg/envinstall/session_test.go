// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envinstall_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpd-tools/swenv/pkg/assetstore"
	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/runtimecontext"
	"github.com/cpd-tools/swenv/pkg/searchpath"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/testutil"
)

type fakePip struct {
	rendered []string
}

func (f *fakePip) Install(_ context.Context, requirementsPath string) error {
	contents, err := os.ReadFile(requirementsPath)
	if err != nil {
		return err
	}
	f.rendered = append(f.rendered, string(contents))
	return nil
}

func setup(t *testing.T) (*swenvconfig.Config, string) {
	root := testutil.SetupEnv(t)
	t.Setenv(searchpath.PythonPathEnvVar, "")

	config, err := swenvconfig.Get()
	require.NoError(t, err)
	require.NoError(t, config.EnsureDirs())
	return config, root
}

func newSession(t *testing.T, config *swenvconfig.Config, opts ...envinstall.Option) *envinstall.Session {
	opts = append([]envinstall.Option{
		envinstall.WithRuntimeContext(runtimecontext.LocalDev),
		envinstall.WithPipRunner(&fakePip{}),
	}, opts...)
	session, err := envinstall.NewSession(config, opts...)
	require.NoError(t, err)
	return session
}

func TestInstallFilesOntoSearchPath(t *testing.T) {
	config, root := setup(t)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	testutil.WriteFile(t, root, "helpers/tools.py", "x = 1\n")
	testutil.WriteFile(t, root, "tables/data.csv", "a,b\n")
	testutil.WriteFile(t, root, "swenv.yaml", `
files:
  - lib
  - helpers/tools.py
  - tables/data.csv
  - missing.py
`)

	session := newSession(t, config)
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	entries := session.SearchPath()
	assert.Contains(t, entries, filepath.Join(root, "lib"))
	// a source file contributes its parent directory
	assert.Contains(t, entries, filepath.Join(root, "helpers"))
	// a data file contributes nothing
	assert.NotContains(t, entries, filepath.Join(root, "tables"))

	// the environment variable was published for spawned interpreters
	assert.Contains(t, os.Getenv(searchpath.PythonPathEnvVar), filepath.Join(root, "lib"))

	// the missing file is reported but does not fail the install
	assert.True(t, hasMessage(session, "missing.py not found"), session.Messages())
	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
}

func TestInstallModulesTakeNoAction(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "pkg/mylib.py", "x = 1\n")
	testutil.WriteFile(t, root, "swenv.yaml", "modules:\n  - pkg/mylib.py\n")

	session := newSession(t, config)
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	// modules are declared for packaging; the consumer imports them explicitly
	assert.NotContains(t, session.SearchPath(), filepath.Join(root, "pkg"))
	assert.True(t, hasMessage(session, "import modules manually"), session.Messages())
}

func TestInstallPipRequirements(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", `
pip:
  - numpy==1.26
  - path: wheels
`)

	runner := &fakePip{}
	session := newSession(t, config, envinstall.WithPipRunner(runner))
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	require.Len(t, runner.rendered, 1)
	assert.Contains(t, runner.rendered[0], "numpy==1.26")
	assert.Contains(t, runner.rendered[0], "--index-url file://")
	assert.Contains(t, runner.rendered[0], filepath.ToSlash(filepath.Join(root, "wheels", "simple")))
}

func TestInstallAssetsEmbedded(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "built_swenv: true\nassets_added_to_sdist: true\nassets:\n  - helpers/tools.py\n")

	session := newSession(t, config, envinstall.WithRuntimeContext(runtimecontext.Deployed))
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
	// the packaged script asset's directory is importable
	assert.Contains(t, session.SearchPath(), filepath.Join(root, "helpers"))
}

func TestInstallAssetsAssumedLocally(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "assets:\n  - helpers/tools.py\n")

	session := newSession(t, config)
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
	assert.True(t, hasMessage(session, "assuming assets are available locally"), session.Messages())
	// assumed-present assets are a diagnostic only, not a search path change
	assert.NotContains(t, session.SearchPath(), filepath.Join(root, "helpers"))
}

func TestInstallAssetsUnbuiltDeployed(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "assets:\n  - helpers/tools.py\n")

	session := newSession(t, config, envinstall.WithRuntimeContext(runtimecontext.Deployed))
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	// an unbuilt environment never queues downloads, whatever the runtime
	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
	assert.Empty(t, session.PendingAssets())
	assert.True(t, hasMessage(session, "assuming assets are available locally"), session.Messages())
}

func TestInstallAssetsInteractive(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "built_swenv: true\nassets:\n  - data.csv\n")

	session := newSession(t, config, envinstall.WithRuntimeContext(runtimecontext.Interactive))
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
	assert.True(t, hasMessage(session, "interactive"), session.Messages())
}

func TestInstallAssetsPendingWhenDeployed(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "built_swenv: true\nassets:\n  - helpers/tools.py\n  - data.csv\n")

	session := newSession(t, config, envinstall.WithRuntimeContext(runtimecontext.Deployed))
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	assert.Equal(t, envinstall.PhasePendingAssets, session.Phase())
	assert.Len(t, session.PendingAssets(), 2)
}

func TestDownloadPendingAssets(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "built_swenv: true\nassets:\n  - helpers/tools.py\n  - data.csv\n")

	store := testutil.StartAssetStore(t)
	store.Add("script", "tools", []byte("x = 1\n"))
	store.Add("data_asset", "data.csv", []byte("a,b\n"))

	session := newSession(t, config,
		envinstall.WithRuntimeContext(runtimecontext.Deployed),
		envinstall.WithDownloaderFactory(func() (envinstall.AssetDownloader, error) {
			return assetstore.NewClient(store.Connection()), nil
		}),
	)
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))
	require.Equal(t, envinstall.PhasePendingAssets, session.Phase())

	require.NoError(t, session.DownloadPendingAssets(testutil.Context(t)))

	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
	assert.Empty(t, session.PendingAssets())
	assert.FileExists(t, filepath.Join(root, "helpers", "tools.py"))
	assert.FileExists(t, filepath.Join(root, "data.csv"))
	assert.Contains(t, session.SearchPath(), filepath.Join(root, "helpers"))
}

func TestDownloadPendingAssetsRequiresCredentials(t *testing.T) {
	config, root := setup(t)
	for _, v := range []string{
		swenvconfig.UserAccessTokenEnvVar,
		swenvconfig.ProjectAccessTokenEnvVar,
		swenvconfig.SpaceIDEnvVar,
		swenvconfig.ProjectIDEnvVar,
	} {
		t.Setenv(v, "")
	}
	t.Setenv("HOME", t.TempDir())
	testutil.WriteFile(t, root, "swenv.yaml", "built_swenv: true\nassets:\n  - data.csv\n")

	session := newSession(t, config, envinstall.WithRuntimeContext(runtimecontext.Deployed))
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	err := session.DownloadPendingAssets(testutil.Context(t))
	assert.ErrorIs(t, err, assetstore.ErrMissingAccessToken)
}

func TestDownloadAssetsWithoutQueue(t *testing.T) {
	config, root := setup(t)

	store := testutil.StartAssetStore(t)
	store.Add("data_asset", "data.csv", []byte("a,b\n"))

	doc, err := envdef.Parse([]byte("assets:\n  - data.csv\n"))
	require.NoError(t, err)
	require.NoError(t, doc.Normalize(root))

	session := newSession(t, config,
		envinstall.WithDownloaderFactory(func() (envinstall.AssetDownloader, error) {
			return assetstore.NewClient(store.Connection()), nil
		}),
	)
	require.NoError(t, session.DownloadAssets(testutil.Context(t), doc))
	assert.FileExists(t, filepath.Join(root, "data.csv"))
}

func TestInstallDefaultDiscovery(t *testing.T) {
	config, root := setup(t)

	// nothing to discover
	session := newSession(t, config)
	require.NoError(t, session.InstallDefault(testutil.Context(t)))
	assert.Equal(t, envinstall.PhaseIdle, session.Phase())
	assert.True(t, hasMessage(session, "no environment definition found"), session.Messages())

	// the YAML definition is picked up
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	testutil.WriteFile(t, root, "swenv.yaml", "files: [lib]\n")

	session = newSession(t, config)
	require.NoError(t, session.InstallDefault(testutil.Context(t)))
	assert.Contains(t, session.SearchPath(), filepath.Join(root, "lib"))

	// the resolved companion wins over the YAML definition
	require.NoError(t, os.MkdirAll(filepath.Join(root, "resolvedlib"), 0o755))
	testutil.WriteFile(t, root, "swenv.resolved.json",
		`{"files":[{"name":"resolvedlib","path":"resolvedlib","root":"`+strings.ReplaceAll(root, `\`, `\\`)+`"}],"built_swenv":true}`)

	session = newSession(t, config)
	require.NoError(t, session.InstallDefault(testutil.Context(t)))
	assert.Contains(t, session.SearchPath(), filepath.Join(root, "resolvedlib"))
}

func TestInstallDefaultImplicitDirectory(t *testing.T) {
	config, root := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "swenv"), 0o755))

	session := newSession(t, config)
	require.NoError(t, session.InstallDefault(testutil.Context(t)))

	// the implicit directory is exempt from the reserved-prefix check
	assert.Contains(t, session.SearchPath(), filepath.Join(root, "swenv"))
	assert.Equal(t, envinstall.PhaseInstalled, session.Phase())
}

func TestAddMergesDefinitions(t *testing.T) {
	config, root := setup(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "lib"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "extra"), 0o755))
	testutil.WriteFile(t, root, "swenv.yaml", "files: [lib]\n")
	testutil.WriteFile(t, root, "extra.yaml", "files: [extra]\n")

	session := newSession(t, config)
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))
	require.NoError(t, session.Add(testutil.Context(t), filepath.Join(root, "extra.yaml")))

	assert.Contains(t, session.SearchPath(), filepath.Join(root, "lib"))
	assert.Contains(t, session.SearchPath(), filepath.Join(root, "extra"))
	require.NotNil(t, session.Document())
	assert.Len(t, session.Document().Files, 2)
}

func TestInstallReservedPrefix(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "files: [swenv-things]\n")

	session := newSession(t, config)
	err := session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml"))
	assert.ErrorIs(t, err, envdef.ErrReservedPrefix)
}

func TestInstallReportsIgnoredKeys(t *testing.T) {
	config, root := setup(t)
	testutil.WriteFile(t, root, "swenv.yaml", "conda_dependencies: [scipy]\nmystery: 1\n")

	session := newSession(t, config)
	require.NoError(t, session.Install(testutil.Context(t), filepath.Join(root, "swenv.yaml")))

	assert.True(t, hasMessage(session, "conda support is not yet implemented"), session.Messages())
	assert.True(t, hasMessage(session, `unrecognized key "mystery"`), session.Messages())
}

func hasMessage(session *envinstall.Session, substr string) bool {
	for _, m := range session.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
