// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/utils"
)

// TestdataPath gives absolute path within the common 'testdata'
func TestdataPath(t *testing.T, path ...string) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)

	p := []string{filepath.Dir(file), "testdata"}
	p = append(p, path...)
	return filepath.Join(p...)
}

// SetupEnv points SWENV_HOME and SWENV_ROOT at fresh temp dirs so tests
// never touch the real assistant home or working directory. Returns the
// install root.
func SetupEnv(t *testing.T) string {
	home := t.TempDir()
	root := t.TempDir()
	t.Setenv(swenvconfig.SwenvHomeEnvVar, home)
	t.Setenv(swenvconfig.SwenvRootEnvVar, root)
	return root
}

// WriteFile creates a file under dir, creating parent directories.
func WriteFile(t *testing.T, dir, name, contents string) string {
	p := filepath.Join(dir, name)
	require.NoError(t, utils.EnsureDirs(filepath.Dir(p)))
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}

type CommonSetupSuite struct {
	suite.Suite
}

func (suite *CommonSetupSuite) SetupTest() {
	// randomized SWENV_HOME before every test, otherwise the assistant
	// would share the default ~/.swenv across tests

	tmpHome, deleteFn, err := utils.MkdirTemp("", "")
	suite.Require().NoError(err)
	suite.T().Setenv(swenvconfig.SwenvHomeEnvVar, tmpHome)
	suite.T().Cleanup(func() {
		_ = deleteFn()
	})
}

func Context(t *testing.T) context.Context {
	ctx, stopFn := context.WithCancel(context.Background())
	t.Cleanup(stopFn)
	return ctx
}

var OS = func() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	return "unix"
}()
