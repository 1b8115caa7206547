// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package pip

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func TestRenderRequirements(t *testing.T) {
	reqs := envdef.Requirements{
		{Spec: "numpy==1.26"},
		{IndexPath: "wheels"},
		{Spec: "pandas>=2.0"},
	}

	rendered := RenderRequirements(reqs, "/base")
	assert.Equal(t,
		"numpy==1.26\n"+
			"--index-url file://"+filepath.ToSlash(filepath.Clean("/base/wheels/simple"))+"\n"+
			"pandas>=2.0\n",
		rendered)
}

func TestRenderRequirementsAbsoluteIndex(t *testing.T) {
	rendered := RenderRequirements(envdef.Requirements{{IndexPath: "/opt/wheels"}}, "/elsewhere")
	assert.Contains(t, rendered, "file://"+filepath.ToSlash(filepath.Clean("/opt/wheels/simple")))
}

func TestWriteRequirementsFile(t *testing.T) {
	path, cleanup, err := WriteRequirementsFile(envdef.Requirements{{Spec: "numpy"}}, t.TempDir())
	require.NoError(t, err)
	defer func() { require.NoError(t, cleanup()) }()

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "numpy\n", string(contents))
}

func TestNewExecRunnerBinOverride(t *testing.T) {
	t.Setenv(swenvconfig.PipBinEnvVar, "")
	assert.Equal(t, defaultPipBin, NewExecRunner("").Bin)

	t.Setenv(swenvconfig.PipBinEnvVar, "/custom/pip3")
	r := NewExecRunner("/root/pip.conf")
	assert.Equal(t, "/custom/pip3", r.Bin)
	assert.Equal(t, "/root/pip.conf", r.ConfigFile)
}

func TestExecRunnerFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a shell script")
	}

	bin := filepath.Join(t.TempDir(), "pip")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\necho broken dependency >&2\nexit 1\n"), 0o755))

	r := &ExecRunner{Bin: bin}
	err := r.Install(t.Context(), "requirements.txt")
	assert.ErrorIs(t, err, ErrPipInstall)
	assert.Contains(t, err.Error(), "broken dependency")
}

func TestExecRunnerSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a shell script")
	}

	bin := filepath.Join(t.TempDir(), "pip")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	r := &ExecRunner{Bin: bin}
	require.NoError(t, r.Install(t.Context(), "requirements.txt"))
}
