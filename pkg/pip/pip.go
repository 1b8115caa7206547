// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package pip installs the declared Python package requirements by driving
// the pip executable. Declared requirements are rendered to a requirements
// file; local package-index entries become --index-url lines pointing at
// the index directory's simple/ layout.
package pip

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/utils"
)

var ErrPipInstall = fmt.Errorf("pip install failed")

const defaultPipBin = "pip"

// Runner installs the requirements in a rendered requirements file.
type Runner interface {
	Install(ctx context.Context, requirementsPath string) error
}

// ExecRunner runs the real pip executable.
type ExecRunner struct {
	// Bin is the pip executable to invoke
	Bin string

	// ConfigFile, when set, is exported as PIP_CONFIG_FILE for the run so a
	// pip.conf shipped with the environment takes effect
	ConfigFile string
}

// NewExecRunner returns a runner for the pip named by SWENV_PIP, falling
// back to "pip" from PATH.
func NewExecRunner(configFile string) *ExecRunner {
	bin := os.Getenv(swenvconfig.PipBinEnvVar)
	if bin == "" {
		bin = defaultPipBin
	}
	return &ExecRunner{Bin: bin, ConfigFile: configFile}
}

func (r *ExecRunner) Install(ctx context.Context, requirementsPath string) error {
	cmd := exec.CommandContext(ctx, r.Bin, "install", "-r", requirementsPath)
	if r.ConfigFile != "" {
		cmd.Env = append(os.Environ(), "PIP_CONFIG_FILE="+r.ConfigFile)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrPipInstall, err.Error(), strings.TrimSpace(string(out)))
	}
	return nil
}

// RenderRequirements renders the declared requirements into pip
// requirements-file syntax. Index paths resolve against baseDir.
func RenderRequirements(reqs envdef.Requirements, baseDir string) string {
	var b strings.Builder
	for _, req := range reqs {
		if req.IndexPath != "" {
			index := filepath.Join(utils.ResolvePath(baseDir, req.IndexPath), "simple")
			// pip versions up to v20.x require the file:// scheme here.
			fmt.Fprintf(&b, "--index-url file://%s\n", filepath.ToSlash(index))
			continue
		}
		fmt.Fprintln(&b, req.Spec)
	}
	return b.String()
}

// WriteRequirementsFile renders reqs into a temp file and returns its path
// with a cleanup func.
func WriteRequirementsFile(reqs envdef.Requirements, baseDir string) (string, func() error, error) {
	dir, cleanup, err := utils.MkdirTemp("", "swenv-pip-")
	if err != nil {
		return "", nil, err
	}
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte(RenderRequirements(reqs, baseDir)), 0o644); err != nil {
		_ = cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

var _ Runner = (*ExecRunner)(nil)
