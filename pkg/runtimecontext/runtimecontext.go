// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package runtimecontext classifies where the process is running. Asset
// handling differs per context: interactive notebook sessions assume the
// platform mounted assets already, deployed jobs download them, and local
// development outside the platform does neither.
package runtimecontext

import (
	"fmt"
	"os"
	"strings"

	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

type Context string

const (
	// LocalDev is a machine outside the platform, typically a developer
	// laptop.
	LocalDev Context = "local"
	// Interactive is a platform-managed notebook session.
	Interactive Context = "interactive"
	// Deployed is a platform job or online deployment.
	Deployed Context = "deployed"
)

const notebookConfigPrefix = "/home/wsuser/.jupyter/lab"
const notebookHostnamePrefix = "jupyter-lab"

// Detect classifies the current process. SWENV_RUNTIME overrides detection
// so tests and unusual deployments can force a context.
func Detect() (Context, error) {
	if v := os.Getenv(swenvconfig.RuntimeEnvVar); v != "" {
		switch c := Context(v); c {
		case LocalDev, Interactive, Deployed:
			return c, nil
		default:
			return "", fmt.Errorf("unrecognized value %q for %s", v, swenvconfig.RuntimeEnvVar)
		}
	}

	if isNotebookSession() {
		return Interactive, nil
	}
	if os.Getenv(swenvconfig.UserAccessTokenEnvVar) != "" ||
		os.Getenv(swenvconfig.ProjectAccessTokenEnvVar) != "" {
		return Deployed, nil
	}
	return LocalDev, nil
}

func isNotebookSession() bool {
	if strings.HasPrefix(os.Getenv(swenvconfig.JupyterConfigDirEnvVar), notebookConfigPrefix) {
		return true
	}
	return strings.HasPrefix(os.Getenv(swenvconfig.HostnameEnvVar), notebookHostnamePrefix)
}
