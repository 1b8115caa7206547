// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package swenvconfig

const envVarPrefix = "SWENV_"

const (
	// SwenvHomeEnvVar
	// SWENV_HOME is the absolute path to the `swenv` home directory
	SwenvHomeEnvVar = envVarPrefix + "HOME"

	// SwenvRootEnvVar
	// SWENV_ROOT is the directory where an installed environment materializes
	// (default definition discovery, downloaded assets, pip.conf).
	// Defaults to the current working directory.
	SwenvRootEnvVar = envVarPrefix + "ROOT"

	// VerboseEnvVar
	// SWENV_VERBOSE echoes every recorded progress message to stderr immediately
	VerboseEnvVar = envVarPrefix + "VERBOSE"

	// LogLevelEnvVar
	// SWENV_LOG_LEVEL sets the log level for the assistant.
	// 	Default: info
	//  Possible values: info error warn debug
	LogLevelEnvVar = envVarPrefix + "LOG_LEVEL"

	// RuntimeEnvVar
	// SWENV_RUNTIME overrides runtime-context detection.
	// 	Possible values: interactive deployed local
	RuntimeEnvVar = envVarPrefix + "RUNTIME"

	// PipBinEnvVar
	// SWENV_PIP overrides the pip executable invoked for package installation
	PipBinEnvVar = envVarPrefix + "PIP"
)

// Environment variables owned by the platform runtimes, not by swenv.
// The names are part of the platform contract and must not be renamed.
const (
	// UserAccessTokenEnvVar carries the per-request bearer token in
	// notebook and deployment runtimes
	UserAccessTokenEnvVar = "USER_ACCESS_TOKEN"

	// ProjectAccessTokenEnvVar is set instead of USER_ACCESS_TOKEN in some
	// job runtimes. Its value may carry a "bearer " prefix.
	ProjectAccessTokenEnvVar = "PROJECT_ACCESS_TOKEN"

	// SpaceIDEnvVar identifies the deployment space of the current runtime
	SpaceIDEnvVar = "SPACE_ID"

	// ProjectIDEnvVar identifies the project of the current runtime
	ProjectIDEnvVar = "PROJECT_ID"

	// PlatformURLEnvVar is the in-cluster URL of the platform API
	PlatformURLEnvVar = "RUNTIME_ENV_APSX_URL"

	// JupyterConfigDirEnvVar and HostnameEnvVar are sniffed to detect the
	// platform's interactive notebook front-end
	JupyterConfigDirEnvVar = "JUPYTER_CONFIG_DIR"
	HostnameEnvVar         = "HOSTNAME"
)
