// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package swenvconfig

const (
	// DefinitionFilename is the YAML environment definition looked up in the
	// install root during default discovery
	DefinitionFilename = "swenv.yaml"

	// ResolvedDefinitionFilename is the pre-resolved JSON companion written
	// at packaging time. It takes precedence over the YAML definition so
	// deployment runtimes never re-resolve paths against the wrong root.
	ResolvedDefinitionFilename = "swenv.resolved.json"

	// DefaultAssetDirname is the directory next to the definition that is
	// installed implicitly when no definition file exists
	DefaultAssetDirname = "swenv"

	// DefaultPlatformURL is the in-cluster nginx service, reachable from any
	// runtime scheduled on the platform
	DefaultPlatformURL = "https://internal-nginx-svc:12443"

	// PipConfigFilename, when present in the install root, is exported via
	// PIP_CONFIG_FILE before invoking pip
	PipConfigFilename = "pip.conf"

	AssistantUserAgentPrefix = "swenv"
)
