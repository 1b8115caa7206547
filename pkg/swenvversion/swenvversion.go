// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package swenvversion

import "github.com/Masterminds/semver/v3"

// To be populated at build-time, e.g.:
// go build -ldflags "-X 'github.com/cpd-tools/swenv/pkg/swenvversion.AssistantVersion=1.2.3'"
var (
	AssistantVersion string
	Build            string
	BuildDate        string
)

type VersionInfo struct {
	Version   string `json:"version"`
	Build     string `json:"build"`
	BuildDate string `json:"buildDate"`
}

func defaultUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func Get() VersionInfo {
	return VersionInfo{
		Version:   defaultUnknown(AssistantVersion),
		Build:     defaultUnknown(Build),
		BuildDate: defaultUnknown(BuildDate),
	}
}

func GetAssistantVersion() string {
	return defaultUnknown(AssistantVersion)
}

// Semver returns the build-time version as a parsed semantic version,
// or nil when no version was injected or it does not parse.
func Semver() *semver.Version {
	v, err := semver.NewVersion(AssistantVersion)
	if err != nil {
		return nil
	}
	return v
}
