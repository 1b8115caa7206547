// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package swenvconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cpd-tools/swenv/pkg/swenvversion"
	"github.com/cpd-tools/swenv/pkg/utils"
)

type Config struct {
	// SwenvHomePath holds assistant state that outlives a single
	// environment: saved definitions, the install lock.
	SwenvHomePath string

	// InstallRoot is where an environment materializes: default definition
	// discovery, downloaded assets and pip.conf all resolve against it.
	InstallRoot string

	SavedEnvsPath   string
	InstallLockPath string

	// Verbose echoes recorded messages to stderr as they happen
	Verbose bool

	// PlatformURL is the base URL of the platform API
	PlatformURL string
}

func Get() (*Config, error) {
	homePath, err := getSwenvHomePath()
	if err != nil {
		return nil, err
	}
	return GetWithCustomHome(homePath)
}

func GetWithCustomHome(homePath string) (*Config, error) {
	config := Config{}

	root, ok := os.LookupEnv(SwenvRootEnvVar)
	if !ok {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root = cwd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	verbose, _, err := utils.BoolEnvVar(VerboseEnvVar)
	if err != nil {
		return nil, err
	}

	platformURL, ok := os.LookupEnv(PlatformURLEnvVar)
	if !ok {
		platformURL = DefaultPlatformURL
	}

	config.SwenvHomePath = homePath
	config.InstallRoot = absRoot
	config.SavedEnvsPath = filepath.Join(homePath, "saved")
	config.InstallLockPath = filepath.Join(homePath, ".lock")
	config.Verbose = verbose
	config.PlatformURL = platformURL
	return &config, nil
}

func (c *Config) EnsureDirs() error {
	return utils.EnsureDirs(c.SwenvHomePath, c.SavedEnvsPath)
}

// DefaultDefinitionPath returns the definition file that default discovery
// would use: the resolved JSON companion first, then the YAML definition.
// ok is false when neither exists.
func (c *Config) DefaultDefinitionPath() (path string, ok bool, err error) {
	for _, name := range []string{ResolvedDefinitionFilename, DefinitionFilename} {
		p := filepath.Join(c.InstallRoot, name)
		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", false, err
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("%q is a directory and not a file", p)
		}
		return p, true, nil
	}
	return "", false, nil
}

// DefaultAssetDir returns the implicit environment directory next to the
// definition location, if it exists.
func (c *Config) DefaultAssetDir() (string, bool, error) {
	p := filepath.Join(c.InstallRoot, DefaultAssetDirname)
	ok, err := utils.DirExists(p)
	return p, ok, err
}

func getSwenvHomePath() (string, error) {
	if v, ok := os.LookupEnv(SwenvHomeEnvVar); ok {
		return v, nil
	}

	return getAppUserDataDirectory("swenv")
}

func getAppUserDataDirectory(appName string) (string, error) {
	switch runtime.GOOS {
	case "windows":
		dir, ok := os.LookupEnv("APPDATA")
		if !ok {
			return "", fmt.Errorf("APPDATA environment variable is not set")
		}
		return filepath.Join(dir, appName), nil
	default:
		dir, ok := os.LookupEnv("HOME")
		if !ok {
			return "", fmt.Errorf("HOME environment variable is not set")
		}
		return filepath.Join(dir, "."+appName), nil
	}
}

func GetAssistantUserAgent() string {
	return fmt.Sprintf("%s/%s", AssistantUserAgentPrefix, swenvversion.GetAssistantVersion())
}
