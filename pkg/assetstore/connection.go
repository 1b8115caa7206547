// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package assetstore talks to the platform's asset catalog: looking up
// declared assets by name and downloading their attachments into the
// environment.
package assetstore

import (
	"fmt"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/jdx/go-netrc"

	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

var ErrMissingAccessToken = fmt.Errorf("no platform access token available")
var ErrMissingScope = fmt.Errorf("no space or project identifies the asset scope")

// Connection carries everything needed to reach the asset catalog. Zero
// fields are filled from the runtime environment by ConnectionFromEnv.
type Connection struct {
	BaseURL string
	Token   string

	// SpaceID and ProjectID scope every catalog request. When both are set
	// the space wins.
	SpaceID   string
	ProjectID string
}

// ConnectionFromEnv builds a connection from the platform's contract
// environment variables. A missing token falls back to the ~/.netrc entry
// for the platform host, so local development can authenticate the same way
// other platform tooling does.
func ConnectionFromEnv(baseURL string) *Connection {
	conn := &Connection{
		BaseURL:   baseURL,
		Token:     tokenFromEnv(),
		SpaceID:   os.Getenv(swenvconfig.SpaceIDEnvVar),
		ProjectID: os.Getenv(swenvconfig.ProjectIDEnvVar),
	}
	if conn.Token == "" {
		conn.Token = tokenFromNetrc(baseURL)
	}
	return conn
}

func (c *Connection) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: set %s or %s", ErrMissingAccessToken,
			swenvconfig.UserAccessTokenEnvVar, swenvconfig.ProjectAccessTokenEnvVar)
	}
	if c.SpaceID == "" && c.ProjectID == "" {
		return fmt.Errorf("%w: set %s or %s", ErrMissingScope,
			swenvconfig.SpaceIDEnvVar, swenvconfig.ProjectIDEnvVar)
	}
	return nil
}

// scopeParam returns the query parameter selecting the asset scope.
func (c *Connection) scopeParam() (key, value string) {
	if c.SpaceID != "" {
		return "space_id", c.SpaceID
	}
	return "project_id", c.ProjectID
}

func tokenFromEnv() string {
	if v := os.Getenv(swenvconfig.UserAccessTokenEnvVar); v != "" {
		return stripBearerPrefix(v)
	}
	return stripBearerPrefix(os.Getenv(swenvconfig.ProjectAccessTokenEnvVar))
}

// Some runtimes export the token with its authorization-scheme prefix
// already attached.
func stripBearerPrefix(token string) string {
	token = strings.TrimSpace(token)
	if len(token) >= 7 && strings.EqualFold(token[:7], "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

func tokenFromNetrc(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	usr, err := user.Current()
	if err != nil {
		return ""
	}
	n, err := netrc.Parse(filepath.Join(usr.HomeDir, ".netrc"))
	if err != nil {
		return ""
	}

	machine := n.Machine(u.Hostname())
	if machine == nil {
		return ""
	}
	return machine.Get("password")
}
