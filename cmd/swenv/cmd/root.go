// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/cmd/swenv/cmd/add"
	"github.com/cpd-tools/swenv/cmd/swenv/cmd/downloadassets"
	"github.com/cpd-tools/swenv/cmd/swenv/cmd/install"
	"github.com/cpd-tools/swenv/cmd/swenv/cmd/load"
	"github.com/cpd-tools/swenv/cmd/swenv/cmd/save"
	"github.com/cpd-tools/swenv/cmd/swenv/cmd/saved"
	"github.com/cpd-tools/swenv/cmd/swenv/cmd/status"
	versionCmd "github.com/cpd-tools/swenv/cmd/swenv/cmd/version"
	"github.com/cpd-tools/swenv/pkg/logging"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/swenvversion"
)

const SwenvName = "swenv"

func RootCmd() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   SwenvName,
		Short: "declarative software environments for platform runtimes",
	}

	if err := logging.InitLogging(); err != nil {
		return nil, err
	}

	config, err := swenvconfig.Get()
	if err != nil {
		return nil, err
	}
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}

	cmd.AddCommand(
		install.Cmd(config),
		add.Cmd(config),
		downloadassets.Cmd(config),
		status.Cmd(config),
		save.Cmd(config),
		load.Cmd(config),
		saved.Cmd(config),
		versionCmd.Cmd(),
	)

	if swenvversion.Semver() == nil {
		slog.Debug("running a non-release build", "version", swenvversion.GetAssistantVersion())
	}

	version, err := yaml.Marshal(swenvversion.Get())
	if err != nil {
		return nil, err
	}
	cmd.Version = string(version)
	cmd.SetVersionTemplate("{{.Version}}")

	return cmd, nil
}
