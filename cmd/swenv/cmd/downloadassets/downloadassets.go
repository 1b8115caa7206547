// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package downloadassets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   string(builtincommand.DownloadAssets),
		Short: "download the assets declared by the environment definition",
		Long: "Download every asset the environment definition declares from the " +
			"platform's asset store into the install root. Requires platform " +
			"credentials in the runtime environment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var doc *envdef.Document
			if file != "" {
				d, err := envinstall.ReadDocument(file)
				if err != nil {
					return err
				}
				doc = d
			} else {
				d, path, ok, err := envinstall.ReadDefaultDocument(config)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no environment definition found in %s", config.InstallRoot)
				}
				cmd.Println("using definition " + path)
				doc = d
			}

			session, err := envinstall.NewSession(config)
			if err != nil {
				return err
			}
			if err := session.DownloadAssets(cmd.Context(), doc); err != nil {
				return err
			}

			for _, msg := range session.Messages() {
				cmd.Println(msg)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "definition file to read instead of default discovery")
	return cmd
}
