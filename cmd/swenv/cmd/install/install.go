// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package install

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s [definition file]", string(builtincommand.Install)),
		Short: "install a software environment",
		Long: "Install a software environment. With no argument the definition is " +
			"discovered in the install root: the resolved companion file first, then " +
			"the YAML definition, then the conventional environment directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("expected at most one argument <definition file>")
			}
			cmd.SilenceUsage = true

			session, err := envinstall.NewSession(config)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				err = session.Install(cmd.Context(), args[0])
			} else {
				err = session.InstallDefault(cmd.Context())
			}
			if err != nil {
				return err
			}

			for _, msg := range session.Messages() {
				cmd.Println(msg)
			}
			if session.Phase() == envinstall.PhasePendingAssets {
				return nil
			}
			cmd.Println("Environment installed.")
			return nil
		},
	}
	return cmd
}
