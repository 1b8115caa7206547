// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package add

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <definition file>", string(builtincommand.Add)),
		Short: "apply an additional definition on top of the installed environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected a single argument <definition file>")
			}
			cmd.SilenceUsage = true

			session, err := envinstall.NewSession(config)
			if err != nil {
				return err
			}
			if err := session.Add(cmd.Context(), args[0]); err != nil {
				return err
			}

			for _, msg := range session.Messages() {
				cmd.Println(msg)
			}
			return nil
		},
	}
	return cmd
}
