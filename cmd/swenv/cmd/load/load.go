// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package load

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/envsave"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <name>", string(builtincommand.Load)),
		Short: "install a previously saved environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected a single argument <name>")
			}
			cmd.SilenceUsage = true

			store := envsave.NewStore(config.SavedEnvsPath)
			saved, err := store.Load(args[0])
			if err != nil {
				return err
			}

			session, err := envinstall.NewSession(config)
			if err != nil {
				return err
			}
			if err := session.InstallDocument(cmd.Context(), saved.Definition); err != nil {
				return err
			}

			for _, msg := range session.Messages() {
				cmd.Println(msg)
			}
			cmd.Printf("Loaded environment %q\n", saved.Name)
			return nil
		},
	}
	return cmd
}
