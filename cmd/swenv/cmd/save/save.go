// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package save

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envdef"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/envsave"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <name>", string(builtincommand.Save)),
		Short: "save the resolved environment definition under a name",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected a single argument <name>")
			}
			cmd.SilenceUsage = true

			var doc *envdef.Document
			if file != "" {
				d, err := envinstall.ReadDocument(file)
				if err != nil {
					return err
				}
				doc = d
			} else {
				d, _, ok, err := envinstall.ReadDefaultDocument(config)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no environment definition found in %s", config.InstallRoot)
				}
				doc = d
			}

			store := envsave.NewStore(config.SavedEnvsPath)
			saved, err := store.Save(args[0], doc)
			if err != nil {
				return err
			}

			cmd.Printf("Saved environment %q (%s)\n", saved.Name, saved.SavedAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "definition file to save instead of default discovery")
	return cmd
}
