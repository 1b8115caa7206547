// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package saved

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envsave"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	var output string
	var remove string

	cmd := &cobra.Command{
		Use:   string(builtincommand.Saved),
		Short: "list saved environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			store := envsave.NewStore(config.SavedEnvsPath)

			if remove != "" {
				if err := store.Remove(remove); err != nil {
					return err
				}
				cmd.Printf("Removed saved environment %q\n", remove)
				return nil
			}

			saved, err := store.List()
			if err != nil {
				return err
			}

			switch output {
			case "json":
				contents, err := json.MarshalIndent(saved, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(contents))
			case "":
				envsave.Print(cmd, saved)
			default:
				return fmt.Errorf("unsupported output format %q", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format (json)")
	cmd.Flags().StringVar(&remove, "remove", "", "remove the saved environment with the given name")
	return cmd
}
