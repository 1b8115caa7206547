// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/swenvversion"
)

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(builtincommand.Version),
		Short: "show assistant version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			contents, err := yaml.Marshal(swenvversion.Get())
			if err != nil {
				return err
			}
			cmd.Print(string(contents))
			return nil
		},
	}
	return cmd
}
