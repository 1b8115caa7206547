// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cpd-tools/swenv/pkg/builtincommand"
	"github.com/cpd-tools/swenv/pkg/envinstall"
	"github.com/cpd-tools/swenv/pkg/runtimecontext"
	"github.com/cpd-tools/swenv/pkg/searchpath"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

func Cmd(config *swenvconfig.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(builtincommand.Status),
		Short: "show the environment the install root defines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			rctx, err := runtimecontext.Detect()
			if err != nil {
				return err
			}

			heading := color.New(color.Bold)
			cmd.Println(heading.Sprint("install root: ") + config.InstallRoot)
			cmd.Println(heading.Sprint("runtime context: ") + string(rctx))

			doc, path, ok, err := envinstall.ReadDefaultDocument(config)
			if err != nil {
				return err
			}
			if !ok {
				if dir, found, err := config.DefaultAssetDir(); err != nil {
					return err
				} else if found {
					cmd.Println(heading.Sprint("definition: ") + "implicit directory " + dir)
					return nil
				}
				cmd.Println(heading.Sprint("definition: ") + color.YellowString("none"))
				return nil
			}

			cmd.Println(heading.Sprint("definition: ") + path)
			if doc.Name != "" {
				cmd.Println(heading.Sprint("name: ") + doc.Name)
			}
			cmd.Printf("%s%d file(s), %d module(s), %d asset(s), %d pip requirement(s)\n",
				heading.Sprint("contents: "), len(doc.Files), len(doc.Modules), len(doc.Assets), len(doc.Pip))

			if entries := searchpath.Load().Entries(); len(entries) > 0 {
				cmd.Println(heading.Sprint("module search path:"))
				for _, e := range entries {
					cmd.Println("  " + e)
				}
			}
			return nil
		},
	}
	return cmd
}
