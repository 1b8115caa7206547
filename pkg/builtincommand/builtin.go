// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package builtincommand

import (
	"github.com/samber/lo"
)

type BuiltinCommand string

const (
	Install        BuiltinCommand = "install"
	Add            BuiltinCommand = "add"
	DownloadAssets BuiltinCommand = "download-assets"
	Status         BuiltinCommand = "status"
	Save           BuiltinCommand = "save"
	Load           BuiltinCommand = "load"
	Saved          BuiltinCommand = "saved"
	Version        BuiltinCommand = "version"
)

var BuiltinCommands = []BuiltinCommand{Install, Add, DownloadAssets, Status, Save, Load, Saved, Version}

func IsBuiltinCommand(args []string) bool {
	if len(args) > 1 {
		elems := lo.Map(BuiltinCommands, func(item BuiltinCommand, _ int) string {
			return string(item)
		})
		return lo.Contains(elems, args[1])
	}
	return false
}
