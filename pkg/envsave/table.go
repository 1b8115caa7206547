// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package envsave

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"github.com/cpd-tools/swenv/pkg/utils"
)

// Print writes the saved-environment listing to the given printer.
func Print(printer utils.RawPrinter, saved []*SavedEnv) {
	if len(saved) == 0 {
		printer.Println("No saved environments.")
		return
	}
	printer.Println(Table(saved))
}

// Table renders saved environments for terminal display.
func Table(saved []*SavedEnv) string {
	header := lipgloss.NewStyle().Bold(true)

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Row(
			header.Render("NAME"),
			header.Render("SAVED"),
			header.Render("CONTENTS"),
		).
		Rows(lo.Map(saved, func(row *SavedEnv, _ int) []string {
			return []string{
				row.Name,
				row.SavedAt.Local().Format("2006-01-02 15:04"),
				summarize(row),
			}
		})...).
		String()
}

func summarize(env *SavedEnv) string {
	d := env.Definition
	return fmt.Sprintf("%d file(s), %d module(s), %d asset(s), %d pip requirement(s)",
		len(d.Files), len(d.Modules), len(d.Assets), len(d.Pip))
}
