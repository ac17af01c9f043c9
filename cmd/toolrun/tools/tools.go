// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/toolrun/internal/aliastable"
	"github.com/matt-FFFFFF/toolrun/internal/resolver"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	aliasStyle = lipgloss.NewStyle().PaddingLeft(2).Faint(true)
)

// ToolsCmd lists the tools discoverable under the executable search path.
var ToolsCmd = &cli.Command{
	Name:  "tools",
	Usage: "toolrun tools",
	Description: `List every tool discoverable under the executable search path,
walking the build configuration tier first and then the flat fallback tier.
Logical aliases are listed with the executable they map to.`,
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg := toolcfg.FromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fsys := afero.NewOsFs()
	r := resolver.New(fsys, cfg.LibexecDir, cfg.BuildConfig)

	names := discover(fsys, r.Tiers())

	fmt.Fprintln(cmd.Writer, titleStyle.Render("Available tools"))

	if len(names) == 0 {
		fmt.Fprintln(cmd.Writer, itemStyle.Render("(none found)"))
	}

	for _, name := range names {
		fmt.Fprintln(cmd.Writer, itemStyle.Render(name))
	}

	aliases := aliastable.New(cfg.Aliases).Entries()
	if len(aliases) == 0 {
		return nil
	}

	fmt.Fprintln(cmd.Writer, titleStyle.Render("Aliases"))

	logical := make([]string, 0, len(aliases))
	for k := range aliases {
		logical = append(logical, k)
	}

	sort.Strings(logical)

	for _, k := range logical {
		fmt.Fprintln(cmd.Writer, aliasStyle.Render(fmt.Sprintf("%s -> %s", k, aliases[k])))
	}

	return nil
}

// discover returns the sorted, de-duplicated executable base names found in
// the given directories, with the platform suffixes stripped.
func discover(fsys afero.Fs, dirs []string) []string {
	seen := make(map[string]struct{})

	for _, dir := range dirs {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}

			name := entry.Name()
			for _, suffix := range resolver.Suffixes() {
				if suffix != "" && strings.HasSuffix(name, suffix) {
					name = strings.TrimSuffix(name, suffix)
					break
				}
			}

			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
