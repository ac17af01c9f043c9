// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package which

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/toolrun/internal/aliastable"
	"github.com/matt-FFFFFF/toolrun/internal/resolver"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// WhichCmd resolves a logical tool name and prints the executable path.
var WhichCmd = &cli.Command{
	Name:  "which",
	Usage: "toolrun which <tool>",
	Description: `Resolve a logical tool name to the path of its executable.
Prints the resolved path on success. Exits with status 1 when the tool is
missing or may not be executed, with a distinct diagnostic for each case.`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: "tool",
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("tool")
	if name == "" {
		return cli.Exit("please specify the tool name", 1)
	}

	cfg := toolcfg.FromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	aliases := aliastable.New(cfg.Aliases)
	r := resolver.New(afero.NewOsFs(), cfg.LibexecDir, cfg.BuildConfig,
		resolver.WithQuiet(cfg.Quiet))

	path, err := r.Resolve(ctx, aliases.Real(name))
	if err != nil {
		// The resolver has already written the diagnostic.
		return cli.Exit("", 1)
	}

	fmt.Fprintln(cmd.Writer, path)

	return nil
}
