// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/toolrun/internal/ctxlog"
	"github.com/matt-FFFFFF/toolrun/internal/invoke"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/urfave/cli/v3"
)

const (
	workdirFlag     = "workdir"
	threadsFlag     = "threads"
	verboseFlag     = "verbose"
	exitOnErrorFlag = "exit-on-error"
	cliExitStr      = ""
)

// RunCmd invokes a single tool by its logical name.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "toolrun run [flags] <tool> [args...]",
	Description: `Run a tool by its logical name.
The name is resolved through the alias table and the executable search path,
the arguments are passed to the tool unchanged, and the tool's exit status
becomes this command's exit status.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      workdirFlag,
			Aliases:   []string{"C"},
			Usage:     "Run the tool with this working directory",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.IntFlag{
			Name:     threadsFlag,
			Aliases:  []string{"t"},
			Usage:    "Pass a -threads N pair to the tool. Zero omits the pair.",
			Value:    0,
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:    verboseFlag,
			Aliases: []string{"v"},
			Usage:   "Echo the resolved command line before running it",
			Value:   0,
		},
		&cli.BoolFlag{
			Name:        exitOnErrorFlag,
			Usage:       "On a non-zero exit, print a diagnostic and terminate with the tool's status",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	args := cmd.Args().Slice()
	if len(args) == 0 {
		logger.Error("Please specify the tool to run.")
		return cli.Exit(cliExitStr, 1)
	}

	cfg := toolcfg.FromContext(ctx)
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	threads := cmd.Int(threadsFlag)
	if threads == 0 {
		threads = cfg.Threads
	}

	positionals := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		positionals = append(positionals, a)
	}

	inv := invoke.New(cfg)

	err := inv.Run(ctx, args[0], positionals, nil, invoke.RunOptions{
		Workdir:     cmd.String(workdirFlag),
		Verbose:     cmd.Int(verboseFlag),
		Threads:     threads,
		ExitOnError: cmd.Bool(exitOnErrorFlag),
	})

	var exitErr *invoke.ExitError
	if errors.As(err, &exitErr) {
		return cli.Exit(cliExitStr, exitErr.ExitCode)
	}

	if err != nil {
		return cli.Exit(cliExitStr, 1)
	}

	return nil
}
