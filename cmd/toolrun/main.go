// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the toolrun command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/toolrun"
	"github.com/matt-FFFFFF/toolrun/cmd/toolrun/config"
	"github.com/matt-FFFFFF/toolrun/cmd/toolrun/run"
	"github.com/matt-FFFFFF/toolrun/cmd/toolrun/tools"
	"github.com/matt-FFFFFF/toolrun/cmd/toolrun/which"
	"github.com/matt-FFFFFF/toolrun/internal/ctxlog"
	"github.com/matt-FFFFFF/toolrun/internal/signalbroker"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// EnvConfigFile names the optional YAML configuration file.
const EnvConfigFile = "TOOLRUN_CONFIG"

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		config.ConfigCmd,
		run.RunCmd,
		tools.ToolsCmd,
		which.WhichCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "toolrun",
	Description: `Toolrun invokes a family of pre-built command-line tools as if they
were local commands. It resolves logical tool names through an alias table and
an ordered executable search path, assembles argument vectors, and applies a
configurable failure policy.`,
	Usage:     "toolrun run calculate in.nii -add 1",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", toolrun.Version, toolrun.Commit)

	cfg, err := loadConfig()
	if err != nil {
		ctxlog.Logger(ctx).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx = toolcfg.NewContext(ctx, cfg)

	err = rootCmd.Run(ctx, os.Args)

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from the file named by TOOLRUN_CONFIG,
// or from the environment alone when the variable is unset.
func loadConfig() (*toolcfg.Config, error) {
	path := os.Getenv(EnvConfigFile)
	if path == "" {
		return toolcfg.FromEnv(), nil
	}

	return toolcfg.Load(afero.NewOsFs(), path)
}
