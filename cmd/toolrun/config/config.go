// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// ErrFormatConfig is returned when the effective configuration cannot be formatted.
var ErrFormatConfig = errors.New("failed to format configuration")

// ConfigCmd prints the effective configuration.
var ConfigCmd = &cli.Command{
	Name:  "config",
	Usage: "toolrun config",
	Description: `Print the effective configuration: the executable search layout,
invocation defaults and extra aliases, after applying environment overrides.`,
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg := toolcfg.FromContext(ctx)

	// Round-trip through encoding/json so colorjson gets a plain map.
	raw, err := json.Marshal(cfg)
	if err != nil {
		return errors.Join(ErrFormatConfig, err)
	}

	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return errors.Join(ErrFormatConfig, err)
	}

	formatter := colorjson.NewFormatter()
	formatter.Indent = 2
	formatter.DisabledColor = !term.IsTerminal(int(os.Stdout.Fd()))

	out, err := formatter.Marshal(asMap)
	if err != nil {
		return errors.Join(ErrFormatConfig, err)
	}

	fmt.Fprintln(cmd.Writer, string(out))

	return nil
}
