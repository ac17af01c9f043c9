// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"github.com/matt-FFFFFF/toolrun/internal/argv"
	"github.com/matt-FFFFFF/toolrun/internal/ctxlog"
	"github.com/matt-FFFFFF/toolrun/internal/workdir"
)

const threadsFlag = "-threads"

// osExit is a variable so that tests can intercept process termination.
var osExit = os.Exit

// RunOptions controls the behavior of Run.
type RunOptions struct {
	// Workdir, when non-empty, is the working directory for the invocation.
	// The previous directory is restored on every exit path.
	Workdir string
	// Verbose enables the invocation echo when greater than zero.
	Verbose int
	// Threads, when greater than zero, adds a "-threads N" pair to the
	// argument vector before the options.
	Threads int
	// ExitOnError terminates the whole process with the child's exit status
	// after writing a diagnostic, instead of returning an *ExitError.
	ExitOnError bool
}

// Run builds the argument vector from the tool name, the flattened positional
// arguments, the thread count and the serialized options, then invokes the
// tool with CheckCall semantics.
//
// When the child exits non-zero and ro.ExitOnError is false, the *ExitError
// is returned unchanged. When ro.ExitOnError is true, Run flushes stdout,
// writes the fully quoted command line, the exit status and a stack snapshot
// to stderr, and terminates the process with the child's exit status.
func (i *Invoker) Run(ctx context.Context, tool string, args []any, options Options, ro RunOptions) error {
	tokens := make([]string, 0, 1+len(args))
	tokens = append(tokens, tool)

	for _, a := range args {
		tokens = append(tokens, argv.Flatten(a)...)
	}

	if ro.Threads > 0 {
		tokens = append(tokens, threadsFlag, strconv.Itoa(ro.Threads))
	}

	if options != nil {
		var err error

		tokens, err = options.appendTo(tokens)
		if err != nil {
			return err
		}
	}

	restore, err := workdir.Scope(ro.Workdir)
	if err != nil {
		return err
	}

	defer func() {
		if rerr := restore(); rerr != nil {
			ctxlog.Error(ctx, "failed to restore working directory", "error", rerr)
		}
	}()

	err = i.CheckCall(ctx, tokens, ro.Verbose)

	var exitErr *ExitError
	if err == nil || !ro.ExitOnError || !errors.As(err, &exitErr) {
		return err
	}

	i.dumpFailure(exitErr)

	// The deferred restore does not run past osExit, so restore here first.
	if rerr := restore(); rerr != nil {
		ctxlog.Error(ctx, "failed to restore working directory", "error", rerr)
	}

	osExit(exitErr.ExitCode)

	return nil
}

// dumpFailure writes the structured diagnostic for a terminating failure.
// Stdout is flushed first so the dump is not interleaved with child output.
func (i *Invoker) dumpFailure(e *ExitError) {
	if f, ok := i.stdout.(*os.File); ok {
		_ = f.Sync()
	}

	fmt.Fprintf(i.stderr, "\nCommand: %s\nExit status: %d\n\n%s\n", argv.Quote(e.Argv), e.ExitCode, debug.Stack())
}
