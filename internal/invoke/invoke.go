// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/toolrun/internal/aliastable"
	"github.com/matt-FFFFFF/toolrun/internal/argv"
	"github.com/matt-FFFFFF/toolrun/internal/ctxlog"
	"github.com/matt-FFFFFF/toolrun/internal/resolver"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

const maxBufferSize = 8 * 1024 * 1024 // 8MB

var (
	// ErrEmptyCommand is returned when the argument vector has no command name.
	ErrEmptyCommand = errors.New("empty command")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrFailedToReadBuffer is returned when the buffer from the operating system pipe could not be read.
	ErrFailedToReadBuffer = errors.New("failed to read buffer")
	// ErrBufferOverflow is returned when the captured output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
)

// ExitError reports that a child process ran to completion and returned a
// non-zero exit status. It carries the status and the final argument vector.
type ExitError struct {
	Argv     []string
	ExitCode int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d: %s", e.ExitCode, argv.Quote(e.Argv))
}

// Invoker resolves logical command names and executes the resolved
// executables. It is stateless across calls and safe for concurrent use,
// except for Run with a working directory, which mutates process-wide state.
type Invoker struct {
	aliases  *aliastable.Table
	resolver *resolver.Resolver
	stdout   io.Writer
	stderr   io.Writer
}

// InvokerOption implements a functional options pattern for Invoker.
type InvokerOption func(*Invoker)

// WithStdout sets the writer used for the verbose invocation echo and the
// failure dump. The child process inherits it only when it is an *os.File;
// any other writer leaves the child on the process's own stdout, since the
// child needs a real file descriptor.
func WithStdout(w io.Writer) InvokerOption {
	return func(i *Invoker) {
		i.stdout = w
	}
}

// WithStderr sets the writer used for diagnostics. As with WithStdout, the
// child process inherits it only when it is an *os.File.
func WithStderr(w io.Writer) InvokerOption {
	return func(i *Invoker) {
		i.stderr = w
	}
}

// WithResolver replaces the resolver built from the configuration.
func WithResolver(r *resolver.Resolver) InvokerOption {
	return func(i *Invoker) {
		i.resolver = r
	}
}

// New creates an Invoker from the given configuration.
func New(cfg *toolcfg.Config, opts ...InvokerOption) *Invoker {
	i := &Invoker{
		aliases: aliastable.New(cfg.Aliases),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	for _, opt := range opts {
		opt(i)
	}

	if i.resolver == nil {
		i.resolver = resolver.New(afero.NewOsFs(), cfg.LibexecDir, cfg.BuildConfig,
			resolver.WithQuiet(cfg.Quiet),
			resolver.WithStderr(i.stderr),
		)
	}

	return i
}

// Call runs the command synchronously and returns its exit status. It never
// returns an error for a non-zero status. A command that cannot be resolved
// or started yields status 1 without spawning anything.
func (i *Invoker) Call(ctx context.Context, args []string, verbose int) int {
	vec, err := i.normalize(ctx, args)
	if err != nil {
		return 1
	}

	i.echo(vec, verbose)

	code, _, err := i.spawn(ctx, vec, false)
	if err != nil {
		ctxlog.Error(ctx, "process failed", "error", err)

		if code == 0 {
			code = 1
		}
	}

	return code
}

// CallCommandLine is like Call but tokenizes a single command line string
// using shell word splitting rules.
func (i *Invoker) CallCommandLine(ctx context.Context, line string, verbose int) int {
	tokens, err := argv.Split(line)
	if err != nil {
		ctxlog.Error(ctx, "failed to tokenize command line", "error", err)
		return 1
	}

	return i.Call(ctx, tokens, verbose)
}

// CheckCall runs the command synchronously and returns an *ExitError if the
// child exits with a non-zero status. Resolution failures are returned as-is.
func (i *Invoker) CheckCall(ctx context.Context, args []string, verbose int) error {
	vec, err := i.normalize(ctx, args)
	if err != nil {
		return err
	}

	i.echo(vec, verbose)

	code, _, err := i.spawn(ctx, vec, false)
	if err != nil {
		return err
	}

	if code != 0 {
		return &ExitError{Argv: vec, ExitCode: code}
	}

	return nil
}

// CheckCallCommandLine is like CheckCall but tokenizes a single command line
// string using shell word splitting rules.
func (i *Invoker) CheckCallCommandLine(ctx context.Context, line string, verbose int) error {
	tokens, err := argv.Split(line)
	if err != nil {
		return err
	}

	return i.CheckCall(ctx, tokens, verbose)
}

// CheckOutput runs the command synchronously, capturing its standard output.
// On success the raw captured bytes are returned. A non-zero exit status
// yields an *ExitError alongside whatever output was captured. Use
// CheckOutputText to decode the bytes to text.
func (i *Invoker) CheckOutput(ctx context.Context, args []string, verbose int) ([]byte, error) {
	vec, err := i.normalize(ctx, args)
	if err != nil {
		return nil, err
	}

	i.echo(vec, verbose)

	code, out, err := i.spawn(ctx, vec, true)
	if err != nil {
		return out, err
	}

	if code != 0 {
		return out, &ExitError{Argv: vec, ExitCode: code}
	}

	return out, nil
}

// CheckOutputCommandLine is like CheckOutput but tokenizes a single command
// line string using shell word splitting rules.
func (i *Invoker) CheckOutputCommandLine(ctx context.Context, line string, verbose int) ([]byte, error) {
	tokens, err := argv.Split(line)
	if err != nil {
		return nil, err
	}

	return i.CheckOutput(ctx, tokens, verbose)
}

// CheckOutputText is like CheckOutput but decodes the captured bytes using
// the given encoding. A nil encoding selects UTF-8.
func (i *Invoker) CheckOutputText(ctx context.Context, args []string, verbose int, enc encoding.Encoding) (string, error) {
	out, err := i.CheckOutput(ctx, args, verbose)
	if err != nil {
		return "", err
	}

	if enc == nil {
		enc = unicode.UTF8
	}

	decoded, err := enc.NewDecoder().Bytes(out)
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}

// normalize applies the argument rewrite rule and alias substitution, then
// replaces the first token with the resolved executable path. The returned
// vector is only ever handed to process creation when normalization succeeds,
// so a process is never spawned with an unverified path.
func (i *Invoker) normalize(ctx context.Context, args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	vec := i.aliases.Normalize(args)

	path, err := i.resolver.Resolve(ctx, vec[0])
	if err != nil {
		return nil, err
	}

	vec[0] = path

	return vec, nil
}

// echo writes the quoted, space-joined argument vector followed by a blank
// line when verbose is set. Stdout is flushed before the child is spawned so
// that the echo is never interleaved with child output on the same stream.
func (i *Invoker) echo(vec []string, verbose int) {
	if verbose <= 0 {
		return
	}

	fmt.Fprintf(i.stdout, "%s\n\n", argv.Quote(vec))

	if f, ok := i.stdout.(*os.File); ok {
		_ = f.Sync()
	}
}

// spawn starts the resolved command and blocks until it exits. The child
// inherits stdin and stderr; stdout is inherited unless capture is set, in
// which case it is redirected to a pipe and returned.
func (i *Invoker) spawn(ctx context.Context, vec []string, capture bool) (int, []byte, error) {
	logger := ctxlog.Logger(ctx)
	logger.Debug("command info", "path", vec[0], "args", vec[1:])

	stdout, ok := i.stdout.(*os.File)
	if !ok {
		stdout = os.Stdout
	}

	stderr, ok := i.stderr.(*os.File)
	if !ok {
		stderr = os.Stderr
	}

	files := []*os.File{os.Stdin, stdout, stderr}

	var rOut, wOut *os.File

	if capture {
		var err error

		rOut, wOut, err = os.Pipe()
		if err != nil {
			return 1, nil, errors.Join(ErrFailedToCreatePipe, err)
		}

		files[1] = wOut
	}

	ps, err := os.StartProcess(vec[0], vec, &os.ProcAttr{
		Env:   os.Environ(),
		Files: files,
	})
	if err != nil {
		if capture {
			_ = wOut.Close()
			_ = rOut.Close()
		}

		return 1, nil, errors.Join(ErrCouldNotStartProcess, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	var (
		out     []byte
		readErr error
		done    chan struct{}
	)

	if capture {
		// The parent's copy of the write end must be closed before draining,
		// and the drain must run concurrently with Wait: a child that writes
		// more than the pipe buffer would otherwise block in write while the
		// parent blocks in Wait.
		_ = wOut.Close()

		done = make(chan struct{})

		go func() {
			defer close(done)
			defer rOut.Close() //nolint:errcheck

			out, readErr = readAllUpToMax(ctx, rOut, maxBufferSize)
		}()
	}

	state, err := ps.Wait()

	if capture {
		<-done
	}

	if err != nil {
		return 1, out, err
	}

	logger.Debug("process finished", "exitCode", state.ExitCode())

	if !capture {
		return state.ExitCode(), nil, nil
	}

	if readErr != nil {
		return state.ExitCode(), out, readErr
	}

	return state.ExitCode(), out, nil
}

func readAllUpToMax(ctx context.Context, r io.Reader, maxBufferSize int64) ([]byte, error) {
	var buf bytes.Buffer

	n, err := io.CopyN(&buf, r, maxBufferSize+1)
	if err != nil && err != io.EOF {
		return nil, errors.Join(ErrFailedToReadBuffer, err)
	}

	if n > maxBufferSize {
		ctxlog.Debug(ctx, "captured output truncated", "bytesRead", n, "maxBytes", maxBufferSize)

		// Keep draining so the child can finish writing instead of dying
		// on a broken pipe.
		_, _ = io.Copy(io.Discard, r)

		return buf.Bytes()[:maxBufferSize], ErrBufferOverflow
	}

	return buf.Bytes(), nil
}
