// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/toolrun/internal/argv"
	"github.com/matt-FFFFFF/toolrun/internal/resolver"
	"github.com/matt-FFFFFF/toolrun/internal/toolcfg"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/text/encoding/charmap"
)

func skipOnWindows(t *testing.T) {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("tests use POSIX shell scripts")
	}
}

// writeScript writes an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

func newTestInvoker(t *testing.T, libexec string, opts ...InvokerOption) *Invoker {
	t.Helper()

	cfg := &toolcfg.Config{LibexecDir: libexec}
	opts = append(opts, WithResolver(
		resolver.New(afero.NewOsFs(), libexec, "", resolver.WithQuiet(true)),
	))

	return New(cfg, opts...)
}

func TestCallSuccess(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "noop", "exit 0")

	i := newTestInvoker(t, libexec)

	assert.Equal(t, 0, i.Call(context.Background(), []string{"noop"}, 0))
}

func TestCallReturnsChildStatus(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "fail", "exit 3")

	i := newTestInvoker(t, libexec)

	assert.Equal(t, 3, i.Call(context.Background(), []string{"fail"}, 0))
}

func TestCallResolutionFailureNeverSpawns(t *testing.T) {
	skipOnWindows(t)

	i := newTestInvoker(t, t.TempDir())

	assert.Equal(t, 1, i.Call(context.Background(), []string{"no-such-tool"}, 0))
}

func TestCallEmptyCommand(t *testing.T) {
	i := newTestInvoker(t, t.TempDir())

	assert.Equal(t, 1, i.Call(context.Background(), nil, 0))
}

func TestCallCommandLine(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "noop", "exit 0")

	i := newTestInvoker(t, libexec)

	assert.Equal(t, 0, i.CallCommandLine(context.Background(), `noop "quoted arg"`, 0))
	assert.Equal(t, 1, i.CallCommandLine(context.Background(), `noop "unterminated`, 0))
}

func TestCheckCallNonZeroExit(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	path := writeScript(t, libexec, "fail", "exit 3")

	i := newTestInvoker(t, libexec)

	err := i.CheckCall(context.Background(), []string{"fail", "-x", "1"}, 0)
	require.Error(t, err)

	var exitErr *ExitError

	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.ExitCode)
	assert.Equal(t, []string{path, "-x", "1"}, exitErr.Argv)
	assert.Contains(t, exitErr.Error(), "status 3")
}

func TestCheckCallSuccessReturnsNil(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "noop", "exit 0")

	i := newTestInvoker(t, libexec)

	require.NoError(t, i.CheckCall(context.Background(), []string{"noop"}, 0))
}

func TestCheckCallResolutionFailure(t *testing.T) {
	i := newTestInvoker(t, t.TempDir())

	err := i.CheckCall(context.Background(), []string{"no-such-tool"}, 0)
	require.ErrorIs(t, err, resolver.ErrNotFound)
}

func TestCheckOutputCapturesStdout(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "greet", `printf 'hello world'`)

	i := newTestInvoker(t, libexec)

	out, err := i.CheckOutput(context.Background(), []string{"greet"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), out)
}

func TestCheckOutputNonZeroExit(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "fail", "printf 'partial'; exit 2")

	i := newTestInvoker(t, libexec)

	out, err := i.CheckOutput(context.Background(), []string{"fail"}, 0)

	var exitErr *ExitError

	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.ExitCode)
	assert.Equal(t, []byte("partial"), out)
}

func TestCheckOutputLargeStreamDoesNotStall(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	libexec := t.TempDir()
	// Well past the kernel pipe buffer, so the child blocks in write
	// unless the parent drains while waiting.
	writeScript(t, libexec, "flood", `head -c 1048576 /dev/zero | tr '\0' 'a'`)

	i := newTestInvoker(t, libexec)

	out, err := i.CheckOutput(context.Background(), []string{"flood"}, 0)
	require.NoError(t, err)
	assert.Len(t, out, 1048576)
}

func TestCheckOutputTruncatesAtBufferLimit(t *testing.T) {
	skipOnWindows(t)
	defer goleak.VerifyNone(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "flood", `head -c 8500000 /dev/zero | tr '\0' 'a'`)

	i := newTestInvoker(t, libexec)

	out, err := i.CheckOutput(context.Background(), []string{"flood"}, 0)
	require.ErrorIs(t, err, ErrBufferOverflow)
	assert.Len(t, out, maxBufferSize)
}

func TestCheckOutputCommandLine(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "echoer", `printf '%s' "$1"`)

	i := newTestInvoker(t, libexec)

	out, err := i.CheckOutputCommandLine(context.Background(), `echoer "two words"`, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("two words"), out)

	_, err = i.CheckOutputCommandLine(context.Background(), `echoer "unterminated`, 0)
	require.ErrorIs(t, err, argv.ErrSplit)
}

func TestCheckOutputText(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "greet", `printf 'hello'`)

	i := newTestInvoker(t, libexec)

	text, err := i.CheckOutputText(context.Background(), []string{"greet"}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestCheckOutputTextDecodesLatin1(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	// 0xE9 is "é" in ISO 8859-1.
	writeScript(t, libexec, "latin", `printf '\351'`)

	i := newTestInvoker(t, libexec)

	text, err := i.CheckOutputText(context.Background(), []string{"latin"}, 0, charmap.ISO8859_1)
	require.NoError(t, err)
	assert.Equal(t, "é", text)
}

func TestAliasIsResolvedToRealExecutable(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "calculate-element-wise", "exit 0")

	i := newTestInvoker(t, libexec)

	require.NoError(t, i.CheckCall(context.Background(), []string{"calculate"}, 0))
}

func TestVerboseEchoPrecedesSpawn(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	path := writeScript(t, libexec, "noop", "exit 0")

	stdout := new(bytes.Buffer)
	i := newTestInvoker(t, libexec, WithStdout(stdout))

	require.NoError(t, i.CheckCall(context.Background(), []string{"noop", "with space"}, 1))
	assert.Equal(t, path+` "with space"`+"\n\n", stdout.String())
}

func TestVerboseZeroNoEcho(t *testing.T) {
	skipOnWindows(t)

	libexec := t.TempDir()
	writeScript(t, libexec, "noop", "exit 0")

	stdout := new(bytes.Buffer)
	i := newTestInvoker(t, libexec, WithStdout(stdout))

	require.NoError(t, i.CheckCall(context.Background(), []string{"noop"}, 0))
	assert.Empty(t, stdout.String())
}
