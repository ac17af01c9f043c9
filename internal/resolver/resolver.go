// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/matt-FFFFFF/toolrun/internal/ctxlog"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when no candidate file exists under any search
	// tier with any allowed suffix.
	ErrNotFound = errors.New("missing executable")
	// ErrNotExecutable is returned when a candidate file exists but the
	// process has insufficient permissions to execute it.
	ErrNotExecutable = errors.New("insufficient permissions to execute")
)

const executeBits = 0o111

// Resolver locates executables for logical command names across an ordered
// list of candidate directories and platform suffixes. It is read-only after
// construction and safe for concurrent use.
type Resolver struct {
	fs       afero.Fs
	tiers    []string
	suffixes []string
	quiet    bool
	stderr   io.Writer
}

// Option implements a functional options pattern for Resolver.
type Option func(*Resolver)

// WithQuiet suppresses the stderr diagnostics for resolution failures. The
// distinction between a missing file and a permission problem is preserved in
// the returned error.
func WithQuiet(quiet bool) Option {
	return func(r *Resolver) {
		r.quiet = quiet
	}
}

// WithStderr sets the writer that receives resolution diagnostics.
func WithStderr(w io.Writer) Option {
	return func(r *Resolver) {
		r.stderr = w
	}
}

// WithSuffixes overrides the platform executable suffix list.
func WithSuffixes(suffixes ...string) Option {
	return func(r *Resolver) {
		r.suffixes = suffixes
	}
}

// New creates a Resolver searching two tiers in order: the build
// configuration subdirectory of libexecDir first, then libexecDir itself.
// If buildConfig is empty only the flat tier is searched.
func New(fsys afero.Fs, libexecDir, buildConfig string, opts ...Option) *Resolver {
	tiers := make([]string, 0, 2)
	if buildConfig != "" {
		tiers = append(tiers, filepath.Join(libexecDir, buildConfig))
	}

	tiers = append(tiers, libexecDir)

	r := &Resolver{
		fs:       fsys,
		tiers:    tiers,
		suffixes: Suffixes(),
		stderr:   os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Suffixes returns the executable suffixes for the current platform: the
// empty suffix on POSIX-like systems; ".exe", ".cmd" and ".bat", tried in
// that order, on Windows.
func Suffixes() []string {
	if runtime.GOOS == "windows" {
		return []string{".exe", ".cmd", ".bat"}
	}

	return []string{""}
}

// Tiers returns the ordered candidate directories searched by the resolver.
func (r *Resolver) Tiers() []string {
	return r.tiers
}

// Resolve maps an executable base name to the path of the first existing
// candidate file across the search tiers. A file that exists but is not
// executable yields ErrNotExecutable; no usable path is ever returned for it.
// If no candidate exists at all, the result is ErrNotFound. Both conditions
// write a distinct human-readable diagnostic to stderr unless quiet mode is
// set.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	for _, dir := range r.tiers {
		for _, suffix := range r.suffixes {
			candidate := filepath.Join(dir, name+suffix)

			info, err := r.fs.Stat(candidate)
			if err != nil {
				continue
			}

			if info.IsDir() {
				continue
			}

			if !isExecutable(info) {
				ctxlog.Debug(ctx, "candidate exists but is not executable", "path", candidate)
				r.diagnose("insufficient permissions to execute %s\n", candidate)

				return "", fmt.Errorf("%w: %s", ErrNotExecutable, candidate)
			}

			ctxlog.Debug(ctx, "resolved executable", "name", name, "path", candidate)

			return candidate, nil
		}
	}

	r.diagnose("missing executable %s\n", name)

	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (r *Resolver) diagnose(format string, args ...any) {
	if r.quiet {
		return
	}

	fmt.Fprintf(r.stderr, format, args...)
}

func isExecutable(info fs.FileInfo) bool {
	// Windows has no execute bit, the suffix list is the gate there.
	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode().Perm()&executeBits != 0
}
