// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workdir provides a scoped working directory change: acquire changes
// the process working directory, and the returned restore function puts the
// prior directory back. The working directory is process-wide mutable state,
// so two concurrent scopes from the same process are not isolated from each
// other.
package workdir

import (
	"errors"
	"os"
)

var (
	// ErrGetwd is returned when the current working directory cannot be determined.
	ErrGetwd = errors.New("failed to get current working directory")
	// ErrChdir is returned when the working directory cannot be changed.
	ErrChdir = errors.New("failed to change working directory")
)

// Scope changes the process working directory to dir and returns a restore
// function that changes back to the previous directory. Callers must invoke
// restore on every exit path, typically via defer. If dir is empty, Scope is
// a no-op and restore does nothing.
func Scope(dir string) (func() error, error) {
	if dir == "" {
		return func() error { return nil }, nil
	}

	prev, err := os.Getwd()
	if err != nil {
		return nil, errors.Join(ErrGetwd, err)
	}

	if err := os.Chdir(dir); err != nil {
		return nil, errors.Join(ErrChdir, err)
	}

	return func() error {
		if err := os.Chdir(prev); err != nil {
			return errors.Join(ErrChdir, err)
		}

		return nil
	}, nil
}
