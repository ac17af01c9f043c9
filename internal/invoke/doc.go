// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package invoke executes the tool family executables. It normalizes a
// command request through the alias table, resolves the executable path, and
// dispatches to one of three execution strategies: Call returns the exit
// status, CheckCall returns an error on a non-zero status, and CheckOutput
// additionally captures the child's standard output. Run is the high-level
// convenience operation that composes argument assembly, working directory
// scoping and failure policy.
//
// Each invocation spawns exactly one child process and blocks until it
// exits. There is no timeout and no cancellation; a hung child hangs the
// caller.
package invoke
