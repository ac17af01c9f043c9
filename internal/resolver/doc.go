// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolver locates the executable for a command name across an
// ordered search path: a build configuration subdirectory first, then a flat
// fallback directory, trying each platform executable suffix in order. It
// distinguishes a missing file from one that exists but cannot be executed.
package resolver
