// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package argv provides helpers for building argument vectors: recursive
// flattening of nested argument values, shell word splitting of command line
// strings, and a shell-safe display form for logging.
package argv
