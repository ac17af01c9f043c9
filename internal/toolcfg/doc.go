// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package toolcfg loads the toolrun configuration: the executable discovery
// layout (libexec directory and build configuration subdirectory), invocation
// defaults, and extra alias entries. Configuration comes from a YAML file
// with environment variable overrides.
package toolcfg
