// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package aliastable maps user-facing logical command names to the base names
// of the executables that implement them. It also holds the one argument
// rewrite rule implied by an alias, kept isolated so it can be tested on its
// own.
package aliastable
