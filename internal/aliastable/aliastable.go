// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package aliastable

import "slices"

// Default logical name to executable base name mappings.
// The table is fixed at construction time and never mutated afterwards.
var defaults = map[string]string{
	"calculate": "calculate-element-wise",
}

const (
	transformPointsTool = "transform-points"
	posFlag             = "-pos"
	outputFormatFlag    = "-output-format"
	posFormat           = "pos"
)

// Table maps user-facing logical command names to executable base names.
// It is read-only after construction.
type Table struct {
	entries map[string]string
}

// New creates a new Table containing the default aliases plus any extra
// entries. Extra entries with the same logical name override the defaults.
func New(extra map[string]string) *Table {
	entries := make(map[string]string, len(defaults)+len(extra))
	for k, v := range defaults {
		entries[k] = v
	}

	for k, v := range extra {
		entries[k] = v
	}

	return &Table{entries: entries}
}

// Real returns the executable base name for the given logical command name.
// Names without an alias map to themselves.
func (t *Table) Real(name string) string {
	if real, ok := t.entries[name]; ok {
		return real
	}

	return name
}

// Entries returns a copy of the alias entries, keyed by logical name.
func (t *Table) Entries() map[string]string {
	out := make(map[string]string, len(t.entries))
	for k, v := range t.entries {
		out[k] = v
	}

	return out
}

// Known reports whether the given logical name has an alias entry.
func (t *Table) Known(name string) bool {
	_, ok := t.entries[name]

	return ok
}

// Normalize applies the argument rewrite rules and then the alias name
// substitution to the argument vector. The first token is the logical command
// name. The input slice is not modified.
func (t *Table) Normalize(args []string) []string {
	out := RewritePosFlag(args)

	if len(out) > 0 {
		out[0] = t.Real(out[0])
	}

	return out
}

// RewritePosFlag rewrites the "-pos" flag of the transform-points command
// into an explicit "-output-format pos" argument pair. The rewrite applies to
// this one command only and runs before alias name substitution. All other
// argument vectors are returned as a copy, unchanged.
func RewritePosFlag(args []string) []string {
	out := slices.Clone(args)
	if len(out) == 0 || out[0] != transformPointsTool {
		return out
	}

	if !slices.Contains(out, posFlag) {
		return out
	}

	out = slices.DeleteFunc(out, func(s string) bool { return s == posFlag })

	return append(out, outputFormatFlag, posFormat)
}
