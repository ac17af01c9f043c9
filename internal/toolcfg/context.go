// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package toolcfg

import "context"

// CfgContextKey is the context key under which the loaded configuration is
// stored for the CLI commands.
type CfgContextKey struct{}

// NewContext returns a context carrying the given configuration.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, CfgContextKey{}, cfg)
}

// FromContext returns the configuration stored in the context, or an
// environment-derived configuration if none is stored.
func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(CfgContextKey{}).(*Config)
	if !ok || cfg == nil {
		return FromEnv()
	}

	return cfg
}
