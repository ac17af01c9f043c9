// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyHandlerWritesMessageAndAttrs(t *testing.T) {
	buf := new(bytes.Buffer)
	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelDebug,
	}, WithDestinationWriter(buf))

	logger := slog.New(handler)
	logger.Info("resolution complete", "tool", "calculate")

	out := buf.String()
	assert.Contains(t, out, "resolution complete")
	assert.Contains(t, out, "calculate")
}

func TestPrettyHandlerLevelFiltering(t *testing.T) {
	buf := new(bytes.Buffer)
	handler := NewPrettyHandler(&slog.HandlerOptions{
		Level: slog.LevelWarn,
	}, WithDestinationWriter(buf))

	require.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	require.True(t, handler.Enabled(context.Background(), slog.LevelError))

	logger := slog.New(handler)
	logger.Debug("should not appear")
	assert.Empty(t, buf.String())
}

func TestPrettyHandlerWithAttrs(t *testing.T) {
	buf := new(bytes.Buffer)
	handler := NewPrettyHandler(nil, WithDestinationWriter(buf))

	logger := slog.New(handler).With("component", "resolver")
	logger.Warn("missing executable")

	assert.Contains(t, buf.String(), "resolver")
}
