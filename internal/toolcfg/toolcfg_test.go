// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package toolcfg

import (
	"testing"

	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configYAML = `libexecDir: /opt/tools/libexec
buildConfig: Release
quiet: true
threads: 4
aliases:
  smooth: smooth-surface
`

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/toolrun.yaml", []byte(configYAML), 0o644))

	cfg, err := Load(fsys, "/etc/toolrun.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/opt/tools/libexec", cfg.LibexecDir)
	assert.Equal(t, "Release", cfg.BuildConfig)
	assert.True(t, cfg.Quiet)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, map[string]string{"smooth": "smooth-surface"}, cfg.Aliases)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/nope.yaml")
	require.ErrorIs(t, err, ErrReadConfig)
}

func TestLoadMalformedYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/toolrun.yaml", []byte("libexecDir: [unclosed"), 0o644))

	_, err := Load(fsys, "/etc/toolrun.yaml")
	require.ErrorIs(t, err, ErrParseConfig)
}

func TestLoadEnvOverrides(t *testing.T) {
	stubs := gostub.New()
	defer stubs.Reset()

	stubs.SetEnv(EnvLibexecDir, "/usr/local/libexec")
	stubs.SetEnv(EnvQuiet, "false")

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/etc/toolrun.yaml", []byte(configYAML), 0o644))

	cfg, err := Load(fsys, "/etc/toolrun.yaml")
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/libexec", cfg.LibexecDir)
	assert.Equal(t, "Release", cfg.BuildConfig, "unset env var must not override")
	assert.False(t, cfg.Quiet)
}

func TestFromEnv(t *testing.T) {
	stubs := gostub.New()
	defer stubs.Reset()

	stubs.SetEnv(EnvLibexecDir, "/opt/x/libexec")
	stubs.SetEnv(EnvBuildConfig, "Debug")
	stubs.SetEnv(EnvQuiet, "1")

	cfg := FromEnv()
	assert.Equal(t, "/opt/x/libexec", cfg.LibexecDir)
	assert.Equal(t, "Debug", cfg.BuildConfig)
	assert.True(t, cfg.Quiet)
}

func TestValidate(t *testing.T) {
	cfg := &Config{LibexecDir: "/opt/tools/libexec"}
	require.NoError(t, cfg.Validate())

	bad := &Config{
		Threads: -1,
		Aliases: map[string]string{"": "x"},
	}

	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidateConfig)
	assert.Contains(t, err.Error(), "libexecDir")
	assert.Contains(t, err.Error(), "threads")
	assert.Contains(t, err.Error(), "alias")
}
