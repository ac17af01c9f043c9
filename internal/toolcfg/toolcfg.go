// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package toolcfg

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const (
	// EnvLibexecDir overrides the executable search directory.
	EnvLibexecDir = "TOOLRUN_LIBEXEC_DIR"
	// EnvBuildConfig overrides the build configuration subdirectory.
	EnvBuildConfig = "TOOLRUN_BUILD_CONFIG"
	// EnvQuiet suppresses resolution diagnostics when set to a true value.
	EnvQuiet = "TOOLRUN_QUIET"
)

var (
	// ErrReadConfig is returned when the configuration file cannot be read.
	ErrReadConfig = errors.New("failed to read config file")
	// ErrParseConfig is returned when the configuration file cannot be parsed.
	ErrParseConfig = errors.New("failed to parse config file")
	// ErrValidateConfig is returned when the configuration is invalid.
	ErrValidateConfig = errors.New("invalid configuration")
)

// Config holds the executable discovery layout and invocation defaults.
type Config struct {
	// LibexecDir is the directory that holds the tool executables.
	LibexecDir string `yaml:"libexecDir"`
	// BuildConfig is the name of the build configuration subdirectory that is
	// searched before the flat LibexecDir, e.g. "Release". May be empty.
	BuildConfig string `yaml:"buildConfig"`
	// Quiet suppresses resolution diagnostics on stderr.
	Quiet bool `yaml:"quiet"`
	// Threads is the default thread count passed to tools. Zero means the
	// flag is omitted.
	Threads int `yaml:"threads"`
	// Aliases holds additional logical name to executable name mappings,
	// merged over the built-in alias table.
	Aliases map[string]string `yaml:"aliases"`
}

// FromEnv creates a Config from the environment variables alone.
func FromEnv() *Config {
	quiet, _ := strconv.ParseBool(os.Getenv(EnvQuiet))

	return &Config{
		LibexecDir:  os.Getenv(EnvLibexecDir),
		BuildConfig: os.Getenv(EnvBuildConfig),
		Quiet:       quiet,
	}
}

// Load reads a YAML configuration file from the given filesystem and applies
// the environment variable overrides on top of it.
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	cfg := new(Config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}

	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLibexecDir); v != "" {
		c.LibexecDir = v
	}

	if v := os.Getenv(EnvBuildConfig); v != "" {
		c.BuildConfig = v
	}

	if v := os.Getenv(EnvQuiet); v != "" {
		if quiet, err := strconv.ParseBool(v); err == nil {
			c.Quiet = quiet
		}
	}
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.LibexecDir == "" {
		result = multierror.Append(result, fmt.Errorf("%w: libexecDir must be set", ErrValidateConfig))
	}

	if c.Threads < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: threads must not be negative", ErrValidateConfig))
	}

	for k, v := range c.Aliases {
		if k == "" || v == "" {
			result = multierror.Append(result,
				fmt.Errorf("%w: alias entries must have a non-empty name and target (%q: %q)", ErrValidateConfig, k, v))
		}
	}

	return result.ErrorOrNil()
}
