// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package invoke

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/toolrun/internal/argv"
)

// ErrBadOptionSpec is returned when an option specification cannot be
// serialized, e.g. an empty flag name.
var ErrBadOptionSpec = errors.New("malformed option specification")

// Options is the serialized option set of a tool invocation. Use
// OrderedOptions when the target executable is sensitive to option order,
// and MappedOptions when it is not.
type Options interface {
	appendTo(tokens []string) ([]string, error)
}

// Opt is a single flag with an optional value. A nil Value means the flag
// takes no value. Values are flattened, so nested slices contribute their
// leaf tokens in order.
type Opt struct {
	Flag  string
	Value any
}

// OrderedOptions serializes options in the caller-specified order.
type OrderedOptions []Opt

func (o OrderedOptions) appendTo(tokens []string) ([]string, error) {
	for _, opt := range o {
		var err error

		tokens, err = appendOption(tokens, opt.Flag, opt.Value)
		if err != nil {
			return nil, err
		}
	}

	return tokens, nil
}

// MappedOptions serializes options from a mapping. Iteration order is not
// guaranteed; use OrderedOptions when order matters to the tool.
type MappedOptions map[string]any

func (m MappedOptions) appendTo(tokens []string) ([]string, error) {
	for flag, value := range m {
		var err error

		tokens, err = appendOption(tokens, flag, value)
		if err != nil {
			return nil, err
		}
	}

	return tokens, nil
}

// appendOption appends the normalized flag token and the flattened value
// tokens. A flag lacking a leading marker is prefixed with one. A nil value
// contributes no value tokens.
func appendOption(tokens []string, flag string, value any) ([]string, error) {
	if flag == "" {
		return nil, fmt.Errorf("%w: empty flag name", ErrBadOptionSpec)
	}

	if !strings.HasPrefix(flag, "-") {
		flag = "-" + flag
	}

	tokens = append(tokens, flag)

	if value != nil {
		tokens = append(tokens, argv.Flatten(value)...)
	}

	return tokens, nil
}
