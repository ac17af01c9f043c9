// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package argv

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ErrSplit is returned when a command line string cannot be split into tokens.
var ErrSplit = errors.New("failed to split command line")

// Flatten recursively reduces arbitrarily nested argument values into a single
// flat ordered token slice. Nested slices and arrays are expanded depth-first,
// preserving left-to-right order. Leaf values are coerced to their string form.
func Flatten(values ...any) []string {
	tokens := make([]string, 0, len(values))
	for _, v := range values {
		tokens = append(tokens, flattenOne(v)...)
	}

	return tokens
}

func flattenOne(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			out = append(out, s)
		}

		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, flattenOne(e)...)
		}

		return out
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := range rv.Len() {
			out = append(out, flattenOne(rv.Index(i).Interface())...)
		}

		return out
	}

	return []string{fmt.Sprint(v)}
}

// QuoteToken returns the token wrapped in double quotes if it contains a
// space, otherwise it returns the token unchanged. This is a display
// transform only and must never be applied to tokens passed to process
// creation.
func QuoteToken(token string) string {
	if strings.Contains(token, " ") {
		return `"` + token + `"`
	}

	return token
}

// Quote returns the space-joined display form of the argument vector, with
// each token passed through QuoteToken.
func Quote(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = QuoteToken(t)
	}

	return strings.Join(quoted, " ")
}

// Split tokenizes a single command line string using shell word splitting
// rules. Quotes and escapes are honored and tokens are separated by
// whitespace.
func Split(line string) ([]string, error) {
	tokens, err := shellwords.Parse(line)
	if err != nil {
		return nil, errors.Join(ErrSplit, err)
	}

	return tokens, nil
}
