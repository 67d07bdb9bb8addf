// Package template provides placeholder substitution and response
// extraction for workload steps.
package template

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"capsearch/internal/core"
)

// varPattern matches ${var}, ${env:VAR} and ${fn(...)} placeholders.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Substitute replaces placeholders in text using workflow variables,
// environment variables (${env:VAR}) and builtin functions. Text
// without placeholders is returned unchanged.
func Substitute(text string, vars core.Variables) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var firstErr error
	result := varPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]

		if strings.HasPrefix(name, "env:") {
			envName := name[4:]
			if val, ok := os.LookupEnv(envName); ok {
				return val
			}
			if firstErr == nil {
				firstErr = errors.Errorf("env var %q not set", envName)
			}
			return match
		}

		if val, handled, err := evalFunction(name); handled {
			if err != nil && firstErr == nil {
				firstErr = err
			}
			return val
		}

		if val, ok := vars.Get(name); ok {
			return fmt.Sprintf("%v", val)
		}
		if firstErr == nil {
			firstErr = errors.Errorf("variable %q not found", name)
		}
		return match
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// SubstituteMap applies Substitute to every value of a map.
func SubstituteMap(m map[string]string, vars core.Variables) (map[string]string, error) {
	if m == nil {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		sub, err := Substitute(v, vars)
		if err != nil {
			return nil, errors.Wrapf(err, "substituting %q", k)
		}
		out[k] = sub
	}
	return out, nil
}
