// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// templatePattern matches a single "${{ action:params }}" placeholder.
// params is captured non-greedily up to the closing braces.
var templatePattern = regexp.MustCompile(`\$\{\{\s*([A-Za-z0-9_]+):(.+?)\}\}`)

// wholeValuePattern matches a string that is exactly one placeholder.
var wholeValuePattern = regexp.MustCompile(`^\$\{\{\s*([A-Za-z0-9_]+):(.+?)\}\}$`)

// MissingEnvVarError occurs when an env action names an environment
// variable that is unset and supplies no default.
type MissingEnvVarError struct {
	Name string
}

// Error implements the error interface.
func (e MissingEnvVarError) Error() string {
	return fmt.Sprintf("environment variable %s is not set and has no default value", e.Name)
}

// FileNotFoundError occurs when a file or yaml action references a file
// that does not exist.
type FileNotFoundError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e FileNotFoundError) Unwrap() error {
	return e.Cause
}

// DecodeError occurs when an included file does not contain valid UTF-8
// text.
type DecodeError struct {
	Path string
}

// Error implements the error interface.
func (e DecodeError) Error() string {
	return fmt.Sprintf("file %s is not valid utf-8 text", e.Path)
}

// UnknownActionError occurs when a placeholder names an action other than
// env, file, config or yaml.
type UnknownActionError struct {
	Action string
}

// Error implements the error interface.
func (e UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action in template: %s", e.Action)
}

// InvalidEmbeddedResultError occurs when a placeholder embedded inside a
// larger string produces a value that cannot be coerced to a plain string:
// a config action returning a mapping or sequence, or any use of the yaml
// action in embedded position.
type InvalidEmbeddedResultError struct {
	Action string
}

// Error implements the error interface.
func (e InvalidEmbeddedResultError) Error() string {
	return fmt.Sprintf("template action %s cannot return a composite value inside a string", e.Action)
}

// templateResolver walks the tree expanding placeholders. The root mapping
// is the live tree, so config actions observe values resolved earlier in
// the same pass.
type templateResolver struct {
	root      map[string]any
	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
}

// resolveNode expands placeholders depth-first. Mappings and sequences are
// updated in place; only scalar strings produce new values.
func (r *templateResolver) resolveNode(node any) (any, error) {
	switch x := node.(type) {
	case map[string]any:
		for k, v := range x {
			resolved, err := r.resolveNode(v)
			if err != nil {
				return nil, err
			}
			x[k] = resolved
		}
		return x, nil
	case []any:
		for i, v := range x {
			resolved, err := r.resolveNode(v)
			if err != nil {
				return nil, err
			}
			x[i] = resolved
		}
		return x, nil
	case string:
		return r.resolveString(x)
	default:
		return node, nil
	}
}

// resolveString expands a scalar string, re-resolving whole-value results
// until the value stops being a string or two successive iterations
// produce the same string. The strict inequality guard is the only
// termination bound; a cyclic reference chain yielding distinct strings at
// every step will not terminate.
func (r *templateResolver) resolveString(s string) (any, error) {
	value, err := r.resolveValue(s)
	if err != nil {
		return nil, err
	}
	for {
		next, ok := value.(string)
		if !ok || next == s {
			return value, nil
		}
		s = next
		value, err = r.resolveValue(s)
		if err != nil {
			return nil, err
		}
	}
}

func (r *templateResolver) resolveValue(s string) (any, error) {
	if m := wholeValuePattern.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return r.dispatch(m[1], strings.TrimSpace(m[2]))
	}

	// Embedded mode: every placeholder occurrence must stringify.
	var substErr error
	result := templatePattern.ReplaceAllStringFunc(s, func(placeholder string) string {
		if substErr != nil {
			return placeholder
		}

		m := templatePattern.FindStringSubmatch(placeholder)
		action, params := m[1], strings.TrimSpace(m[2])
		if action == "yaml" {
			substErr = InvalidEmbeddedResultError{Action: action}
			return placeholder
		}

		value, err := r.dispatch(action, params)
		if err != nil {
			substErr = err
			return placeholder
		}
		switch value.(type) {
		case map[string]any, []any:
			substErr = InvalidEmbeddedResultError{Action: action}
			return placeholder
		}
		return cast.ToString(value)
	})
	if substErr != nil {
		return nil, substErr
	}
	return result, nil
}

func (r *templateResolver) dispatch(action, params string) (any, error) {
	switch action {
	case "env":
		return r.handleEnv(params)
	case "file":
		return r.handleFile(params)
	case "config":
		return r.handleConfig(params)
	case "yaml":
		return r.handleYaml(params)
	default:
		return nil, UnknownActionError{Action: action}
	}
}

// handleEnv looks up an environment variable, with an optional default
// split off at the first colon only. Default text may itself contain
// colons.
func (r *templateResolver) handleEnv(params string) (any, error) {
	name, def, hasDefault := strings.Cut(params, ":")
	name = strings.TrimSpace(name)

	value, ok := r.lookupEnv(name)
	if ok {
		return value, nil
	}
	if hasDefault {
		return strings.TrimSpace(def), nil
	}
	return nil, MissingEnvVarError{Name: name}
}

func (r *templateResolver) handleFile(params string) (any, error) {
	b, err := r.readTextFile(params)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// handleConfig reads the current, possibly partially resolved, tree value
// at an absolute dotted path.
func (r *templateResolver) handleConfig(params string) (any, error) {
	var value any = r.root
	for _, seg := range strings.Split(params, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, KeyNotFoundError{Key: params}
		}
		value, ok = m[seg]
		if !ok {
			return nil, KeyNotFoundError{Key: params}
		}
	}
	return value, nil
}

// handleYaml parses an external YAML fragment and resolves its templates
// against the outer tree before returning it, so config references inside
// the included file see the parent tree's current state.
func (r *templateResolver) handleYaml(params string) (any, error) {
	b, err := r.readTextFile(params)
	if err != nil {
		return nil, err
	}

	var fragment any
	err = yaml.Unmarshal(b, &fragment)
	if err != nil {
		return nil, InvalidYamlError{cause: err}
	}
	return r.resolveNode(fragment)
}

func (r *templateResolver) readTextFile(path string) ([]byte, error) {
	b, err := r.readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, FileNotFoundError{Path: path, Cause: err}
	}
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, DecodeError{Path: path}
	}
	return b, nil
}
