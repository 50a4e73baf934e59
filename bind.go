// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import "errors"

// Binding declares a configuration value a caller wants bound: an
// absolute-or-relative path plus optional narrowing masks. Declaring a
// binding performs no lookup; the value is resolved when the binding is
// passed to [Bind].
type Binding struct {
	Path     string
	Masks    []string
	Optional bool
}

// BindOption configures a Binding.
type BindOption func(*Binding)

// WithMask adds narrowing masks for relative path resolution.
func WithMask(masks ...string) BindOption {
	return func(b *Binding) {
		b.Masks = append(b.Masks, masks...)
	}
}

// Optional marks the binding as optional: a path that resolves to nothing
// binds the zero value instead of failing. Ambiguous matches still fail.
func Optional() BindOption {
	return func(b *Binding) {
		b.Optional = true
	}
}

// Resource declares a binding for the given path. A leading caret marks
// the path as absolute; otherwise it is resolved as a path suffix.
func Resource(path string, opts ...BindOption) Binding {
	b := Binding{Path: path}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// Bind resolves the binding's path against the given settings and converts
// the result into T through the config decode pipeline. An optional
// binding whose path matches nothing yields T's zero value and no error.
func Bind[T any](s *Settings, b Binding) (T, error) {
	var zero T

	v, err := s.Resolve(b.Path, b.Masks...)
	if err != nil {
		var knf KeyNotFoundError
		if b.Optional && errors.As(err, &knf) {
			return zero, nil
		}
		return zero, err
	}
	return To[T](v)
}

// BindDep fetches a named dependency from the deps container and asserts
// it to T.
func BindDep[T any](deps *Deps, name string) (T, error) {
	var zero T

	v, err := deps.Get(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, DependencyTypeError{Name: name}
	}
	return t, nil
}
