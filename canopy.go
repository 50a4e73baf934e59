// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"log/slog"
	"os"
)

// Store represents the top level key value structure sources write into.
type Store interface {
	Set(key string, value any) error
}

// Source defines valid config sources as those who can serialize
// themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// Settings is the mutable configuration document. Sources are merged into
// it in the order they are added, templates are expanded by an explicit
// [Settings.ResolveTemplates] pass, and values are read back through the
// embedded [Node] API or by relative path via [Settings.Resolve].
//
// Settings is a single writer model: concurrent mutation is not supported.
// Read only access after resolution completes is safe from multiple
// goroutines.
type Settings struct {
	Node

	log       *slog.Logger
	lookupEnv func(string) (string, bool)
	readFile  func(string) ([]byte, error)
}

// Option configures a Settings.
type Option func(*Settings)

// WithLogger sets the logger used for debug records during loading and
// template resolution. Defaults to [slog.Default].
func WithLogger(log *slog.Logger) Option {
	return func(s *Settings) {
		s.log = log
	}
}

// New returns an empty Settings.
func New(opts ...Option) *Settings {
	return NewFromMap(nil, opts...)
}

// NewFromMap returns a Settings backed by the given mapping. The mapping
// is adopted, not copied.
func NewFromMap(data map[string]any, opts ...Option) *Settings {
	s := &Settings{
		Node:      NewNode(data),
		log:       slog.Default(),
		lookupEnv: os.LookupEnv,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// topLevelStore merges source output into the root mapping one top level
// key at a time. Later sources overwrite earlier ones wholesale per key;
// nested keys are never deep merged.
type topLevelStore map[string]any

// Set implements the Store interface.
func (m topLevelStore) Set(key string, value any) error {
	m[key] = unwrapValue(value)
	return nil
}

// AddSource applies a source to the settings. Sources are merged strictly
// in the order they are added, last writer winning per top level key.
func (s *Settings) AddSource(src Source) error {
	err := src.Apply(topLevelStore(s.data))
	if err != nil {
		return err
	}
	s.log.Debug("applied config source", slog.String("source", sourceName(src)))
	return nil
}

// ResolveTemplates recursively expands every "${{ action:params }}"
// placeholder in the tree. It must be invoked explicitly after all sources
// have been added and is idempotent: resolving an already resolved tree is
// a no-op. Resolution stops at the first failure with the tree partially
// resolved.
func (s *Settings) ResolveTemplates() error {
	r := &templateResolver{
		root:      s.data,
		lookupEnv: s.lookupEnv,
		readFile:  s.readFile,
	}
	_, err := r.resolveNode(s.data)
	if err != nil {
		return err
	}
	s.log.Debug("resolved config templates")
	return nil
}

// Resolve returns the value for a path that may be either absolute or a
// suffix of its absolute location. A leading caret marks the path as
// absolute and bypasses suffix search entirely. Otherwise the tree is
// searched for locations ending in the path; masks narrow the candidates.
// Zero matches fail with [KeyNotFoundError] and two or more matches fail
// with [AmbiguousPathError].
func (s *Settings) Resolve(path string, masks ...string) (any, error) {
	if abs, ok := cutCaret(path); ok {
		return s.Get(abs)
	}

	matches := findByPathSuffix(s.data, path, masks)
	switch len(matches) {
	case 0:
		return nil, KeyNotFoundError{Key: path}
	case 1:
		return wrapValue(matches[0].Value), nil
	default:
		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		return nil, AmbiguousPathError{Suffix: path, Matches: paths}
	}
}

func sourceName(src Source) string {
	switch src.(type) {
	case Map:
		return "map"
	case Yaml, yamlFile:
		return "yaml"
	case EnvFile:
		return "env"
	default:
		return "custom"
	}
}
