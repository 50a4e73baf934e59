// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSettings_Search(t *testing.T) {
	t.Run("will find every location ending with the suffix", func(t *testing.T) {
		s := NewFromMap(map[string]any{
			"a": map[string]any{"b": map[string]any{"c": 1}},
			"x": map[string]any{"a": map[string]any{"b": map[string]any{"c": 2}}},
		})

		matches := s.Search("a.b.c")

		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		require.Equal(t, []string{"a.b.c", "x.a.b.c"}, paths)
	})

	t.Run("will keep only matches covered by a mask", func(t *testing.T) {
		s := NewFromMap(map[string]any{
			"a": map[string]any{"b": map[string]any{"c": 1}},
			"x": map[string]any{"a": map[string]any{"b": map[string]any{"c": 2}}},
		})

		matches := s.Search("a.b.c", "x.**")

		require.Equal(t, []Match{{Path: "x.a.b.c", Value: 2}}, matches)
	})

	t.Run("will accept any of several masks", func(t *testing.T) {
		s := NewFromMap(map[string]any{
			"env":   map[string]any{"services": map[string]any{"a": 1}},
			"other": map[string]any{"services": map[string]any{"a": 2}},
			"third": map[string]any{"services": map[string]any{"a": 3}},
		})

		matches := s.Search("services", "env.**", "third.**")

		paths := make([]string, len(matches))
		for i, m := range matches {
			paths[i] = m.Path
		}
		require.Equal(t, []string{"env.services", "third.services"}, paths)
	})

	t.Run("will return no matches for an absent suffix", func(t *testing.T) {
		s := NewFromMap(map[string]any{"env": map[string]any{"x": 1}})

		require.Empty(t, s.Search("services"))
	})
}

func TestMatchMask(t *testing.T) {
	testCases := []struct {
		name    string
		mask    []string
		path    []string
		matches bool
	}{
		{
			name:    "literal segments match exactly",
			mask:    []string{"env", "services"},
			path:    []string{"env", "services"},
			matches: true,
		},
		{
			name:    "wildcard spans a single segment",
			mask:    []string{"env", "**"},
			path:    []string{"env", "services"},
			matches: true,
		},
		{
			name:    "wildcard spans several segments",
			mask:    []string{"x", "**"},
			path:    []string{"x", "a", "b", "c"},
			matches: true,
		},
		{
			name:    "wildcard requires at least one segment",
			mask:    []string{"env", "**"},
			path:    []string{"env"},
			matches: false,
		},
		{
			name:    "mask must cover the whole path",
			mask:    []string{"env"},
			path:    []string{"env", "services"},
			matches: false,
		},
		{
			name:    "wildcard in the middle",
			mask:    []string{"env", "**", "c"},
			path:    []string{"env", "a", "b", "c"},
			matches: true,
		},
		{
			name:    "literal mismatch",
			mask:    []string{"other", "**"},
			path:    []string{"env", "services"},
			matches: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.matches, matchMask(tc.mask, tc.path))
		})
	}
}

func TestSettings_Resolve(t *testing.T) {
	t.Run("will resolve a unique suffix", func(t *testing.T) {
		s := NewFromMap(map[string]any{
			"env": map[string]any{"services": map[string]any{"a": 1}},
		})

		v, err := s.Resolve("services")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": 1}, v.(Node).ToMap())
	})

	t.Run("will fail with AmbiguousPathError", func(t *testing.T) {
		t.Run("if the suffix matches twice without a mask", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"env":   map[string]any{"services": map[string]any{"a": 1}},
				"other": map[string]any{"services": map[string]any{"a": 2}},
			})

			_, err := s.Resolve("services")

			var aerr AmbiguousPathError
			require.ErrorAs(t, err, &aerr)
			require.Equal(t, "services", aerr.Suffix)
			require.Equal(t, []string{"env.services", "other.services"}, aerr.Matches)
		})
	})

	t.Run("will narrow ambiguity with a mask", func(t *testing.T) {
		s := NewFromMap(map[string]any{
			"env":   map[string]any{"services": map[string]any{"a": 1}},
			"other": map[string]any{"services": map[string]any{"a": 2}},
		})

		v, err := s.Resolve("services", "env.**")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": 1}, v.(Node).ToMap())
	})

	t.Run("will bypass suffix search for a caret prefixed path", func(t *testing.T) {
		s := NewFromMap(map[string]any{
			"env":   map[string]any{"services": map[string]any{"a": 1}},
			"other": map[string]any{"services": map[string]any{"a": 2}},
		})

		v, err := s.Resolve("^env.services", "other.**")
		require.NoError(t, err)
		require.Equal(t, map[string]any{"a": 1}, v.(Node).ToMap())
	})

	t.Run("will fail with KeyNotFoundError", func(t *testing.T) {
		t.Run("if the suffix matches nothing", func(t *testing.T) {
			s := NewFromMap(map[string]any{"env": map[string]any{"x": 1}})

			_, err := s.Resolve("services")

			var knf KeyNotFoundError
			require.ErrorAs(t, err, &knf)
		})

		t.Run("if a caret prefixed path is absent", func(t *testing.T) {
			s := NewFromMap(map[string]any{"env": map[string]any{"x": 1}})

			_, err := s.Resolve("^env.services")

			var knf KeyNotFoundError
			require.ErrorAs(t, err, &knf)
		})
	})
}
