// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	t.Run("will bind a relative path", func(t *testing.T) {
		t.Run("narrowed by a mask", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"env":   map[string]any{"services": map[string]any{"a": 1}},
				"other": map[string]any{"services": map[string]any{"a": 2}},
			})

			svcs, err := Bind[map[string]int](s, Resource("services", WithMask("env.**")))
			require.NoError(t, err)
			require.Equal(t, map[string]int{"a": 1}, svcs)
		})

		t.Run("converting mapping elements to models", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"services": map[string]any{
					"s1": map[string]any{"name": "a"},
					"s2": map[string]any{"name": "b"},
				},
			})

			svcs, err := Bind[map[string]serviceConfig](s, Resource("services"))
			require.NoError(t, err)
			require.Len(t, svcs, 2)
			require.Equal(t, "a", svcs["s1"].Name)
			require.Equal(t, "b", svcs["s2"].Name)
		})

		t.Run("converting sequence elements to models", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"services": []any{
					map[string]any{"name": "a"},
					map[string]any{"name": "b"},
				},
			})

			items, err := Bind[[]serviceConfig](s, Resource("services"))
			require.NoError(t, err)
			require.Equal(t, []string{"a", "b"}, []string{items[0].Name, items[1].Name})
		})
	})

	t.Run("will bind an absolute path", func(t *testing.T) {
		t.Run("bypassing suffix search with a caret prefix", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"env": map[string]any{"services": map[string]any{"a": 1}},
			})

			svcs, err := Bind[map[string]int](s, Resource("^env.services"))
			require.NoError(t, err)
			require.Equal(t, map[string]int{"a": 1}, svcs)
		})
	})

	t.Run("will fail with AmbiguousPathError", func(t *testing.T) {
		t.Run("if the suffix matches twice without a mask", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"env":   map[string]any{"services": map[string]any{"a": 1}},
				"other": map[string]any{"services": map[string]any{"a": 2}},
			})

			_, err := Bind[map[string]int](s, Resource("services"))

			var aerr AmbiguousPathError
			require.ErrorAs(t, err, &aerr)
		})

		t.Run("even if the binding is optional", func(t *testing.T) {
			s := NewFromMap(map[string]any{
				"env":   map[string]any{"services": map[string]any{"a": 1}},
				"other": map[string]any{"services": map[string]any{"a": 2}},
			})

			_, err := Bind[map[string]int](s, Resource("services", Optional()))

			var aerr AmbiguousPathError
			require.ErrorAs(t, err, &aerr)
		})
	})

	t.Run("will bind the zero value", func(t *testing.T) {
		t.Run("if an optional binding matches nothing", func(t *testing.T) {
			s := NewFromMap(map[string]any{"env": map[string]any{"x": 1}})

			svcs, err := Bind[map[string]int](s, Resource("services", Optional()))
			require.NoError(t, err)
			require.Nil(t, svcs)
		})
	})

	t.Run("will propagate KeyNotFoundError", func(t *testing.T) {
		t.Run("if a required binding matches nothing", func(t *testing.T) {
			s := NewFromMap(map[string]any{"env": map[string]any{"x": 1}})

			_, err := Bind[map[string]int](s, Resource("services"))

			var knf KeyNotFoundError
			require.ErrorAs(t, err, &knf)
		})
	})
}

func TestBindDep(t *testing.T) {
	t.Run("will invoke the registered provider", func(t *testing.T) {
		deps := NewDeps()
		deps.Register("answer", func() any { return 42 })

		v, err := BindDep[int](deps, "answer")
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("will fail with UnknownDependencyError", func(t *testing.T) {
		t.Run("if no provider is registered", func(t *testing.T) {
			deps := NewDeps()

			_, err := BindDep[int](deps, "missing")

			var uerr UnknownDependencyError
			require.ErrorAs(t, err, &uerr)
			require.Equal(t, "missing", uerr.Name)
		})
	})

	t.Run("will fail with DependencyTypeError", func(t *testing.T) {
		t.Run("if the provided value has a different type", func(t *testing.T) {
			deps := NewDeps()
			deps.Register("answer", func() any { return "forty two" })

			_, err := BindDep[int](deps, "answer")

			var terr DependencyTypeError
			require.ErrorAs(t, err, &terr)
		})
	})
}
