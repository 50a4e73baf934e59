// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"fmt"
	"sort"
	"strings"
)

// AmbiguousPathError occurs when a relative path suffix matches more than
// one location in the tree and no mask narrows it to a single one.
type AmbiguousPathError struct {
	Suffix  string
	Matches []string
}

// Error implements the error interface.
func (e AmbiguousPathError) Error() string {
	return fmt.Sprintf("ambiguous relative path suffix %q: matches %s", e.Suffix, strings.Join(e.Matches, ", "))
}

// Match is a single location found by [Search]: the absolute dot separated
// path and the raw value stored there.
type Match struct {
	Path  string
	Value any
}

// Search returns every location in the tree whose absolute path ends with
// the given dot separated suffix, in depth-first pre-order with keys
// visited in sorted order. Masks, when given, keep only locations whose
// absolute path matches at least one of them; mask segments are literal
// keys except "**", which spans one or more segments.
func (s *Settings) Search(suffix string, masks ...string) []Match {
	return findByPathSuffix(s.data, suffix, masks)
}

func findByPathSuffix(root map[string]any, suffix string, masks []string) []Match {
	suffixSegs := strings.Split(suffix, ".")

	maskSegs := make([][]string, len(masks))
	for i, mask := range masks {
		maskSegs[i] = strings.Split(mask, ".")
	}

	var matches []Match
	var walk func(path []string, value any)
	walk = func(path []string, value any) {
		if hasPathSuffix(path, suffixSegs) && matchesAnyMask(maskSegs, path) {
			matches = append(matches, Match{
				Path:  strings.Join(path, "."),
				Value: value,
			})
		}

		m, ok := value.(map[string]any)
		if !ok {
			return
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(append(path[:len(path):len(path)], k), m[k])
		}
	}
	walk(nil, root)
	return matches
}

func hasPathSuffix(path, suffix []string) bool {
	if len(suffix) == 0 || len(path) < len(suffix) {
		return false
	}
	offset := len(path) - len(suffix)
	for i, seg := range suffix {
		if path[offset+i] != seg {
			return false
		}
	}
	return true
}

func matchesAnyMask(masks [][]string, path []string) bool {
	if len(masks) == 0 {
		return true
	}
	for _, mask := range masks {
		if matchMask(mask, path) {
			return true
		}
	}
	return false
}

// matchMask compares mask segments against path segments left to right.
// "**" consumes one or more path segments; every other segment requires
// literal equality. The mask must cover the entire path.
func matchMask(mask, path []string) bool {
	if len(mask) == 0 {
		return len(path) == 0
	}
	if mask[0] == "**" {
		for i := 1; i <= len(path); i++ {
			if matchMask(mask[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 || mask[0] != path[0] {
		return false
	}
	return matchMask(mask[1:], path[1:])
}

// cutCaret strips the leading caret that marks a path as absolute.
func cutCaret(path string) (string, bool) {
	return strings.CutPrefix(path, "^")
}
