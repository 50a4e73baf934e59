// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import "sort"

// Map is an ordinary map[string]any but implements the Source interface.
type Map map[string]any

// Apply implements the Source interface. Each top level key is set on the
// store as-is; nested mappings are contributed wholesale, not deep merged.
func (m Map) Apply(store Store) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		err := store.Set(k, m[k])
		if err != nil {
			return err
		}
	}
	return nil
}
