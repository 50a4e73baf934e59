// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Node is a view over a mapping in the configuration tree. It is backed by
// the tree's own storage, so setting a value through a Node mutates the
// owning tree. The zero Node is not usable; construct one with [NewNode]
// or obtain one from [Node.Get].
type Node struct {
	data map[string]any
}

// NewNode returns a Node backed by the given mapping. A nil mapping is
// replaced with an empty one.
func NewNode(data map[string]any) Node {
	if data == nil {
		data = make(map[string]any)
	}
	return Node{data: data}
}

// KeyNotFoundError occurs when a dot separated path names a key that does
// not exist, or descends through a value that is not a mapping.
type KeyNotFoundError struct {
	Key string
}

// Error implements the error interface.
func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found in the configuration", e.Key)
}

// Get returns the value at the given dot separated path. Mappings are
// returned as Node views and sequences have their mapping elements wrapped
// in Node views. It fails with [KeyNotFoundError] if any path segment is
// missing or a scalar is indexed with a further segment.
func (n Node) Get(path string) (any, error) {
	var value any = n.data
	for _, seg := range strings.Split(path, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			return nil, KeyNotFoundError{Key: path}
		}
		value, ok = m[seg]
		if !ok {
			return nil, KeyNotFoundError{Key: path}
		}
	}
	return wrapValue(value), nil
}

// Set assigns a value at the given dot separated path, creating
// intermediate mappings for missing segments and overwriting any
// non-mapping intermediate it passes through.
func (n Node) Set(path string, value any) {
	segs := strings.Split(path, ".")
	m := n.data
	for _, seg := range segs[:len(segs)-1] {
		sub, ok := m[seg].(map[string]any)
		if !ok {
			sub = make(map[string]any)
			m[seg] = sub
		}
		m = sub
	}
	m[segs[len(segs)-1]] = unwrapValue(value)
}

// Has reports whether the given dot separated path exists.
func (n Node) Has(path string) bool {
	_, err := n.Get(path)
	return err == nil
}

// ToMap returns the plain nested mapping backing this Node. The returned
// map is the live storage, not a copy.
func (n Node) ToMap() map[string]any {
	return n.data
}

// Len returns the number of keys in the mapping.
func (n Node) Len() int {
	return len(n.data)
}

// Keys returns the mapping's keys in sorted order.
func (n Node) Keys() []string {
	keys := make([]string, 0, len(n.data))
	for k := range n.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the mapping's values in sorted key order, wrapped the
// same way [Node.Get] wraps them.
func (n Node) Values() []any {
	keys := n.Keys()
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = wrapValue(n.data[k])
	}
	return values
}

// Item is a single key value pair of a mapping.
type Item struct {
	Key   string
	Value any
}

// Items returns the mapping's key value pairs in sorted key order.
func (n Node) Items() []Item {
	keys := n.Keys()
	items := make([]Item, len(keys))
	for i, k := range keys {
		items[i] = Item{Key: k, Value: wrapValue(n.data[k])}
	}
	return items
}

// GetString returns the value at path coerced to a string.
func (n Node) GetString(path string) (string, error) {
	v, err := n.Get(path)
	if err != nil {
		return "", err
	}
	return cast.ToStringE(v)
}

// GetInt returns the value at path coerced to an int.
func (n Node) GetInt(path string) (int, error) {
	v, err := n.Get(path)
	if err != nil {
		return 0, err
	}
	return cast.ToIntE(v)
}

// GetFloat64 returns the value at path coerced to a float64.
func (n Node) GetFloat64(path string) (float64, error) {
	v, err := n.Get(path)
	if err != nil {
		return 0, err
	}
	return cast.ToFloat64E(v)
}

// GetBool returns the value at path coerced to a bool. Coercion is
// permissive: numeric values are true when non-zero and the strings
// "yes", "y" and "on" are accepted alongside the usual boolean literals.
func (n Node) GetBool(path string) (bool, error) {
	v, err := n.Get(path)
	if err != nil {
		return false, err
	}
	return coerceBool(v)
}

// GetStringSlice returns the value at path coerced to a []string.
func (n Node) GetStringSlice(path string) ([]string, error) {
	v, err := n.Get(path)
	if err != nil {
		return nil, err
	}
	return cast.ToStringSliceE(v)
}

// wrapValue wraps mappings in Node views. Sequences are returned as a new
// slice whose mapping elements are wrapped; the elements themselves still
// share storage with the tree.
func wrapValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return Node{data: x}
	case []any:
		items := make([]any, len(x))
		for i, item := range x {
			items[i] = wrapValue(item)
		}
		return items
	default:
		return v
	}
}

// unwrapValue strips Node views back down to their raw storage so the tree
// only ever holds plain nested collections.
func unwrapValue(v any) any {
	switch x := v.(type) {
	case Node:
		return x.data
	case *Settings:
		return x.data
	case []any:
		items := make([]any, len(x))
		for i, item := range x {
			items[i] = unwrapValue(item)
		}
		return items
	default:
		return v
	}
}
