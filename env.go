// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"errors"
	"io/fs"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/subosito/gotenv"
)

// EnvFile represents a Source combining a dotenv file with the process
// environment. Process environment values take precedence over file
// values, and only variables with uppercase names are contributed.
type EnvFile struct {
	path    string
	environ func() []string
}

// FromEnvFile returns a source which applies uppercase-named variables
// from the dotenv file at the given path merged with the process
// environment. An empty path means the default ".env" file, which is
// skipped silently when absent; an explicitly named file that is missing
// fails with [FileNotFoundError].
func FromEnvFile(path string) EnvFile {
	return EnvFile{
		path:    path,
		environ: os.Environ,
	}
}

// Apply implements the Source interface.
func (src EnvFile) Apply(store Store) error {
	path := src.path
	defaulted := path == ""
	if defaulted {
		path = ".env"
	}

	vars, err := gotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		if !defaulted {
			return FileNotFoundError{Path: path, Cause: err}
		}
		vars = nil
	} else if err != nil {
		return err
	}

	m := make(map[string]string, len(vars))
	for k, v := range vars {
		m[k] = v
	}
	// Process environment wins over file values.
	for _, pair := range src.environ() {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		m[k] = v
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		if !isUpperName(k) {
			continue
		}
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

// isUpperName reports whether a variable name contains at least one letter
// and no lowercase letters.
func isUpperName(name string) bool {
	hasLetter := false
	for _, r := range name {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
