// Copyright (c) 2026 Canopy Authors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package canopy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/canopyconf/canopy/internal/try"
	"gopkg.in/yaml.v3"
)

// Yaml represents a Source where its underlying format is YAML.
type Yaml struct {
	r io.Reader
}

// FromYaml returns a source which will apply its config from YAML values
// parsed from the given io.Reader. The reader is closed after applying if
// it implements io.Closer.
func FromYaml(r io.Reader) Yaml {
	return Yaml{r: r}
}

// InvalidYamlError occurs if a YAML source or yaml template action
// contains invalid YAML.
type InvalidYamlError struct {
	cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.cause
}

// Apply implements the Source interface.
func (src Yaml) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}
	if !utf8.Valid(b) {
		return DecodeError{}
	}

	m := make(map[string]any)
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return InvalidYamlError{cause: err}
	}
	return Map(m).Apply(store)
}

type yamlFile struct {
	path string
}

// YamlFile returns a source which reads YAML from the file at the given
// path when applied. A missing file fails with [FileNotFoundError].
func YamlFile(path string) Source {
	return yamlFile{path: path}
}

// Apply implements the Source interface.
func (src yamlFile) Apply(store Store) error {
	b, err := os.ReadFile(src.path)
	if errors.Is(err, fs.ErrNotExist) {
		return FileNotFoundError{Path: src.path, Cause: err}
	}
	if err != nil {
		return err
	}
	if !utf8.Valid(b) {
		return DecodeError{Path: src.path}
	}

	m := make(map[string]any)
	err = yaml.Unmarshal(b, &m)
	if err != nil {
		return InvalidYamlError{cause: err}
	}
	return Map(m).Apply(store)
}
