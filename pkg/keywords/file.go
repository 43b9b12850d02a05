package keywords

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyList is returned when a keyword file holds no keywords.
var ErrEmptyList = errors.New("keyword file contains no keywords")

// File is the on-disk layout of a keyword list.
//
//	keywords:
//	  - equity
//	  - social justice
type File struct {
	Keywords []string `yaml:"keywords"`
}

// LoadFile reads a YAML keyword list. The result replaces the builtin list, so
// phrases are allowed; entries are normalized but not validated.
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("read keyword file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse keyword file %s: %w", path, err)
	}

	list := Normalize(f.Keywords)
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyList)
	}
	return list, nil
}
