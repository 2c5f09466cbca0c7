// Package datafile reads the engine's data files (pattern tables, correction
// catalogs, frequency lexicons). Files are memory-mapped and decoded by
// extension.
package datafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/edsrzf/mmap-go"
	"gopkg.in/yaml.v3"
)

// ErrEmpty is returned for zero-length files, which cannot be mapped.
var ErrEmpty = errors.New("data file is empty")

// Map memory-maps path read-only and hands the bytes to fn. The slice is
// only valid for the duration of fn.
func Map(path string, fn func(data []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return fmt.Errorf("mmap %s: %w", path, err)
	}
	defer m.Unmap()

	return fn(m)
}

// Decode unmarshals data into v, picking the format from the file
// extension of name. Unknown extensions are treated as JSON.
func Decode(name string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		if _, err := toml.Decode(string(data), v); err != nil {
			return fmt.Errorf("decode TOML %s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode YAML %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode JSON %s: %w", name, err)
		}
	}
	return nil
}

// Load maps path and decodes it into v.
func Load(path string, v any) error {
	return Map(path, func(data []byte) error {
		return Decode(path, data, v)
	})
}
