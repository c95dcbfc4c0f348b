package catalog

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oxygene76/orbittracker/internal/types"
)

// Entry is one star in a catalog file
type Entry struct {
	types.StarRecord `yaml:",inline"`
	Aliases          []string `yaml:"aliases,omitempty"`
}

// File is the on-disk catalog layout
type File struct {
	Stars []Entry `yaml:"stars"`
}

// LoadYAML reads a catalog file
func LoadYAML(path string) (*MemoryCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseYAML decodes a catalog document. Unknown fields are rejected.
func ParseYAML(data []byte) (*MemoryCatalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := NewMemoryCatalog()
	for i, e := range f.Stars {
		if err := c.Add(e.StarRecord, e.Aliases...); err != nil {
			return nil, fmt.Errorf("star %d (%s): %w", i, e.Name, err)
		}
	}
	return c, nil
}

// MarshalYAML encodes stars in the catalog file layout
func MarshalYAML(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Stars: entries}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
