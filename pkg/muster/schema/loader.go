package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk shape of a catalog definition.
// Categories listed in the file carry the base fields implicitly;
// only extra fields need declaring.
type catalogFile struct {
	Categories []struct {
		Name   string  `yaml:"name" json:"name"`
		Fields []Field `yaml:"fields" json:"fields"`
	} `yaml:"categories" json:"categories"`
}

// FromFile loads a catalog from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported catalog file extension: %s", ext)
	}
}

// FromYAML parses a YAML catalog definition.
func FromYAML(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return fromFileFormat(file)
}

// FromJSON parses a JSON catalog definition.
func FromJSON(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return fromFileFormat(file)
}

func fromFileFormat(file catalogFile) (*Catalog, error) {
	cats := make([]Category, 0, len(file.Categories))
	for _, c := range file.Categories {
		cat, err := NewCategory(c.Name, c.Fields...)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
		cats = append(cats, cat)
	}
	return NewCatalog(cats...)
}
