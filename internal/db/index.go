package db

import (
	"fmt"
	"unicode/utf8"
)

// StorageType defines the document storage backend for FT indexes.
type StorageType string

// StorageHash stores documents as Redis hashes.
const StorageHash StorageType = "HASH"

// IndexFieldType enumerates supported FT index field types.
type IndexFieldType int

const (
	// IndexFieldNumeric is a numeric field.
	IndexFieldNumeric IndexFieldType = iota
	// IndexFieldTag is a tag field.
	IndexFieldTag
	// IndexFieldText is a text field.
	IndexFieldText
)

// IndexField describes a single field in an FT index schema.
type IndexField struct {
	Name     string
	Alias    string // AS alias in FT.CREATE SCHEMA
	Type     IndexFieldType
	Sortable bool

	// TAG options
	TagSeparator     string // one character; empty keeps the server default ","
	TagCaseSensitive bool

	// TEXT options
	Weight float64 // 0 leaves the server default (1.0)
}

// attr is the name queries use for the field.
func (f *IndexField) attr() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// IndexDefinition is a complete FT index definition used by FT.CREATE.
type IndexDefinition struct {
	Name        string
	StorageType StorageType
	Prefixes    []string
	Fields      []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	switch {
	case idx.Name == "":
		return fmt.Errorf("index name is required")
	case !IsValidIdentifier(idx.Name):
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	case len(idx.Fields) == 0:
		return fmt.Errorf("index %s: at least one field is required", idx.Name)
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("field %d: field name is required", i)
		}
		key := f.attr()
		if f.Alias != "" && !IsValidIdentifier(f.Alias) {
			return fmt.Errorf("field %s: alias %q contains invalid characters", f.Name, f.Alias)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate field name: %s", key)
		}
		seen[key] = struct{}{}

		if f.Weight < 0 {
			return fmt.Errorf("negative weight on field %s", key)
		}
		if f.Type != IndexFieldText && f.Weight != 0 {
			return fmt.Errorf("field %s: weight is only valid on TEXT", key)
		}
		if f.TagSeparator != "" && (f.Type != IndexFieldTag || utf8.RuneCountInString(f.TagSeparator) != 1) {
			return fmt.Errorf("field %s: separator must be a single character on a TAG", key)
		}
	}
	return nil
}

// IsValidIdentifier reports whether s is a non-empty [a-zA-Z0-9_:-]+ name.
func IsValidIdentifier(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return s != ""
}
