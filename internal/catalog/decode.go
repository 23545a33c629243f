// Classmatch - Educational Technology Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/classmatch

package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/classmatch/internal/recommend"
)

// Format is the encoding of a catalog document.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Valid reports whether f is a known format. Empty means auto.
func (f Format) Valid() bool {
	switch f {
	case "", FormatAuto, FormatJSON, FormatYAML:
		return true
	}
	return false
}

var (
	// ErrDuplicateID is returned when two resources share an id.
	ErrDuplicateID = errors.New("duplicate resource id")

	// ErrUnsupportedFormat is returned for an unknown catalog format.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// document is the wrapped catalog form. A bare list of resources is also accepted.
type document struct {
	Resources []recommend.Resource `json:"resources" yaml:"resources"`
}

// DetectFormat resolves FormatAuto from the source name, then from content.
func DetectFormat(name string, data []byte, f Format) Format {
	if f == FormatJSON || f == FormatYAML {
		return f
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses, normalizes and validates a catalog document.
// Resources keep their document order.
func Decode(data []byte, f Format) ([]recommend.Resource, error) {
	var (
		resources []recommend.Resource
		err       error
	)
	switch f {
	case FormatJSON:
		resources, err = decodeJSON(data)
	case FormatYAML:
		resources, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, recommend.ErrEmptyCatalog
	}

	seen := make(map[string]int, len(resources))
	for i := range resources {
		r := &resources[i]
		r.Normalize()
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("resource %d (%q): %w", i, r.ID, err)
		}
		if first, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: %q at %d and %d", ErrDuplicateID, r.ID, first, i)
		}
		seen[r.ID] = i
	}
	return resources, nil
}

func decodeJSON(data []byte) ([]recommend.Resource, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []recommend.Resource
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json catalog: %w", err)
		}
		return list, nil
	}

	var doc document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode json catalog: %w", err)
	}
	return doc.Resources, nil
}

func decodeYAML(data []byte) ([]recommend.Resource, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	if node.Kind == yaml.SequenceNode {
		var list []recommend.Resource
		if err := node.Decode(&list); err != nil {
			return nil, fmt.Errorf("decode yaml catalog: %w", err)
		}
		return list, nil
	}

	var doc document
	if err := node.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml catalog: %w", err)
	}
	return doc.Resources, nil
}
