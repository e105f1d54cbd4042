package ast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotSourceUnit is returned when a decoded tree's root is not a
// SourceUnit. This is a structural failure: the document is not the output
// of a Solidity parser, or it is a fragment rather than a whole file.
var ErrNotSourceUnit = errors.New("ast: root node is not a SourceUnit")

// ParseSourceUnit decodes one JSON syntax tree document and validates its
// root shape. The returned tree is ready for the extraction core.
func ParseSourceUnit(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("ast: decode source unit: %w", err)
	}
	if root.Type != TypeSourceUnit {
		return nil, fmt.Errorf("%w: got %q", ErrNotSourceUnit, root.Type)
	}
	return &root, nil
}

// Parser turns raw source-unit bytes into a syntax tree.
// Implementations: JSONParser (production), stub parsers in tests.
type Parser interface {
	// Parse decodes the syntax tree for a single source unit. path is used
	// only for error attribution.
	Parse(ctx context.Context, path string, source []byte) (*Node, error)
}

// JSONParser implements Parser for pre-parsed JSON AST documents, the
// interchange format of the standard Solidity parsers.
type JSONParser struct{}

// NewJSONParser returns a JSONParser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Parse decodes source as a JSON syntax tree.
func (p *JSONParser) Parse(_ context.Context, path string, source []byte) (*Node, error) {
	unit, err := ParseSourceUnit(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return unit, nil
}
