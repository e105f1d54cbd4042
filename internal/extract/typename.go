package extract

import (
	"fmt"

	"github.com/solscope/solscope/internal/ast"
)

// functionTypePlaceholder stands in for function-typed members; signature
// formatting is out of scope.
const functionTypePlaceholder = "function"

// FormatTypeName renders a type-name node as its canonical string.
// Elementary types keep their keyword verbatim, user-defined types keep
// their full dotted path (normalization to the first segment happens only
// when recording association targets), arrays append "[]" recursively, and
// mappings render as mapping(K=>V).
func FormatTypeName(node *ast.Node) (string, error) {
	if node == nil {
		return "", fmt.Errorf("%w: nil node", ErrFormat)
	}
	switch node.Type {
	case ast.TypeElementaryTypeName:
		return node.Name, nil
	case ast.TypeUserDefinedTypeName:
		return node.NamePath, nil
	case ast.TypeArrayTypeName:
		base, err := FormatTypeName(node.BaseTypeName)
		if err != nil {
			return "", err
		}
		return base + "[]", nil
	case ast.TypeMapping:
		key, err := mappingKeyName(node.KeyType)
		if err != nil {
			return "", err
		}
		value, err := FormatTypeName(node.ValueType)
		if err != nil {
			return "", err
		}
		return "mapping(" + key + "=>" + value + ")", nil
	case ast.TypeFunctionTypeName:
		return functionTypePlaceholder, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, node.Type)
	}
}

// mappingKeyName renders a mapping key, which the grammar restricts to an
// elementary keyword or a user-defined path.
func mappingKeyName(node *ast.Node) (string, error) {
	if node == nil {
		return "", fmt.Errorf("%w: nil mapping key", ErrFormat)
	}
	switch node.Type {
	case ast.TypeElementaryTypeName:
		return node.Name, nil
	case ast.TypeUserDefinedTypeName:
		return node.NamePath, nil
	default:
		return "", fmt.Errorf("%w: mapping key %q", ErrFormat, node.Type)
	}
}
