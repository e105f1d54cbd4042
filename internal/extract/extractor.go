package extract

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/solscope/solscope/internal/ast"
)

// Extractor converts one source-unit tree into an ordered sequence of
// entities. It is stateless across calls; every ExtractSourceUnit call works
// on entities local to that file until the caller appends the completed
// batch to its aggregate, so a failed file never leaks partial state.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. logger may be nil for silent operation.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// FileResult is the outcome of extracting one source unit.
type FileResult struct {
	// Entities in declaration order.
	Entities []*Entity

	// RawImports are the unresolved import directive paths, in source order.
	// The import resolver turns these into ImportedPaths on each entity.
	RawImports []string
}

// ExtractSourceUnit dispatches on each top-level child of the source unit
// and builds one entity per contract, struct, or enum definition. Import
// directives are collected raw; resolution happens afterward so resolution
// failures can never interrupt extraction.
func (x *Extractor) ExtractSourceUnit(unit *ast.Node, absPath, relPath string) (*FileResult, error) {
	if unit == nil || unit.Type != ast.TypeSourceUnit {
		got := "nil"
		if unit != nil {
			got = unit.Type
		}
		return nil, fmt.Errorf("%s: %w: got %q", relPath, ErrStructural, got)
	}

	res := &FileResult{}
	for _, child := range unit.Children {
		if child == nil {
			continue
		}
		switch child.Type {
		case ast.TypeContractDefinition:
			ent, err := x.convertContract(child, absPath, relPath)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", relPath, err)
			}
			res.Entities = append(res.Entities, ent)
		case ast.TypeStructDefinition:
			ent, err := convertStruct(child, absPath, relPath)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", relPath, err)
			}
			res.Entities = append(res.Entities, ent)
		case ast.TypeEnumDefinition:
			res.Entities = append(res.Entities, convertEnum(child, absPath, relPath))
		case ast.TypeImportDirective:
			res.RawImports = append(res.RawImports, child.Path)
		default:
			// Pragmas, comments, future grammar additions: skipped.
		}
	}

	x.log("extracted source unit", "path", relPath,
		"entities", len(res.Entities), "imports", len(res.RawImports))
	return res, nil
}

// convertContract builds an entity from a ContractDefinition, walking its
// sub-declarations in source order.
func (x *Extractor) convertContract(node *ast.Node, absPath, relPath string) (*Entity, error) {
	stereotype, err := ClassifyContractKind(node.Kind)
	if err != nil {
		return nil, err
	}
	ent := NewEntity(node.Name, stereotype, absPath, relPath)

	// Every listed base is an inheritance or interface realization edge.
	for _, base := range node.BaseContracts {
		if base == nil || base.BaseName == nil {
			continue
		}
		ent.addAssociation(firstSegment(base.BaseName.NamePath), RefStorage, true)
	}

	for _, sub := range node.SubNodes {
		if sub == nil {
			continue
		}
		switch sub.Type {
		case ast.TypeStateVariableDeclaration:
			if err := convertStateVariables(ent, sub); err != nil {
				return nil, err
			}
		case ast.TypeUsingForDeclaration:
			ent.addAssociation(firstSegment(sub.LibraryName), RefMemory, false)
		case ast.TypeStructDefinition:
			members, err := membersToAttributes(sub.Members)
			if err != nil {
				return nil, err
			}
			ent.Structs[sub.Name] = members
			resolveVariables(ent, sub.Members, false)
		case ast.TypeEnumDefinition:
			ent.Enums[sub.Name] = enumMembers(sub.Members)
		case ast.TypeFunctionDefinition:
			if err := x.convertFunction(ent, sub); err != nil {
				return nil, err
			}
		case ast.TypeModifierDefinition:
			op, err := buildOperator(sub, OperatorModifier)
			if err != nil {
				return nil, err
			}
			ent.Operators = append(ent.Operators, op)
			resolveVariables(ent, sub.Parameters, false)
			resolveStatement(ent, sub.Body)
		case ast.TypeEventDefinition:
			op, err := buildOperator(sub, OperatorEvent)
			if err != nil {
				return nil, err
			}
			ent.Operators = append(ent.Operators, op)
			resolveVariables(ent, sub.Parameters, false)
		}
	}

	return ent, nil
}

// convertStateVariables appends one attribute per declared variable and
// records a storage association for each user-defined declared type.
func convertStateVariables(ent *Entity, node *ast.Node) error {
	for _, v := range node.Variables {
		if v == nil {
			break
		}
		typeName, err := FormatTypeName(v.TypeName)
		if err != nil {
			return err
		}
		visibility, err := MapVisibility(v.Visibility)
		if err != nil {
			return err
		}
		ent.Attributes = append(ent.Attributes, Attribute{
			Name:       v.Name,
			Type:       typeName,
			Visibility: visibility,
		})
	}
	resolveVariables(ent, node.Variables, true)
	if node.InitialValue != nil {
		resolveExpression(ent, node.InitialValue)
	}
	return nil
}

// convertFunction classifies a function declaration and appends its
// operator. A bodiless function on a non-interface entity reclassifies the
// entity itself to abstract; interfaces implicitly have bodiless functions
// and keep their stereotype.
func (x *Extractor) convertFunction(ent *Entity, node *ast.Node) error {
	op := Operator{Name: node.Name, Stereotype: OperatorNone}

	switch {
	case node.IsConstructor || node.Name == "constructor":
		op.Name = "constructor"
		// Constructors carry no visibility.
	case node.Name == "":
		op.Stereotype = OperatorFallback
		op.IsPayable = node.StateMutability == "payable"
	default:
		visibility, err := MapVisibility(node.Visibility)
		if err != nil {
			return err
		}
		op.Visibility = visibility
		if node.Body == nil {
			op.Stereotype = OperatorAbstract
			if ent.Stereotype != StereotypeInterface {
				ent.Stereotype = StereotypeAbstract
			}
		} else if node.StateMutability == "payable" {
			op.Stereotype = OperatorPayable
			op.IsPayable = true
		}
	}

	var err error
	if op.Parameters, err = toParameters(node.Parameters); err != nil {
		return err
	}
	if op.ReturnParameters, err = toParameters(node.ReturnParameters); err != nil {
		return err
	}
	ent.Operators = append(ent.Operators, op)

	resolveVariables(ent, node.Parameters, false)
	resolveVariables(ent, node.ReturnParameters, false)
	resolveStatement(ent, node.Body)
	return nil
}

// buildOperator constructs a modifier or event operator.
func buildOperator(node *ast.Node, stereotype OperatorStereotype) (Operator, error) {
	params, err := toParameters(node.Parameters)
	if err != nil {
		return Operator{}, err
	}
	return Operator{Name: node.Name, Stereotype: stereotype, Parameters: params}, nil
}

// convertStruct builds a standalone entity from a top-level struct.
func convertStruct(node *ast.Node, absPath, relPath string) (*Entity, error) {
	ent := NewEntity(node.Name, StereotypeStruct, absPath, relPath)
	members, err := membersToAttributes(node.Members)
	if err != nil {
		return nil, err
	}
	ent.Attributes = members
	resolveVariables(ent, node.Members, false)
	return ent, nil
}

// convertEnum builds a standalone entity from a top-level enum. Members get
// a synthetic zero-based string type equal to their ordinal position.
func convertEnum(node *ast.Node, absPath, relPath string) *Entity {
	ent := NewEntity(node.Name, StereotypeEnum, absPath, relPath)
	ent.Attributes = enumMembers(node.Members)
	return ent
}

// membersToAttributes converts struct member declarations for the nested
// struct map.
func membersToAttributes(members []*ast.Node) ([]Attribute, error) {
	var out []Attribute
	for _, m := range members {
		if m == nil {
			break
		}
		typeName, err := FormatTypeName(m.TypeName)
		if err != nil {
			return nil, err
		}
		out = append(out, Attribute{Name: m.Name, Type: typeName})
	}
	return out, nil
}

// enumMembers converts enum values; the ordinal position doubles as the type.
func enumMembers(members []*ast.Node) []Attribute {
	var out []Attribute
	for i, m := range members {
		if m == nil {
			break
		}
		out = append(out, Attribute{Name: m.Name, Type: strconv.Itoa(i)})
	}
	return out
}

// toParameters converts a parameter list. Nil slots terminate the list, the
// same rule the association resolver applies.
func toParameters(params []*ast.Node) ([]Parameter, error) {
	var out []Parameter
	for _, p := range params {
		if p == nil {
			break
		}
		typeName, err := FormatTypeName(p.TypeName)
		if err != nil {
			return nil, err
		}
		out = append(out, Parameter{Name: p.Name, Type: typeName})
	}
	return out, nil
}

func (x *Extractor) log(msg string, args ...any) {
	if x.logger != nil {
		x.logger.Debug(msg, args...)
	}
}
