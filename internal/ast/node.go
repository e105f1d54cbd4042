// Package ast defines the Solidity syntax tree consumed by the extraction
// core. Trees arrive as the JSON documents produced by standard Solidity
// parsers (@solidity-parser/parser, solc compact AST); every node carries a
// "type" tag, so the whole grammar is represented by one permissive struct
// and dispatched with a switch on Node.Type.
package ast

// Node type tags handled by the extraction core. Any tag outside this set
// decodes fine and is skipped by the walkers.
const (
	TypeSourceUnit = "SourceUnit"

	// Top-level declarations.
	TypeContractDefinition = "ContractDefinition"
	TypeStructDefinition   = "StructDefinition"
	TypeEnumDefinition     = "EnumDefinition"
	TypeImportDirective    = "ImportDirective"
	TypePragmaDirective    = "PragmaDirective"

	// Contract members.
	TypeStateVariableDeclaration = "StateVariableDeclaration"
	TypeUsingForDeclaration      = "UsingForDeclaration"
	TypeFunctionDefinition       = "FunctionDefinition"
	TypeModifierDefinition       = "ModifierDefinition"
	TypeEventDefinition          = "EventDefinition"
	TypeEnumValue                = "EnumValue"
	TypeVariableDeclaration      = "VariableDeclaration"
	TypeInheritanceSpecifier     = "InheritanceSpecifier"

	// Type names.
	TypeElementaryTypeName  = "ElementaryTypeName"
	TypeUserDefinedTypeName = "UserDefinedTypeName"
	TypeArrayTypeName       = "ArrayTypeName"
	TypeMapping             = "Mapping"
	TypeFunctionTypeName    = "FunctionTypeName"

	// Statements.
	TypeBlock                        = "Block"
	TypeVariableDeclarationStatement = "VariableDeclarationStatement"
	TypeExpressionStatement          = "ExpressionStatement"
	TypeIfStatement                  = "IfStatement"
	TypeForStatement                 = "ForStatement"
	TypeWhileStatement               = "WhileStatement"
	TypeDoWhileStatement             = "DoWhileStatement"
	TypeReturnStatement              = "ReturnStatement"
	TypeEmitStatement                = "EmitStatement"

	// Expressions.
	TypeBinaryOperation   = "BinaryOperation"
	TypeUnaryOperation    = "UnaryOperation"
	TypeFunctionCall      = "FunctionCall"
	TypeMemberAccess      = "MemberAccess"
	TypeIndexAccess       = "IndexAccess"
	TypeTupleExpression   = "TupleExpression"
	TypeConditional       = "Conditional"
	TypeIdentifier        = "Identifier"
	TypeNewExpression     = "NewExpression"
	TypeNumberLiteral     = "NumberLiteral"
	TypeStringLiteral     = "StringLiteral"
	TypeBooleanLiteral    = "BooleanLiteral"
)

// Node is one syntax tree node. Fields are a union over every node shape the
// core dispatches on; the Type tag decides which fields are meaningful.
// Slices of child declarations keep JSON null slots as nil pointers;
// destructuring declarations legitimately contain them.
type Node struct {
	Type string `json:"type"`

	// Shared identity fields.
	Name     string `json:"name,omitempty"`
	NamePath string `json:"namePath,omitempty"` // UserDefinedTypeName, possibly dotted

	// SourceUnit.
	Children []*Node `json:"children,omitempty"`

	// ContractDefinition.
	Kind          string  `json:"kind,omitempty"` // contract | interface | library | abstract
	BaseContracts []*Node `json:"baseContracts,omitempty"`
	SubNodes      []*Node `json:"subNodes,omitempty"`

	// InheritanceSpecifier.
	BaseName *Node `json:"baseName,omitempty"`

	// ImportDirective.
	Path string `json:"path,omitempty"`

	// Declarations.
	Variables  []*Node `json:"variables,omitempty"` // may contain null slots
	Members    []*Node `json:"members,omitempty"`   // struct/enum members
	TypeName   *Node   `json:"typeName,omitempty"`
	IsStateVar bool    `json:"isStateVar,omitempty"`

	// UsingForDeclaration.
	LibraryName string `json:"libraryName,omitempty"`

	// Functions, modifiers, events.
	Parameters       []*Node `json:"parameters,omitempty"`
	ReturnParameters []*Node `json:"returnParameters,omitempty"`
	Body             *Node   `json:"body,omitempty"`
	Visibility       string  `json:"visibility,omitempty"`
	StateMutability  string  `json:"stateMutability,omitempty"`
	IsConstructor    bool    `json:"isConstructor,omitempty"`

	// Mapping / ArrayTypeName.
	KeyType      *Node `json:"keyType,omitempty"`
	ValueType    *Node `json:"valueType,omitempty"`
	BaseTypeName *Node `json:"baseTypeName,omitempty"`

	// Statements.
	Statements          []*Node `json:"statements,omitempty"`
	InitialValue        *Node   `json:"initialValue,omitempty"`
	Condition           *Node   `json:"condition,omitempty"`
	TrueBody            *Node   `json:"trueBody,omitempty"`
	FalseBody           *Node   `json:"falseBody,omitempty"`
	InitExpression      *Node   `json:"initExpression,omitempty"`
	EventCall           *Node   `json:"eventCall,omitempty"`
	ConditionExpression *Node   `json:"conditionExpression,omitempty"`
	LoopExpression      *Node   `json:"loopExpression,omitempty"`

	// Expressions.
	Expression      *Node   `json:"expression,omitempty"`
	Left            *Node   `json:"left,omitempty"`
	Right           *Node   `json:"right,omitempty"`
	SubExpression   *Node   `json:"subExpression,omitempty"`
	Arguments       []*Node `json:"arguments,omitempty"`
	Base            *Node   `json:"base,omitempty"`
	Index           *Node   `json:"index,omitempty"`
	Components      []*Node `json:"components,omitempty"` // may contain null slots
	MemberName      string  `json:"memberName,omitempty"`
	TrueExpression  *Node   `json:"trueExpression,omitempty"`
	FalseExpression *Node   `json:"falseExpression,omitempty"`
}
