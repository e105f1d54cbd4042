package extract

import (
	"strings"

	"github.com/solscope/solscope/internal/ast"
)

// The association resolver is a best-effort structural scan, not semantic
// resolution: it records an edge for every identifier or user-defined type
// reachable from a declaration, statement, or expression, without
// distinguishing type names from local variables that share an identifier.
// Consumers must tolerate over-approximation. Unknown node kinds are
// skipped, never fatal. All recording goes through Entity.addAssociation,
// which filters self-references and elementary names and merges duplicates,
// so resolving the same nodes twice is idempotent.

// resolveVariables scans a declaration list and records one association per
// user-defined declared type. persistent marks contract-state declarations,
// which produce storage references; everything else is a memory reference.
//
// Scanning stops at the first nil slot. Destructuring declarations with
// skipped positions produce nil slots, and historical behavior abandons the
// remainder of the list when one is hit. Suspect, but preserved for
// compatibility; do not generalize it to other lists.
func resolveVariables(ent *Entity, variables []*ast.Node, persistent bool) {
	for _, v := range variables {
		if v == nil {
			break
		}
		ref := RefMemory
		if persistent {
			ref = RefStorage
		}
		associateType(ent, v.TypeName, ref)
	}
}

// associateType records associations for a declared type. Mappings recurse
// into key and value independently; arrays recurse into the base type.
// Elementary types never yield an association.
func associateType(ent *Entity, typeName *ast.Node, ref ReferenceType) {
	if typeName == nil {
		return
	}
	switch typeName.Type {
	case ast.TypeUserDefinedTypeName:
		ent.addAssociation(firstSegment(typeName.NamePath), ref, false)
	case ast.TypeMapping:
		associateType(ent, typeName.KeyType, ref)
		associateType(ent, typeName.ValueType, ref)
	case ast.TypeArrayTypeName:
		associateType(ent, typeName.BaseTypeName, ref)
	}
}

// resolveStatements scans a statement list in order.
func resolveStatements(ent *Entity, statements []*ast.Node) {
	for _, st := range statements {
		resolveStatement(ent, st)
	}
}

// resolveStatement dispatches on statement kind. Statement kinds without an
// explicit rule are skipped: the walk is resilient to unhandled syntax, not
// exhaustive.
func resolveStatement(ent *Entity, st *ast.Node) {
	if st == nil {
		return
	}
	switch st.Type {
	case ast.TypeBlock:
		resolveStatements(ent, st.Statements)
	case ast.TypeVariableDeclarationStatement:
		resolveVariables(ent, st.Variables, false)
		resolveExpression(ent, st.InitialValue)
	case ast.TypeExpressionStatement, ast.TypeReturnStatement:
		resolveExpression(ent, st.Expression)
	case ast.TypeEmitStatement:
		resolveExpression(ent, st.EventCall)
	case ast.TypeIfStatement:
		resolveExpression(ent, st.Condition)
		resolveBranch(ent, st.TrueBody)
		resolveBranch(ent, st.FalseBody)
	case ast.TypeForStatement:
		resolveExpression(ent, st.ConditionExpression)
		resolveStatement(ent, st.LoopExpression)
		resolveBranch(ent, st.Body)
	case ast.TypeWhileStatement, ast.TypeDoWhileStatement:
		resolveExpression(ent, st.Condition)
		resolveBranch(ent, st.Body)
	}
}

// resolveBranch handles a loop or conditional body that is either a block
// (recurse into its statement list) or a single statement/expression.
func resolveBranch(ent *Entity, body *ast.Node) {
	if body == nil {
		return
	}
	if body.Type == ast.TypeBlock {
		resolveStatements(ent, body.Statements)
		return
	}
	if body.Expression != nil {
		resolveExpression(ent, body.Expression)
		return
	}
	resolveStatement(ent, body)
}

// resolveExpression dispatches on expression kind. A bare identifier records
// a memory reference to its own name; member access recurses into the base
// object only, so the accessed member name is never treated as a reference.
// The ternary condition is resolved by the caller, not re-walked here.
func resolveExpression(ent *Entity, expr *ast.Node) {
	if expr == nil {
		return
	}
	switch expr.Type {
	case ast.TypeBinaryOperation:
		resolveExpression(ent, expr.Left)
		resolveExpression(ent, expr.Right)
	case ast.TypeUnaryOperation:
		resolveExpression(ent, expr.SubExpression)
	case ast.TypeFunctionCall:
		resolveExpression(ent, expr.Expression)
		for _, arg := range expr.Arguments {
			resolveExpression(ent, arg)
		}
	case ast.TypeIndexAccess:
		resolveExpression(ent, expr.Base)
		resolveExpression(ent, expr.Index)
	case ast.TypeTupleExpression:
		for _, c := range expr.Components {
			resolveExpression(ent, c)
		}
	case ast.TypeMemberAccess:
		resolveExpression(ent, expr.Expression)
	case ast.TypeConditional:
		resolveExpression(ent, expr.TrueExpression)
		resolveExpression(ent, expr.FalseExpression)
	case ast.TypeIdentifier:
		ent.addAssociation(expr.Name, RefMemory, false)
	case ast.TypeNewExpression:
		associateType(ent, expr.TypeName, RefMemory)
	}
}

// firstSegment normalizes a possibly library-qualified dotted path to its
// leading segment, the association target name.
func firstSegment(namePath string) string {
	if i := strings.IndexByte(namePath, '.'); i >= 0 {
		return namePath[:i]
	}
	return namePath
}
