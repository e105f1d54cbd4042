// Package extract converts Solidity source-unit syntax trees into an
// entity-and-relationship model: one Entity per contract, interface,
// library, abstract contract, struct, or enum, each carrying its members and
// a set of directed associations to other entities.
package extract

// --- Enums ---

// Stereotype classifies an extracted entity.
type Stereotype string

const (
	StereotypeNone      Stereotype = "none"
	StereotypeInterface Stereotype = "interface"
	StereotypeLibrary   Stereotype = "library"
	StereotypeAbstract  Stereotype = "abstract"
	StereotypeStruct    Stereotype = "struct"
	StereotypeEnum      Stereotype = "enum"
)

// OperatorStereotype classifies a function-like member.
type OperatorStereotype string

const (
	OperatorNone     OperatorStereotype = "none"
	OperatorAbstract OperatorStereotype = "abstract"
	OperatorPayable  OperatorStereotype = "payable"
	OperatorFallback OperatorStereotype = "fallback"
	OperatorModifier OperatorStereotype = "modifier"
	OperatorEvent    OperatorStereotype = "event"
)

// Visibility is the canonical visibility of an attribute or operator.
type Visibility string

const (
	VisibilityNone     Visibility = ""
	VisibilityPublic   Visibility = "public"
	VisibilityExternal Visibility = "external"
	VisibilityInternal Visibility = "internal"
	VisibilityPrivate  Visibility = "private"
)

// ReferenceType distinguishes how an association was discovered: through a
// persistent contract-state declaration (storage) or a transient local,
// parameter, or expression-level reference (memory).
type ReferenceType string

const (
	RefStorage ReferenceType = "storage"
	RefMemory  ReferenceType = "memory"
)

// --- Models ---

// Parameter is one function parameter or return value.
type Parameter struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type"`
}

// Attribute is one state variable or struct/enum member, in declaration order.
type Attribute struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Visibility Visibility `json:"visibility,omitempty"`
}

// Operator is one function, constructor, fallback, modifier, or event.
type Operator struct {
	Name             string             `json:"name"`
	Stereotype       OperatorStereotype `json:"stereotype"`
	Visibility       Visibility         `json:"visibility,omitempty"`
	Parameters       []Parameter        `json:"parameters,omitempty"`
	ReturnParameters []Parameter        `json:"returnParameters,omitempty"`
	IsPayable        bool               `json:"isPayable,omitempty"`
}

// Association is a directed edge from the owning entity to a named target.
type Association struct {
	ReferenceType ReferenceType `json:"referenceType"`
	Realization   bool          `json:"realization"`
}

// Entity is the extracted representation of one top-level declaration.
// Attributes and operators preserve declaration order; diagram layout is
// order-sensitive. Once a file's conversion completes, an Entity is never
// mutated again.
type Entity struct {
	Name       string     `json:"name"`
	Stereotype Stereotype `json:"stereotype"`

	AbsolutePath string `json:"absolutePath,omitempty"`
	RelativePath string `json:"relativePath,omitempty"`

	Attributes []Attribute `json:"attributes,omitempty"`
	Operators  []Operator  `json:"operators,omitempty"`

	// Nested struct/enum declarations stay on the owning entity; they are
	// not promoted to top-level entities.
	Structs map[string][]Attribute `json:"structs,omitempty"`
	Enums   map[string][]Attribute `json:"enums,omitempty"`

	Associations map[string]Association `json:"associations,omitempty"`

	ImportedPaths []string `json:"importedPaths,omitempty"`
}

// NewEntity creates an Entity with initialized maps.
func NewEntity(name string, stereotype Stereotype, absPath, relPath string) *Entity {
	return &Entity{
		Name:         name,
		Stereotype:   stereotype,
		AbsolutePath: absPath,
		RelativePath: relPath,
		Structs:      make(map[string][]Attribute),
		Enums:        make(map[string][]Attribute),
		Associations: make(map[string]Association),
	}
}

// addAssociation records a directed edge to target, applying the merge
// policy: one record per target, realization is sticky-true, and the
// reference type set on first discovery is never downgraded. Self-references
// and elementary type names are filtered here, so repeated resolution of the
// same nodes is idempotent.
func (e *Entity) addAssociation(target string, ref ReferenceType, realization bool) {
	if target == "" || target == e.Name || isElementaryTypeName(target) {
		return
	}
	existing, ok := e.Associations[target]
	if !ok {
		e.Associations[target] = Association{ReferenceType: ref, Realization: realization}
		return
	}
	if realization && !existing.Realization {
		existing.Realization = true
		e.Associations[target] = existing
	}
}
