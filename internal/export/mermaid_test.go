package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solscope/solscope/internal/extract"
	"github.com/solscope/solscope/internal/graph"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func tokenEntity() *extract.Entity {
	ent := extract.NewEntity("Token", extract.StereotypeNone, "/abs/token.sol", "token.sol")
	ent.Attributes = []extract.Attribute{
		{Name: "totalSupply", Type: "uint256", Visibility: extract.VisibilityPublic},
		{Name: "owner", Type: "address", Visibility: extract.VisibilityPrivate},
	}
	ent.Operators = []extract.Operator{
		{Name: "constructor", Stereotype: extract.OperatorNone,
			Parameters: []extract.Parameter{{Name: "supply", Type: "uint256"}}},
		{Name: "transfer", Stereotype: extract.OperatorNone, Visibility: extract.VisibilityPublic,
			Parameters:       []extract.Parameter{{Name: "to", Type: "address"}},
			ReturnParameters: []extract.Parameter{{Type: "bool"}}},
		{Name: "", Stereotype: extract.OperatorFallback, IsPayable: true},
	}
	ent.Associations["IERC20"] = extract.Association{ReferenceType: extract.RefStorage, Realization: true}
	ent.Associations["Checkpoint"] = extract.Association{ReferenceType: extract.RefStorage}
	ent.Associations["SafeMath"] = extract.Association{ReferenceType: extract.RefMemory}
	return ent
}

// ---------------------------------------------------------------------------
// TestGenerateClassDiagram
// ---------------------------------------------------------------------------

func TestGenerateClassDiagram_ClassBlocks(t *testing.T) {
	iface := extract.NewEntity("IERC20", extract.StereotypeInterface, "", "ierc20.sol")
	diagram := GenerateClassDiagram([]*extract.Entity{tokenEntity(), iface}, nil)

	assert.True(t, strings.HasPrefix(diagram, "classDiagram\n"))
	assert.Contains(t, diagram, "class Token {")
	assert.Contains(t, diagram, "class IERC20 {")
	assert.Contains(t, diagram, "<<interface>>")

	// Visibility glyphs on members.
	assert.Contains(t, diagram, "+uint256 totalSupply")
	assert.Contains(t, diagram, "-address owner")
	assert.Contains(t, diagram, "+transfer(address to) bool")

	// Constructors carry no visibility glyph; the nameless fallback gets a
	// synthetic name and its stereotype suffix.
	assert.Contains(t, diagram, "constructor(uint256 supply)")
	assert.Contains(t, diagram, "fallback() «fallback»")
}

func TestGenerateClassDiagram_ArrowStyles(t *testing.T) {
	diagram := GenerateClassDiagram([]*extract.Entity{tokenEntity()}, nil)

	assert.Contains(t, diagram, "Token --|> IERC20", "realization")
	assert.Contains(t, diagram, "Token --> Checkpoint", "storage reference")
	assert.Contains(t, diagram, "Token ..> SafeMath", "memory reference")
}

func TestGenerateClassDiagram_ClusterNote(t *testing.T) {
	clusters := []graph.ClusterNode{
		{Name: "IERC20", Members: []string{"IERC20", "Token"}},
	}
	diagram := GenerateClassDiagram([]*extract.Entity{tokenEntity()}, clusters)

	assert.Contains(t, diagram, "Token : IERC20 hierarchy")
}

func TestGenerateClassDiagram_Stable(t *testing.T) {
	entities := []*extract.Entity{tokenEntity()}
	first := GenerateClassDiagram(entities, nil)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, GenerateClassDiagram(entities, nil),
			"association ordering must not depend on map iteration")
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "mappingaddress=uint256", sanitize("mapping(address=>uint256)"))
	assert.Equal(t, "Token", sanitize("Token"))
}
