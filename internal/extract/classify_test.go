package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// TestClassifyContractKind
// ---------------------------------------------------------------------------

func TestClassifyContractKind(t *testing.T) {
	cases := []struct {
		kind string
		want Stereotype
	}{
		{"contract", StereotypeNone},
		{"interface", StereotypeInterface},
		{"library", StereotypeLibrary},
		{"abstract", StereotypeAbstract},
	}
	for _, tc := range cases {
		got, err := ClassifyContractKind(tc.kind)
		require.NoError(t, err, "kind %q", tc.kind)
		assert.Equal(t, tc.want, got, "kind %q", tc.kind)
	}
}

func TestClassifyContractKind_Unknown(t *testing.T) {
	_, err := ClassifyContractKind("proxy")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

// ---------------------------------------------------------------------------
// TestMapVisibility
// ---------------------------------------------------------------------------

func TestMapVisibility(t *testing.T) {
	cases := []struct {
		raw  string
		want Visibility
	}{
		{"", VisibilityPublic},
		{"default", VisibilityPublic},
		{"public", VisibilityPublic},
		{"external", VisibilityExternal},
		{"internal", VisibilityInternal},
		{"private", VisibilityPrivate},
	}
	for _, tc := range cases {
		got, err := MapVisibility(tc.raw)
		require.NoError(t, err, "visibility %q", tc.raw)
		assert.Equal(t, tc.want, got, "visibility %q", tc.raw)
	}
}

func TestMapVisibility_Unknown(t *testing.T) {
	_, err := MapVisibility("friend")
	assert.ErrorIs(t, err, ErrValidation)
}

// ---------------------------------------------------------------------------
// TestIsElementaryTypeName
// ---------------------------------------------------------------------------

func TestIsElementaryTypeName(t *testing.T) {
	elementary := []string{
		"address", "bool", "string", "var", "byte",
		"bytes", "bytes1", "bytes32",
		"int", "uint", "int8", "uint256", "int128",
		"fixed", "ufixed128x18",
	}
	for _, name := range elementary {
		assert.True(t, isElementaryTypeName(name), "%q should be elementary", name)
	}

	userDefined := []string{
		"MyContract", "IERC20", "bytes33", "uint257", "uint9",
		"addressBook", "Structs",
	}
	for _, name := range userDefined {
		assert.False(t, isElementaryTypeName(name), "%q should not be elementary", name)
	}
}
