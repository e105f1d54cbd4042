package extract

import (
	"fmt"
	"regexp"
)

// ClassifyContractKind maps a contract declaration keyword to an entity
// stereotype. The keyword set is closed; anything else means the tree was
// produced by a grammar this package does not know.
func ClassifyContractKind(kind string) (Stereotype, error) {
	switch kind {
	case "contract":
		return StereotypeNone, nil
	case "interface":
		return StereotypeInterface, nil
	case "library":
		return StereotypeLibrary, nil
	case "abstract":
		return StereotypeAbstract, nil
	default:
		return StereotypeNone, fmt.Errorf("%w: contract kind %q", ErrValidation, kind)
	}
}

// MapVisibility maps a raw visibility keyword to its canonical form.
// An absent keyword ("default") means public.
func MapVisibility(visibility string) (Visibility, error) {
	switch visibility {
	case "", "default", "public":
		return VisibilityPublic, nil
	case "external":
		return VisibilityExternal, nil
	case "internal":
		return VisibilityInternal, nil
	case "private":
		return VisibilityPrivate, nil
	default:
		return VisibilityNone, fmt.Errorf("%w: visibility %q", ErrValidation, visibility)
	}
}

// elementaryTypePattern matches Solidity's elementary type keywords,
// including the sized int/uint/bytes/fixed families.
var elementaryTypePattern = regexp.MustCompile(
	`^(address|bool|string|var|byte|bytes([1-9]|[12][0-9]|3[0-2])?|u?int(8|16|24|32|40|48|56|64|72|80|88|96|104|112|120|128|136|144|152|160|168|176|184|192|200|208|216|224|232|240|248|256)?|u?fixed[0-9x]*)$`,
)

// isElementaryTypeName reports whether name is an elementary (primitive)
// Solidity type. Elementary names never become association targets.
func isElementaryTypeName(name string) bool {
	return elementaryTypePattern.MatchString(name)
}
