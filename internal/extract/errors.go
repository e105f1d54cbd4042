package extract

import "errors"

// Error taxonomy for the extraction pass. Callers classify failures with
// errors.Is; all fatal errors are wrapped with the originating file path
// before they leave the package.
var (
	// ErrStructural: the root node is not a source unit. Fatal for the file.
	ErrStructural = errors.New("extract: not a source unit")

	// ErrValidation: a visibility or contract-kind keyword outside the known
	// set. Fatal; signals a grammar/version mismatch between the tree and
	// this package, not a user-recoverable condition.
	ErrValidation = errors.New("extract: unknown keyword")

	// ErrFormat: a type-name node of unrecognized kind. Fatal.
	ErrFormat = errors.New("extract: unknown type name node")

	// ErrImportResolution: an import path could not be resolved. Non-fatal;
	// the import is omitted and extraction continues.
	ErrImportResolution = errors.New("extract: unresolvable import")
)
