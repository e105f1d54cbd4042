package extract

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ImportResolver rewrites the raw specifiers of import directives into
// concrete paths. Filesystem mode resolves against the real filesystem with
// node-style module resolution (relative join first, then a node_modules
// walk-up for bare specifiers, how Solidity tooling resolves
// "@openzeppelin/..." imports). Remote mode joins paths textually against
// the containing folder with no filesystem access, for source fetched from
// a block explorer.
type ImportResolver struct {
	remote bool
	logger *slog.Logger

	// stat is swappable in tests; defaults to os.Stat.
	stat func(string) (os.FileInfo, error)
}

// NewImportResolver creates a resolver. remote selects remote-relative
// resolution; logger may be nil.
func NewImportResolver(remote bool, logger *slog.Logger) *ImportResolver {
	return &ImportResolver{remote: remote, logger: logger, stat: os.Stat}
}

// Resolve turns raw import specifiers into resolved paths, preserving
// source order. Unresolvable imports are logged and omitted; import
// resolution never interrupts extraction, so no error is returned.
func (r *ImportResolver) Resolve(rawImports []string, fromPath string) []string {
	var resolved []string
	for _, raw := range rawImports {
		target, err := r.resolveOne(raw, fromPath)
		if err != nil {
			r.log("import omitted", "from", fromPath, "import", raw, "error", err)
			continue
		}
		resolved = append(resolved, target)
	}
	return resolved
}

// Stamp sets the resolved import list on every entity of a file. Called
// once, at the end of the file's processing.
func (r *ImportResolver) Stamp(entities []*Entity, resolved []string) {
	for _, ent := range entities {
		ent.ImportedPaths = resolved
	}
}

func (r *ImportResolver) resolveOne(raw, fromPath string) (string, error) {
	if r.remote {
		// Pure textual join against the containing folder.
		return path.Join(path.Dir(filepath.ToSlash(fromPath)), raw), nil
	}
	return r.resolveFilesystem(raw, fromPath)
}

func (r *ImportResolver) resolveFilesystem(raw, fromPath string) (string, error) {
	dir := filepath.Dir(fromPath)

	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") {
		candidate := filepath.Clean(filepath.Join(dir, raw))
		if r.exists(candidate) {
			return candidate, nil
		}
		return "", fmt.Errorf("%w: %s", ErrImportResolution, raw)
	}

	// Bare specifier: walk up from the importing file looking for
	// node_modules/<specifier>.
	for probe := dir; ; probe = filepath.Dir(probe) {
		candidate := filepath.Join(probe, "node_modules", filepath.FromSlash(raw))
		if r.exists(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
	}
	return "", fmt.Errorf("%w: %s", ErrImportResolution, raw)
}

func (r *ImportResolver) exists(p string) bool {
	_, err := r.stat(p)
	return err == nil
}

func (r *ImportResolver) log(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
