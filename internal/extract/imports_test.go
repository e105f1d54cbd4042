package extract

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStat reports existence for an explicit path set.
func fakeStat(existing ...string) func(string) (os.FileInfo, error) {
	set := make(map[string]bool, len(existing))
	for _, p := range existing {
		set[filepath.Clean(p)] = true
	}
	return func(p string) (os.FileInfo, error) {
		if set[filepath.Clean(p)] {
			return nil, nil
		}
		return nil, fs.ErrNotExist
	}
}

// ---------------------------------------------------------------------------
// TestImportResolver filesystem mode
// ---------------------------------------------------------------------------

func TestResolve_RelativeImport(t *testing.T) {
	r := NewImportResolver(false, nil)
	r.stat = fakeStat("/proj/contracts/ierc20.sol")

	got := r.Resolve([]string{"./ierc20.sol"}, "/proj/contracts/token.sol")

	assert.Equal(t, []string{filepath.Clean("/proj/contracts/ierc20.sol")}, got)
}

func TestResolve_ParentRelativeImport(t *testing.T) {
	r := NewImportResolver(false, nil)
	r.stat = fakeStat("/proj/lib/safemath.sol")

	got := r.Resolve([]string{"../lib/safemath.sol"}, "/proj/contracts/token.sol")

	assert.Equal(t, []string{filepath.Clean("/proj/lib/safemath.sol")}, got)
}

func TestResolve_BareSpecifierWalksUpNodeModules(t *testing.T) {
	r := NewImportResolver(false, nil)
	r.stat = fakeStat("/proj/node_modules/@openzeppelin/token.sol")

	got := r.Resolve(
		[]string{"@openzeppelin/token.sol"},
		"/proj/contracts/deep/nested/token.sol",
	)

	assert.Equal(t, []string{filepath.Clean("/proj/node_modules/@openzeppelin/token.sol")}, got)
}

func TestResolve_NearestNodeModulesWins(t *testing.T) {
	r := NewImportResolver(false, nil)
	r.stat = fakeStat(
		"/proj/contracts/node_modules/dep/a.sol",
		"/proj/node_modules/dep/a.sol",
	)

	got := r.Resolve([]string{"dep/a.sol"}, "/proj/contracts/token.sol")

	assert.Equal(t, []string{filepath.Clean("/proj/contracts/node_modules/dep/a.sol")}, got)
}

func TestResolve_UnresolvableOmittedNotFatal(t *testing.T) {
	r := NewImportResolver(false, nil)
	r.stat = fakeStat("/proj/contracts/good.sol")

	got := r.Resolve(
		[]string{"./missing.sol", "./good.sol", "nowhere/else.sol"},
		"/proj/contracts/token.sol",
	)

	// Failures are logged and skipped; survivors keep source order.
	assert.Equal(t, []string{filepath.Clean("/proj/contracts/good.sol")}, got)
}

// ---------------------------------------------------------------------------
// TestImportResolver remote mode
// ---------------------------------------------------------------------------

func TestResolve_RemoteJoinsTextually(t *testing.T) {
	r := NewImportResolver(true, nil)
	// No stat injection: remote mode must never touch the filesystem.
	r.stat = func(string) (os.FileInfo, error) {
		t.Fatal("remote resolution must not stat")
		return nil, nil
	}

	got := r.Resolve(
		[]string{"./ierc20.sol", "../lib/safemath.sol"},
		"contracts/token.sol",
	)

	assert.Equal(t, []string{"contracts/ierc20.sol", "lib/safemath.sol"}, got)
}

// ---------------------------------------------------------------------------
// TestStamp
// ---------------------------------------------------------------------------

func TestStamp_SetsPathsOnEveryEntity(t *testing.T) {
	r := NewImportResolver(true, nil)
	entities := []*Entity{
		NewEntity("A", StereotypeNone, "", "a.sol"),
		NewEntity("B", StereotypeInterface, "", "a.sol"),
	}
	resolved := []string{"contracts/ierc20.sol"}

	r.Stamp(entities, resolved)

	for _, ent := range entities {
		require.Equal(t, resolved, ent.ImportedPaths, ent.Name)
	}
}
