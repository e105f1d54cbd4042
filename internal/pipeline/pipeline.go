// Package pipeline orchestrates extraction across many source units:
// exclude filtering, sequential or parallel per-file conversion, and
// loading finished batches into a graph store. The core stays synchronous;
// parallelism only ever spans independent files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/solscope/solscope/internal/ast"
	"github.com/solscope/solscope/internal/extract"
	"github.com/solscope/solscope/internal/graph"
)

// Source is one source unit ready for extraction.
type Source struct {
	// Path labels the unit; filesystem path in local mode, repository-relative
	// path in remote mode.
	Path string

	// Tree is the parsed source-unit syntax tree.
	Tree *ast.Node
}

// Enumerator supplies ordered sources. Implementations: SliceEnumerator
// (production and tests); callers hand the pipeline explicit paths, there
// is no directory crawling here.
type Enumerator interface {
	Sources(ctx context.Context) ([]Source, error)
}

// SliceEnumerator is an Enumerator over an in-memory slice.
type SliceEnumerator []Source

// Sources returns the slice in order.
func (s SliceEnumerator) Sources(_ context.Context) ([]Source, error) {
	return s, nil
}

// FileError attributes a fatal extraction error to its source path.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// Result is the aggregate outcome of one extraction run.
type Result struct {
	// RunID identifies this run in logs and exports.
	RunID string

	// Entities from all successfully converted files, in source order.
	Entities []*extract.Entity

	// Failures lists files whose conversion failed. Empty unless
	// ContinueOnError is set; a failed file contributes no entities.
	Failures []FileError
}

// Options configures a Pipeline.
type Options struct {
	// Remote selects remote-relative import resolution (no filesystem
	// access) for source fetched from a block explorer.
	Remote bool

	// ContinueOnError skips files that fail fatally instead of aborting the
	// run.
	ContinueOnError bool

	// ExcludePatterns are glob patterns (slash-separated) matched against
	// source paths; matching sources are skipped.
	ExcludePatterns []string

	// Logger may be nil for silent operation.
	Logger *slog.Logger
}

// Pipeline runs the extraction pass over batches of sources.
type Pipeline struct {
	extractor *extract.Extractor
	imports   *extract.ImportResolver
	excludes  []glob.Glob
	opts      Options
}

// New creates a Pipeline, compiling exclude patterns up front.
func New(opts Options) (*Pipeline, error) {
	excludes := make([]glob.Glob, 0, len(opts.ExcludePatterns))
	for _, pat := range opts.ExcludePatterns {
		g, err := glob.Compile(pat, '/')
		if err != nil {
			return nil, fmt.Errorf("pipeline: exclude pattern %q: %w", pat, err)
		}
		excludes = append(excludes, g)
	}
	return &Pipeline{
		extractor: extract.NewExtractor(opts.Logger),
		imports:   extract.NewImportResolver(opts.Remote, opts.Logger),
		excludes:  excludes,
		opts:      opts,
	}, nil
}

// Run processes sources sequentially. A file's entities join the aggregate
// only after that file converts fully, so a failure never leaks partial
// state into the result.
func (p *Pipeline) Run(ctx context.Context, sources []Source) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.excluded(src.Path) {
			continue
		}
		entities, err := p.extractFile(src)
		if err != nil {
			if !p.opts.ContinueOnError {
				return nil, err
			}
			p.log("file skipped", "path", src.Path, "error", err)
			res.Failures = append(res.Failures, FileError{Path: src.Path, Err: err})
			continue
		}
		res.Entities = append(res.Entities, entities...)
	}

	p.log("run complete", "runId", res.RunID,
		"entities", len(res.Entities), "failures", len(res.Failures))
	return res, nil
}

// RunParallel processes sources concurrently, at most limit files at a time.
// Files share no mutable state, and each file's outcome lands in its own
// slot, so the aggregate order matches the sequential run exactly.
func (p *Pipeline) RunParallel(ctx context.Context, sources []Source, limit int) (*Result, error) {
	if limit <= 1 {
		return p.Run(ctx, sources)
	}

	entities := make([][]*extract.Entity, len(sources))
	failures := make([]*FileError, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, src := range sources {
		if p.excluded(src.Path) {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ents, err := p.extractFile(src)
			if err != nil {
				if !p.opts.ContinueOnError {
					return err
				}
				failures[i] = &FileError{Path: src.Path, Err: err}
				return nil
			}
			entities[i] = ents
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	for i := range sources {
		res.Entities = append(res.Entities, entities[i]...)
		if failures[i] != nil {
			res.Failures = append(res.Failures, *failures[i])
		}
	}
	p.log("parallel run complete", "runId", res.RunID,
		"entities", len(res.Entities), "failures", len(res.Failures))
	return res, nil
}

// extractFile converts one source unit and stamps resolved imports onto its
// entities. The batch stays local until the caller appends it.
func (p *Pipeline) extractFile(src Source) ([]*extract.Entity, error) {
	absPath := src.Path
	if !p.opts.Remote {
		if abs, err := filepath.Abs(src.Path); err == nil {
			absPath = abs
		}
	}

	fileRes, err := p.extractor.ExtractSourceUnit(src.Tree, absPath, src.Path)
	if err != nil {
		return nil, err
	}

	resolved := p.imports.Resolve(fileRes.RawImports, src.Path)
	p.imports.Stamp(fileRes.Entities, resolved)
	return fileRes.Entities, nil
}

// Load pours a completed batch into a graph store. Association targets are
// sorted per entity so store contents are deterministic.
func Load(ctx context.Context, store graph.Store, entities []*extract.Entity) error {
	if err := store.InitSchema(ctx); err != nil {
		return fmt.Errorf("pipeline: init schema: %w", err)
	}
	for _, ent := range entities {
		if err := store.AddEntity(ctx, graph.RecordOf(ent)); err != nil {
			return fmt.Errorf("pipeline: add entity %s: %w", ent.Name, err)
		}
	}
	for _, ent := range entities {
		targets := make([]string, 0, len(ent.Associations))
		for t := range ent.Associations {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		for _, t := range targets {
			assoc := ent.Associations[t]
			edge := graph.Edge{
				Source:        ent.Name,
				Target:        t,
				ReferenceType: assoc.ReferenceType,
				Realization:   assoc.Realization,
			}
			if err := store.AddAssociation(ctx, edge); err != nil {
				return fmt.Errorf("pipeline: add association %s->%s: %w", ent.Name, t, err)
			}
		}
	}
	return nil
}

func (p *Pipeline) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, g := range p.excludes {
		if g.Match(slashed) {
			return true
		}
	}
	return false
}

func (p *Pipeline) log(msg string, args ...any) {
	if p.opts.Logger != nil {
		p.opts.Logger.Info(msg, args...)
	}
}
