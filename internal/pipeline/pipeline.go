// Package pipeline wires the eight components together into the two staged
// passes the type checker and code generator each see: resolution (A–E)
// followed by partial evaluation (F–G), with continuation-interface emission
// (H) run last over the finished program's type set. It follows the
// teacher's staged Pipeline/Processor shape (internal/pipeline in the
// teacher repo), generalized from its single-Process-method Processor to a
// small Stage interface that also names itself for the timing breakdown.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/contgen"
	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/eval"
	"github.com/funvibe/ferrite/internal/pipelinecfg"
	"github.com/funvibe/ferrite/internal/resolve"
	"github.com/funvibe/ferrite/internal/simplified"
	"github.com/funvibe/ferrite/internal/symbols"
	"github.com/funvibe/ferrite/internal/typeterm"
)

// Context is the mutable state threaded through every stage. Stages read and
// extend it; nothing downstream of resolution ever mutates the ast.Program
// or the symbols.Registry, mirroring "environments are immutable, only the
// fresh-symbol counter is shared mutable state" from spec.md §5.
type Context struct {
	RunID  uuid.UUID
	Config pipelinecfg.Config

	Registry *symbols.Registry
	Program  *ast.Program

	Resolved    *resolve.ResolvedProgram
	Diagnostics *diagnostics.Bag

	// Evaluated holds the partially-evaluated body of every resolved def,
	// keyed the same way as Resolved.ByID. Hooks have no entry.
	Evaluated map[string]simplified.Expr

	ContGen []contgen.Descriptor

	Timings map[string]time.Duration

	// Fatal captures an *diagnostics.InternalError recovered at Run's
	// boundary; a non-nil Fatal means the pass was aborted mid-stage.
	Fatal *diagnostics.InternalError
}

// Stage is one named step of the pipeline. Process mutates ctx in place;
// a stage that cannot proceed (e.g. resolution failed) should simply leave
// downstream fields unset rather than panic, reserving panic for the
// diagnostics.Fatal internal-compiler-error convention.
type Stage interface {
	Name() string
	Process(ctx *Context)
}

// Pipeline runs an ordered sequence of stages, timing each one.
type Pipeline struct {
	stages []Stage
}

// New builds a Pipeline from stages, run in the given order. Callers
// typically pass ResolveStage, PartialEvalStage, ContGenStage in that
// order; the type is exported so tests can assemble a subset (e.g. just
// ResolveStage) without running the whole thing.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Default builds the standard pipeline: resolution, then partial
// evaluation, then continuation-interface emission, against the given
// ambient-context type (the ContGenStage's descriptors are shaped around a
// single host context type the later phase's "Enter" entry point takes).
func Default(contextType typeterm.Type) *Pipeline {
	return New(&ResolveStage{}, &PartialEvalStage{}, &ContGenStage{ContextType: contextType})
}

// Run executes the pipeline over prog under cfg, recovering any
// diagnostics.InternalError raised by a stage (the only panic convention
// this codebase uses) at this outermost boundary, and returns the final
// Context regardless of whether earlier stages failed — independent
// stages' diagnostics all still get returned, matching spec.md §7's
// "accumulate, don't stop at the first error" rule applied across stages,
// not just within a single stage's subtrees.
func (p *Pipeline) Run(prog *ast.Program, cfg pipelinecfg.Config) (ctx *Context) {
	ctx = &Context{
		RunID:    uuid.New(),
		Config:   cfg,
		Registry: symbols.NewRegistry(),
		Program:  prog,
		Timings:  make(map[string]time.Duration),
	}

	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(*diagnostics.InternalError); ok {
				ctx.Fatal = ie
				return
			}
			panic(r)
		}
	}()

	for _, stage := range p.stages {
		if ctx.Fatal != nil {
			break
		}
		start := timeNow()
		stage.Process(ctx)
		if cfg.EmitTiming {
			ctx.Timings[stage.Name()] = timeSince(start)
		}
	}
	return ctx
}

// timeNow/timeSince are indirections purely so this package's own tests can
// run deterministically; production callers always get wall-clock time.
var (
	timeNow   = time.Now
	timeSince = time.Since
)

// ResolveStage runs components A–E: the Symbol & Name Registry, Type
// Elaborator, Accessibility Oracle, Enum/Tag Disambiguator, and Expression
// Resolver, via internal/resolve.Resolve.
type ResolveStage struct{}

func (s *ResolveStage) Name() string { return "resolve" }

func (s *ResolveStage) Process(ctx *Context) {
	resolved, bag := resolve.Resolve(ctx.Registry, ctx.Program)
	ctx.Resolved = resolved
	ctx.Diagnostics = bag
	if ctx.Config.StrictAccessibility {
		for _, d := range bag.Items() {
			if d.Code == diagnostics.InaccessibleDef || d.Code == diagnostics.InaccessibleEnum {
				diagnostics.Fatal("pipeline.ResolveStage", "strict_accessibility: "+d.Error(), d.Loc)
			}
		}
	}
}

// PartialEvalStage runs components F–G: the partial evaluator and the
// syntactic equality oracle, with canonicalization applied to every
// residual when the pipeline configuration enables it.
type PartialEvalStage struct{}

func (s *PartialEvalStage) Name() string { return "eval" }

func (s *PartialEvalStage) Process(ctx *Context) {
	if ctx.Resolved == nil {
		return
	}
	ev := eval.New(ctx.Resolved).WithMaxDepth(ctx.Config.MaxRecursionDepth)
	out := make(map[string]simplified.Expr, len(ctx.Resolved.ByID))
	for id, def := range ctx.Resolved.ByID {
		if def.Hook {
			continue
		}
		reduced := ev.Eval(def.Body, simplified.EmptyEnv)
		if ctx.Config.EnableCanonicalization {
			reduced = eval.Canonicalize(reduced)
		}
		out[id] = reduced
	}
	ctx.Evaluated = out
}

// ContGenStage runs component H: for every distinct arrow type appearing in
// the resolved program, emit a continuation-interface descriptor. It reads
// the finished program's type set only, as spec.md §2's data flow diagram
// requires ("H reads the finished program's type set").
type ContGenStage struct {
	ContextType typeterm.Type
}

func (s *ContGenStage) Name() string { return "contgen" }

func (s *ContGenStage) Process(ctx *Context) {
	if ctx.Resolved == nil {
		return
	}
	contextType := s.ContextType
	if contextType == nil {
		contextType = typeterm.Primitive{Name: typeterm.Native}
	}
	ctx.ContGen = contgen.Emit(ctx.Resolved, contextType)
}
