package pipeline

import (
	"testing"
	"time"

	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/pipelinecfg"
	"github.com/funvibe/ferrite/internal/simplified"
	"github.com/funvibe/ferrite/internal/source"
	"github.com/funvibe/ferrite/internal/typeterm"
)

func loc(line int) source.Position { return source.Position{File: "t.fx", Line: line} }

func programWithConstantFold() *ast.Program {
	prog := ast.NewProgram()
	sum := ast.NewBinaryExpr("+", ast.NewIntExpr(32, 1, loc(1)), ast.NewIntExpr(32, 1, loc(1)), loc(1))
	prog.Namespace("").Defs = append(prog.Namespace("").Defs, &ast.Def{
		Name:   "answer",
		Public: true,
		Body:   sum,
		Loc:    loc(1),
	})
	return prog
}

func TestDefaultPipelineRunsEndToEnd(t *testing.T) {
	prog := programWithConstantFold()
	p := Default(typeterm.Primitive{Name: typeterm.Native})
	ctx := p.Run(prog, pipelinecfg.Default())

	if ctx.Fatal != nil {
		t.Fatalf("unexpected fatal: %v", ctx.Fatal)
	}
	if ctx.RunID.String() == "" {
		t.Fatalf("expected a minted run id")
	}
	def := ctx.Resolved.ByQualifiedName["answer"]
	if def == nil {
		t.Fatalf("expected answer to resolve")
	}
	evaluated, ok := ctx.Evaluated[def.Sym.String()]
	if !ok {
		t.Fatalf("expected answer's evaluated form to be recorded")
	}
	lit, ok := evaluated.(simplified.Int32Lit)
	if !ok || lit.Value != 2 {
		t.Fatalf("expected constant folding to produce Int32(2), got %#v", evaluated)
	}
	if len(ctx.ContGen) != 0 {
		t.Fatalf("expected no continuation descriptors for a program with no arrow types, got %v", ctx.ContGen)
	}
}

func TestPipelineRecordsPerStageTimings(t *testing.T) {
	origNow, origSince := timeNow, timeSince
	defer func() { timeNow, timeSince = origNow, origSince }()

	var tick int
	timeNow = func() time.Time {
		tick++
		return time.Unix(int64(tick), 0)
	}
	timeSince = func(start time.Time) time.Duration {
		return time.Unix(int64(tick+1), 0).Sub(start)
	}

	prog := programWithConstantFold()
	cfg := pipelinecfg.Default()
	cfg.EmitTiming = true
	ctx := Default(typeterm.Primitive{Name: typeterm.Native}).Run(prog, cfg)

	for _, name := range []string{"resolve", "eval", "contgen"} {
		if _, ok := ctx.Timings[name]; !ok {
			t.Fatalf("expected a timing entry for stage %q, got %v", name, ctx.Timings)
		}
	}
}

func TestPipelineSkipsTimingWhenDisabled(t *testing.T) {
	prog := programWithConstantFold()
	cfg := pipelinecfg.Default()
	cfg.EmitTiming = false
	ctx := Default(typeterm.Primitive{Name: typeterm.Native}).Run(prog, cfg)
	if len(ctx.Timings) != 0 {
		t.Fatalf("expected no timings recorded when EmitTiming is false, got %v", ctx.Timings)
	}
}

func TestStrictAccessibilityAbortsThePass(t *testing.T) {
	prog := ast.NewProgram()
	hDef := &ast.Def{Name: "h", Public: false, Body: ast.NewUnitExpr(loc(1)), Loc: loc(1)}
	prog.Namespace("X").Defs = append(prog.Namespace("X").Defs, hDef)
	useDef := &ast.Def{
		Name: "use",
		Body: ast.NewDefExpr(ast.QualifiedName("X", "h", loc(2)), loc(2)),
		Loc:  loc(2),
	}
	prog.Namespace("Y").Defs = append(prog.Namespace("Y").Defs, useDef)

	cfg := pipelinecfg.Default()
	cfg.StrictAccessibility = true
	ctx := New(&ResolveStage{}, &PartialEvalStage{}).Run(prog, cfg)

	if ctx.Fatal == nil {
		t.Fatalf("expected strict accessibility to abort the pass with a fatal")
	}
	if ctx.Evaluated != nil {
		t.Fatalf("expected the eval stage to never run once resolve aborted, got %v", ctx.Evaluated)
	}
}

func TestNonStrictAccessibilityJustRecordsDiagnostic(t *testing.T) {
	prog := ast.NewProgram()
	hDef := &ast.Def{Name: "h", Public: false, Body: ast.NewUnitExpr(loc(1)), Loc: loc(1)}
	prog.Namespace("X").Defs = append(prog.Namespace("X").Defs, hDef)
	useDef := &ast.Def{
		Name: "use",
		Body: ast.NewDefExpr(ast.QualifiedName("X", "h", loc(2)), loc(2)),
		Loc:  loc(2),
	}
	prog.Namespace("Y").Defs = append(prog.Namespace("Y").Defs, useDef)

	ctx := New(&ResolveStage{}).Run(prog, pipelinecfg.Default())
	if ctx.Fatal != nil {
		t.Fatalf("expected no fatal when strict accessibility is off, got %v", ctx.Fatal)
	}
	found := false
	for _, d := range ctx.Diagnostics.Items() {
		if d.Code == diagnostics.InaccessibleDef {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the inaccessibility to still be recorded as a diagnostic")
	}
}

func TestPartialEvalStageSkipsHooks(t *testing.T) {
	prog := ast.NewProgram()
	prog.Hooks["external"] = &ast.HookDecl{
		Name: "external",
		Type: ast.NamedType{Name: "Int"},
		Loc:  loc(1),
	}
	ctx := New(&ResolveStage{}, &PartialEvalStage{}).Run(prog, pipelinecfg.Default())
	if ctx.Fatal != nil {
		t.Fatalf("unexpected fatal: %v", ctx.Fatal)
	}
	hook := ctx.Resolved.ByQualifiedName["external"]
	if hook == nil {
		t.Fatalf("expected the hook to resolve")
	}
	if _, ok := ctx.Evaluated[hook.Sym.String()]; ok {
		t.Fatalf("expected hooks to be excluded from partial evaluation")
	}
}
