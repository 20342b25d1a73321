package contgen

import (
	"testing"

	"github.com/funvibe/ferrite/internal/resolve"
	"github.com/funvibe/ferrite/internal/typeterm"
)

func ctxType() typeterm.Type { return typeterm.Primitive{Name: typeterm.Native} }

func TestEmitCollectsDistinctErasedResultTypes(t *testing.T) {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	intT := typeterm.Primitive{Name: typeterm.Int32}
	prog := &resolve.ResolvedProgram{
		ByID: map[string]*resolve.ResolvedDef{
			"f#1": {Type: typeterm.Arrow{Params: []typeterm.Type{intT}, Result: boolT}},
			"g#2": {Type: typeterm.Arrow{Params: []typeterm.Type{boolT}, Result: intT}},
			"h#3": {Type: boolT}, // not an arrow, contributes nothing
		},
	}

	descs := Emit(prog, ctxType())
	if len(descs) != 2 {
		t.Fatalf("expected 2 distinct descriptors, got %d: %v", len(descs), descs)
	}
	if descs[0].Name != typeterm.Bool || descs[1].Name != typeterm.Int32 {
		t.Fatalf("expected descriptors sorted by name [Bool, Int32], got %v", descs)
	}
}

func TestEmitDeduplicatesByErasedName(t *testing.T) {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	intT := typeterm.Primitive{Name: typeterm.Int32}
	prog := &resolve.ResolvedProgram{
		ByID: map[string]*resolve.ResolvedDef{
			"f#1": {Type: typeterm.Arrow{Params: []typeterm.Type{intT}, Result: boolT}},
			"g#2": {Type: typeterm.Arrow{Params: []typeterm.Type{intT}, Result: boolT}},
		},
	}
	descs := Emit(prog, ctxType())
	if len(descs) != 1 {
		t.Fatalf("expected a single deduplicated descriptor, got %d", len(descs))
	}
}

func TestEmitFollowsCurriedArrowResults(t *testing.T) {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	intT := typeterm.Primitive{Name: typeterm.Int32}
	strT := typeterm.Primitive{Name: typeterm.Str}
	curried := typeterm.Arrow{Params: []typeterm.Type{intT}, Result: typeterm.Arrow{Params: []typeterm.Type{boolT}, Result: strT}}
	prog := &resolve.ResolvedProgram{
		ByID: map[string]*resolve.ResolvedDef{"f#1": {Type: curried}},
	}
	descs := Emit(prog, ctxType())
	names := map[string]bool{}
	for _, d := range descs {
		names[d.Name] = true
	}
	if !names[typeterm.Str] {
		t.Fatalf("expected the innermost result type to be collected, got %v", descs)
	}
}

func TestDescriptorShapesCarryResultAndEnterOperations(t *testing.T) {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	prog := &resolve.ResolvedProgram{
		ByID: map[string]*resolve.ResolvedDef{
			"f#1": {Type: typeterm.Arrow{Result: boolT}},
		},
	}
	descs := Emit(prog, ctxType())
	if len(descs) != 1 {
		t.Fatalf("expected one descriptor")
	}
	d := descs[0]
	if d.Operations[0].Name != "Result" || len(d.Operations[0].Params) != 0 {
		t.Fatalf("expected a zero-argument Result accessor, got %v", d.Operations[0])
	}
	if d.Operations[1].Name != "Enter" || len(d.Operations[1].Params) != 1 {
		t.Fatalf("expected a single-argument Enter entry point, got %v", d.Operations[1])
	}
	if !typeterm.Equal(d.Operations[1].Params[0], ctxType()) {
		t.Fatalf("expected Enter's parameter to be the ambient context type")
	}
}

func TestEmitEmptyProgramYieldsNoDescriptors(t *testing.T) {
	prog := &resolve.ResolvedProgram{ByID: map[string]*resolve.ResolvedDef{}}
	if descs := Emit(prog, ctxType()); len(descs) != 0 {
		t.Fatalf("expected no descriptors for an empty program, got %v", descs)
	}
}
