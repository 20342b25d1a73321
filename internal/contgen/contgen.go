// Package contgen implements the Continuation-Interface Emitter: for every
// distinct arrow type appearing in a resolved program, it produces a small
// descriptor naming the interface a later phase would generate to let
// callers await that function's result uniformly regardless of its return
// type. The emitter only produces names and shapes; the interface body
// itself is synthesized by a phase this repository does not implement.
package contgen

import (
	"sort"

	"github.com/funvibe/ferrite/internal/resolve"
	"github.com/funvibe/ferrite/internal/typeterm"
)

// Operation is one method an emitted interface descriptor exposes.
type Operation struct {
	Name   string
	Params []typeterm.Type
	Result typeterm.Type
}

// Descriptor is the continuation-interface shape for one erased result type:
// a zero-argument accessor for the completed result, and a single-argument
// entry point taking the program's ambient context.
type Descriptor struct {
	// Name canonically identifies the descriptor by the arrow's erased
	// result type (e.g. "Bool", "Object").
	Name       string
	ResultType typeterm.Type
	Operations [2]Operation
}

func newDescriptor(resultType typeterm.Type, contextType typeterm.Type) Descriptor {
	name := typeterm.ErasedName(resultType)
	return Descriptor{
		Name:       name,
		ResultType: resultType,
		Operations: [2]Operation{
			{Name: "Result", Params: nil, Result: resultType},
			{Name: "Enter", Params: []typeterm.Type{contextType}, Result: typeterm.Primitive{Name: typeterm.Unit}},
		},
	}
}

// Emit walks prog's defs and hooks, collecting one Descriptor per distinct
// erased result type among the Arrow types it finds, in deterministic name
// order.
func Emit(prog *resolve.ResolvedProgram, contextType typeterm.Type) []Descriptor {
	seen := make(map[string]Descriptor)
	for _, def := range prog.ByID {
		collectArrows(def.Type, contextType, seen)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Descriptor, len(names))
	for i, name := range names {
		out[i] = seen[name]
	}
	return out
}

func collectArrows(t typeterm.Type, contextType typeterm.Type, seen map[string]Descriptor) {
	arrow, ok := t.(typeterm.Arrow)
	if !ok {
		return
	}
	d := newDescriptor(arrow.Result, contextType)
	if _, ok := seen[d.Name]; !ok {
		seen[d.Name] = d
	}
	collectArrows(arrow.Result, contextType, seen)
}
