// Package diagnostics implements two distinct error classes.
//
// User errors (from resolution) are accumulated into a Bag across
// independent subtrees rather than short-circuited at the first failure,
// deduplicated by location, code and name, and only fail the overall pass once
// every subtree has been visited.
//
// Internal compiler errors are invariant violations: they are fatal and
// terminate the pass immediately, so they are modeled as a distinct type
// raised via panic/recover at the pipeline boundary instead of being
// accumulated.
package diagnostics

import (
	"fmt"
	"sort"

	"github.com/funvibe/ferrite/internal/source"
)

// Code is a machine-readable diagnostic tag.
type Code string

const (
	UndefinedDef     Code = "UndefinedDef"
	UndefinedTable   Code = "UndefinedTable"
	UndefinedType    Code = "UndefinedType"
	UndefinedTag     Code = "UndefinedTag"
	AmbiguousRef     Code = "AmbiguousRef"
	AmbiguousTag     Code = "AmbiguousTag"
	InaccessibleDef  Code = "InaccessibleDef"
	InaccessibleEnum Code = "InaccessibleEnum"
)

// Diagnostic is a single user-facing error: a source location, the offending
// name, the enclosing namespace, and a machine-readable code.
type Diagnostic struct {
	Code      Code
	Name      string
	Namespace string
	Loc       source.Position
	Message   string
	// Candidates lists alternative locations for ambiguity diagnostics
	// (AmbiguousTag, AmbiguousRef), sorted for determinism.
	Candidates []string
}

func (d *Diagnostic) Error() string {
	if d.Message != "" {
		return fmt.Sprintf("%s: %s (%s, in %s)", d.Code, d.Message, d.Loc, d.Namespace)
	}
	return fmt.Sprintf("%s: %s (%s, in %s)", d.Code, d.Name, d.Loc, d.Namespace)
}

// key is the dedup key for the Bag: location, code, and name together.
func (d *Diagnostic) key() string {
	return fmt.Sprintf("%s:%d:%d:%s:%s", d.Loc.File, d.Loc.Line, d.Loc.Column, d.Code, d.Name)
}

// Bag accumulates diagnostics across independent subtrees without
// short-circuiting, deduplicating repeats of the same diagnostic at the same
// location (e.g. from a name being re-walked by more than one pass).
type Bag struct {
	seen  map[string]bool
	items []*Diagnostic
}

func NewBag() *Bag {
	return &Bag{seen: make(map[string]bool)}
}

func (b *Bag) Add(d *Diagnostic) {
	key := d.key()
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.items = append(b.items, d)
}

func (b *Bag) Addf(code Code, namespace, name string, loc source.Position, format string, args ...any) {
	b.Add(&Diagnostic{Code: code, Name: name, Namespace: namespace, Loc: loc, Message: fmt.Sprintf(format, args...)})
}

func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
}

func (b *Bag) Items() []*Diagnostic {
	return b.items
}

func (b *Bag) HasErrors() bool {
	return len(b.items) > 0
}

// SortedCandidates sorts a set of candidate locations for deterministic
// diagnostic output.
func SortedCandidates(locs []string) []string {
	out := append([]string(nil), locs...)
	sort.Strings(out)
	return out
}

// InternalError represents an invariant violation: an unresolved variable
// escaping resolution, an illegal node kind reaching the partial evaluator,
// or a boxing node surviving into this phase. These are always fatal;
// callers recover them at the pipeline boundary rather than add them to a
// Bag.
type InternalError struct {
	Construct string
	Detail    string
	Loc       source.Position
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error: %s: %s (%s)", e.Construct, e.Detail, e.Loc)
}

// Fatal panics with an *InternalError, the single call site every "this must
// never happen" check in this repository goes through.
func Fatal(construct, detail string, loc source.Position) {
	panic(&InternalError{Construct: construct, Detail: detail, Loc: loc})
}
