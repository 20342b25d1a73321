package ast

import (
	"sort"

	"github.com/funvibe/ferrite/internal/source"
)

// Def is a top-level definition. A nullary value def has Params == nil; a
// function def's Body is conventionally a LambdaExpr.
type Def struct {
	Name           string
	Public         bool
	TypeAnnotation TypeExpr // optional
	Body           Expr
	Loc            source.Position
}

// EnumCase is a single declared case of an enum. PayloadType is nil for a
// unit-payload case (e.g. "case None"); resolution's eta-expansion rule
// branches on exactly this.
type EnumCase struct {
	Name        string
	PayloadType TypeExpr // nil means Unit payload
	Loc         source.Position
}

type EnumDecl struct {
	Name   string
	Public bool
	Cases  []EnumCase
	Loc    source.Position
}

// CaseNames returns the declared case names, for tag-membership tests.
func (e *EnumDecl) CaseNames() []string {
	names := make([]string, len(e.Cases))
	for i, c := range e.Cases {
		names[i] = c.Name
	}
	return names
}

// FindCase returns the declared case named name, if any.
func (e *EnumDecl) FindCase(name string) (EnumCase, bool) {
	for _, c := range e.Cases {
		if c.Name == name {
			return c, true
		}
	}
	return EnumCase{}, false
}

// OpaqueKind enumerates the namespace member kinds the core carries through
// resolution without interpreting: their own fixed-point/constraint
// semantics belong to a downstream solver this repository doesn't run.
type OpaqueKind int

const (
	KindLattice OpaqueKind = iota
	KindIndex
	KindTable
	KindConstraint
	KindProperty
)

func (k OpaqueKind) String() string {
	switch k {
	case KindLattice:
		return "lattice"
	case KindIndex:
		return "index"
	case KindTable:
		return "table"
	case KindConstraint:
		return "constraint"
	case KindProperty:
		return "property"
	default:
		return "opaque"
	}
}

// OpaqueMember is a lattice, index, table, constraint, or property
// declaration. Its Name goes through the Symbol & Name Registry like any
// other definition (so accessibility and ambiguity rules apply uniformly),
// but Embedded expressions are the only part the Expression Resolver walks;
// the declaration's own semantics belong to a downstream fixpoint solver
// that is out of scope here.
type OpaqueMember struct {
	Kind     OpaqueKind
	Name     string
	Public   bool
	Embedded []Expr
	Loc      source.Position
}

// AnonymousExpr is a named top-level expression with no surface declaration
// keyword around it; resolution wraps it in a synthetic definition.
type AnonymousExpr struct {
	Name string
	Body Expr
	Loc  source.Position
}

// HookDecl is an externally-provided definition registered by the embedding
// host. It resolves like a Def but has no source body.
type HookDecl struct {
	Name string
	Type TypeExpr
	Loc  source.Position
}

// Namespace is everything declared directly in one namespace (not counting
// descendants, which are separate Namespace entries keyed by their own
// dotted path).
type Namespace struct {
	Path      string // dotted path, "" for the root namespace
	Defs      []*Def
	Enums     []*EnumDecl
	Opaque    []*OpaqueMember
	Anonymous []*AnonymousExpr
}

func (ns *Namespace) FindDef(name string) (*Def, bool) {
	for _, d := range ns.Defs {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

func (ns *Namespace) FindEnum(name string) (*EnumDecl, bool) {
	for _, e := range ns.Enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Program is the pre-resolution program: a multi-map keyed by namespace,
// plus a hooks table keyed by fully-qualified name.
type Program struct {
	Namespaces map[string]*Namespace
	Hooks      map[string]*HookDecl
}

func NewProgram() *Program {
	return &Program{
		Namespaces: make(map[string]*Namespace),
		Hooks:      make(map[string]*HookDecl),
	}
}

// Namespace returns (creating if absent) the Namespace at path.
func (p *Program) Namespace(path string) *Namespace {
	if ns, ok := p.Namespaces[path]; ok {
		return ns
	}
	ns := &Namespace{Path: path}
	p.Namespaces[path] = ns
	return ns
}

// NamespaceNames returns every declared namespace path, sorted, so passes
// that must visit every namespace (tag disambiguation's global scan, among
// others) do so deterministically.
func (p *Program) NamespaceNames() []string {
	names := make([]string, 0, len(p.Namespaces))
	for n := range p.Namespaces {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AllEnums returns every (namespace, enum) pair across the whole program, in
// deterministic namespace order, for tag disambiguation's global scan over
// every enum in every namespace.
func (p *Program) AllEnums() []EnumInNamespace {
	var out []EnumInNamespace
	for _, nsName := range p.NamespaceNames() {
		ns := p.Namespaces[nsName]
		for _, e := range ns.Enums {
			out = append(out, EnumInNamespace{Namespace: nsName, Enum: e})
		}
	}
	return out
}

// EnumInNamespace pairs a declared enum with its declaring namespace.
type EnumInNamespace struct {
	Namespace string
	Enum      *EnumDecl
}
