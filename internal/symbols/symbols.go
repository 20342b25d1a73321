// Package symbols interns qualified names and mints canonical symbol
// identities for defs, enums, tags, and fresh variables.
//
// This is the single owner of the fresh-symbol counter, the only piece of
// mutable global state in the pipeline; it is accessed through a single
// owner that guarantees monotonicity, and no other component mutates shared
// state. Every *Sym this package hands out is, by construction, distinct by
// pointer identity.
package symbols

import (
	"fmt"

	"github.com/funvibe/ferrite/internal/source"
)

// Kind distinguishes what kind of name a Sym denotes.
type Kind int

const (
	KindDefn Kind = iota
	KindHole
	KindFreshVar
)

func (k Kind) String() string {
	switch k {
	case KindDefn:
		return "defn"
	case KindHole:
		return "hole"
	case KindFreshVar:
		return "freshvar"
	default:
		return "unknown"
	}
}

// Sym is the canonical handle produced by resolving a name. Symbols are
// compared by identity — always compare *Sym pointers, never dereference
// and compare by value.
type Sym struct {
	ID        uint64
	Namespace string
	Ident     string
	Loc       source.Position
	Kind      Kind
}

// String renders a qualified display name, e.g. "a.b.f#12".
func (s *Sym) String() string {
	if s == nil {
		return "<nil>"
	}
	if s.Namespace == "" {
		return fmt.Sprintf("%s#%d", s.Ident, s.ID)
	}
	return fmt.Sprintf("%s.%s#%d", s.Namespace, s.Ident, s.ID)
}

// Registry interns names into symbols and mints fresh ones. It is the only
// place in the whole pipeline that generates identity — every other
// component is handed a *Registry and asks it for symbols rather than
// constructing Sym values itself.
type Registry struct {
	counter uint64
	defs    map[string]*Sym
	holes   map[string]*Sym
}

func NewRegistry() *Registry {
	return &Registry{
		defs:  make(map[string]*Sym),
		holes: make(map[string]*Sym),
	}
}

func (r *Registry) next() uint64 {
	r.counter++
	return r.counter
}

// MkDefnSym is deterministic: repeated calls with the same (ns, ident)
// return the identical *Sym. Used for defs, enums, and tag constructors
// alike — anything with a single canonical defining occurrence.
func (r *Registry) MkDefnSym(ns, ident string, loc source.Position) *Sym {
	key := ns + "\x00" + ident
	if s, ok := r.defs[key]; ok {
		return s
	}
	s := &Sym{ID: r.next(), Namespace: ns, Ident: ident, Loc: loc, Kind: KindDefn}
	r.defs[key] = s
	return s
}

// MkHoleSym is deterministic within a namespace, like MkDefnSym, but keyed
// into a separate table so a hole and a def sharing a spelling in the same
// namespace never collide.
func (r *Registry) MkHoleSym(ns, ident string, loc source.Position) *Sym {
	key := ns + "\x00" + ident
	if s, ok := r.holes[key]; ok {
		return s
	}
	s := &Sym{ID: r.next(), Namespace: ns, Ident: ident, Loc: loc, Kind: KindHole}
	r.holes[key] = s
	return s
}

// FreshVarSym is monotonic: every call returns a symbol distinct from every
// symbol previously returned by this Registry, including other fresh
// variables and interned defs/holes. It is never interned, so two calls
// with the same prefix still diverge.
func (r *Registry) FreshVarSym(prefix string) *Sym {
	id := r.next()
	return &Sym{ID: id, Ident: fmt.Sprintf("%s$%d", prefix, id), Kind: KindFreshVar}
}
