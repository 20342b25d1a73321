// Package ast defines the pre-resolution, namespace-keyed program that an
// external frontend hands to the resolution pipeline: definitions, enums,
// lattices, indices, tables, constraints, properties, anonymous named
// expressions, and hooks, all keyed by namespace, with every name occurrence
// still a dotted surface Name rather than a resolved symbol.
//
// Nodes are small exported structs, one per surface construct, each
// carrying its own source position; there is no lexer or parser in this
// package (nodes are built directly, e.g. by tests or by an external
// frontend) and no Visitor interface — the resolver and elaborator dispatch
// with ordinary type switches over the closed, comparatively small node set
// this phase needs.
package ast

import (
	"strings"

	"github.com/funvibe/ferrite/internal/source"
)

// Name is a dotted path of identifiers n₁.n₂…nₖ plus a terminal identifier.
// A Name is qualified iff it carries at least one path segment before the
// terminal identifier.
type Name struct {
	Qualifier []string // namespace path segments before Ident, e.g. ["a", "b"]
	Ident     string
	Loc       source.Position
}

// Qualified reports whether this name carries an explicit namespace.
func (n Name) Qualified() bool {
	return len(n.Qualifier) > 0
}

// Namespace renders the qualifier as a dotted path ("" if unqualified).
func (n Name) Namespace() string {
	return strings.Join(n.Qualifier, ".")
}

func (n Name) String() string {
	if !n.Qualified() {
		return n.Ident
	}
	return n.Namespace() + "." + n.Ident
}

// UnqualifiedName builds a bare (unqualified) Name.
func UnqualifiedName(ident string, loc source.Position) Name {
	return Name{Ident: ident, Loc: loc}
}

// QualifiedName builds a Name qualified by the given dotted namespace path.
func QualifiedName(namespace, ident string, loc source.Position) Name {
	var qualifier []string
	if namespace != "" {
		qualifier = strings.Split(namespace, ".")
	}
	return Name{Qualifier: qualifier, Ident: ident, Loc: loc}
}

// ParentOf returns the namespace one level up from ns ("" for a root-level
// namespace).
func ParentOf(ns string) string {
	idx := strings.LastIndex(ns, ".")
	if idx < 0 {
		return ""
	}
	return ns[:idx]
}

// IsDescendantOrSelf reports whether ns is md or a (possibly indirect)
// sub-namespace of md, i.e. ns == md or ns has md as a dotted prefix segment.
func IsDescendantOrSelf(ns, md string) bool {
	if md == "" {
		return true
	}
	if ns == md {
		return true
	}
	return strings.HasPrefix(ns, md+".")
}
