package ast

import "github.com/funvibe/ferrite/internal/source"

// TypeExpr is surface type syntax, as written by the programmer, before the
// elaborator maps it to an internal type term.
type TypeExpr interface {
	Pos() source.Position
	typeExprNode()
}

// NamedType is a bare or qualified type name, optionally applied to type
// arguments, e.g. "Int", "List<T>", "a.b.Tree<K, V>".
type NamedType struct {
	Qualifier string // dotted namespace, "" if unqualified
	Name      string
	Args      []TypeExpr
	Loc       source.Position
}

func (t NamedType) Pos() source.Position { return t.Loc }
func (NamedType) typeExprNode()          {}

// TupleType is a surface tuple type, e.g. "(Int, Str)".
type TupleType struct {
	Elements []TypeExpr
	Loc      source.Position
}

func (t TupleType) Pos() source.Position { return t.Loc }
func (TupleType) typeExprNode()          {}

// ArrowType is a surface (possibly curried) function type, e.g.
// "Int, Str -> Bool".
type ArrowType struct {
	Params []TypeExpr
	Result TypeExpr
	Loc    source.Position
}

func (t ArrowType) Pos() source.Position { return t.Loc }
func (ArrowType) typeExprNode()          {}
