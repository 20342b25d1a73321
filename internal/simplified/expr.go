// Package simplified implements the simplified expression IR — the tree the
// partial evaluator (internal/eval) consumes and reconstructs. In a full
// pipeline it is produced by type inference and a downstream simplification
// pass (closure conversion, lambda lifting); internal/resolve emits this IR
// directly, since the programs it handles need no actual closure conversion
// or lifting.
//
// The variants form a closed sum type, switched over wherever the partial
// evaluator or the canonicalizer dispatches on Expr.
package simplified

import (
	"github.com/funvibe/ferrite/internal/source"
	"github.com/funvibe/ferrite/internal/typeterm"
)

// Expr is the interface every IR node implements. The method set is
// unexported so only this package can add variants — new node kinds must be
// added here, at the definition of the sum type, never elsewhere.
type Expr interface {
	Type() typeterm.Type
	Loc() source.Position
	expr()
}

type base struct {
	T typeterm.Type
	L source.Position
}

func (b base) Type() typeterm.Type   { return b.T }
func (b base) Loc() source.Position  { return b.L }

// --- Literals ---

type UnitLit struct{ base }
type TrueLit struct{ base }
type FalseLit struct{ base }

type Int8Lit struct {
	base
	Value int8
}
type Int16Lit struct {
	base
	Value int16
}
type Int32Lit struct {
	base
	Value int32
}
type Int64Lit struct {
	base
	Value int64
}
type StrLit struct {
	base
	Value string
}

func (UnitLit) expr()  {}
func (TrueLit) expr()  {}
func (FalseLit) expr() {}
func (Int8Lit) expr()  {}
func (Int16Lit) expr() {}
func (Int32Lit) expr() {}
func (Int64Lit) expr() {}
func (StrLit) expr()   {}

// Var references a bound variable by name. Offset is the frame slot a later
// lowering phase would assign it; the partial evaluator resolves variables
// by name against Env and never consults Offset (it is carried through
// unread, for the benefit of code generation downstream).
type Var struct {
	base
	Name   string
	Offset int
}

func (Var) expr() {}

// Ref references a top-level definition by its resolved symbol.
type Ref struct {
	base
	Sym string
}

func (Ref) expr() {}

// Lambda is a closure-free lambda: closure conversion, an earlier pass, has
// already turned any lambda with free variables into a Closure. A Lambda
// appearing here by construction captures nothing.
type Lambda struct {
	base
	Annotations []string
	Formals     []string
	Body        Expr
}

func (Lambda) expr() {}

// Closure pairs a lambda with its captured environment, produced by closure
// conversion. The partial evaluator's own Lambda rule always produces a
// Closure over the then-current Env — so Closure is both an input shape
// (from simplification) and the value shape lambdas reduce to.
type Closure struct {
	base
	Formals []string
	Body    Expr
	Env     *Env
}

func (Closure) expr() {}

// Apply3 is a saturated call after lambda-lifting: every application in the
// simplified IR is fully applied to its actuals.
type Apply3 struct {
	base
	Callee  Expr
	Actuals []Expr
}

func (Apply3) expr() {}

type Unary struct {
	base
	Op string
	E  Expr
}

func (Unary) expr() {}

type Binary struct {
	base
	Op string
	E1 Expr
	E2 Expr
}

func (Binary) expr() {}

// Let binds Name (at Offset) to Bound within Body.
type Let struct {
	base
	Name   string
	Offset int
	Bound  Expr
	Body   Expr
}

func (Let) expr() {}

type IfThenElse struct {
	base
	Cond Expr
	Then Expr
	Else Expr
}

func (IfThenElse) expr() {}

// Tag constructs an enum case. EnumSym is the declaring enum's resolved
// symbol; it is always consistent with the referenced enum's declared
// cases.
type Tag struct {
	base
	EnumSym string
	TagName string
	Payload Expr
}

func (Tag) expr() {}

// CheckTag tests whether E reduces to a Tag named TagName. Its type is
// always Bool, set at construction rather than carried as a meaningful
// field.
type CheckTag struct {
	base
	TagName string
	E       Expr
}

func (CheckTag) expr() {}

// GetTagValue projects the payload out of a Tag value.
type GetTagValue struct {
	base
	E Expr
}

func (GetTagValue) expr() {}

type Tuple struct {
	base
	Elements []Expr
}

func (Tuple) expr() {}

type GetTupleIndex struct {
	base
	E      Expr
	Offset int
}

func (GetTupleIndex) expr() {}

// Set is an unordered collection literal, one of the standard library's
// built-in container shapes.
type Set struct {
	base
	Elements []Expr
}

func (Set) expr() {}

// Error is an explicit compile-time-known error value (e.g. from an
// exhaustiveness placeholder); MatchError specifically marks a
// non-exhaustive pattern match failure. Both pass through partial evaluation
// unchanged.
type Error struct{ base }
type MatchError struct{ base }

func (Error) expr()      {}
func (MatchError) expr() {}

// Hole is a first-class "?hole" placeholder carrying a synthesized symbol.
// It passes through resolution and partial evaluation as an opaque residual
// and is never considered a value.
type Hole struct {
	base
	Sym string
}

func (Hole) expr() {}

// New* constructors set the embedded base fields; they exist so call sites
// read as "NewTag(...)" rather than repeating the base{T, L} literal.

func NewUnit(t typeterm.Type, l source.Position) Expr  { return UnitLit{base{t, l}} }
func NewTrue(t typeterm.Type, l source.Position) Expr  { return TrueLit{base{t, l}} }
func NewFalse(t typeterm.Type, l source.Position) Expr { return FalseLit{base{t, l}} }

func NewInt8(v int8, l source.Position) Expr {
	return Int8Lit{base{typeterm.Primitive{Name: typeterm.Int8}, l}, v}
}
func NewInt16(v int16, l source.Position) Expr {
	return Int16Lit{base{typeterm.Primitive{Name: typeterm.Int16}, l}, v}
}
func NewInt32(v int32, l source.Position) Expr {
	return Int32Lit{base{typeterm.Primitive{Name: typeterm.Int32}, l}, v}
}
func NewInt64(v int64, l source.Position) Expr {
	return Int64Lit{base{typeterm.Primitive{Name: typeterm.Int64}, l}, v}
}
func NewStr(v string, l source.Position) Expr {
	return StrLit{base{typeterm.Primitive{Name: typeterm.Str}, l}, v}
}

// Constructors for the composite node shapes, used by resolve's walker
// (which, being outside this package, cannot set the unexported base
// fields directly).

func NewVar(name string, t typeterm.Type, l source.Position) Expr {
	return Var{base{t, l}, name, 0}
}

func NewRef(sym string, t typeterm.Type, l source.Position) Expr {
	return Ref{base{t, l}, sym}
}

func NewHole(sym string, t typeterm.Type, l source.Position) Expr {
	return Hole{base{t, l}, sym}
}

func NewLambda(formals []string, body Expr, t typeterm.Type, l source.Position) Expr {
	return Lambda{base{t, l}, nil, formals, body}
}

func NewClosure(formals []string, body Expr, env *Env, t typeterm.Type, l source.Position) Expr {
	return Closure{base{t, l}, formals, body, env}
}

func NewApply(callee Expr, actuals []Expr, t typeterm.Type, l source.Position) Expr {
	return Apply3{base{t, l}, callee, actuals}
}

func NewUnary(op string, e Expr, t typeterm.Type, l source.Position) Expr {
	return Unary{base{t, l}, op, e}
}

func NewBinary(op string, e1, e2 Expr, t typeterm.Type, l source.Position) Expr {
	return Binary{base{t, l}, op, e1, e2}
}

func NewLet(name string, bound, body Expr, t typeterm.Type, l source.Position) Expr {
	return Let{base{t, l}, name, 0, bound, body}
}

func NewIfThenElse(cond, then, els Expr, t typeterm.Type, l source.Position) Expr {
	return IfThenElse{base{t, l}, cond, then, els}
}

func NewTag(enumSym, tagName string, payload Expr, t typeterm.Type, l source.Position) Expr {
	return Tag{base{t, l}, enumSym, tagName, payload}
}

func NewCheckTag(tagName string, e Expr, l source.Position) Expr {
	return CheckTag{base{typeterm.Primitive{Name: typeterm.Bool}, l}, tagName, e}
}

func NewGetTagValue(e Expr, t typeterm.Type, l source.Position) Expr {
	return GetTagValue{base{t, l}, e}
}

func NewTuple(elements []Expr, t typeterm.Type, l source.Position) Expr {
	return Tuple{base{t, l}, elements}
}

func NewGetTupleIndex(e Expr, offset int, t typeterm.Type, l source.Position) Expr {
	return GetTupleIndex{base{t, l}, e, offset}
}

func NewSet(elements []Expr, t typeterm.Type, l source.Position) Expr {
	return Set{base{t, l}, elements}
}

func NewErrorExpr(t typeterm.Type, l source.Position) Expr {
	return Error{base{t, l}}
}

func NewMatchErrorExpr(t typeterm.Type, l source.Position) Expr {
	return MatchError{base{t, l}}
}
