package ast

import "github.com/funvibe/ferrite/internal/source"

// Expr is the named, pre-resolution expression tree: every name occurrence
// is still a surface Name rather than a resolved symbol.
type Expr interface {
	Pos() source.Position
	exprNode()
}

type exprBase struct {
	Loc source.Position
}

func (e exprBase) Pos() source.Position { return e.Loc }

// VarExpr references a lexically bound variable (a lambda formal or let
// binding in scope). It passes through resolution untouched.
type VarExpr struct {
	exprBase
	Name string
}

func (VarExpr) exprNode() {}

// WildExpr is the wildcard "_". Resolution lowers it to a Unit literal.
type WildExpr struct{ exprBase }

func (WildExpr) exprNode() {}

// DefExpr references a top-level definition or hook by name.
type DefExpr struct {
	exprBase
	Ref Name
}

func (DefExpr) exprNode() {}

// HoleExpr is a first-class "?hole": the resolver mints a hole symbol for
// it in the enclosing namespace.
type HoleExpr struct {
	exprBase
	Name string
}

func (HoleExpr) exprNode() {}

// TagExpr constructs (or, when bare, references) an enum case. Enum is the
// optional qualifier naming the declaring enum explicitly (disambiguating
// ties between enums that share a tag name); Payload is nil when the tag is
// written without an argument list.
type TagExpr struct {
	exprBase
	Enum    *Name
	Tag     string
	Payload Expr // nil if written bare, e.g. "Some" rather than "Some(x)"
}

func (TagExpr) exprNode() {}

// LambdaExpr is a surface lambda. FormalTypes is optional (nil when every
// formal's type is left to inference); when present it must have the same
// length as Formals. Resolution asks lambdas to carry formal types
// explicitly rather than running a full unification-based inference pass.
type LambdaExpr struct {
	exprBase
	Formals     []string
	FormalTypes []TypeExpr
	Body        Expr
}

func (LambdaExpr) exprNode() {}

type ApplyExpr struct {
	exprBase
	Callee  Expr
	Actuals []Expr
}

func (ApplyExpr) exprNode() {}

type UnaryExpr struct {
	exprBase
	Op string
	E  Expr
}

func (UnaryExpr) exprNode() {}

type BinaryExpr struct {
	exprBase
	Op string
	E1 Expr
	E2 Expr
}

func (BinaryExpr) exprNode() {}

type LetExpr struct {
	exprBase
	Name  string
	Bound Expr
	Body  Expr
}

func (LetExpr) exprNode() {}

type IfExpr struct {
	exprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (IfExpr) exprNode() {}

type TupleExpr struct {
	exprBase
	Elements []Expr
}

func (TupleExpr) exprNode() {}

type SetExpr struct {
	exprBase
	Elements []Expr
}

func (SetExpr) exprNode() {}

type GetTupleIndexExpr struct {
	exprBase
	E     Expr
	Index int
}

func (GetTupleIndexExpr) exprNode() {}

type CheckTagExpr struct {
	exprBase
	Tag string
	E   Expr
}

func (CheckTagExpr) exprNode() {}

type GetTagValueExpr struct {
	exprBase
	E Expr
}

func (GetTagValueExpr) exprNode() {}

// --- Literals ---

type UnitExpr struct{ exprBase }
type TrueExpr struct{ exprBase }
type FalseExpr struct{ exprBase }

type IntExpr struct {
	exprBase
	Width int // 8, 16, 32, or 64
	Value int64
}

type StrExpr struct {
	exprBase
	Value string
}

type ErrorExpr struct{ exprBase }
type MatchErrorExpr struct{ exprBase }

func (UnitExpr) exprNode()       {}
func (TrueExpr) exprNode()       {}
func (FalseExpr) exprNode()      {}
func (IntExpr) exprNode()        {}
func (StrExpr) exprNode()        {}
func (ErrorExpr) exprNode()      {}
func (MatchErrorExpr) exprNode() {}

// New* constructors build expression nodes with their embedded, unexported
// exprBase set. Any caller assembling a Program without going through an
// actual lexer/parser — an embedding host, or a test — needs these, since
// exprBase's own name is unexported and so cannot be named in a composite
// literal outside this package (mirrors simplified.New*'s reason for being).

func NewVarExpr(name string, loc source.Position) Expr  { return VarExpr{exprBase{loc}, name} }
func NewWildExpr(loc source.Position) Expr              { return WildExpr{exprBase{loc}} }
func NewDefExpr(ref Name, loc source.Position) Expr     { return DefExpr{exprBase{loc}, ref} }
func NewHoleExpr(name string, loc source.Position) Expr { return HoleExpr{exprBase{loc}, name} }

func NewTagExpr(enum *Name, tag string, payload Expr, loc source.Position) Expr {
	return TagExpr{exprBase{loc}, enum, tag, payload}
}

func NewLambdaExpr(formals []string, formalTypes []TypeExpr, body Expr, loc source.Position) Expr {
	return LambdaExpr{exprBase{loc}, formals, formalTypes, body}
}

func NewApplyExpr(callee Expr, actuals []Expr, loc source.Position) Expr {
	return ApplyExpr{exprBase{loc}, callee, actuals}
}

func NewUnaryExpr(op string, e Expr, loc source.Position) Expr {
	return UnaryExpr{exprBase{loc}, op, e}
}

func NewBinaryExpr(op string, e1, e2 Expr, loc source.Position) Expr {
	return BinaryExpr{exprBase{loc}, op, e1, e2}
}

func NewLetExpr(name string, bound, body Expr, loc source.Position) Expr {
	return LetExpr{exprBase{loc}, name, bound, body}
}

func NewIfExpr(cond, then, els Expr, loc source.Position) Expr {
	return IfExpr{exprBase{loc}, cond, then, els}
}

func NewTupleExpr(elements []Expr, loc source.Position) Expr {
	return TupleExpr{exprBase{loc}, elements}
}

func NewSetExpr(elements []Expr, loc source.Position) Expr {
	return SetExpr{exprBase{loc}, elements}
}

func NewGetTupleIndexExpr(e Expr, index int, loc source.Position) Expr {
	return GetTupleIndexExpr{exprBase{loc}, e, index}
}

func NewCheckTagExpr(tag string, e Expr, loc source.Position) Expr {
	return CheckTagExpr{exprBase{loc}, tag, e}
}

func NewGetTagValueExpr(e Expr, loc source.Position) Expr {
	return GetTagValueExpr{exprBase{loc}, e}
}

func NewUnitExpr(loc source.Position) Expr  { return UnitExpr{exprBase{loc}} }
func NewTrueExpr(loc source.Position) Expr  { return TrueExpr{exprBase{loc}} }
func NewFalseExpr(loc source.Position) Expr { return FalseExpr{exprBase{loc}} }

func NewIntExpr(width int, value int64, loc source.Position) Expr {
	return IntExpr{exprBase{loc}, width, value}
}

func NewStrExpr(value string, loc source.Position) Expr { return StrExpr{exprBase{loc}, value} }

func NewErrorExpr(loc source.Position) Expr      { return ErrorExpr{exprBase{loc}} }
func NewMatchErrorExpr(loc source.Position) Expr { return MatchErrorExpr{exprBase{loc}} }
