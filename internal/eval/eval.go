// Package eval implements the partial evaluator: a tree-walking rewriter
// over the simplified expression IR that reduces whatever can be decided at
// this tier and reconstructs the rest as a residual expression.
//
// The evaluator is described at design level as continuation-passing; this
// implementation instead recurses directly, returning the fully-reduced or
// partially-residualized expression from each call. The two are
// behaviorally equivalent here — nothing in this pipeline needs to suspend
// mid-expression or escape a deep call stack early — and direct recursion
// reads more plainly against the rest of this codebase's style.
package eval

import (
	"fmt"

	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/resolve"
	"github.com/funvibe/ferrite/internal/simplified"
	"github.com/funvibe/ferrite/internal/source"
	"github.com/funvibe/ferrite/internal/typeterm"
)

// defaultMaxDepth bounds recursion when the caller never opts into a
// pipelinecfg.Config value; spec.md §5 allows an unguarded stack overflow on
// pathological input, but the teacher's own parser
// (internal/parser/expressions_core.go) guards recursion depth rather than
// letting the Go stack unwind uncontrolled, and this evaluator follows that
// convention.
const defaultMaxDepth = 4096

// Evaluator partially evaluates expressions against a resolved program's
// top-level definitions.
type Evaluator struct {
	prog     *resolve.ResolvedProgram
	maxDepth int
	depth    int
}

func New(prog *resolve.ResolvedProgram) *Evaluator {
	return &Evaluator{prog: prog, maxDepth: defaultMaxDepth}
}

// WithMaxDepth overrides the recursion guard, e.g. from
// pipelinecfg.Config.MaxRecursionDepth, and returns ev for chaining.
func (ev *Evaluator) WithMaxDepth(depth int) *Evaluator {
	if depth > 0 {
		ev.maxDepth = depth
	}
	return ev
}

// Eval reduces e under env as far as it can go, returning either a value or
// a residual expression.
func (ev *Evaluator) Eval(e simplified.Expr, env *simplified.Env) simplified.Expr {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.depth > ev.maxDepth {
		diagnostics.Fatal("eval.Eval", "recursion depth limit exceeded while partially evaluating", e.Loc())
	}

	switch n := e.(type) {
	case simplified.UnitLit, simplified.TrueLit, simplified.FalseLit,
		simplified.Int8Lit, simplified.Int16Lit, simplified.Int32Lit, simplified.Int64Lit,
		simplified.StrLit, simplified.Closure, simplified.Hole,
		simplified.Error, simplified.MatchError:
		return e

	case simplified.Var:
		bound, ok := env.Lookup(n.Name)
		if !ok {
			diagnostics.Fatal("eval.Var", "unresolved variable: "+n.Name, n.Loc())
		}
		return ev.Eval(bound, env)

	case simplified.Ref:
		def, ok := ev.prog.ByID[n.Sym]
		if !ok {
			diagnostics.Fatal("eval.Ref", "unresolved reference: "+n.Sym, n.Loc())
		}
		return def.Body

	case simplified.Unary:
		return ev.evalUnary(n, env)

	case simplified.Binary:
		return ev.evalBinary(n, env)

	case simplified.Let:
		return ev.evalLet(n, env)

	case simplified.IfThenElse:
		return ev.evalIf(n, env)

	case simplified.Apply3:
		return ev.evalApply(n, env)

	case simplified.Lambda:
		return simplified.NewClosure(n.Formals, n.Body, env, n.Type(), n.Loc())

	case simplified.CheckTag:
		return ev.evalCheckTag(n, env)

	case simplified.GetTagValue:
		return ev.evalGetTagValue(n, env)

	case simplified.Tag:
		payload := ev.Eval(n.Payload, env)
		return simplified.NewTag(n.EnumSym, n.TagName, payload, n.Type(), n.Loc())

	case simplified.Tuple:
		elems := make([]simplified.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = ev.Eval(el, env)
		}
		return simplified.NewTuple(elems, n.Type(), n.Loc())

	case simplified.GetTupleIndex:
		return ev.evalGetTupleIndex(n, env)

	case simplified.Set:
		elems := make([]simplified.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = ev.Eval(el, env)
		}
		return simplified.NewSet(elems, n.Type(), n.Loc())

	default:
		diagnostics.Fatal("eval.Eval", fmt.Sprintf("illegal node kind reaching the partial evaluator: %T", e), e.Loc())
		panic("unreachable")
	}
}

func (ev *Evaluator) evalUnary(n simplified.Unary, env *simplified.Env) simplified.Expr {
	switch n.Op {
	case "LogicalNot":
		sub := ev.Eval(n.E, env)
		if _, ok := sub.(simplified.TrueLit); ok {
			return simplified.NewFalse(n.Type(), n.Loc())
		}
		if _, ok := sub.(simplified.FalseLit); ok {
			return simplified.NewTrue(n.Type(), n.Loc())
		}
		return simplified.NewUnary("LogicalNot", sub, n.Type(), n.Loc())

	case "Plus":
		return ev.Eval(n.E, env)

	case "Minus":
		sub := ev.Eval(n.E, env)
		if w, v, ok := asInt(sub); ok {
			return intLit(w, -v, n.Loc())
		}
		return simplified.NewUnary("Minus", sub, n.Type(), n.Loc())

	case "BitwiseNegate":
		sub := ev.Eval(n.E, env)
		if w, v, ok := asInt(sub); ok {
			return intLit(w, bitwiseNegate(w, v), n.Loc())
		}
		return simplified.NewUnary("BitwiseNegate", sub, n.Type(), n.Loc())

	default:
		diagnostics.Fatal("eval.evalUnary", "unrecognized unary operator: "+n.Op, n.Loc())
		panic("unreachable")
	}
}

func (ev *Evaluator) evalBinary(n simplified.Binary, env *simplified.Env) simplified.Expr {
	switch n.Op {
	case "!=":
		rewritten := simplified.NewUnary("LogicalNot",
			simplified.NewBinary("==", n.E1, n.E2, n.Type(), n.Loc()), n.Type(), n.Loc())
		return ev.Eval(rewritten, env)

	case "=>":
		rewritten := simplified.NewBinary("||",
			simplified.NewUnary("LogicalNot", n.E1, n.Type(), n.Loc()), n.E2, n.Type(), n.Loc())
		return ev.Eval(rewritten, env)

	case "<=>":
		pImpliesQ := simplified.NewBinary("=>", n.E1, n.E2, n.Type(), n.Loc())
		qImpliesP := simplified.NewBinary("=>", n.E2, n.E1, n.Type(), n.Loc())
		rewritten := simplified.NewBinary("&&", pImpliesQ, qImpliesP, n.Type(), n.Loc())
		return ev.Eval(rewritten, env)

	case "&&":
		return ev.evalAnd(n, env)

	case "||":
		return ev.evalOr(n, env)

	case "==":
		e1 := ev.Eval(n.E1, env)
		e2 := ev.Eval(n.E2, env)
		boolT := typeterm.Primitive{Name: typeterm.Bool}
		switch SyntacticEqual(e1, e2) {
		case Equal:
			return simplified.NewTrue(boolT, n.Loc())
		case NotEq:
			return simplified.NewFalse(boolT, n.Loc())
		default:
			return simplified.NewBinary("==", e1, e2, boolT, n.Loc())
		}

	case "+", "-", "*", "/", "%":
		e1 := ev.Eval(n.E1, env)
		e2 := ev.Eval(n.E2, env)
		return evalArith(n.Op, e1, e2, n.Type(), n.Loc())

	case "<", ">", "<=", ">=":
		e1 := ev.Eval(n.E1, env)
		e2 := ev.Eval(n.E2, env)
		return evalCompare(n.Op, e1, e2, n.Loc())

	case "&", "|", "^", "<<", ">>":
		e1 := ev.Eval(n.E1, env)
		e2 := ev.Eval(n.E2, env)
		return evalBitwise(n.Op, e1, e2, n.Type(), n.Loc())

	default:
		diagnostics.Fatal("eval.evalBinary", "unrecognized binary operator: "+n.Op, n.Loc())
		panic("unreachable")
	}
}

func (ev *Evaluator) evalAnd(n simplified.Binary, env *simplified.Env) simplified.Expr {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	left := ev.Eval(n.E1, env)
	if _, ok := left.(simplified.TrueLit); ok {
		return ev.Eval(n.E2, env)
	}
	if _, ok := left.(simplified.FalseLit); ok {
		return simplified.NewFalse(boolT, n.Loc())
	}
	right := ev.Eval(n.E2, env)
	if _, ok := right.(simplified.TrueLit); ok {
		return left
	}
	if _, ok := right.(simplified.FalseLit); ok {
		return simplified.NewFalse(boolT, n.Loc())
	}
	return simplified.NewBinary("&&", left, right, boolT, n.Loc())
}

func (ev *Evaluator) evalOr(n simplified.Binary, env *simplified.Env) simplified.Expr {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	left := ev.Eval(n.E1, env)
	if _, ok := left.(simplified.TrueLit); ok {
		return simplified.NewTrue(boolT, n.Loc())
	}
	if _, ok := left.(simplified.FalseLit); ok {
		return ev.Eval(n.E2, env)
	}
	right := ev.Eval(n.E2, env)
	if _, ok := right.(simplified.TrueLit); ok {
		return simplified.NewTrue(boolT, n.Loc())
	}
	if _, ok := right.(simplified.FalseLit); ok {
		return left
	}
	return simplified.NewBinary("||", left, right, boolT, n.Loc())
}

func (ev *Evaluator) evalLet(n simplified.Let, env *simplified.Env) simplified.Expr {
	bound := ev.Eval(n.Bound, env)
	env2 := env.Extend(n.Name, bound)
	body := ev.Eval(n.Body, env2)
	if simplified.IsValue(bound) {
		return body
	}
	return simplified.NewLet(n.Name, bound, body, body.Type(), n.Loc())
}

func (ev *Evaluator) evalIf(n simplified.IfThenElse, env *simplified.Env) simplified.Expr {
	cond := ev.Eval(n.Cond, env)
	if _, ok := cond.(simplified.TrueLit); ok {
		return ev.Eval(n.Then, env)
	}
	if _, ok := cond.(simplified.FalseLit); ok {
		return ev.Eval(n.Else, env)
	}
	then := ev.Eval(n.Then, env)
	els := ev.Eval(n.Else, env)
	return simplified.NewIfThenElse(cond, then, els, then.Type(), n.Loc())
}

func (ev *Evaluator) evalApply(n simplified.Apply3, env *simplified.Env) simplified.Expr {
	callee := ev.Eval(n.Callee, env)
	switch c := callee.(type) {
	case simplified.Lambda:
		env2 := env
		for i, formal := range c.Formals {
			if i < len(n.Actuals) {
				env2 = env2.Extend(formal, n.Actuals[i])
			}
		}
		return ev.Eval(c.Body, env2)

	case simplified.Closure:
		env2 := c.Env
		for i, formal := range c.Formals {
			if i < len(n.Actuals) {
				env2 = env2.Extend(formal, n.Actuals[i])
			}
		}
		return ev.Eval(c.Body, env2)

	default:
		actuals := make([]simplified.Expr, len(n.Actuals))
		for i, a := range n.Actuals {
			actuals[i] = ev.Eval(a, env)
		}
		return simplified.NewApply(callee, actuals, n.Type(), n.Loc())
	}
}

func (ev *Evaluator) evalCheckTag(n simplified.CheckTag, env *simplified.Env) simplified.Expr {
	sub := ev.Eval(n.E, env)
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	if tag, ok := sub.(simplified.Tag); ok {
		if tag.TagName == n.TagName {
			return simplified.NewTrue(boolT, n.Loc())
		}
		return simplified.NewFalse(boolT, n.Loc())
	}
	return simplified.NewCheckTag(n.TagName, sub, n.Loc())
}

func (ev *Evaluator) evalGetTagValue(n simplified.GetTagValue, env *simplified.Env) simplified.Expr {
	sub := ev.Eval(n.E, env)
	if tag, ok := sub.(simplified.Tag); ok {
		return tag.Payload
	}
	return simplified.NewGetTagValue(sub, n.Type(), n.Loc())
}

func (ev *Evaluator) evalGetTupleIndex(n simplified.GetTupleIndex, env *simplified.Env) simplified.Expr {
	sub := ev.Eval(n.E, env)
	if tup, ok := sub.(simplified.Tuple); ok && simplified.IsValue(tup) && n.Offset < len(tup.Elements) {
		return tup.Elements[n.Offset]
	}
	return simplified.NewGetTupleIndex(sub, n.Offset, n.Type(), n.Loc())
}

// --- fixed-width integer arithmetic ---

func asInt(e simplified.Expr) (width int, value int64, ok bool) {
	switch v := e.(type) {
	case simplified.Int8Lit:
		return 8, int64(v.Value), true
	case simplified.Int16Lit:
		return 16, int64(v.Value), true
	case simplified.Int32Lit:
		return 32, int64(v.Value), true
	case simplified.Int64Lit:
		return 64, v.Value, true
	default:
		return 0, 0, false
	}
}

func intLit(width int, value int64, loc source.Position) simplified.Expr {
	switch width {
	case 8:
		return simplified.NewInt8(int8(value), loc)
	case 16:
		return simplified.NewInt16(int16(value), loc)
	case 32:
		return simplified.NewInt32(int32(value), loc)
	default:
		return simplified.NewInt64(value, loc)
	}
}

func wrap(width int, v int64) int64 {
	switch width {
	case 8:
		return int64(int8(v))
	case 16:
		return int64(int16(v))
	case 32:
		return int64(int32(v))
	default:
		return v
	}
}

func bitwiseNegate(width int, v int64) int64 {
	switch width {
	case 8:
		return int64(^int8(v))
	case 16:
		return int64(^int16(v))
	case 32:
		return int64(^int32(v))
	default:
		return ^v
	}
}

func evalArith(op string, e1, e2 simplified.Expr, t typeterm.Type, loc source.Position) simplified.Expr {
	w1, v1, ok1 := asInt(e1)
	w2, v2, ok2 := asInt(e2)

	switch op {
	case "+":
		if ok1 && v1 == 0 {
			return e2
		}
		if ok2 && v2 == 0 {
			return e1
		}
	case "-":
		if ok2 && v2 == 0 {
			return e1
		}
		if ok1 && SyntacticEqual(e1, e2) == Equal {
			return intLit(w1, 0, loc)
		}
	case "*":
		if ok1 && v1 == 0 {
			return intLit(w1, 0, loc)
		}
		if ok2 && v2 == 0 {
			return intLit(w2, 0, loc)
		}
		if ok1 && v1 == 1 {
			return e2
		}
		if ok2 && v2 == 1 {
			return e1
		}
	case "/":
		if ok2 && v2 == 1 {
			return e1
		}
	case "%":
		if ok2 && v2 == 1 {
			return intLit(w2, 0, loc)
		}
	}

	if !ok1 || !ok2 || w1 != w2 {
		return simplified.NewBinary(op, e1, e2, t, loc)
	}
	if (op == "/" || op == "%") && v2 == 0 {
		// Never fold division or modulo by a literal zero; the runtime traps.
		return simplified.NewBinary(op, e1, e2, t, loc)
	}
	var result int64
	switch op {
	case "+":
		result = v1 + v2
	case "-":
		result = v1 - v2
	case "*":
		result = v1 * v2
	case "/":
		result = v1 / v2
	case "%":
		result = v1 % v2
	}
	return intLit(w1, wrap(w1, result), loc)
}

func evalCompare(op string, e1, e2 simplified.Expr, loc source.Position) simplified.Expr {
	boolT := typeterm.Primitive{Name: typeterm.Bool}
	w1, v1, ok1 := asInt(e1)
	w2, v2, ok2 := asInt(e2)
	if !ok1 || !ok2 || w1 != w2 {
		return simplified.NewBinary(op, e1, e2, boolT, loc)
	}
	var result bool
	switch op {
	case "<":
		result = v1 < v2
	case ">":
		result = v1 > v2
	case "<=":
		result = v1 <= v2
	case ">=":
		result = v1 >= v2
	}
	if result {
		return simplified.NewTrue(boolT, loc)
	}
	return simplified.NewFalse(boolT, loc)
}

func evalBitwise(op string, e1, e2 simplified.Expr, t typeterm.Type, loc source.Position) simplified.Expr {
	w1, v1, ok1 := asInt(e1)
	w2, v2, ok2 := asInt(e2)
	if !ok1 || !ok2 || w1 != w2 {
		return simplified.NewBinary(op, e1, e2, t, loc)
	}
	var result int64
	switch op {
	case "&":
		result = v1 & v2
	case "|":
		result = v1 | v2
	case "^":
		result = v1 ^ v2
	case "<<":
		result = v1 << uint(v2)
	case ">>":
		result = v1 >> uint(v2)
	}
	return intLit(w1, wrap(w1, result), loc)
}
