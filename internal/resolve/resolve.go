// Package resolve implements the Expression Resolver: it walks the named,
// pre-resolution program and produces fully-resolved, fully-typed simplified
// expressions, minting symbols along the way and accumulating diagnostics
// across independent subtrees without short-circuiting.
//
// A full pipeline would hand this package's output to a separate type
// inference phase and a separate closure-conversion/lambda-lifting pass
// before partial evaluation ever sees it. Those phases are external
// collaborators this repository does not implement; instead, every surface
// lambda is required to carry its formal parameter types explicitly
// (ast.LambdaExpr.FormalTypes), and this package runs a small bottom-up
// local type synthesizer as a stand-in for full inference. See the
// internal/resolve entry of DESIGN.md for the tradeoff.
package resolve

import (
	"fmt"

	"github.com/funvibe/ferrite/internal/access"
	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/elaborate"
	"github.com/funvibe/ferrite/internal/simplified"
	"github.com/funvibe/ferrite/internal/symbols"
	"github.com/funvibe/ferrite/internal/tags"
	"github.com/funvibe/ferrite/internal/typeterm"
)

// ResolvedDef is one fully-resolved top-level definition or hook.
type ResolvedDef struct {
	Sym       *symbols.Sym
	Namespace string
	Name      string
	Public    bool
	Hook      bool
	Type      typeterm.Type
	Body      simplified.Expr
}

// ResolvedProgram is the output of resolution: every def and hook, keyed
// both by resolved symbol (for the partial evaluator's Ref lookups) and by
// fully-qualified name (for tests and diagnostics).
type ResolvedProgram struct {
	ByID            map[string]*ResolvedDef
	ByQualifiedName map[string]*ResolvedDef
}

func newResolvedProgram() *ResolvedProgram {
	return &ResolvedProgram{
		ByID:            make(map[string]*ResolvedDef),
		ByQualifiedName: make(map[string]*ResolvedDef),
	}
}

func (rp *ResolvedProgram) register(d *ResolvedDef) {
	rp.ByID[d.Sym.String()] = d
	qualified := d.Name
	if d.Namespace != "" {
		qualified = d.Namespace + "." + d.Name
	}
	rp.ByQualifiedName[qualified] = d
}

// ctx carries the shared, read-only inputs and the one piece of mutable
// state (the diagnostics bag) threaded through every recursive call.
type ctx struct {
	reg  *symbols.Registry
	prog *ast.Program
	bag  *diagnostics.Bag
	out  *ResolvedProgram

	// resolving guards against a definition cycle with no explicit type
	// annotation: resolveDef re-enters itself (via Def(ref) resolution)
	// while a def's own body is still being resolved.
	resolving map[string]bool
}

// Resolve runs the Expression Resolver over prog, returning the resolved
// program and every diagnostic raised. Diagnostics accumulate across
// independent subtrees; callers should treat the resolved program as
// provisional whenever bag.HasErrors() is true.
func Resolve(reg *symbols.Registry, prog *ast.Program) (*ResolvedProgram, *diagnostics.Bag) {
	c := &ctx{
		reg:       reg,
		prog:      prog,
		bag:       diagnostics.NewBag(),
		out:       newResolvedProgram(),
		resolving: make(map[string]bool),
	}

	// Pass 1: mint a symbol for every declared name up front, so forward and
	// mutual references resolve regardless of namespace iteration order.
	for _, nsName := range prog.NamespaceNames() {
		ns := prog.Namespaces[nsName]
		for _, d := range ns.Defs {
			c.reg.MkDefnSym(nsName, d.Name, d.Loc)
		}
		for _, e := range ns.Enums {
			c.reg.MkDefnSym(nsName, e.Name, e.Loc)
		}
		for _, a := range ns.Anonymous {
			c.reg.MkDefnSym(nsName, a.Name, a.Loc)
		}
		for _, m := range ns.Opaque {
			c.reg.MkDefnSym(nsName, m.Name, m.Loc)
		}
	}
	for key, hook := range prog.Hooks {
		ns, ident := splitQualifiedKey(key)
		c.reg.MkDefnSym(ns, ident, hook.Loc)
	}

	// Pass 2: resolve every def, anonymous expression, hook, and opaque
	// member's embedded expressions. Resolution of a def's body is
	// memoized and re-entrant (resolveDefRef calls back into resolveDef
	// when a Def(ref) expression needs another def's type), so the
	// iteration order below need not match dependency order.
	for _, nsName := range prog.NamespaceNames() {
		ns := prog.Namespaces[nsName]
		for _, d := range ns.Defs {
			c.resolveDef(nsName, d)
		}
		for _, a := range ns.Anonymous {
			c.resolveAnonymous(nsName, a)
		}
		for _, m := range ns.Opaque {
			c.resolveOpaque(nsName, m)
		}
	}
	for key, hook := range prog.Hooks {
		ns, ident := splitQualifiedKey(key)
		c.resolveHook(ns, ident, hook)
	}

	return c.out, c.bag
}

func splitQualifiedKey(key string) (ns, ident string) {
	idx := lastDot(key)
	if idx < 0 {
		return "", key
	}
	return key[:idx], key[idx+1:]
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}

// resolveDef resolves d's body and records it in c.out, memoized by symbol
// so repeated calls (from recursive Def(ref) resolution) are idempotent.
func (c *ctx) resolveDef(ns string, d *ast.Def) *ResolvedDef {
	sym := c.reg.MkDefnSym(ns, d.Name, d.Loc)
	if existing, ok := c.out.ByID[sym.String()]; ok {
		return existing
	}
	if c.resolving[sym.String()] {
		// An annotated def's type is known up front, so a reference back into
		// it from its own (still-resolving) body can be typed from that.
		if d.TypeAnnotation != nil {
			if t, diag := elaborate.LookupType(c.reg, c.prog, d.TypeAnnotation, ns); diag == nil {
				return &ResolvedDef{Sym: sym, Namespace: ns, Name: d.Name, Public: d.Public, Type: t}
			}
		}
		diagnostics.Fatal("resolve.resolveDef", "cyclic definition without an explicit type annotation: "+sym.String(), d.Loc)
	}
	c.resolving[sym.String()] = true
	defer delete(c.resolving, sym.String())

	var declaredType typeterm.Type
	if d.TypeAnnotation != nil {
		t, diag := elaborate.LookupType(c.reg, c.prog, d.TypeAnnotation, ns)
		if diag != nil {
			c.bag.Add(diag)
		} else {
			declaredType = t
		}
	}

	body := c.resolveExpr(ns, nil, d.Body)
	resultType := body.Type()
	if declaredType != nil {
		resultType = declaredType
	}
	resolved := &ResolvedDef{
		Sym:       sym,
		Namespace: ns,
		Name:      d.Name,
		Public:    d.Public,
		Type:      resultType,
		Body:      body,
	}
	c.out.register(resolved)
	return resolved
}

func (c *ctx) resolveAnonymous(ns string, a *ast.AnonymousExpr) *ResolvedDef {
	sym := c.reg.MkDefnSym(ns, a.Name, a.Loc)
	if existing, ok := c.out.ByID[sym.String()]; ok {
		return existing
	}
	body := c.resolveExpr(ns, nil, a.Body)
	resolved := &ResolvedDef{
		Sym:       sym,
		Namespace: ns,
		Name:      a.Name,
		Public:    false,
		Type:      body.Type(),
		Body:      body,
	}
	c.out.register(resolved)
	return resolved
}

// resolveHook registers a hook as a def with no reducible body: a hook's
// "body" is a Ref to its own symbol, so the partial evaluator's Ref rule
// finds it, hands the same Ref back to its continuation, and treats it as
// an opaque externally-provided constant rather than recursing forever.
func (c *ctx) resolveHook(ns, ident string, h *ast.HookDecl) *ResolvedDef {
	sym := c.reg.MkDefnSym(ns, ident, h.Loc)
	if existing, ok := c.out.ByID[sym.String()]; ok {
		return existing
	}
	t, diag := elaborate.LookupType(c.reg, c.prog, h.Type, ns)
	if diag != nil {
		c.bag.Add(diag)
		t = typeterm.Primitive{Name: typeterm.Unit}
	}
	resolved := &ResolvedDef{
		Sym:       sym,
		Namespace: ns,
		Name:      ident,
		Public:    true,
		Hook:      true,
		Type:      t,
	}
	resolved.Body = simplified.NewRef(sym.String(), t, h.Loc)
	c.out.register(resolved)
	return resolved
}

// resolveOpaque walks only the embedded expressions of a lattice/index/
// table/constraint/property declaration; the declaration's own fixed-point
// semantics are out of scope here.
func (c *ctx) resolveOpaque(ns string, m *ast.OpaqueMember) {
	for _, e := range m.Embedded {
		c.resolveExpr(ns, nil, e)
	}
}

// typeScope is a small persistent map from lexically-bound variable name to
// its type, extended on entry to a Lambda/Let and never mutated.
type typeScope struct {
	name   string
	t      typeterm.Type
	parent *typeScope
}

func (s *typeScope) extend(name string, t typeterm.Type) *typeScope {
	return &typeScope{name: name, t: t, parent: s}
}

func (s *typeScope) lookup(name string) (typeterm.Type, bool) {
	for f := s; f != nil; f = f.parent {
		if f.name == name {
			return f.t, true
		}
	}
	return nil, false
}

func (c *ctx) resolveExpr(ns string, scope *typeScope, e ast.Expr) simplified.Expr {
	switch n := e.(type) {
	case ast.VarExpr:
		t, ok := scope.lookup(n.Name)
		if !ok {
			diagnostics.Fatal("resolve.VarExpr", "unbound variable reaching resolution: "+n.Name, n.Loc)
		}
		return simplified.NewVar(n.Name, t, n.Loc)

	case ast.WildExpr:
		return simplified.NewUnit(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)

	case ast.DefExpr:
		return c.resolveDefRef(ns, n)

	case ast.HoleExpr:
		sym := c.reg.MkHoleSym(ns, n.Name, n.Loc)
		return simplified.NewHole(sym.String(), typeterm.Primitive{Name: typeterm.Unit}, n.Loc)

	case ast.TagExpr:
		return c.resolveTag(ns, scope, n)

	case ast.LambdaExpr:
		return c.resolveLambda(ns, scope, n)

	case ast.ApplyExpr:
		callee := c.resolveExpr(ns, scope, n.Callee)
		actuals := make([]simplified.Expr, len(n.Actuals))
		for i, a := range n.Actuals {
			actuals[i] = c.resolveExpr(ns, scope, a)
		}
		result := typeterm.Type(typeterm.Primitive{Name: typeterm.Unit})
		if arrow, ok := callee.Type().(typeterm.Arrow); ok {
			result = arrow.Result
		}
		return simplified.NewApply(callee, actuals, result, n.Loc)

	case ast.UnaryExpr:
		sub := c.resolveExpr(ns, scope, n.E)
		return simplified.NewUnary(n.Op, sub, sub.Type(), n.Loc)

	case ast.BinaryExpr:
		e1 := c.resolveExpr(ns, scope, n.E1)
		e2 := c.resolveExpr(ns, scope, n.E2)
		return simplified.NewBinary(n.Op, e1, e2, binaryResultType(n.Op, e1.Type()), n.Loc)

	case ast.LetExpr:
		bound := c.resolveExpr(ns, scope, n.Bound)
		inner := scope.extend(n.Name, bound.Type())
		body := c.resolveExpr(ns, inner, n.Body)
		return simplified.NewLet(n.Name, bound, body, body.Type(), n.Loc)

	case ast.IfExpr:
		cond := c.resolveExpr(ns, scope, n.Cond)
		then := c.resolveExpr(ns, scope, n.Then)
		els := c.resolveExpr(ns, scope, n.Else)
		return simplified.NewIfThenElse(cond, then, els, then.Type(), n.Loc)

	case ast.TupleExpr:
		elements := make([]simplified.Expr, len(n.Elements))
		types := make([]typeterm.Type, len(n.Elements))
		for i, el := range n.Elements {
			elements[i] = c.resolveExpr(ns, scope, el)
			types[i] = elements[i].Type()
		}
		return simplified.NewTuple(elements, typeterm.Tuple{Elements: types}, n.Loc)

	case ast.SetExpr:
		elements := make([]simplified.Expr, len(n.Elements))
		var elemType typeterm.Type = typeterm.Primitive{Name: typeterm.Unit}
		for i, el := range n.Elements {
			elements[i] = c.resolveExpr(ns, scope, el)
			if i == 0 {
				elemType = elements[i].Type()
			}
		}
		// Sets have no dedicated type-term constructor; they are modeled as
		// the same generic container shape as Array, parameterized by the
		// type of the first element (Unit for an empty set).
		setType := typeterm.App{Base: typeterm.Primitive{Name: typeterm.Array}, Arg: elemType}
		return simplified.NewSet(elements, setType, n.Loc)

	case ast.GetTupleIndexExpr:
		sub := c.resolveExpr(ns, scope, n.E)
		elemType := typeterm.Type(typeterm.Primitive{Name: typeterm.Unit})
		if tup, ok := sub.Type().(typeterm.Tuple); ok && n.Index < len(tup.Elements) {
			elemType = tup.Elements[n.Index]
		}
		return simplified.NewGetTupleIndex(sub, n.Index, elemType, n.Loc)

	case ast.CheckTagExpr:
		sub := c.resolveExpr(ns, scope, n.E)
		return simplified.NewCheckTag(n.Tag, sub, n.Loc)

	case ast.GetTagValueExpr:
		sub := c.resolveExpr(ns, scope, n.E)
		// The payload's precise static type varies by which case the value
		// happens to carry at runtime; without full inference there is no
		// single static answer, so this falls back to Unit. The partial
		// evaluator never consults this field when projecting an actual Tag
		// value — it derives the payload's type from the payload
		// expression it finds — so this only approximates a residual
		// GetTagValue that never gets the chance to reduce.
		return simplified.NewGetTagValue(sub, typeterm.Primitive{Name: typeterm.Unit}, n.Loc)

	case ast.UnitExpr:
		return simplified.NewUnit(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
	case ast.TrueExpr:
		return simplified.NewTrue(typeterm.Primitive{Name: typeterm.Bool}, n.Loc)
	case ast.FalseExpr:
		return simplified.NewFalse(typeterm.Primitive{Name: typeterm.Bool}, n.Loc)
	case ast.IntExpr:
		return resolveIntLit(n)
	case ast.StrExpr:
		return simplified.NewStr(n.Value, n.Loc)
	case ast.ErrorExpr:
		return simplified.NewErrorExpr(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
	case ast.MatchErrorExpr:
		return simplified.NewMatchErrorExpr(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)

	default:
		diagnostics.Fatal("resolve.resolveExpr", fmt.Sprintf("unrecognized surface expression node %T", e), e.Pos())
		panic("unreachable")
	}
}

func resolveIntLit(n ast.IntExpr) simplified.Expr {
	switch n.Width {
	case 8:
		return simplified.NewInt8(int8(n.Value), n.Loc)
	case 16:
		return simplified.NewInt16(int16(n.Value), n.Loc)
	case 32:
		return simplified.NewInt32(int32(n.Value), n.Loc)
	default:
		return simplified.NewInt64(n.Value, n.Loc)
	}
}

func binaryResultType(op string, operandType typeterm.Type) typeterm.Type {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=", "&&", "||", "=>", "<=>":
		return typeterm.Primitive{Name: typeterm.Bool}
	default:
		return operandType
	}
}

// resolveLambda requires every formal's type to be explicit (see the
// package doc comment); a lambda left to inference is reported as an
// UndefinedType diagnostic rather than crashing the pass.
func (c *ctx) resolveLambda(ns string, scope *typeScope, n ast.LambdaExpr) simplified.Expr {
	if n.FormalTypes == nil || len(n.FormalTypes) != len(n.Formals) {
		c.bag.Add(&diagnostics.Diagnostic{
			Code:    diagnostics.UndefinedType,
			Name:    "lambda formal type",
			Loc:     n.Loc,
			Message: "every lambda formal needs an explicit type annotation",
		})
		return simplified.NewErrorExpr(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
	}

	formalTypes := make([]typeterm.Type, len(n.Formals))
	inner := scope
	for i, formal := range n.Formals {
		t, diag := elaborate.LookupType(c.reg, c.prog, n.FormalTypes[i], ns)
		if diag != nil {
			c.bag.Add(diag)
			t = typeterm.Primitive{Name: typeterm.Unit}
		}
		formalTypes[i] = t
		inner = inner.extend(formal, t)
	}
	body := c.resolveExpr(ns, inner, n.Body)
	arrow := typeterm.Arrow{Params: formalTypes, Result: body.Type()}
	return simplified.NewLambda(n.Formals, body, arrow, n.Loc)
}

// resolveDefRef resolves a Def(ref) occurrence: unqualified names try the
// current namespace (defs, anonymous expressions, and hooks together)
// first, falling back to the root namespace only when the current namespace
// has no match; qualified names resolve only in the named namespace.
// Finding the name more than once within the one namespace searched (e.g. a
// def and a hook of the same name) is ambiguous.
func (c *ctx) resolveDefRef(ns string, n ast.DefExpr) simplified.Expr {
	var candidates []*ResolvedDef

	if n.Ref.Qualified() {
		target := n.Ref.Namespace()
		candidates = c.lookupInNamespace(target, n.Ref.Ident)
	} else {
		candidates = c.lookupInNamespace(ns, n.Ref.Ident)
		if len(candidates) == 0 && ns != "" {
			candidates = c.lookupInNamespace("", n.Ref.Ident)
		}
	}

	if len(candidates) == 0 {
		c.bag.Add(&diagnostics.Diagnostic{
			Code:      diagnostics.UndefinedDef,
			Name:      n.Ref.Ident,
			Namespace: ns,
			Loc:       n.Loc,
			Message:   "undefined definition: " + n.Ref.String(),
		})
		return simplified.NewErrorExpr(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
	}
	if len(candidates) > 1 {
		locs := make([]string, len(candidates))
		for i, cand := range candidates {
			locs[i] = cand.Sym.String()
		}
		c.bag.Add(&diagnostics.Diagnostic{
			Code:       diagnostics.AmbiguousRef,
			Name:       n.Ref.Ident,
			Namespace:  ns,
			Loc:        n.Loc,
			Message:    "ambiguous reference: " + n.Ref.String(),
			Candidates: diagnostics.SortedCandidates(locs),
		})
		return simplified.NewErrorExpr(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
	}

	target := candidates[0]
	if !target.Hook {
		access.CheckDef(c.bag, &ast.Def{Name: target.Name, Public: target.Public, Loc: n.Loc}, target.Namespace, ns, n.Loc)
	}
	return simplified.NewRef(target.Sym.String(), target.Type, n.Loc)
}

// lookupInNamespace returns every def, anonymous def, or hook literally
// declared with name ident in namespace nsName, resolving (and memoizing)
// each one along the way.
func (c *ctx) lookupInNamespace(nsName, ident string) []*ResolvedDef {
	var found []*ResolvedDef
	if nsDecl, ok := c.prog.Namespaces[nsName]; ok {
		if d, ok := nsDecl.FindDef(ident); ok {
			found = append(found, c.resolveDef(nsName, d))
		}
		for _, a := range nsDecl.Anonymous {
			if a.Name == ident {
				found = append(found, c.resolveAnonymous(nsName, a))
			}
		}
	}
	key := ident
	if nsName != "" {
		key = nsName + "." + ident
	}
	if hook, ok := c.prog.Hooks[key]; ok {
		found = append(found, c.resolveHook(nsName, ident, hook))
	}
	return found
}

// resolveTag resolves a TagExpr into either a direct Tag construction (when
// written with a payload, or when the case's declared payload is Unit) or a
// synthesized eta-expansion lambda (when a non-unit-payload case is
// referenced bare, e.g. "Some" rather than "Some(x)").
func (c *ctx) resolveTag(ns string, scope *typeScope, n ast.TagExpr) simplified.Expr {
	enum, declaringNs, diag := tags.LookupEnumByTag(c.prog, n.Enum, n.Tag, ns, n.Loc)
	if diag != nil {
		c.bag.Add(diag)
		return simplified.NewErrorExpr(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
	}
	enumSym := c.reg.MkDefnSym(declaringNs, enum.Name, enum.Loc)
	enumType := typeterm.EnumRef{Sym: enumSym.String(), Name: enum.Name, Kind: typeterm.EnumOrdinary}
	enumCase, _ := enum.FindCase(n.Tag)

	if n.Payload != nil {
		payload := c.resolveExpr(ns, scope, n.Payload)
		return simplified.NewTag(enumSym.String(), n.Tag, payload, enumType, n.Loc)
	}

	if enumCase.PayloadType == nil {
		payload := simplified.NewUnit(typeterm.Primitive{Name: typeterm.Unit}, n.Loc)
		return simplified.NewTag(enumSym.String(), n.Tag, payload, enumType, n.Loc)
	}

	payloadType, diag := elaborate.LookupType(c.reg, c.prog, enumCase.PayloadType, declaringNs)
	if diag != nil {
		c.bag.Add(diag)
		payloadType = typeterm.Primitive{Name: typeterm.Unit}
	}
	formal := c.reg.FreshVarSym("eta")
	formalVar := simplified.NewVar(formal.Ident, payloadType, n.Loc)
	tag := simplified.NewTag(enumSym.String(), n.Tag, formalVar, enumType, n.Loc)
	arrow := typeterm.Arrow{Params: []typeterm.Type{payloadType}, Result: enumType}
	return simplified.NewLambda([]string{formal.Ident}, tag, arrow, n.Loc)
}
