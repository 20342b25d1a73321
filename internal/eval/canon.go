package eval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/ferrite/internal/simplified"
)

// Verdict is the three-valued result of a syntactic equality comparison:
// two expressions can be known equal, known distinct, or neither without
// actually running them.
type Verdict int

const (
	Equal Verdict = iota
	NotEq
	Unknown
)

// SyntacticEqual decides whether e1 and e2 are the same value by inspecting
// their shape alone, never by evaluating them further. It is deliberately
// conservative: anything it cannot decide from literal/Tag/Tuple structure
// comes back Unknown rather than guessed.
func SyntacticEqual(e1, e2 simplified.Expr) Verdict {
	switch a := e1.(type) {
	case simplified.UnitLit:
		if _, ok := e2.(simplified.UnitLit); ok {
			return Equal
		}

	case simplified.TrueLit:
		if _, ok := e2.(simplified.TrueLit); ok {
			return Equal
		}
		if _, ok := e2.(simplified.FalseLit); ok {
			return NotEq
		}

	case simplified.FalseLit:
		if _, ok := e2.(simplified.FalseLit); ok {
			return Equal
		}
		if _, ok := e2.(simplified.TrueLit); ok {
			return NotEq
		}

	case simplified.Int8Lit:
		if b, ok := e2.(simplified.Int8Lit); ok {
			return boolVerdict(a.Value == b.Value)
		}

	case simplified.Int16Lit:
		if b, ok := e2.(simplified.Int16Lit); ok {
			return boolVerdict(a.Value == b.Value)
		}

	case simplified.Int32Lit:
		if b, ok := e2.(simplified.Int32Lit); ok {
			return boolVerdict(a.Value == b.Value)
		}

	case simplified.Int64Lit:
		if b, ok := e2.(simplified.Int64Lit); ok {
			return boolVerdict(a.Value == b.Value)
		}

	case simplified.StrLit:
		if b, ok := e2.(simplified.StrLit); ok {
			return boolVerdict(a.Value == b.Value)
		}

	case simplified.Tag:
		if b, ok := e2.(simplified.Tag); ok {
			if a.TagName != b.TagName {
				return NotEq
			}
			return SyntacticEqual(a.Payload, b.Payload)
		}

	case simplified.Tuple:
		if b, ok := e2.(simplified.Tuple); ok {
			if len(a.Elements) != len(b.Elements) {
				return NotEq
			}
			allEqual := true
			for i := range a.Elements {
				switch SyntacticEqual(a.Elements[i], b.Elements[i]) {
				case NotEq:
					return NotEq
				case Unknown:
					allEqual = false
				}
			}
			if allEqual {
				return Equal
			}
		}
	}
	return Unknown
}

func boolVerdict(eq bool) Verdict {
	if eq {
		return Equal
	}
	return NotEq
}

// commutative lists the binary operators Canonicalize is allowed to reorder
// operands for.
var commutative = map[string]bool{
	"+": true, "*": true, "==": true,
	"&&": true, "||": true,
	"&": true, "|": true, "^": true,
}

// Canonicalize rewrites e into a canonical form by reordering the operands
// of commutative operators into a deterministic order, recursively. It is
// idempotent: canonicalizing an already-canonical expression returns an
// expression with the same shape.
//
// Reordering is restricted to operators, never to Tuple or Set element
// order — a Tuple's positions are meaningful and a Set's written order,
// while not semantically significant, isn't reordered here either, since
// doing so would require a total order over arbitrary residual expressions
// beyond what this key needs to guarantee.
func Canonicalize(e simplified.Expr) simplified.Expr {
	switch n := e.(type) {
	case simplified.Binary:
		e1 := Canonicalize(n.E1)
		e2 := Canonicalize(n.E2)
		if commutative[n.Op] && canonicalKey(e1) > canonicalKey(e2) {
			e1, e2 = e2, e1
		}
		return simplified.NewBinary(n.Op, e1, e2, n.Type(), n.Loc())

	case simplified.Unary:
		return simplified.NewUnary(n.Op, Canonicalize(n.E), n.Type(), n.Loc())

	case simplified.IfThenElse:
		return simplified.NewIfThenElse(Canonicalize(n.Cond), Canonicalize(n.Then), Canonicalize(n.Else), n.Type(), n.Loc())

	case simplified.Let:
		return simplified.NewLet(n.Name, Canonicalize(n.Bound), Canonicalize(n.Body), n.Type(), n.Loc())

	case simplified.Apply3:
		callee := Canonicalize(n.Callee)
		actuals := make([]simplified.Expr, len(n.Actuals))
		for i, a := range n.Actuals {
			actuals[i] = Canonicalize(a)
		}
		return simplified.NewApply(callee, actuals, n.Type(), n.Loc())

	case simplified.Lambda:
		return simplified.NewLambda(n.Formals, Canonicalize(n.Body), n.Type(), n.Loc())

	case simplified.Tag:
		return simplified.NewTag(n.EnumSym, n.TagName, Canonicalize(n.Payload), n.Type(), n.Loc())

	case simplified.CheckTag:
		return simplified.NewCheckTag(n.TagName, Canonicalize(n.E), n.Loc())

	case simplified.GetTagValue:
		return simplified.NewGetTagValue(Canonicalize(n.E), n.Type(), n.Loc())

	case simplified.Tuple:
		elems := make([]simplified.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = Canonicalize(el)
		}
		return simplified.NewTuple(elems, n.Type(), n.Loc())

	case simplified.GetTupleIndex:
		return simplified.NewGetTupleIndex(Canonicalize(n.E), n.Offset, n.Type(), n.Loc())

	case simplified.Set:
		elems := make([]simplified.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = Canonicalize(el)
		}
		return simplified.NewSet(elems, n.Type(), n.Loc())

	default:
		return e
	}
}

// canonicalKey renders a deterministic structural string for e, used only
// to order the two sides of a commutative operator. It carries no semantic
// meaning beyond providing a stable, idempotent tie-break.
func canonicalKey(e simplified.Expr) string {
	switch n := e.(type) {
	case simplified.UnitLit:
		return "U"
	case simplified.TrueLit:
		return "T"
	case simplified.FalseLit:
		return "F"
	case simplified.Int8Lit:
		return fmt.Sprintf("I8(%d)", n.Value)
	case simplified.Int16Lit:
		return fmt.Sprintf("I16(%d)", n.Value)
	case simplified.Int32Lit:
		return fmt.Sprintf("I32(%d)", n.Value)
	case simplified.Int64Lit:
		return fmt.Sprintf("I64(%d)", n.Value)
	case simplified.StrLit:
		return fmt.Sprintf("S(%q)", n.Value)
	case simplified.Var:
		return "Var(" + n.Name + ")"
	case simplified.Ref:
		return "Ref(" + n.Sym + ")"
	case simplified.Hole:
		return "Hole(" + n.Sym + ")"
	case simplified.Tag:
		return fmt.Sprintf("Tag(%s,%s)", n.TagName, canonicalKey(n.Payload))
	case simplified.Tuple:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = canonicalKey(el)
		}
		return "Tuple(" + strings.Join(parts, ",") + ")"
	case simplified.Set:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			parts[i] = canonicalKey(el)
		}
		sort.Strings(parts)
		return "Set(" + strings.Join(parts, ",") + ")"
	case simplified.Binary:
		return fmt.Sprintf("Binary(%s,%s,%s)", n.Op, canonicalKey(n.E1), canonicalKey(n.E2))
	case simplified.Unary:
		return fmt.Sprintf("Unary(%s,%s)", n.Op, canonicalKey(n.E))
	default:
		return fmt.Sprintf("%T", e)
	}
}
