package symbols

import (
	"testing"

	"github.com/funvibe/ferrite/internal/source"
)

func TestMkDefnSymDeterministic(t *testing.T) {
	r := NewRegistry()
	a := r.MkDefnSym("a.b", "f", source.Position{Line: 1})
	b := r.MkDefnSym("a.b", "f", source.Position{Line: 2})
	if a != b {
		t.Fatalf("MkDefnSym(a.b, f) returned distinct symbols for repeated calls: %v != %v", a, b)
	}
	if a.ID != b.ID {
		t.Fatalf("expected identical IDs, got %d and %d", a.ID, b.ID)
	}
}

func TestMkDefnSymDistinctNamespaces(t *testing.T) {
	r := NewRegistry()
	a := r.MkDefnSym("a", "f", source.Position{})
	b := r.MkDefnSym("b", "f", source.Position{})
	if a == b {
		t.Fatalf("MkDefnSym minted the same symbol for distinct namespaces sharing an identifier")
	}
}

func TestMkHoleSymDoesNotCollideWithDefn(t *testing.T) {
	r := NewRegistry()
	def := r.MkDefnSym("a", "x", source.Position{})
	hole := r.MkHoleSym("a", "x", source.Position{})
	if def == hole {
		t.Fatalf("a hole and a def sharing a spelling in the same namespace must not collide")
	}
}

// TestFreshVarSymFreshness verifies spec.md §8's symbol freshness property:
// for all calls c1 != c2 to FreshVarSym, c1.result != c2.result.
func TestFreshVarSymFreshness(t *testing.T) {
	r := NewRegistry()
	seen := make(map[*Sym]bool)
	for i := 0; i < 1000; i++ {
		s := r.FreshVarSym("x")
		if seen[s] {
			t.Fatalf("FreshVarSym returned a symbol already seen on call %d", i)
		}
		seen[s] = true
	}
}

func TestFreshVarSymDistinctFromInterned(t *testing.T) {
	r := NewRegistry()
	def := r.MkDefnSym("", "eta", source.Position{})
	fresh := r.FreshVarSym("eta")
	if def == fresh {
		t.Fatalf("a fresh variable must never alias an interned definition symbol")
	}
}

func TestSymStringFormat(t *testing.T) {
	r := NewRegistry()
	root := r.MkDefnSym("", "f", source.Position{})
	nested := r.MkDefnSym("a.b", "g", source.Position{})
	if root.String() == "" || nested.String() == "" {
		t.Fatalf("String() must render a non-empty display name")
	}
	if nested.Namespace != "a.b" {
		t.Fatalf("expected namespace a.b, got %q", nested.Namespace)
	}
}

func TestNilSymString(t *testing.T) {
	var s *Sym
	if s.String() != "<nil>" {
		t.Fatalf("expected <nil> for a nil *Sym, got %q", s.String())
	}
}
