package elaborate

import (
	"testing"

	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/source"
	"github.com/funvibe/ferrite/internal/symbols"
	"github.com/funvibe/ferrite/internal/typeterm"
)

func TestBuiltinAliases(t *testing.T) {
	reg := symbols.NewRegistry()
	prog := ast.NewProgram()

	intT, diag := LookupType(reg, prog, ast.NamedType{Name: "Int"}, "")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if p, ok := intT.(typeterm.Primitive); !ok || p.Name != typeterm.Int32 {
		t.Fatalf("expected Int to alias Int32, got %v", intT)
	}

	floatT, diag := LookupType(reg, prog, ast.NamedType{Name: "Float"}, "")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if p, ok := floatT.(typeterm.Primitive); !ok || p.Name != typeterm.Float64 {
		t.Fatalf("expected Float to alias Float64, got %v", floatT)
	}
}

func TestUndefinedType(t *testing.T) {
	reg := symbols.NewRegistry()
	prog := ast.NewProgram()
	_, diag := LookupType(reg, prog, ast.NamedType{Name: "Nope"}, "")
	if diag == nil {
		t.Fatalf("expected UndefinedType diagnostic")
	}
}

func TestAmbiguousNameTriesCurrentNamespaceThenRoot(t *testing.T) {
	reg := symbols.NewRegistry()
	prog := ast.NewProgram()
	prog.Namespace("a.b").Enums = append(prog.Namespace("a.b").Enums, &ast.EnumDecl{Name: "Widget"})
	prog.Namespace("").Enums = append(prog.Namespace("").Enums, &ast.EnumDecl{Name: "Gadget"})

	t1, diag := LookupType(reg, prog, ast.NamedType{Name: "Widget"}, "a.b")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if ref, ok := t1.(typeterm.EnumRef); !ok || ref.Name != "Widget" {
		t.Fatalf("expected Widget enum ref, got %v", t1)
	}

	t2, diag := LookupType(reg, prog, ast.NamedType{Name: "Gadget"}, "a.b")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	if ref, ok := t2.(typeterm.EnumRef); !ok || ref.Name != "Gadget" {
		t.Fatalf("expected root-namespace fallback to Gadget, got %v", t2)
	}
}

func TestQualifiedNameResolvesOnlyInNamedNamespace(t *testing.T) {
	reg := symbols.NewRegistry()
	prog := ast.NewProgram()
	prog.Namespace("a.b").Enums = append(prog.Namespace("a.b").Enums, &ast.EnumDecl{Name: "Widget"})

	_, diag := LookupType(reg, prog, ast.NamedType{Qualifier: "x.y", Name: "Widget"}, "a.b")
	if diag == nil {
		t.Fatalf("expected UndefinedType for a qualified lookup in a namespace lacking the enum")
	}
}

func TestTupleAndArrowTypesRecurse(t *testing.T) {
	reg := symbols.NewRegistry()
	prog := ast.NewProgram()

	tup, diag := LookupType(reg, prog, ast.TupleType{Elements: []ast.TypeExpr{
		ast.NamedType{Name: "Int"},
		ast.NamedType{Name: "Bool"},
	}}, "")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	tt, ok := tup.(typeterm.Tuple)
	if !ok || len(tt.Elements) != 2 {
		t.Fatalf("expected a 2-element tuple type, got %v", tup)
	}

	arrow, diag := LookupType(reg, prog, ast.ArrowType{
		Params: []ast.TypeExpr{ast.NamedType{Name: "Int"}},
		Result: ast.NamedType{Name: "Bool"},
	}, "")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	at, ok := arrow.(typeterm.Arrow)
	if !ok || len(at.Params) != 1 {
		t.Fatalf("expected a 1-param arrow type, got %v", arrow)
	}
}

func TestTypeApplicationConstructsAppNode(t *testing.T) {
	reg := symbols.NewRegistry()
	prog := ast.NewProgram()
	typ, diag := LookupType(reg, prog, ast.NamedType{
		Name: "Array",
		Args: []ast.TypeExpr{ast.NamedType{Name: "Int"}},
		Loc:  source.Position{},
	}, "")
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %v", diag)
	}
	app, ok := typ.(typeterm.App)
	if !ok {
		t.Fatalf("expected an App node, got %v", typ)
	}
	if base, ok := app.Base.(typeterm.Primitive); !ok || base.Name != typeterm.Array {
		t.Fatalf("expected Array base, got %v", app.Base)
	}
}
