// Package elaborate maps surface type syntax to internal type terms,
// resolving type constructors that are either built-ins or user enums.
package elaborate

import (
	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/symbols"
	"github.com/funvibe/ferrite/internal/typeterm"
)

// LookupType maps a surface TypeExpr, written in namespace currentNs, to an
// internal type term. On failure it returns a nil Type and a non-nil
// UndefinedType diagnostic.
func LookupType(reg *symbols.Registry, prog *ast.Program, t ast.TypeExpr, currentNs string) (typeterm.Type, *diagnostics.Diagnostic) {
	switch tt := t.(type) {
	case ast.NamedType:
		return lookupNamed(reg, prog, tt, currentNs)
	case ast.TupleType:
		elems := make([]typeterm.Type, len(tt.Elements))
		for i, e := range tt.Elements {
			et, diag := LookupType(reg, prog, e, currentNs)
			if diag != nil {
				return nil, diag
			}
			elems[i] = et
		}
		return typeterm.Tuple{Elements: elems}, nil
	case ast.ArrowType:
		params := make([]typeterm.Type, len(tt.Params))
		for i, p := range tt.Params {
			pt, diag := LookupType(reg, prog, p, currentNs)
			if diag != nil {
				return nil, diag
			}
			params[i] = pt
		}
		result, diag := LookupType(reg, prog, tt.Result, currentNs)
		if diag != nil {
			return nil, diag
		}
		return typeterm.Arrow{Params: params, Result: result}, nil
	default:
		diagnostics.Fatal("elaborate.LookupType", "unrecognized surface type node", t.Pos())
		panic("unreachable")
	}
}

func lookupNamed(reg *symbols.Registry, prog *ast.Program, t ast.NamedType, currentNs string) (typeterm.Type, *diagnostics.Diagnostic) {
	base, diag := lookupBase(reg, prog, t, currentNs)
	if diag != nil {
		return nil, diag
	}
	result := base
	for _, argExpr := range t.Args {
		argType, diag := LookupType(reg, prog, argExpr, currentNs)
		if diag != nil {
			return nil, diag
		}
		result = typeterm.App{Base: result, Arg: argType}
	}
	return result, nil
}

func lookupBase(reg *symbols.Registry, prog *ast.Program, t ast.NamedType, currentNs string) (typeterm.Type, *diagnostics.Diagnostic) {
	if canonical, ok := typeterm.ResolveBuiltinName(t.Name); ok {
		return typeterm.Primitive{Name: canonical}, nil
	}

	if t.Qualifier != "" {
		// Qualified names resolve only in the specified namespace.
		ns, ok := prog.Namespaces[t.Qualifier]
		if !ok {
			return nil, undefined(t)
		}
		if enum, ok := ns.FindEnum(t.Name); ok {
			return enumRef(reg, t.Qualifier, enum), nil
		}
		return nil, undefined(t)
	}

	// Ambiguous (unqualified) names: (1) current namespace's enums first.
	if ns, ok := prog.Namespaces[currentNs]; ok {
		if enum, ok := ns.FindEnum(t.Name); ok {
			return enumRef(reg, currentNs, enum), nil
		}
	}
	// (2) fall back to the root namespace.
	if currentNs != "" {
		if root, ok := prog.Namespaces[""]; ok {
			if enum, ok := root.FindEnum(t.Name); ok {
				return enumRef(reg, "", enum), nil
			}
		}
	}
	// (3) fail.
	return nil, undefined(t)
}

func enumRef(reg *symbols.Registry, ns string, enum *ast.EnumDecl) typeterm.EnumRef {
	sym := reg.MkDefnSym(ns, enum.Name, enum.Loc)
	return typeterm.EnumRef{Sym: sym.String(), Name: enum.Name, Kind: typeterm.EnumOrdinary}
}

func undefined(t ast.NamedType) *diagnostics.Diagnostic {
	name := t.Name
	if t.Qualifier != "" {
		name = t.Qualifier + "." + t.Name
	}
	return &diagnostics.Diagnostic{
		Code:    diagnostics.UndefinedType,
		Name:    name,
		Loc:     t.Loc,
		Message: "undefined type: " + name,
	}
}
