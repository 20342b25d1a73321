// Package access decides whether a symbol declared in namespace N is
// visible from namespace M.
package access

import (
	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/source"
)

// Accessible is the core decision: a definition/enum declared in declaringNs
// is accessible from fromNs iff it is public, or fromNs is declaringNs or a
// descendant of it.
func Accessible(public bool, declaringNs, fromNs string) bool {
	return public || ast.IsDescendantOrSelf(fromNs, declaringNs)
}

// CheckDef reports an InaccessibleDef diagnostic into bag if def, declared
// in declaringNs, is not visible from fromNs, and returns whether it is
// accessible.
func CheckDef(bag *diagnostics.Bag, def *ast.Def, declaringNs, fromNs string, useLoc source.Position) bool {
	if Accessible(def.Public, declaringNs, fromNs) {
		return true
	}
	bag.Add(&diagnostics.Diagnostic{
		Code:      diagnostics.InaccessibleDef,
		Name:      def.Name,
		Namespace: fromNs,
		Loc:       useLoc,
		Message:   "definition " + declaringNs + "." + def.Name + " is not accessible from " + fromNs,
	})
	return false
}

// CheckEnum reports an InaccessibleEnum diagnostic into bag if enum,
// declared in declaringNs, is not visible from fromNs.
func CheckEnum(bag *diagnostics.Bag, enum *ast.EnumDecl, declaringNs, fromNs string, useLoc source.Position) bool {
	if Accessible(enum.Public, declaringNs, fromNs) {
		return true
	}
	bag.Add(&diagnostics.Diagnostic{
		Code:      diagnostics.InaccessibleEnum,
		Name:      enum.Name,
		Namespace: fromNs,
		Loc:       useLoc,
		Message:   "enum " + declaringNs + "." + enum.Name + " is not accessible from " + fromNs,
	})
	return false
}
