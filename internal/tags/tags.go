// Package tags resolves which enum declares a given tag name: given an
// optional enum qualifier, a tag name, and the current namespace, it finds
// the unique enum declaring the tag, handling global vs namespace-local
// ambiguity.
package tags

import (
	"fmt"

	"github.com/funvibe/ferrite/internal/access"
	"github.com/funvibe/ferrite/internal/ast"
	"github.com/funvibe/ferrite/internal/diagnostics"
	"github.com/funvibe/ferrite/internal/source"
)

// candidate pairs a declaring namespace with the enum found there.
type candidate struct {
	ns   string
	enum *ast.EnumDecl
}

func (c candidate) location() string {
	if c.ns == "" {
		return c.enum.Name
	}
	return c.ns + "." + c.enum.Name
}

// LookupEnumByTag resolves which enum declares tagName, as written with an
// optional enumQualifier (an explicit, possibly-namespaced enum name, e.g.
// "Option" in "Option.Some") from currentNs. useLoc is attributed to any
// diagnostic raised.
//
// On success it returns the declaring enum and its namespace. On failure it
// returns a nil enum and a non-nil diagnostic (UndefinedTag or
// AmbiguousTag).
func LookupEnumByTag(prog *ast.Program, enumQualifier *ast.Name, tagName, currentNs string, useLoc source.Position) (*ast.EnumDecl, string, *diagnostics.Diagnostic) {
	global := declaring(prog, tagName, nil)

	// 1. Exactly one match anywhere in the program: return it, subject to
	// accessibility.
	if len(global) == 1 {
		return accept(global[0], currentNs, useLoc)
	}

	// 2. Restrict to the specified namespace (the qualifier's own namespace
	// if it is itself qualified, else the current namespace).
	restrictNs := currentNs
	if enumQualifier != nil && enumQualifier.Qualified() {
		restrictNs = enumQualifier.Namespace()
	}
	local := declaring(prog, tagName, &restrictNs)

	// 4. No match in the restricted namespace: fail. Exception — an
	// unqualified reference that was globally ambiguous (step 1 found more
	// than one candidate) stays ambiguous even when neither candidate
	// happens to live in currentNs; only report UndefinedTag once the
	// global scan itself came up empty.
	if len(local) == 0 {
		if enumQualifier == nil && len(global) > 1 {
			return nil, "", ambiguousTag(tagName, currentNs, useLoc, global)
		}
		return nil, "", undefinedTag(tagName, currentNs, useLoc)
	}

	// 3. Exactly one match restricted to the namespace: return it.
	if len(local) == 1 {
		return accept(local[0], currentNs, useLoc)
	}

	// 5/6. Multiple candidates in the namespace.
	if enumQualifier == nil {
		return nil, "", ambiguousTag(tagName, currentNs, useLoc, local)
	}
	filtered := filterByEnumName(local, enumQualifier.Ident)
	if len(filtered) == 1 {
		return accept(filtered[0], currentNs, useLoc)
	}
	if len(filtered) == 0 {
		return nil, "", undefinedTag(tagName, currentNs, useLoc)
	}
	return nil, "", ambiguousTag(tagName, currentNs, useLoc, filtered)
}

func declaring(prog *ast.Program, tagName string, onlyNs *string) []candidate {
	var out []candidate
	for _, pair := range prog.AllEnums() {
		if onlyNs != nil && pair.Namespace != *onlyNs {
			continue
		}
		if _, ok := pair.Enum.FindCase(tagName); ok {
			out = append(out, candidate{ns: pair.Namespace, enum: pair.Enum})
		}
	}
	return out
}

func filterByEnumName(cands []candidate, name string) []candidate {
	var out []candidate
	for _, c := range cands {
		if c.enum.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func accept(c candidate, currentNs string, useLoc source.Position) (*ast.EnumDecl, string, *diagnostics.Diagnostic) {
	if !access.Accessible(c.enum.Public, c.ns, currentNs) {
		return nil, "", &diagnostics.Diagnostic{
			Code:      diagnostics.InaccessibleEnum,
			Name:      c.enum.Name,
			Namespace: currentNs,
			Loc:       useLoc,
			Message:   fmt.Sprintf("enum %s is not accessible from %s", c.location(), currentNs),
		}
	}
	return c.enum, c.ns, nil
}

func undefinedTag(tagName, currentNs string, loc source.Position) *diagnostics.Diagnostic {
	return &diagnostics.Diagnostic{
		Code:      diagnostics.UndefinedTag,
		Name:      tagName,
		Namespace: currentNs,
		Loc:       loc,
		Message:   "undefined tag: " + tagName,
	}
}

func ambiguousTag(tagName, currentNs string, loc source.Position, cands []candidate) *diagnostics.Diagnostic {
	locs := make([]string, len(cands))
	for i, c := range cands {
		locs[i] = c.location()
	}
	return &diagnostics.Diagnostic{
		Code:       diagnostics.AmbiguousTag,
		Name:       tagName,
		Namespace:  currentNs,
		Loc:        loc,
		Message:    "ambiguous tag: " + tagName,
		Candidates: diagnostics.SortedCandidates(locs),
	}
}
