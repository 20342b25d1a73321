// Package source holds the minimal source-location value shared by the
// pre-resolution AST, the post-resolution symbols, and every diagnostic.
//
// Lexing and parsing happen upstream of this package: it does not produce
// positions, only represents the ones handed to it, widened with a file name
// since a program spans many files.
package source

import "fmt"

// Position is a single point in a source file.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether the position carries no information, e.g. for
// synthesized nodes (eta-expansions, fresh holes) that have no source text.
func (p Position) IsZero() bool {
	return p.File == "" && p.Line == 0 && p.Column == 0
}
