// Package typeterm defines the post-resolution type term: a closed set of
// fully-inferred type shapes with no unification variables, no kinds, and no
// substitution. Terms are produced once by the elaborator and never unified
// or rewritten afterward; full inference runs elsewhere and hands this
// package its answer.
package typeterm

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the interface implemented by every type term variant.
//
// The set is closed (Primitive, EnumRef, Tuple, Arrow, App); exhaustive type
// switches over Type double as a compile-time completeness check whenever a
// new variant is added.
type Type interface {
	String() string
	typeTerm()
}

// Primitive is a built-in scalar or container type (Unit, Bool, Char,
// Int8/16/32/64, Float32/64, BigInt, Str, Array, Native, Ref).
type Primitive struct {
	Name string
}

func (Primitive) typeTerm()        {}
func (p Primitive) String() string { return p.Name }

// Well-known primitive names. "Int" and "Float" are surface
// aliases resolved to Int32/Float64 by the elaborator; they are never stored
// in a type term themselves.
const (
	Unit    = "Unit"
	Bool    = "Bool"
	Char    = "Char"
	Int8    = "Int8"
	Int16   = "Int16"
	Int32   = "Int32"
	Int64   = "Int64"
	Float32 = "Float32"
	Float64 = "Float64"
	BigInt  = "BigInt"
	Str     = "Str"
	Array   = "Array"
	Native  = "Native"
	Ref     = "Ref"
)

// EnumKind distinguishes ordinary user enums from built-in Option- and
// Result-shaped enums. The elaborator and resolver mark every enum they
// produce as EnumOrdinary, and eta-expansion synthesis for bare non-unit
// cases applies to every enum regardless of kind.
type EnumKind int

const (
	EnumOrdinary EnumKind = iota
	EnumBuiltinOption
	EnumBuiltinResult
)

// EnumRef is a reference to a user (or built-in) enum declaration. Enum
// symbols are compared by identity, so EnumRef carries the
// already-resolved symbol identity as a plain string key into the symbol
// registry rather than duplicating its fields; the registry is the single
// source of truth for what the symbol names and where it was declared.
type EnumRef struct {
	Sym  string // canonical symbol string, see symbols.Sym.String()
	Name string // enum name, for display only
	Kind EnumKind
}

func (EnumRef) typeTerm()        {}
func (e EnumRef) String() string { return e.Name }

// Tuple is an ordered, fixed-arity sequence of type terms.
type Tuple struct {
	Elements []Type
}

func (Tuple) typeTerm() {}
func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Arrow is a (possibly multi-parameter) function type: Params... -> Result.
type Arrow struct {
	Params []Type
	Result Type
}

func (Arrow) typeTerm() {}
func (a Arrow) String() string {
	parts := make([]string, len(a.Params))
	for i, p := range a.Params {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ") + " -> " + a.Result.String()
}

// App is a type constructor applied to one argument (curried: nested App
// values represent multi-argument application, e.g. Map<K, V> is
// App{App{Base: Map, Arg: K}, Arg: V}). Base is taken as given; no
// higher-kinded inference happens here.
type App struct {
	Base Type
	Arg  Type
}

func (App) typeTerm() {}
func (a App) String() string {
	return fmt.Sprintf("%s<%s>", a.Base.String(), a.Arg.String())
}

// Equal performs a structural comparison, the only notion of type equality
// this phase needs.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch at := a.(type) {
	case Primitive:
		bt, ok := b.(Primitive)
		return ok && at.Name == bt.Name
	case EnumRef:
		bt, ok := b.(EnumRef)
		return ok && at.Sym == bt.Sym
	case Tuple:
		bt, ok := b.(Tuple)
		if !ok || len(at.Elements) != len(bt.Elements) {
			return false
		}
		for i := range at.Elements {
			if !Equal(at.Elements[i], bt.Elements[i]) {
				return false
			}
		}
		return true
	case Arrow:
		bt, ok := b.(Arrow)
		if !ok || len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !Equal(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return Equal(at.Result, bt.Result)
	case App:
		bt, ok := b.(App)
		return ok && Equal(at.Base, bt.Base) && Equal(at.Arg, bt.Arg)
	default:
		return false
	}
}

// ErasedName returns the name used to key a continuation-interface
// descriptor: primitives erase to themselves, everything composite erases to
// a single generic tag, since the emitter only distinguishes result shapes by
// their erased identity.
func ErasedName(t Type) string {
	switch tt := t.(type) {
	case Primitive:
		return tt.Name
	case EnumRef:
		return "Object"
	default:
		return "Object"
	}
}

// builtinAliases maps surface-syntax aliases to their canonical primitive
// name: Int aliases Int32, Float aliases Float64.
var builtinAliases = map[string]string{
	"Int":   Int32,
	"Float": Float64,
}

// BuiltinPrimitives lists every primitive name resolvable by bare surface
// syntax, i.e. the fixed internal primitives plus their aliases.
func BuiltinPrimitives() []string {
	names := []string{Unit, Bool, Char, Int8, Int16, Int32, Int64, Float32, Float64, BigInt, Str, Array, Native, Ref}
	aliases := make([]string, 0, len(builtinAliases))
	for k := range builtinAliases {
		aliases = append(aliases, k)
	}
	sort.Strings(aliases)
	return append(names, aliases...)
}

// ResolveBuiltinName canonicalizes a builtin surface name, applying the
// Int/Float aliasing rule. ok is false if name is not a recognized builtin.
func ResolveBuiltinName(name string) (canonical string, ok bool) {
	if alias, isAlias := builtinAliases[name]; isAlias {
		return alias, true
	}
	for _, p := range []string{Unit, Bool, Char, Int8, Int16, Int32, Int64, Float32, Float64, BigInt, Str, Array, Native, Ref} {
		if p == name {
			return p, true
		}
	}
	return "", false
}
