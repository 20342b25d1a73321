package simplified

// IsValue reports whether e is a value: a literal, Unit, True/False, a Str,
// a Closure, or a Tag/Tuple whose components are recursively values.
// Everything else — including Hole — is a residual.
func IsValue(e Expr) bool {
	switch t := e.(type) {
	case UnitLit, TrueLit, FalseLit, Int8Lit, Int16Lit, Int32Lit, Int64Lit, StrLit, Closure:
		return true
	case Tag:
		return t.Payload == nil || IsValue(t.Payload)
	case Tuple:
		for _, el := range t.Elements {
			if !IsValue(el) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
