package compiler

import "github.com/roach88/stylusport/internal/syntax"

// ResolveContext reports whether t is a context type and, when it carries
// exactly one type argument, the canonical text of that argument.
//
// Leading & and &mut layers are stripped first. Lifetime arguments do not
// count, so Context<'info, Deposit> resolves to "Deposit". A bare Context,
// or one with several type arguments, is context-bearing with no name.
func ResolveContext(t *syntax.Type) (isContext bool, structName string) {
	seg, ok := syntax.LastSegment(syntax.StripReferences(t))
	if !ok || seg.Name != "Context" {
		return false, ""
	}
	arg, ok := syntax.SingleTypeArgument(seg)
	if !ok {
		return true, ""
	}
	return true, syntax.CanonicalType(arg)
}
