package syntax

// Constructors for hand-built types. Tokens are rendered from the
// structure so CanonicalType works on the result.

// NewPath returns a path type with the given segments.
func NewPath(segments ...Segment) *Type {
	t := &Type{Kind: TypePath, Segments: segments}
	for i, seg := range segments {
		if i > 0 {
			t.Tokens = append(t.Tokens, "::")
		}
		t.Tokens = append(t.Tokens, seg.Name)
		if len(seg.Args) == 0 {
			continue
		}
		t.Tokens = append(t.Tokens, "<")
		for j, a := range seg.Args {
			if j > 0 {
				t.Tokens = append(t.Tokens, ",")
			}
			switch a.Kind {
			case ArgLifetime:
				t.Tokens = append(t.Tokens, a.Lifetime)
			case ArgType:
				t.Tokens = append(t.Tokens, a.Type.Tokens...)
			default:
				t.Tokens = append(t.Tokens, a.Text)
			}
		}
		t.Tokens = append(t.Tokens, ">")
	}
	return t
}

// Named is shorthand for a single-segment path type.
func Named(name string, args ...GenericArg) *Type {
	return NewPath(Seg(name, args...))
}

// Seg returns a path segment.
func Seg(name string, args ...GenericArg) Segment {
	return Segment{Name: name, Args: args}
}

// TypeArg wraps t as a generic type argument.
func TypeArg(t *Type) GenericArg {
	return GenericArg{Kind: ArgType, Type: t}
}

// LifetimeArg returns a lifetime generic argument such as "'info".
func LifetimeArg(name string) GenericArg {
	return GenericArg{Kind: ArgLifetime, Lifetime: name}
}

// NewReference returns &elem or &mut elem.
func NewReference(elem *Type, mutable bool) *Type {
	t := &Type{Kind: TypeReference, Elem: elem, Mutable: mutable, Tokens: []string{"&"}}
	if mutable {
		t.Tokens = append(t.Tokens, "mut")
	}
	t.Tokens = append(t.Tokens, elem.Tokens...)
	return t
}

// OtherType returns an unclassified type with the given tokens.
func OtherType(tokens ...string) *Type {
	return &Type{Kind: TypeOther, Tokens: tokens}
}
