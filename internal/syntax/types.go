package syntax

import (
	"strings"
	"unicode"
)

// CanonicalType renders t as canonical type text. A nil type renders as "".
func CanonicalType(t *Type) string {
	if t == nil {
		return ""
	}
	return Canonicalize(strings.Join(t.Tokens, " "))
}

// Canonicalize strips whitespace on both sides of < > ( ) [ ] , : and
// collapses every remaining whitespace run to a single space.
// Leading and trailing whitespace is removed.
func Canonicalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	pendingSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace && b.Len() > 0 && !isTight(r) && !endsTight(b.String()) {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func isTight(r rune) bool {
	switch r {
	case '<', '>', '(', ')', '[', ']', ',', ':':
		return true
	}
	return false
}

func endsTight(s string) bool {
	return s != "" && isTight(rune(s[len(s)-1]))
}

// StripReferences removes any number of leading & / &mut layers.
func StripReferences(t *Type) *Type {
	for t != nil && t.Kind == TypeReference {
		t = t.Elem
	}
	return t
}

// LastSegment returns the final segment of a path type.
func LastSegment(t *Type) (Segment, bool) {
	if t == nil || t.Kind != TypePath || len(t.Segments) == 0 {
		return Segment{}, false
	}
	return t.Segments[len(t.Segments)-1], true
}

// TypeArguments returns the type arguments of seg, skipping lifetimes and
// other argument kinds.
func TypeArguments(seg Segment) []*Type {
	var out []*Type
	for _, a := range seg.Args {
		if a.Kind == ArgType && a.Type != nil {
			out = append(out, a.Type)
		}
	}
	return out
}

// SingleTypeArgument returns the segment's type argument when there is
// exactly one. Lifetime arguments are not counted.
func SingleTypeArgument(seg Segment) (*Type, bool) {
	args := TypeArguments(seg)
	if len(args) != 1 {
		return nil, false
	}
	return args[0], true
}
