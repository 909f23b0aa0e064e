package compiler

import (
	"strings"

	"github.com/roach88/stylusport/internal/syntax"
)

// IsProgramModule reports whether item carries an attribute whose path is
// exactly "program". Arguments are not inspected.
func IsProgramModule(item *syntax.Item) bool {
	return hasAttribute(item.Attributes, "program")
}

// IsInstruction reports whether any parameter's type, after stripping
// references, is a path whose final segment is exactly "Context".
func IsInstruction(item *syntax.Item) bool {
	for _, p := range item.Params {
		if p.Receiver {
			continue
		}
		if isContextType(p.Type) {
			return true
		}
	}
	return false
}

// IsAccountStruct reports whether item has a derive attribute whose flat,
// comma-separated argument list contains the identifier "Accounts".
func IsAccountStruct(item *syntax.Item) bool {
	for _, attr := range item.Attributes {
		if !attr.Is("derive") {
			continue
		}
		for _, name := range strings.Split(attr.Args, ",") {
			if strings.TrimSpace(name) == "Accounts" {
				return true
			}
		}
	}
	return false
}

// IsRawAccount reports whether item has an attribute whose path is exactly
// "account", with or without arguments.
func IsRawAccount(item *syntax.Item) bool {
	return hasAttribute(item.Attributes, "account")
}

func hasAttribute(attrs []syntax.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Is(name) {
			return true
		}
	}
	return false
}

func isContextType(t *syntax.Type) bool {
	seg, ok := syntax.LastSegment(syntax.StripReferences(t))
	return ok && seg.Name == "Context"
}
