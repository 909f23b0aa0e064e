package normalize

import (
	"strings"

	"github.com/roach88/stylusport/internal/ir"
)

// Link sets the account-struct reference of every instruction that has none,
// using the first context-bearing parameter whose type resolves a name.
// References that are already set are never overwritten.
func Link(np *ir.NormalizedProgram) {
	for mi := range np.Modules {
		for ii := range np.Modules[mi].Instructions {
			in := &np.Modules[mi].Instructions[ii]
			if in.AccountStructName != "" {
				continue
			}
			p, ok := in.ContextParameter()
			if !ok {
				continue
			}
			if name := contextStructName(p.Type); name != "" {
				in.AccountStructName = name
			}
		}
	}
}

// contextStructName resolves the struct named by canonical context type
// text, e.g. "& mut Context<'info,Deposit>" -> "Deposit". It returns ""
// unless there is exactly one type argument, matching compiler.ResolveContext.
func contextStructName(ty string) string {
	t := strings.TrimSpace(ty)
	for strings.HasPrefix(t, "&") {
		t = strings.TrimSpace(t[1:])
		if strings.HasPrefix(t, "'") {
			if i := strings.IndexByte(t, ' '); i >= 0 {
				t = strings.TrimSpace(t[i:])
			}
		}
		if rest, ok := strings.CutPrefix(t, "mut "); ok {
			t = strings.TrimSpace(rest)
		}
	}

	open := strings.IndexByte(t, '<')
	if open < 0 || !strings.HasSuffix(t, ">") {
		return ""
	}
	head := strings.TrimSpace(t[:open])
	if i := strings.LastIndex(head, "::"); i >= 0 {
		head = head[i+2:]
	}
	if head != "Context" {
		return ""
	}

	var typeArgs []string
	for _, arg := range splitGenericArgs(t[open+1 : len(t)-1]) {
		arg = strings.TrimSpace(arg)
		if !isTypeArg(arg) {
			continue
		}
		typeArgs = append(typeArgs, arg)
	}
	if len(typeArgs) != 1 {
		return ""
	}
	return typeArgs[0]
}

// isTypeArg reports whether a generic argument is a type. Lifetimes, const
// blocks, literals, bindings and bounds are not.
func isTypeArg(arg string) bool {
	if arg == "" {
		return false
	}
	switch arg[0] {
	case '\'', '{', '"', '-':
		return false
	}
	if arg[0] >= '0' && arg[0] <= '9' {
		return false
	}
	if arg == "true" || arg == "false" || strings.HasPrefix(arg, "b\"") || strings.HasPrefix(arg, "b'") {
		return false
	}
	depth := 0
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return false
			}
		case ':':
			if depth == 0 && !isPathSep(arg, i) {
				return false
			}
		}
	}
	return true
}

func isPathSep(s string, i int) bool {
	return (i+1 < len(s) && s[i+1] == ':') || (i > 0 && s[i-1] == ':')
}

// splitGenericArgs splits on commas outside any bracket pair, including <>.
func splitGenericArgs(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
