package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/stylusport/internal/syntax"
)

func TestResolveContext(t *testing.T) {
	tests := []struct {
		name      string
		ty        *syntax.Type
		isContext bool
		structNm  string
	}{
		{
			name:      "single argument",
			ty:        syntax.Named("Context", syntax.TypeArg(syntax.Named("Initialize"))),
			isContext: true, structNm: "Initialize",
		},
		{
			name: "lifetimes ignored",
			ty: syntax.Named("Context",
				syntax.LifetimeArg("'_"), syntax.LifetimeArg("'info"),
				syntax.TypeArg(syntax.Named("Deposit", syntax.LifetimeArg("'info")))),
			isContext: true, structNm: "Deposit<'info>",
		},
		{
			name:      "through references",
			ty:        syntax.NewReference(syntax.Named("Context", syntax.TypeArg(syntax.Named("X"))), true),
			isContext: true, structNm: "X",
		},
		{
			name:      "no argument",
			ty:        syntax.Named("Context"),
			isContext: true,
		},
		{
			name:      "two arguments",
			ty:        syntax.Named("Context", syntax.TypeArg(syntax.Named("A")), syntax.TypeArg(syntax.Named("B"))),
			isContext: true,
		},
		{
			name: "not context",
			ty:   syntax.Named("u64"),
		},
		{
			name: "non-path",
			ty:   syntax.OtherType("(", ")"),
		},
		{
			name: "nil",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isContext, name := ResolveContext(tt.ty)
			assert.Equal(t, tt.isContext, isContext)
			assert.Equal(t, tt.structNm, name)
		})
	}
}
