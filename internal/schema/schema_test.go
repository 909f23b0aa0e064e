package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stylusport/internal/compiler"
	"github.com/roach88/stylusport/internal/ir"
	"github.com/roach88/stylusport/internal/normalize"
	"github.com/roach88/stylusport/internal/testutil"
)

func TestCheck_NormalizedFixtures(t *testing.T) {
	for name, build := range map[string]func() *ir.Program{
		"hello_world": testutil.HelloWorldProgram,
		"token":       testutil.TokenProgram,
		"duplicate":   testutil.DuplicateStructProgram,
		"dangling":    testutil.DanglingReferenceProgram,
	} {
		t.Run(name, func(t *testing.T) {
			p := build()
			p.SourcePath = name + ".rs"
			p.LineRange = &ir.LineRange{Start: 1, End: 40}
			np, err := normalize.Normalize(p)
			require.NoError(t, err)
			assert.NoError(t, Check(np))
		})
	}
}

func TestCheck_Violations(t *testing.T) {
	np, err := normalize.Normalize(testutil.TokenProgram())
	require.NoError(t, err)

	np.SchemaVersion = "2.0"
	np.ID = "token"
	np.Modules[0].Instructions[0].Parameters[0].Name = ""

	err = Check(np)
	require.Error(t, err)

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "token_program", se.Program)
	assert.GreaterOrEqual(t, len(se.Messages), 2)
	assert.Contains(t, err.Error(), "schema_version")
}

func TestCheck_EmptyConstraintText(t *testing.T) {
	p := testutil.TokenProgram()
	st, ok := p.FindAccountStruct("Initialize")
	require.True(t, ok)
	mint, ok := st.FindField("mint")
	require.True(t, ok)
	mint.Constraints = compiler.ParseConstraints("init, payer =, = x")

	np, err := normalize.Normalize(p)
	require.NoError(t, err)
	init, ok := np.FindInstruction("initialize")
	require.True(t, ok)
	require.Equal(t, ir.BasicBody(ir.InitializeOp{Target: "mint", Payer: ""}), init.Body)

	assert.NoError(t, Check(np))
}

func TestCheck_BadLineRange(t *testing.T) {
	np, err := normalize.Normalize(testutil.HelloWorldProgram())
	require.NoError(t, err)
	np.SourceInfo = &ir.SourceInfo{FilePath: "x.rs", LineRange: &ir.LineRange{Start: 5, End: 2}}

	assert.Error(t, Check(np))
}

func TestLoad(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)

	np := ir.NewNormalizedProgram("program:x", "x")
	np.Modules = append(np.Modules, ir.NormalizedModule{
		Name: "x",
		Instructions: []ir.NormalizedInstruction{{
			Name:       "close",
			Visibility: "pub",
			Parameters: []ir.Parameter{},
			Body:       ir.BasicBody(ir.CloseOp{Target: "vault", RefundTo: "authority"}),
		}},
	})
	assert.NoError(t, s.Check(np))
}
