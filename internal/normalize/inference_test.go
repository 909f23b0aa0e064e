package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stylusport/internal/ir"
)

func field(name, ty string, cs ...ir.Constraint) ir.NormalizedAccountField {
	f := ir.NormalizedAccountField{Name: name, Type: ty, Constraints: []ir.Constraint{}}
	for _, c := range cs {
		f.AddConstraint(c)
	}
	return f
}

func programWith(instr string, fields ...ir.NormalizedAccountField) *ir.NormalizedProgram {
	np := ir.NewNormalizedProgram("p", "p")
	np.Modules = []ir.NormalizedModule{{
		Name: "p",
		Instructions: []ir.NormalizedInstruction{{
			Name:              instr,
			Visibility:        "pub",
			AccountStructName: "Accts",
			Parameters:        []ir.Parameter{{Name: "ctx", Type: "Context<Accts>", IsContext: true}},
			Body:              ir.UnknownBody(),
		}},
	}}
	np.AccountStructs = []ir.NormalizedAccountStruct{{Name: "Accts", Fields: fields}}
	return np
}

func TestInferOperations(t *testing.T) {
	tests := []struct {
		name   string
		instr  string
		fields []ir.NormalizedAccountField
		want   ir.InstructionBody
	}{
		{
			name:   "init with payer",
			instr:  "create",
			fields: []ir.NormalizedAccountField{field("acct", "Account<'info,A>", ir.NewConstraint("init"), ir.NewValuedConstraint("payer", "user"))},
			want:   ir.BasicBody(ir.InitializeOp{Target: "acct", Payer: "user"}),
		},
		{
			name:   "init without payer",
			instr:  "anything",
			fields: []ir.NormalizedAccountField{field("acct", "A", ir.NewConstraint("init"))},
			want:   ir.BasicBody(ir.InitializeOp{Target: "acct", Payer: "payer"}),
		},
		{
			name:   "multiple init fields in order",
			instr:  "init",
			fields: []ir.NormalizedAccountField{field("a", "A", ir.NewConstraint("init")), field("b", "B"), field("c", "C", ir.NewConstraint("init"))},
			want:   ir.BasicBody(ir.InitializeOp{Target: "a", Payer: "payer"}, ir.InitializeOp{Target: "c", Payer: "payer"}),
		},
		{
			name:   "send with from and to",
			instr:  "send",
			fields: []ir.NormalizedAccountField{field("to", "T"), field("from", "T")},
			want:   ir.BasicBody(ir.TransferOp{From: "from", To: "to"}),
		},
		{
			name:   "transfer missing to",
			instr:  "transfer",
			fields: []ir.NormalizedAccountField{field("from", "T"), field("dest", "T")},
			want:   ir.UnknownBody(),
		},
		{
			name:   "close with refund",
			instr:  "close",
			fields: []ir.NormalizedAccountField{field("a", "A"), field("vault", "V", ir.NewValuedConstraint("close", "user")), field("other", "O", ir.NewValuedConstraint("close", "x"))},
			want:   ir.BasicBody(ir.CloseOp{Target: "vault", RefundTo: "user"}),
		},
		{
			name:   "close default refund",
			instr:  "close",
			fields: []ir.NormalizedAccountField{field("vault", "V", ir.NewConstraint("close"))},
			want:   ir.BasicBody(ir.CloseOp{Target: "vault", RefundTo: "authority"}),
		},
		{
			name:   "close constraint on other instruction",
			instr:  "withdraw",
			fields: []ir.NormalizedAccountField{field("vault", "V", ir.NewConstraint("close"))},
			want:   ir.UnknownBody(),
		},
		{
			name:   "init then transfer",
			instr:  "transfer",
			fields: []ir.NormalizedAccountField{field("from", "T", ir.NewConstraint("init")), field("to", "T")},
			want:   ir.BasicBody(ir.InitializeOp{Target: "from", Payer: "payer"}, ir.TransferOp{From: "from", To: "to"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := programWith(tt.instr, tt.fields...)
			inferOperations(np)
			assert.Equal(t, tt.want, np.Modules[0].Instructions[0].Body)
		})
	}
}

func TestInferOperations_SkipsPopulatedAndUnresolved(t *testing.T) {
	np := programWith("initialize", field("acct", "A", ir.NewConstraint("init")))
	existing := ir.BasicBody(ir.LogOp{Message: "kept"})
	np.Modules[0].Instructions[0].Body = existing
	inferOperations(np)
	assert.Equal(t, existing, np.Modules[0].Instructions[0].Body)

	np = programWith("initialize", field("acct", "A", ir.NewConstraint("init")))
	np.Modules[0].Instructions[0].AccountStructName = "Nope"
	inferOperations(np)
	assert.True(t, np.Modules[0].Instructions[0].Body.IsUnknown())
}

func TestInferFieldConstraints(t *testing.T) {
	tests := []struct {
		name string
		f    ir.NormalizedAccountField
		want []ir.Constraint
	}{
		{"authority signer", field("authority", "Signer<'info>"), []ir.Constraint{ir.InferredConstraint("signer")}},
		{"admin signer", field("admin", "Box<Signer<'info>>"), []ir.Constraint{ir.InferredConstraint("signer")}},
		{"owner already signer", field("owner", "Signer<'info>", ir.NewConstraint("signer")), []ir.Constraint{ir.NewConstraint("signer")}},
		{"payer is not a signer name", field("payer", "Signer<'info>"), []ir.Constraint{}},
		{"authority not signer type", field("authority", "AccountInfo<'info>"), []ir.Constraint{}},
		{"init gains mut", field("acct", "A", ir.NewConstraint("init")), []ir.Constraint{ir.NewConstraint("init"), ir.InferredConstraint("mut")}},
		{"init with mut", field("acct", "A", ir.NewConstraint("mut"), ir.NewConstraint("init")), []ir.Constraint{ir.NewConstraint("mut"), ir.NewConstraint("init")}},
		{
			"both",
			field("authority", "Signer<'info>", ir.NewConstraint("init")),
			[]ir.Constraint{ir.NewConstraint("init"), ir.InferredConstraint("signer"), ir.InferredConstraint("mut")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			np := programWith("x", tt.f)
			inferFieldConstraints(np)
			inferFieldConstraints(np)
			got := np.AccountStructs[0].Fields[0]
			assert.Equal(t, tt.want, got.Constraints)
			assert.Equal(t, got.HasConstraint("signer"), got.InferredInfo.RequiresSigner)
			assert.Equal(t, got.HasConstraint("mut"), got.InferredInfo.RequiresMut)
		})
	}
}

func TestInferRelationships(t *testing.T) {
	np := programWith("x",
		field("owner", "Signer<'info>"),
		field("vault", "Account<'info,V>", ir.NewValuedConstraint("has_one", "owner")),
		field("config", "Account<'info,C>", ir.NewValuedConstraint("belongs_to", "vault")),
		field("self_ref", "A", ir.NewValuedConstraint("has_one", "self_ref")),
		field("missing", "A", ir.NewValuedConstraint("has_one", "nobody")),
	)
	inferRelationships(np)

	fields := np.AccountStructs[0].Fields
	assert.Equal(t, "", fields[0].InferredInfo.RelatedAccount)
	assert.Equal(t, "owner", fields[1].InferredInfo.RelatedAccount)
	assert.Equal(t, "vault", fields[2].InferredInfo.RelatedAccount)
	assert.Equal(t, "", fields[3].InferredInfo.RelatedAccount, "a field never relates to itself")
	assert.Equal(t, "", fields[4].InferredInfo.RelatedAccount)
}

func TestInferRelationships_LastWins(t *testing.T) {
	np := programWith("x",
		field("a", "A"),
		field("b", "B"),
		field("c", "C", ir.NewValuedConstraint("has_one", "b"), ir.NewValuedConstraint("has_one", "a")),
	)
	inferRelationships(np)
	assert.Equal(t, "b", np.AccountStructs[0].Fields[2].InferredInfo.RelatedAccount,
		"the last qualifying sibling in field order wins")
}

func TestInfer_IdempotentOnBuiltProgram(t *testing.T) {
	np := programWith("initialize",
		field("authority", "Signer<'info>"),
		field("acct", "A", ir.NewConstraint("init"), ir.NewValuedConstraint("payer", "authority")),
	)
	Infer(np)
	first := len(np.AccountStructs[0].Fields[0].Constraints) + len(np.AccountStructs[0].Fields[1].Constraints)
	ops := len(np.Modules[0].Instructions[0].Body.Operations)

	Infer(np)
	require.Equal(t, first, len(np.AccountStructs[0].Fields[0].Constraints)+len(np.AccountStructs[0].Fields[1].Constraints))
	assert.Equal(t, ops, len(np.Modules[0].Instructions[0].Body.Operations))
}
