package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stylusport/internal/ir"
)

func TestValidate_Uniqueness(t *testing.T) {
	np := ir.NewNormalizedProgram("p", "p")
	np.AccountStructs = []ir.NormalizedAccountStruct{{Name: "A"}, {Name: "B"}, {Name: "A"}, {Name: "A"}}
	np.RawAccounts = []ir.NormalizedRawAccount{{Name: "B"}, {Name: "C"}, {Name: "C"}}

	assert.Equal(t, []ir.ValidationIssue{
		ir.ErrorIssue("Duplicate account struct name: A", "A"),
		ir.ErrorIssue("Duplicate account struct name: A", "A"),
		ir.ErrorIssue("Duplicate account name: B", "B"),
		ir.ErrorIssue("Duplicate account name: C", "C"),
	}, Validate(np))
}

func TestValidate_References(t *testing.T) {
	np := ir.NewNormalizedProgram("p", "p")
	np.AccountStructs = []ir.NormalizedAccountStruct{{Name: "Known"}}
	np.RawAccounts = []ir.NormalizedRawAccount{{Name: "RawOnly"}}
	np.Modules = []ir.NormalizedModule{{Name: "p", Instructions: []ir.NormalizedInstruction{
		{Name: "ok", Visibility: "pub", AccountStructName: "Known"},
		{Name: "dangling", Visibility: "pub", AccountStructName: "Gone"},
		{Name: "raw", Visibility: "pub", AccountStructName: "RawOnly"},
		{Name: "bare", Visibility: "pub", Parameters: []ir.Parameter{{Name: "ctx", Type: "Context", IsContext: true}}},
		{Name: "plain", Visibility: "pub", Parameters: []ir.Parameter{{Name: "x", Type: "u64"}}},
	}}}

	assert.Equal(t, []ir.ValidationIssue{
		ir.WarningIssue("Instruction dangling references undefined account struct Gone", "dangling"),
		ir.WarningIssue("Instruction raw references undefined account struct RawOnly", "raw"),
		ir.WarningIssue("Instruction bare has Context parameter but no associated account struct", "bare"),
	}, Validate(np))
}

func TestValidate_FieldTypes(t *testing.T) {
	np := ir.NewNormalizedProgram("p", "p")
	np.AccountStructs = []ir.NormalizedAccountStruct{{Name: "S", Fields: []ir.NormalizedAccountField{{Name: "f", Type: ""}, {Name: "g", Type: "u8"}}}}
	np.RawAccounts = []ir.NormalizedRawAccount{{Name: "R", Fields: []ir.NormalizedRawField{{Name: "h"}}}}

	assert.Equal(t, []ir.ValidationIssue{
		ir.WarningIssue("Field f in account S has no type information", "S.f"),
		ir.WarningIssue("Field h in raw account R has no type information", "R.h"),
	}, Validate(np))
}

func TestValidate_Visibility(t *testing.T) {
	np := ir.NewNormalizedProgram("p", "p")
	np.AccountStructs = []ir.NormalizedAccountStruct{{Name: "S"}}
	np.Modules = []ir.NormalizedModule{{Name: "p", Instructions: []ir.NormalizedInstruction{
		{Name: "a", Visibility: "pub", AccountStructName: "S"},
		{Name: "b", Visibility: "", AccountStructName: "S"},
		{Name: "c", Visibility: "pub(crate)", AccountStructName: "S"},
	}}}

	issues := Validate(np)
	require.Len(t, issues, 2)
	assert.Equal(t, ir.InfoIssue("Instruction b has non-public visibility: ", "b"), issues[0])
	assert.Equal(t, ir.InfoIssue("Instruction c has non-public visibility: pub(crate)", "c"), issues[1])
}

func TestValidate_ScanOrderAndNoMutation(t *testing.T) {
	np := ir.NewNormalizedProgram("p", "p")
	np.AccountStructs = []ir.NormalizedAccountStruct{{Name: "S", Fields: []ir.NormalizedAccountField{{Name: "f"}}}, {Name: "S"}}
	np.Modules = []ir.NormalizedModule{{Name: "p", Instructions: []ir.NormalizedInstruction{
		{Name: "i", Visibility: "", AccountStructName: "Gone"},
	}}}

	issues := Validate(np)
	require.Len(t, issues, 4)
	assert.Equal(t, ir.SeverityError, issues[0].Severity)
	assert.Contains(t, issues[1].Message, "undefined account struct")
	assert.Equal(t, "S.f", issues[2].Element)
	assert.Equal(t, ir.SeverityInfo, issues[3].Severity)
	assert.Empty(t, np.ValidationIssues, "Validate does not record issues itself")
}
