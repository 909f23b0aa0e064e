package testutil

import "github.com/roach88/stylusport/internal/ir"

// Base-model fixtures, shaped the way the compiler would build them.
// Each call returns a fresh value so tests may mutate it.

// HelloWorldProgram is one module with one instruction bound to an empty
// account struct.
func HelloWorldProgram() *ir.Program {
	return &ir.Program{
		Modules: []ir.ProgramModule{{
			Name:       "hello_world",
			Visibility: "",
			Instructions: []ir.Instruction{{
				Name:        "initialize",
				Visibility:  "pub",
				Parameters:  []ir.Parameter{contextParam("Initialize")},
				ReturnType:  "Result<()>",
				ContextType: "Initialize",
			}},
		}},
		AccountStructs: []ir.AccountStruct{{Name: "Initialize", Visibility: "pub", Fields: []ir.AccountField{}}},
		RawAccounts:    []ir.RawAccount{},
	}
}

// TokenProgram has initialize/mint/transfer instructions, three account
// structs, and two raw accounts.
func TokenProgram() *ir.Program {
	return &ir.Program{
		Modules: []ir.ProgramModule{{
			Name:       "token_program",
			Visibility: "pub",
			Instructions: []ir.Instruction{
				{
					Name: "initialize", Visibility: "pub",
					Parameters:  []ir.Parameter{contextParam("Initialize")},
					ReturnType:  "Result<()>",
					ContextType: "Initialize",
				},
				{
					Name: "mint", Visibility: "pub",
					Parameters:  []ir.Parameter{contextParam("Mint"), {Name: "amount", Type: "u64"}},
					ReturnType:  "Result<()>",
					ContextType: "Mint",
				},
				{
					Name: "transfer", Visibility: "pub",
					Parameters:  []ir.Parameter{contextParam("Transfer"), {Name: "amount", Type: "u64"}},
					ReturnType:  "Result<()>",
					ContextType: "Transfer",
				},
			},
		}},
		AccountStructs: []ir.AccountStruct{
			{
				Name: "Initialize", Visibility: "pub",
				Fields: []ir.AccountField{
					{Name: "authority", Type: "Signer<'info>", Constraints: []ir.Constraint{ir.NewConstraint("signer")}},
					{Name: "mint", Type: "Account<'info,Mint>", Constraints: []ir.Constraint{
						ir.NewConstraint("init"),
						ir.NewValuedConstraint("payer", "authority"),
					}},
					{Name: "system_program", Type: "Program<'info,System>", Constraints: []ir.Constraint{}},
				},
			},
			{
				Name: "Mint", Visibility: "pub",
				Fields: []ir.AccountField{
					{Name: "authority", Type: "Signer<'info>", Constraints: []ir.Constraint{ir.NewConstraint("signer")}},
					{Name: "mint", Type: "Account<'info,Mint>", Constraints: []ir.Constraint{ir.NewConstraint("mut")}},
					{Name: "to", Type: "Account<'info,TokenAccount>", Constraints: []ir.Constraint{ir.NewConstraint("mut")}},
				},
			},
			{
				Name: "Transfer", Visibility: "pub",
				Fields: []ir.AccountField{
					{Name: "authority", Type: "Signer<'info>", Constraints: []ir.Constraint{ir.NewConstraint("signer")}},
					{Name: "from", Type: "Account<'info,TokenAccount>", Constraints: []ir.Constraint{ir.NewConstraint("mut")}},
					{Name: "to", Type: "Account<'info,TokenAccount>", Constraints: []ir.Constraint{ir.NewConstraint("mut")}},
				},
			},
		},
		RawAccounts: []ir.RawAccount{
			{Name: "TokenAccount", Visibility: "pub", Fields: []ir.RawAccountField{
				{Name: "owner", Type: "Pubkey", Visibility: "pub"},
				{Name: "amount", Type: "u64", Visibility: "pub"},
			}},
			{Name: "MintState", Visibility: "pub", Fields: []ir.RawAccountField{
				{Name: "authority", Type: "Pubkey", Visibility: "pub"},
				{Name: "supply", Type: "u64", Visibility: "pub"},
			}},
		},
	}
}

// DuplicateStructProgram declares two account structs named Initialize.
func DuplicateStructProgram() *ir.Program {
	p := HelloWorldProgram()
	p.AccountStructs = append(p.AccountStructs, ir.AccountStruct{Name: "Initialize", Visibility: "pub", Fields: []ir.AccountField{}})
	return p
}

// DanglingReferenceProgram has an instruction whose context names an
// undeclared struct.
func DanglingReferenceProgram() *ir.Program {
	p := HelloWorldProgram()
	in := &p.Modules[0].Instructions[0]
	in.Parameters = []ir.Parameter{contextParam("Missing")}
	in.ContextType = "Missing"
	return p
}

func contextParam(structName string) ir.Parameter {
	return ir.Parameter{Name: "ctx", Type: "Context<" + structName + ">", IsContext: true}
}
