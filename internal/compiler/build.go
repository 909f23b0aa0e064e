package compiler

import (
	"github.com/roach88/stylusport/internal/ir"
	"github.com/roach88/stylusport/internal/syntax"
)

// unnamedParam names parameters whose pattern is not a plain identifier.
const unnamedParam = "unnamed"

// Build walks the top-level items of file and emits the base model.
//
// Program modules contribute the instruction functions directly inside them;
// nested modules are not searched. Structs are tested for derive(Accounts)
// before #[account], so a struct matching both is an account struct only.
// All lists keep source declaration order.
func Build(file *syntax.File) *ir.Program {
	p := &ir.Program{
		Modules:        []ir.ProgramModule{},
		AccountStructs: []ir.AccountStruct{},
		RawAccounts:    []ir.RawAccount{},
		SourcePath:     file.Path,
		Documentation:  file.Doc,
	}
	if file.Lines > 0 {
		p.LineRange = &ir.LineRange{Start: 1, End: file.Lines}
	}

	for _, item := range file.Items {
		switch item.Kind {
		case syntax.ItemModule:
			if IsProgramModule(item) {
				p.Modules = append(p.Modules, buildModule(item))
			}
		case syntax.ItemStruct:
			switch {
			case IsAccountStruct(item):
				p.AccountStructs = append(p.AccountStructs, buildAccountStruct(item))
			case IsRawAccount(item):
				p.RawAccounts = append(p.RawAccounts, buildRawAccount(item))
			}
		}
	}
	return p
}

func buildModule(item *syntax.Item) ir.ProgramModule {
	m := ir.ProgramModule{
		Name:          item.Name,
		Visibility:    item.Visibility,
		Instructions:  []ir.Instruction{},
		Documentation: item.Doc,
	}
	for _, child := range item.Items {
		if child.Kind == syntax.ItemFunction && IsInstruction(child) {
			m.Instructions = append(m.Instructions, buildInstruction(child))
		}
	}
	return m
}

func buildInstruction(item *syntax.Item) ir.Instruction {
	in := ir.Instruction{
		Name:          item.Name,
		Visibility:    item.Visibility,
		Parameters:    []ir.Parameter{},
		ReturnType:    syntax.CanonicalType(item.ReturnType),
		Documentation: item.Doc,
	}
	for _, p := range item.Params {
		if p.Receiver {
			continue
		}
		name := p.Ident
		if name == "" {
			name = unnamedParam
		}
		isContext, structName := ResolveContext(p.Type)
		in.Parameters = append(in.Parameters, ir.Parameter{
			Name:      name,
			Type:      syntax.CanonicalType(p.Type),
			IsContext: isContext,
		})
		// First resolving context parameter wins.
		if isContext && structName != "" && in.ContextType == "" {
			in.ContextType = structName
		}
	}
	return in
}

func buildAccountStruct(item *syntax.Item) ir.AccountStruct {
	s := ir.AccountStruct{
		Name:          item.Name,
		Visibility:    item.Visibility,
		Fields:        []ir.AccountField{},
		Documentation: item.Doc,
	}
	for _, f := range item.Fields {
		field := ir.AccountField{
			Name:          f.Name,
			Type:          syntax.CanonicalType(f.Type),
			Constraints:   []ir.Constraint{},
			Documentation: f.Doc,
		}
		for _, attr := range f.Attributes {
			if attr.Is("account") {
				field.Constraints = append(field.Constraints, ParseConstraints(attr.Args)...)
			}
		}
		s.Fields = append(s.Fields, field)
	}
	return s
}

func buildRawAccount(item *syntax.Item) ir.RawAccount {
	r := ir.RawAccount{
		Name:          item.Name,
		Visibility:    item.Visibility,
		Fields:        []ir.RawAccountField{},
		Documentation: item.Doc,
	}
	for _, f := range item.Fields {
		r.Fields = append(r.Fields, ir.RawAccountField{
			Name:          f.Name,
			Type:          syntax.CanonicalType(f.Type),
			Visibility:    f.Visibility,
			Documentation: f.Doc,
		})
	}
	return r
}
