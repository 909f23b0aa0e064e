package normalize

import (
	"fmt"

	"github.com/roach88/stylusport/internal/ir"
)

// Validate runs four independent scans and returns their issues in a fixed
// order: uniqueness, referential integrity, field completeness, visibility.
// It does not modify np.
func Validate(np *ir.NormalizedProgram) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	issues = append(issues, checkUniqueNames(np)...)
	issues = append(issues, checkReferences(np)...)
	issues = append(issues, checkFieldTypes(np)...)
	issues = append(issues, checkVisibility(np)...)
	return issues
}

// checkUniqueNames treats account structs and raw accounts as one name space.
func checkUniqueNames(np *ir.NormalizedProgram) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	seen := make(map[string]bool)

	for _, s := range np.AccountStructs {
		if seen[s.Name] {
			issues = append(issues, ir.ErrorIssue(fmt.Sprintf("Duplicate account struct name: %s", s.Name), s.Name))
		}
		seen[s.Name] = true
	}
	for _, r := range np.RawAccounts {
		if seen[r.Name] {
			issues = append(issues, ir.ErrorIssue(fmt.Sprintf("Duplicate account name: %s", r.Name), r.Name))
		}
		seen[r.Name] = true
	}
	return issues
}

func checkReferences(np *ir.NormalizedProgram) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	declared := make(map[string]bool, len(np.AccountStructs))
	for _, s := range np.AccountStructs {
		declared[s.Name] = true
	}

	for _, m := range np.Modules {
		for i := range m.Instructions {
			in := &m.Instructions[i]
			switch {
			case in.AccountStructName != "":
				if !declared[in.AccountStructName] {
					issues = append(issues, ir.WarningIssue(
						fmt.Sprintf("Instruction %s references undefined account struct %s", in.Name, in.AccountStructName),
						in.Name))
				}
			case in.HasContextParameter():
				issues = append(issues, ir.WarningIssue(
					fmt.Sprintf("Instruction %s has Context parameter but no associated account struct", in.Name),
					in.Name))
			}
		}
	}
	return issues
}

func checkFieldTypes(np *ir.NormalizedProgram) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	for _, s := range np.AccountStructs {
		for _, f := range s.Fields {
			if f.Type == "" {
				issues = append(issues, ir.WarningIssue(
					fmt.Sprintf("Field %s in account %s has no type information", f.Name, s.Name),
					s.Name+"."+f.Name))
			}
		}
	}
	for _, r := range np.RawAccounts {
		for _, f := range r.Fields {
			if f.Type == "" {
				issues = append(issues, ir.WarningIssue(
					fmt.Sprintf("Field %s in raw account %s has no type information", f.Name, r.Name),
					r.Name+"."+f.Name))
			}
		}
	}
	return issues
}

func checkVisibility(np *ir.NormalizedProgram) []ir.ValidationIssue {
	var issues []ir.ValidationIssue
	for _, m := range np.Modules {
		for _, in := range m.Instructions {
			if in.Visibility != "pub" {
				issues = append(issues, ir.InfoIssue(
					fmt.Sprintf("Instruction %s has non-public visibility: %s", in.Name, in.Visibility),
					in.Name))
			}
		}
	}
	return issues
}
