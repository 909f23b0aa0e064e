package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/stylusport/internal/ir"
)

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// checkExpectations records one error per unmet expectation.
func checkExpectations(r *Result, e *Expectations) {
	np := r.Program

	if e.Name != "" && np.Name != e.Name {
		r.AddError("name: expected %q, got %q", e.Name, np.Name)
	}

	if e.Modules != nil {
		assertNames(r, "modules", e.Modules, moduleNames(np))
	}
	if e.AccountStructs != nil {
		assertNames(r, "account_structs", e.AccountStructs, accountStructNames(np))
	}
	if e.RawAccounts != nil {
		assertNames(r, "raw_accounts", e.RawAccounts, rawAccountNames(np))
	}

	for _, want := range e.Issues {
		if !hasIssue(np.ValidationIssues, want) {
			r.AddError("issues: no %s issue containing %q%s; got %s",
				want.Severity, want.Contains, elementSuffix(want.Element), describeIssues(np.ValidationIssues))
		}
	}
	for _, text := range e.NoIssuesContaining {
		for _, issue := range np.ValidationIssues {
			if strings.Contains(issue.Message, text) {
				r.AddError("no_issues_containing: unexpected issue %q", issue.String())
			}
		}
	}

	for _, name := range sortedKeys(e.Operations) {
		assertOperations(r, np, name, e.Operations[name])
	}
	for _, key := range sortedKeys(e.Constraints) {
		assertConstraints(r, np, key, e.Constraints[key])
	}
}

func assertNames(r *Result, what string, want, got []string) {
	if !slices.Equal(want, got) {
		r.AddError("%s: expected %v, got %v", what, want, got)
	}
}

func assertOperations(r *Result, np *ir.NormalizedProgram, instruction string, want []OperationExpectation) {
	in, ok := np.FindInstruction(instruction)
	if !ok {
		r.AddError("operations[%s]: instruction not found", instruction)
		return
	}

	var got []OperationExpectation
	if !in.Body.IsUnknown() {
		for _, op := range in.Body.Operations {
			v := ir.ViewOf(op)
			got = append(got, OperationExpectation{
				Kind:     string(v.Kind),
				Message:  v.Message,
				Target:   v.Target,
				Payer:    v.Payer,
				From:     v.From,
				To:       v.To,
				RefundTo: v.RefundTo,
			})
		}
	}
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !slices.Equal(want, got) {
		r.AddError("operations[%s]: expected %s, got %s", instruction, describeOps(want), describeOps(got))
	}
}

func assertConstraints(r *Result, np *ir.NormalizedProgram, key string, want []ConstraintExpectation) {
	structName, fieldName, _ := strings.Cut(key, ".")
	s, ok := np.FindAccountStruct(structName)
	if !ok {
		r.AddError("constraints[%s]: account struct %s not found", key, structName)
		return
	}
	f, ok := s.FindField(fieldName)
	if !ok {
		r.AddError("constraints[%s]: field %s not found", key, fieldName)
		return
	}

	match := len(want) == len(f.Constraints)
	for i := 0; match && i < len(want); i++ {
		match = constraintMatches(want[i], f.Constraints[i])
	}
	if !match {
		r.AddError("constraints[%s]: expected %s, got %s", key, describeWantConstraints(want), describeConstraints(f.Constraints))
	}
}

func constraintMatches(want ConstraintExpectation, got ir.Constraint) bool {
	if want.Type != got.Type || want.Inferred != got.IsInferred {
		return false
	}
	if want.Value == nil {
		return true
	}
	return got.Value != nil && *got.Value == *want.Value
}

func hasIssue(issues []ir.ValidationIssue, want IssueExpectation) bool {
	sev, _ := ir.ParseSeverity(want.Severity)
	for _, issue := range issues {
		if issue.Severity != sev || !strings.Contains(issue.Message, want.Contains) {
			continue
		}
		if want.Element != "" && issue.Element != want.Element {
			continue
		}
		return true
	}
	return false
}

func elementSuffix(element string) string {
	if element == "" {
		return ""
	}
	return " on " + element
}

func describeIssues(issues []ir.ValidationIssue) string {
	if len(issues) == 0 {
		return "none"
	}
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = issue.String()
	}
	return "[" + strings.Join(parts, "; ") + "]"
}

func describeOps(ops []OperationExpectation) string {
	if len(ops) == 0 {
		return "unknown body"
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		var fields []string
		for _, kv := range [][2]string{
			{"message", op.Message}, {"target", op.Target}, {"payer", op.Payer},
			{"from", op.From}, {"to", op.To}, {"refund_to", op.RefundTo},
		} {
			if kv[1] != "" {
				fields = append(fields, kv[0]+"="+kv[1])
			}
		}
		parts[i] = op.Kind + "(" + strings.Join(fields, " ") + ")"
	}
	return strings.Join(parts, ", ")
}

func describeWantConstraints(cs []ConstraintExpectation) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		s := c.Type
		if c.Value != nil {
			s += "=" + *c.Value
		}
		if c.Inferred {
			s += "(inferred)"
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func describeConstraints(cs []ir.Constraint) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		s := c.Type
		if c.Value != nil {
			s += "=" + *c.Value
		}
		if c.IsInferred {
			s += "(inferred)"
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func moduleNames(np *ir.NormalizedProgram) []string {
	names := make([]string, len(np.Modules))
	for i, m := range np.Modules {
		names[i] = m.Name
	}
	return names
}

func accountStructNames(np *ir.NormalizedProgram) []string {
	names := make([]string, len(np.AccountStructs))
	for i, s := range np.AccountStructs {
		names[i] = s.Name
	}
	return names
}

func rawAccountNames(np *ir.NormalizedProgram) []string {
	names := make([]string, len(np.RawAccounts))
	for i, a := range np.RawAccounts {
		names[i] = a.Name
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
