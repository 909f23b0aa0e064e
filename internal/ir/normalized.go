package ir

// NormalizedProgram is the normalized, semantically enriched program model.
//
// It is built and then exclusively mutated by the normalizer until all passes
// complete. Callers receive it as an immutable result.
type NormalizedProgram struct {
	ID               string                    `json:"id" yaml:"id"`
	Name             string                    `json:"name" yaml:"name"`
	SchemaVersion    string                    `json:"schema_version" yaml:"schema_version"`
	Documentation    string                    `json:"documentation,omitempty" yaml:"documentation,omitempty"`
	Modules          []NormalizedModule        `json:"modules" yaml:"modules"`
	AccountStructs   []NormalizedAccountStruct `json:"account_structs" yaml:"account_structs"`
	RawAccounts      []NormalizedRawAccount    `json:"raw_accounts" yaml:"raw_accounts"`
	ValidationIssues []ValidationIssue         `json:"validation_issues" yaml:"validation_issues"`
	SourceInfo       *SourceInfo               `json:"source_info,omitempty" yaml:"source_info,omitempty"`
}

// SourceInfo records where a program came from.
type SourceInfo struct {
	FilePath  string     `json:"file_path" yaml:"file_path"`
	LineRange *LineRange `json:"line_range,omitempty" yaml:"line_range,omitempty"`
}

// LineRange is an inclusive 1-based line span.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// NormalizedModule is a program module after normalization.
type NormalizedModule struct {
	Name          string                  `json:"name" yaml:"name"`
	Visibility    string                  `json:"visibility" yaml:"visibility"`
	Instructions  []NormalizedInstruction `json:"instructions" yaml:"instructions"`
	Documentation string                  `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// NormalizedInstruction extends Instruction with an inferred body.
type NormalizedInstruction struct {
	Name              string          `json:"name" yaml:"name"`
	Visibility        string          `json:"visibility" yaml:"visibility"`
	Parameters        []Parameter     `json:"parameters" yaml:"parameters"`
	ReturnType        string          `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	AccountStructName string          `json:"account_struct_name,omitempty" yaml:"account_struct_name,omitempty"`
	Body              InstructionBody `json:"body" yaml:"body"`
	Documentation     string          `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// NormalizedAccountStruct is an account-validation struct after normalization.
type NormalizedAccountStruct struct {
	Name          string                   `json:"name" yaml:"name"`
	Visibility    string                   `json:"visibility" yaml:"visibility"`
	Fields        []NormalizedAccountField `json:"fields" yaml:"fields"`
	Documentation string                   `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// NormalizedAccountField extends AccountField with derived facts.
//
// InferredInfo mirrors the constraint list. Use AddConstraint so the two
// stay in sync.
type NormalizedAccountField struct {
	Name          string            `json:"name" yaml:"name"`
	Type          string            `json:"type" yaml:"type"`
	Constraints   []Constraint      `json:"constraints" yaml:"constraints"`
	InferredInfo  InferredFieldInfo `json:"inferred_info" yaml:"inferred_info"`
	Documentation string            `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// InferredFieldInfo holds facts derived from a field's constraints.
type InferredFieldInfo struct {
	RequiresMut    bool   `json:"requires_mut" yaml:"requires_mut"`
	RequiresSigner bool   `json:"requires_signer" yaml:"requires_signer"`
	IsInitialized  bool   `json:"is_initialized" yaml:"is_initialized"`
	RelatedAccount string `json:"related_account,omitempty" yaml:"related_account,omitempty"`
}

// NormalizedRawAccount is a raw account after normalization.
type NormalizedRawAccount struct {
	Name          string               `json:"name" yaml:"name"`
	Visibility    string               `json:"visibility" yaml:"visibility"`
	Fields        []NormalizedRawField `json:"fields" yaml:"fields"`
	Documentation string               `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// NormalizedRawField is a raw account field after normalization.
type NormalizedRawField struct {
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	Visibility    string `json:"visibility" yaml:"visibility"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// NewNormalizedProgram returns an empty program with the current schema version.
func NewNormalizedProgram(id, name string) *NormalizedProgram {
	return &NormalizedProgram{
		ID:               id,
		Name:             name,
		SchemaVersion:    SchemaVersion,
		Modules:          []NormalizedModule{},
		AccountStructs:   []NormalizedAccountStruct{},
		RawAccounts:      []NormalizedRawAccount{},
		ValidationIssues: []ValidationIssue{},
	}
}

// AddIssue appends a validation issue. Issues are never removed or reordered.
func (p *NormalizedProgram) AddIssue(issue ValidationIssue) {
	p.ValidationIssues = append(p.ValidationIssues, issue)
}

// FindAccountStruct returns the first account-validation struct with the given name.
func (p *NormalizedProgram) FindAccountStruct(name string) (*NormalizedAccountStruct, bool) {
	for i := range p.AccountStructs {
		if p.AccountStructs[i].Name == name {
			return &p.AccountStructs[i], true
		}
	}
	return nil, false
}

// FindRawAccount returns the first raw account with the given name.
func (p *NormalizedProgram) FindRawAccount(name string) (*NormalizedRawAccount, bool) {
	for i := range p.RawAccounts {
		if p.RawAccounts[i].Name == name {
			return &p.RawAccounts[i], true
		}
	}
	return nil, false
}

// FindInstruction searches all modules, in order, for the named instruction.
func (p *NormalizedProgram) FindInstruction(name string) (*NormalizedInstruction, bool) {
	for i := range p.Modules {
		for j := range p.Modules[i].Instructions {
			if p.Modules[i].Instructions[j].Name == name {
				return &p.Modules[i].Instructions[j], true
			}
		}
	}
	return nil, false
}

// IssuesBySeverity returns the issues with the given severity, in emission order.
func (p *NormalizedProgram) IssuesBySeverity(s Severity) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range p.ValidationIssues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}

// HasContextParameter reports whether any parameter is context-bearing.
func (in *NormalizedInstruction) HasContextParameter() bool {
	_, ok := in.ContextParameter()
	return ok
}

// ContextParameter returns the first context-bearing parameter.
func (in *NormalizedInstruction) ContextParameter() (*Parameter, bool) {
	for i := range in.Parameters {
		if in.Parameters[i].IsContext {
			return &in.Parameters[i], true
		}
	}
	return nil, false
}

// FindField returns the named field.
func (a *NormalizedAccountStruct) FindField(name string) (*NormalizedAccountField, bool) {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			return &a.Fields[i], true
		}
	}
	return nil, false
}

// FindField returns the named field.
func (a *NormalizedRawAccount) FindField(name string) (*NormalizedRawField, bool) {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			return &a.Fields[i], true
		}
	}
	return nil, false
}

// AddConstraint appends c and updates InferredInfo:
// mut, signer and init set their flags; a valued payer records the payer
// as the related account.
func (f *NormalizedAccountField) AddConstraint(c Constraint) {
	switch c.Type {
	case "mut":
		f.InferredInfo.RequiresMut = true
	case "signer":
		f.InferredInfo.RequiresSigner = true
	case "init":
		f.InferredInfo.IsInitialized = true
	case "payer":
		if c.Value != nil {
			f.InferredInfo.RelatedAccount = *c.Value
		}
	}
	f.Constraints = append(f.Constraints, c)
}

// HasConstraint reports whether the field carries a constraint of the given type.
func (f *NormalizedAccountField) HasConstraint(constraintType string) bool {
	return findConstraint(f.Constraints, constraintType) >= 0
}

// FindConstraint returns the first constraint of the given type.
func (f *NormalizedAccountField) FindConstraint(constraintType string) (Constraint, bool) {
	if i := findConstraint(f.Constraints, constraintType); i >= 0 {
		return f.Constraints[i], true
	}
	return Constraint{}, false
}
