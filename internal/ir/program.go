package ir

// Program is the base model of one smart-contract source file.
// Built once by the compiler; read-only from the normalizer's point of view.
type Program struct {
	Modules        []ProgramModule `json:"modules" yaml:"modules"`
	AccountStructs []AccountStruct `json:"account_structs" yaml:"account_structs"`
	RawAccounts    []RawAccount    `json:"raw_accounts" yaml:"raw_accounts"`
	SourcePath     string          `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	LineRange      *LineRange      `json:"line_range,omitempty" yaml:"line_range,omitempty"`
	Documentation  string          `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// ProgramModule is a module carrying the program attribute.
type ProgramModule struct {
	Name          string        `json:"name" yaml:"name"`
	Visibility    string        `json:"visibility" yaml:"visibility"`
	Instructions  []Instruction `json:"instructions" yaml:"instructions"`
	Documentation string        `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Instruction is an instruction handler: a function inside a program module
// that takes a context parameter.
type Instruction struct {
	Name       string      `json:"name" yaml:"name"`
	Visibility string      `json:"visibility" yaml:"visibility"`
	Parameters []Parameter `json:"parameters" yaml:"parameters"`
	ReturnType string      `json:"return_type,omitempty" yaml:"return_type,omitempty"`

	// ContextType names the account-validation struct by name. It is resolved
	// by lookup and may be dangling.
	ContextType   string `json:"context_type,omitempty" yaml:"context_type,omitempty"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Parameter is a typed instruction argument. Receivers never produce one.
type Parameter struct {
	Name      string `json:"name" yaml:"name"`
	Type      string `json:"type" yaml:"type"` // canonical type text
	IsContext bool   `json:"is_context" yaml:"is_context"`
}

// AccountStruct is an account-validation struct (derive(Accounts)).
type AccountStruct struct {
	Name          string         `json:"name" yaml:"name"`
	Visibility    string         `json:"visibility" yaml:"visibility"`
	Fields        []AccountField `json:"fields" yaml:"fields"`
	Documentation string         `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// AccountField is a field of an account-validation struct.
// Constraints are in declaration order.
type AccountField struct {
	Name          string       `json:"name" yaml:"name"`
	Type          string       `json:"type" yaml:"type"`
	Constraints   []Constraint `json:"constraints" yaml:"constraints"`
	Documentation string       `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// Constraint is a named, optionally valued validation rule on a field.
// Value is opaque text and is never parsed further.
type Constraint struct {
	Type       string  `json:"constraint_type" yaml:"constraint_type"`
	Value      *string `json:"value,omitempty" yaml:"value,omitempty"`
	IsInferred bool    `json:"is_inferred" yaml:"is_inferred"`
}

// RawAccount is a struct describing persisted on-chain data (#[account]).
type RawAccount struct {
	Name          string            `json:"name" yaml:"name"`
	Visibility    string            `json:"visibility" yaml:"visibility"`
	Fields        []RawAccountField `json:"fields" yaml:"fields"`
	Documentation string            `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// RawAccountField is a plain field of a raw account. It never carries constraints.
type RawAccountField struct {
	Name          string `json:"name" yaml:"name"`
	Type          string `json:"type" yaml:"type"`
	Visibility    string `json:"visibility" yaml:"visibility"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty"`
}

// NewConstraint returns an explicit constraint without a value.
func NewConstraint(constraintType string) Constraint {
	return Constraint{Type: constraintType}
}

// NewValuedConstraint returns an explicit constraint carrying value.
func NewValuedConstraint(constraintType, value string) Constraint {
	return Constraint{Type: constraintType, Value: &value}
}

// InferredConstraint returns a value-less constraint flagged as inferred.
func InferredConstraint(constraintType string) Constraint {
	return Constraint{Type: constraintType, IsInferred: true}
}

// HasValue reports whether the constraint carries a value.
func (c Constraint) HasValue() bool {
	return c.Value != nil
}

// ValueOr returns the constraint's value, or def when it has none.
func (c Constraint) ValueOr(def string) string {
	if c.Value == nil {
		return def
	}
	return *c.Value
}

// FindProgramModule returns the first module with the given name.
func (p *Program) FindProgramModule(name string) (*ProgramModule, bool) {
	for i := range p.Modules {
		if p.Modules[i].Name == name {
			return &p.Modules[i], true
		}
	}
	return nil, false
}

// FindAccountStruct returns the first account-validation struct with the given name.
func (p *Program) FindAccountStruct(name string) (*AccountStruct, bool) {
	for i := range p.AccountStructs {
		if p.AccountStructs[i].Name == name {
			return &p.AccountStructs[i], true
		}
	}
	return nil, false
}

// FindRawAccount returns the first raw account with the given name.
func (p *Program) FindRawAccount(name string) (*RawAccount, bool) {
	for i := range p.RawAccounts {
		if p.RawAccounts[i].Name == name {
			return &p.RawAccounts[i], true
		}
	}
	return nil, false
}

// FindField returns the named field.
func (a *AccountStruct) FindField(name string) (*AccountField, bool) {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			return &a.Fields[i], true
		}
	}
	return nil, false
}

// FindField returns the named field.
func (a *RawAccount) FindField(name string) (*RawAccountField, bool) {
	for i := range a.Fields {
		if a.Fields[i].Name == name {
			return &a.Fields[i], true
		}
	}
	return nil, false
}

// HasConstraint reports whether the field carries a constraint of the given type.
func (f *AccountField) HasConstraint(constraintType string) bool {
	return findConstraint(f.Constraints, constraintType) >= 0
}

func findConstraint(cs []Constraint, constraintType string) int {
	for i := range cs {
		if cs[i].Type == constraintType {
			return i
		}
	}
	return -1
}
