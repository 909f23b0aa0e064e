package normalize

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/roach88/stylusport/internal/ir"
)

// Options tune Normalize. The zero value is ready to use.
type Options struct {
	// Now supplies the time for the id fallback used when a program has
	// neither a source path nor a module. Defaults to time.Now.
	Now func() time.Time
}

// Normalize turns a base Program into a NormalizedProgram.
//
// Steps run in a fixed order: name derivation, id derivation, structural
// copy, linking, inference, validation. The only error is MissingInfo when
// no program name can be derived; every other irregularity is recorded as a
// validation issue on the result.
//
// p is not modified. The result is owned by the caller.
func Normalize(p *ir.Program) (*ir.NormalizedProgram, error) {
	return NormalizeWith(p, Options{})
}

// NormalizeWith is Normalize with explicit options.
func NormalizeWith(p *ir.Program, opts Options) (*ir.NormalizedProgram, error) {
	if p == nil {
		return nil, &Error{Kind: KindOther, Message: "nil program"}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	name, err := programName(p)
	if err != nil {
		return nil, err
	}

	np := ir.NewNormalizedProgram(programID(p, now), name)
	np.Documentation = p.Documentation
	if p.SourcePath != "" {
		np.SourceInfo = &ir.SourceInfo{FilePath: p.SourcePath}
		if p.LineRange != nil {
			lr := *p.LineRange
			np.SourceInfo.LineRange = &lr
		}
	}

	copyStructure(np, p)
	Link(np)
	Infer(np)
	for _, issue := range Validate(np) {
		np.AddIssue(issue)
	}
	return np, nil
}

// programName picks the first module's name, falling back to the source
// file stem.
func programName(p *ir.Program) (string, error) {
	if len(p.Modules) > 0 {
		return p.Modules[0].Name, nil
	}
	if stem := fileStem(p.SourcePath); stem != "" {
		return stem, nil
	}
	return "", NewMissingInfoError("Could not determine program name")
}

func fileStem(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if strings.HasPrefix(base, ".") && strings.Count(base, ".") == 1 {
		return base
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// programID is "program:" plus the source path, else the first module name,
// else the current Unix time.
func programID(p *ir.Program, now func() time.Time) string {
	switch {
	case p.SourcePath != "":
		return "program:" + p.SourcePath
	case len(p.Modules) > 0:
		return "program:" + p.Modules[0].Name
	default:
		return fmt.Sprintf("program:%d", now().Unix())
	}
}

// copyStructure copies modules, account structs, and raw accounts 1:1.
// Copied constraints are explicit; AddConstraint derives the field info.
func copyStructure(np *ir.NormalizedProgram, p *ir.Program) {
	for _, m := range p.Modules {
		nm := ir.NormalizedModule{
			Name:          m.Name,
			Visibility:    m.Visibility,
			Instructions:  make([]ir.NormalizedInstruction, 0, len(m.Instructions)),
			Documentation: m.Documentation,
		}
		for _, in := range m.Instructions {
			nm.Instructions = append(nm.Instructions, ir.NormalizedInstruction{
				Name:              in.Name,
				Visibility:        in.Visibility,
				Parameters:        append([]ir.Parameter{}, in.Parameters...),
				ReturnType:        in.ReturnType,
				AccountStructName: in.ContextType,
				Body:              ir.UnknownBody(),
				Documentation:     in.Documentation,
			})
		}
		np.Modules = append(np.Modules, nm)
	}

	for _, s := range p.AccountStructs {
		ns := ir.NormalizedAccountStruct{
			Name:          s.Name,
			Visibility:    s.Visibility,
			Fields:        make([]ir.NormalizedAccountField, 0, len(s.Fields)),
			Documentation: s.Documentation,
		}
		for _, f := range s.Fields {
			nf := ir.NormalizedAccountField{
				Name:          f.Name,
				Type:          f.Type,
				Constraints:   make([]ir.Constraint, 0, len(f.Constraints)),
				Documentation: f.Documentation,
			}
			for _, c := range f.Constraints {
				c.IsInferred = false
				if c.Value != nil {
					v := *c.Value
					c.Value = &v
				}
				nf.AddConstraint(c)
			}
			ns.Fields = append(ns.Fields, nf)
		}
		np.AccountStructs = append(np.AccountStructs, ns)
	}

	for _, r := range p.RawAccounts {
		nr := ir.NormalizedRawAccount{
			Name:          r.Name,
			Visibility:    r.Visibility,
			Fields:        make([]ir.NormalizedRawField, 0, len(r.Fields)),
			Documentation: r.Documentation,
		}
		for _, f := range r.Fields {
			nr.Fields = append(nr.Fields, ir.NormalizedRawField{
				Name:          f.Name,
				Type:          f.Type,
				Visibility:    f.Visibility,
				Documentation: f.Documentation,
			})
		}
		np.RawAccounts = append(np.RawAccounts, nr)
	}
}
