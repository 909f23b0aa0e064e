package normalize

import (
	"strings"

	"github.com/roach88/stylusport/internal/ir"
)

// Infer runs the three inference passes in order: operations, field
// constraints, then relationships. Each pass reads what the previous one
// left. Running Infer again on its own output changes nothing.
func Infer(np *ir.NormalizedProgram) {
	inferOperations(np)
	inferFieldConstraints(np)
	inferRelationships(np)
}

// Names whose fields imply a signer when typed as a Signer.
var signerFieldNames = map[string]bool{
	"authority": true,
	"owner":     true,
	"admin":     true,
}

// inferOperations fills the body of every instruction that has no
// operations yet and whose account struct is declared.
func inferOperations(np *ir.NormalizedProgram) {
	for mi := range np.Modules {
		for ii := range np.Modules[mi].Instructions {
			in := &np.Modules[mi].Instructions[ii]
			if !in.Body.IsUnknown() || in.AccountStructName == "" {
				continue
			}
			account, ok := np.FindAccountStruct(in.AccountStructName)
			if !ok {
				continue
			}
			if ops := operationsFor(in.Name, account); len(ops) > 0 {
				in.Body = ir.BasicBody(ops...)
			}
		}
	}
}

func operationsFor(instruction string, account *ir.NormalizedAccountStruct) []ir.BasicOperation {
	var ops []ir.BasicOperation

	for i := range account.Fields {
		f := &account.Fields[i]
		if !f.HasConstraint("init") {
			continue
		}
		payer := "payer"
		if c, ok := f.FindConstraint("payer"); ok {
			payer = c.ValueOr(payer)
		}
		ops = append(ops, ir.InitializeOp{Target: f.Name, Payer: payer})
	}

	switch instruction {
	case "initialize", "init", "create":
		// Covered by the init fields above.
	case "transfer", "send":
		from, okFrom := account.FindField("from")
		to, okTo := account.FindField("to")
		if okFrom && okTo {
			ops = append(ops, ir.TransferOp{From: from.Name, To: to.Name})
		}
	case "close":
		for i := range account.Fields {
			c, ok := account.Fields[i].FindConstraint("close")
			if !ok {
				continue
			}
			ops = append(ops, ir.CloseOp{Target: account.Fields[i].Name, RefundTo: c.ValueOr("authority")})
			break
		}
	}
	return ops
}

// inferFieldConstraints appends inferred signer and mut constraints.
func inferFieldConstraints(np *ir.NormalizedProgram) {
	for si := range np.AccountStructs {
		for fi := range np.AccountStructs[si].Fields {
			f := &np.AccountStructs[si].Fields[fi]
			if signerFieldNames[f.Name] && strings.Contains(f.Type, "Signer") && !f.HasConstraint("signer") {
				f.AddConstraint(ir.InferredConstraint("signer"))
			}
			if f.HasConstraint("init") && !f.HasConstraint("mut") {
				f.AddConstraint(ir.InferredConstraint("mut"))
			}
		}
	}
}

// inferRelationships links a field to the sibling named by its has_one or
// belongs_to value. When several siblings qualify, the last one in field
// order wins.
func inferRelationships(np *ir.NormalizedProgram) {
	for si := range np.AccountStructs {
		fields := np.AccountStructs[si].Fields
		for i := range fields {
			for j := range fields {
				if i == j {
					continue
				}
				if referencesField(fields[j].Constraints, fields[i].Name) {
					fields[j].InferredInfo.RelatedAccount = fields[i].Name
				}
			}
		}
	}
}

func referencesField(cs []ir.Constraint, name string) bool {
	for _, c := range cs {
		if (c.Type == "has_one" || c.Type == "belongs_to") && c.Value != nil && *c.Value == name {
			return true
		}
	}
	return false
}
