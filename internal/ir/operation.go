package ir

import (
	"encoding/json"
	"fmt"
)

// OperationKind names a BasicOperation variant.
type OperationKind string

const (
	OpLog        OperationKind = "log"
	OpInitialize OperationKind = "initialize"
	OpTransfer   OperationKind = "transfer"
	OpClose      OperationKind = "close"
)

// BasicOperation is a sealed interface for inferred instruction effects.
// Only types in this package can implement it; switches over it are
// exhaustive across LogOp, InitializeOp, TransferOp and CloseOp.
type BasicOperation interface {
	basicOperation()
	Kind() OperationKind
}

// LogOp records a log message emitted by the instruction.
type LogOp struct {
	Message string
}

// InitializeOp creates account Target, funded by Payer.
type InitializeOp struct {
	Target string
	Payer  string
}

// TransferOp moves value From one account To another.
type TransferOp struct {
	From string
	To   string
}

// CloseOp closes Target and refunds its balance to RefundTo.
type CloseOp struct {
	Target   string
	RefundTo string
}

func (LogOp) basicOperation()        {}
func (InitializeOp) basicOperation() {}
func (TransferOp) basicOperation()   {}
func (CloseOp) basicOperation()      {}

func (LogOp) Kind() OperationKind        { return OpLog }
func (InitializeOp) Kind() OperationKind { return OpInitialize }
func (TransferOp) Kind() OperationKind   { return OpTransfer }
func (CloseOp) Kind() OperationKind      { return OpClose }

// OperationView is the flat serialized form of a BasicOperation.
// Unused fields are empty and omitted.
type OperationView struct {
	Kind     OperationKind `json:"kind" yaml:"kind"`
	Message  string        `json:"message,omitempty" yaml:"message,omitempty"`
	Target   string        `json:"target,omitempty" yaml:"target,omitempty"`
	Payer    string        `json:"payer,omitempty" yaml:"payer,omitempty"`
	From     string        `json:"from,omitempty" yaml:"from,omitempty"`
	To       string        `json:"to,omitempty" yaml:"to,omitempty"`
	RefundTo string        `json:"refund_to,omitempty" yaml:"refund_to,omitempty"`
}

// ViewOf flattens op into its serialized form.
func ViewOf(op BasicOperation) OperationView {
	switch o := op.(type) {
	case LogOp:
		return OperationView{Kind: OpLog, Message: o.Message}
	case InitializeOp:
		return OperationView{Kind: OpInitialize, Target: o.Target, Payer: o.Payer}
	case TransferOp:
		return OperationView{Kind: OpTransfer, From: o.From, To: o.To}
	case CloseOp:
		return OperationView{Kind: OpClose, Target: o.Target, RefundTo: o.RefundTo}
	default:
		panic(fmt.Sprintf("unknown operation type %T", op))
	}
}

// Operation rebuilds the variant named by v.Kind.
func (v OperationView) Operation() (BasicOperation, error) {
	switch v.Kind {
	case OpLog:
		return LogOp{Message: v.Message}, nil
	case OpInitialize:
		return InitializeOp{Target: v.Target, Payer: v.Payer}, nil
	case OpTransfer:
		return TransferOp{From: v.From, To: v.To}, nil
	case OpClose:
		return CloseOp{Target: v.Target, RefundTo: v.RefundTo}, nil
	default:
		return nil, fmt.Errorf("unknown operation kind %q", v.Kind)
	}
}

// BodyKind distinguishes an unknown body from an inferred one.
type BodyKind string

const (
	BodyUnknown BodyKind = "unknown"
	BodyBasic   BodyKind = "basic"
)

// InstructionBody is the inferred behavior of an instruction: either
// Unknown or Basic with an ordered list of operations.
type InstructionBody struct {
	Kind       BodyKind
	Operations []BasicOperation
}

// UnknownBody returns the body of an instruction with no inferred effects.
func UnknownBody() InstructionBody {
	return InstructionBody{Kind: BodyUnknown}
}

// BasicBody returns a body with the given operations, in order.
func BasicBody(ops ...BasicOperation) InstructionBody {
	return InstructionBody{Kind: BodyBasic, Operations: ops}
}

// IsUnknown reports whether no effects were inferred.
// The zero value is treated as unknown.
func (b InstructionBody) IsUnknown() bool {
	return b.Kind != BodyBasic
}

// Append adds op to the body, turning an unknown body into a basic one.
func (b *InstructionBody) Append(op BasicOperation) {
	b.Kind = BodyBasic
	b.Operations = append(b.Operations, op)
}

type bodyView struct {
	Kind       BodyKind        `json:"kind" yaml:"kind"`
	Operations []OperationView `json:"operations,omitempty" yaml:"operations,omitempty"`
}

func (b InstructionBody) view() bodyView {
	if b.IsUnknown() {
		return bodyView{Kind: BodyUnknown}
	}
	v := bodyView{Kind: BodyBasic, Operations: make([]OperationView, len(b.Operations))}
	for i, op := range b.Operations {
		v.Operations[i] = ViewOf(op)
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (b InstructionBody) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.view())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *InstructionBody) UnmarshalJSON(data []byte) error {
	var v bodyView
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.Kind {
	case BodyUnknown, "":
		*b = UnknownBody()
		return nil
	case BodyBasic:
		out := InstructionBody{Kind: BodyBasic}
		for i, ov := range v.Operations {
			op, err := ov.Operation()
			if err != nil {
				return fmt.Errorf("operations[%d]: %w", i, err)
			}
			out.Operations = append(out.Operations, op)
		}
		*b = out
		return nil
	default:
		return fmt.Errorf("unknown body kind %q", v.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (b InstructionBody) MarshalYAML() (any, error) {
	return b.view(), nil
}
