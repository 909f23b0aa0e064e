// Package schema checks normalized programs against the CUE description of
// their JSON contract.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/stylusport/internal/ir"
)

//go:embed normalized.cue
var source []byte

// Error lists every schema violation found in one program.
type Error struct {
	Program  string
	Messages []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("schema check failed for %s: %s", e.Program, strings.Join(e.Messages, "; "))
}

// Schema is a compiled contract. A cue.Context is not safe for concurrent
// use, so Check serializes access.
type Schema struct {
	mu  sync.Mutex
	ctx *cue.Context
	def cue.Value
}

// Load compiles the embedded schema.
func Load() (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(source, cue.Filename("normalized.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	def := v.LookupPath(cue.ParsePath("#NormalizedProgram"))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("lookup #NormalizedProgram: %w", err)
	}
	return &Schema{ctx: ctx, def: def}, nil
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
	defaultErr    error
)

// Check validates np against the embedded schema.
func Check(np *ir.NormalizedProgram) error {
	defaultOnce.Do(func() {
		defaultSchema, defaultErr = Load()
	})
	if defaultErr != nil {
		return defaultErr
	}
	return defaultSchema.Check(np)
}

// Check validates np, returning a *Error listing every violation.
func (s *Schema) Check(np *ir.NormalizedProgram) error {
	data, err := json.Marshal(np)
	if err != nil {
		return fmt.Errorf("encode program: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	val := s.ctx.CompileBytes(data, cue.Filename(np.Name+".json"))
	if err := val.Err(); err != nil {
		return fmt.Errorf("load program: %w", err)
	}

	res := s.def.Unify(val)
	if err := res.Validate(cue.Concrete(true)); err != nil {
		var msgs []string
		for _, e := range errors.Errors(err) {
			msgs = append(msgs, e.Error())
		}
		return &Error{Program: np.Name, Messages: msgs}
	}
	return nil
}
