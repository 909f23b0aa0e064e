package compiler

import (
	"context"

	"github.com/roach88/stylusport/internal/frontend"
	"github.com/roach88/stylusport/internal/ir"
)

// CompileFile parses the source file at path and builds its base model.
// Syntax errors are returned as *frontend.SyntaxError.
func CompileFile(ctx context.Context, path string) (*ir.Program, error) {
	file, err := frontend.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return Build(file), nil
}

// CompileSource is CompileFile over in-memory content. path is recorded as
// the program's source path and is not read.
func CompileSource(ctx context.Context, path string, content []byte) (*ir.Program, error) {
	file, err := frontend.ParseSource(ctx, path, content)
	if err != nil {
		return nil, err
	}
	return Build(file), nil
}
