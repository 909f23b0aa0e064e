package harness

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/roach88/stylusport/internal/compiler"
	"github.com/roach88/stylusport/internal/normalize"
	"github.com/roach88/stylusport/internal/testutil"
)

// epoch backs the id fallback so runs never depend on wall time.
var epoch = time.Unix(0, 0).UTC()

// Run executes a scenario and returns the result.
//
// The returned error is reserved for problems outside the scenario's
// control, such as an unreadable source file. Pipeline failures and unmet
// expectations are reported on the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context for parsing.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	content := []byte(scenario.Source)
	if scenario.SourceFile != "" {
		data, err := os.ReadFile(scenario.sourcePath())
		if err != nil {
			return nil, fmt.Errorf("scenario %s: read source: %w", scenario.Name, err)
		}
		content = data
	}

	result := NewResult(scenario.Name)
	clock := testutil.NewFixedClock(epoch)

	p, err := compiler.CompileSource(ctx, scenario.displayPath(), content)
	if err == nil {
		result.Program, err = normalize.NormalizeWith(p, normalize.Options{Now: clock.Now})
	}

	want := scenario.Expect.Error
	switch {
	case err != nil && want == "":
		result.AddError("pipeline failed: %v", err)
	case err != nil && !strings.Contains(err.Error(), want):
		result.AddError("error: expected message containing %q, got %q", want, err.Error())
	case err == nil && want != "":
		result.AddError("error: expected failure containing %q, pipeline succeeded", want)
	case err == nil:
		checkExpectations(result, &scenario.Expect)
	}
	return result, nil
}

// RunAll runs every scenario in order. It stops at the first error from Run.
func RunAll(ctx context.Context, scenarios []*Scenario) ([]*Result, error) {
	results := make([]*Result, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := RunContext(ctx, s)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}
