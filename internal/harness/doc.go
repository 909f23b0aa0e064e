// Package harness runs conformance scenarios against the normalization
// pipeline.
//
// A scenario is a YAML file naming one Anchor source (inline or on disk)
// and the facts its normalized program must show: program and item names,
// expected issues, inferred operations, and per-field constraints. Run
// parses, builds, and normalizes the source, then checks every expectation
// and collects one message per failure.
//
// Golden snapshots hold the canonical JSON of the normalized program. In
// tests use RunWithGolden; the CLI uses CompareGolden, which does the same
// comparison against a file and can rewrite it.
//
// Scenarios never touch the run history store. Each Run is independent and
// deterministic.
package harness
