// Package compiler turns the structural syntax view of an Anchor program
// into the base ir.Program.
//
// Classification is attribute-driven: pure predicates over item shape decide
// what each item is. Unrecognized items are skipped without diagnostics.
// Nothing here fails; odd input yields a smaller model, and the normalizer
// reports what is missing.
package compiler
