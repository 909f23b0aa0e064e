// Package ir provides the domain model types for stylusport.
//
// Two layers live here:
//   - The base model (Program, ProgramModule, Instruction, AccountStruct,
//     RawAccount) built once by the compiler from a classified syntax tree.
//   - The normalized model (NormalizedProgram and friends) produced by the
//     normalizer after linking, inference, and validation.
//
// This package contains type definitions and small lookup helpers only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - All JSON and YAML tags use snake_case; field names are the stable
//     contract for serializers built on top.
//   - Optional text fields use the empty string for "absent".
//   - Operation and severity variants are closed sets; switches over them
//     are exhaustive.
package ir
