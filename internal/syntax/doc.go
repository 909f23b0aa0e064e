// Package syntax is the narrow structural view of Rust source that the
// compiler classifies and converts.
//
// It carries only what classification and model building need: item kind,
// name, visibility text, attributes with their raw argument text, fields,
// parameters, and types as token sequences with parsed path segments.
// Producing a File from source text is the frontend package's job.
package syntax
