// Package schema loads descriptor definition documents and runs their checks.
//
// A document names descriptors by type expression and lists checks against
// them:
//
//	name: numbers
//	descriptors:
//	  number: {union: [int, float64]}
//	  pair: {tuple: [int, number]}
//	checks:
//	  - member: {descriptor: pair, value: [1, 2.5]}
//	    expect: true
//
// Documents are YAML or CUE. Both decode into the same generic shape, so a
// type expression means the same thing in either format.
//
// Loading happens in three steps:
//
//  1. [LoadFile] (or [ParseYAML], [ParseCUE]) decodes and validates shape.
//  2. [Resolve] rebuilds every named descriptor through annotype.Apply,
//     reporting unknown names and definition cycles.
//  3. [Run] evaluates every check and returns a [Report].
//
// Expressions are rebuilt in-process on every load; nothing about a
// descriptor's identity is read from the file.
package schema
