// Package compiler implements an ahead-of-time compiler for a C subset,
// targeting GNU-assembler x86-64 text under the System V calling
// convention.
//
// Pipeline: source -> Lex -> Parse -> Analyze -> Generate -> assembly text
package compiler
