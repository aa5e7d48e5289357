// Package propcheck checks the value-semantics laws of package swift
// against generated inputs.
//
// Every case is derived from a run seed, the property name and the case
// index, so a failure is reproduced exactly from the (seed, size) pair
// stored in the Corpus.
package propcheck
