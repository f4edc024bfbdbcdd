// Package model contains the in-memory representation of a support case:
// the input payload, the mutable CaseState aggregate threaded through the
// stage pipeline, the fixed stage order, the ability vocabulary and the
// typed views ability results decode onto.
//
// The aggregate follows a single-writer rule: the stage engine owns one
// CaseState per run and no other component mutates it.  The `state` and
// `types` sub-packages hold the binding parameters and the provider contract
// so that they can be referenced from other parts of the code base with a
// single import.
package model
