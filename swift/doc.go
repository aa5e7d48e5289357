// Package swift provides value-semantics containers over Go's
// reference-shared slices and maps.
//
// Array, Dictionary, Set and IntSet are handles used through pointers.
// Assigning a pointer aliases; a value copy is made with Sref or SCopy and
// costs O(1): both handles then share the backing store and whichever
// mutates first forks it.
//
//	a := swift.ArrayOf(1, 2)
//	b := swift.Sref(a, nil)
//	b.Append(3) // a still holds [1, 2]
//
// Elements read through At or Get are copies bound to write back into the
// container when mutated, so nested updates reach the outer value:
//
//	outer := swift.ArrayOf(swift.ArrayOf(1))
//	outer.At(0).Append(2) // outer is [[1, 2]]
//
// Misuse such as an out-of-bounds index panics with *Error; Try converts
// those panics into errors. Slices returned by Slice and SliceFrom are
// read-only views.
package swift
