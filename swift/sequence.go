package swift

import (
	"cmp"
	"iter"
	"slices"
	"strings"
)

// Sequence is anything that can be iterated once from the start.
type Sequence[E any] interface {
	All() iter.Seq[E]
}

// Collection is a Sequence with stable positions 0..<Count().
type Collection[E any] interface {
	Sequence[E]
	Count() int
	At(i int) E
	IsEmpty() bool
}

// MutableCollection allows elements to be replaced in place.
type MutableCollection[E any] interface {
	Collection[E]
	SetAt(i int, e E)
}

// RangeReplaceableCollection allows the element count to change.
type RangeReplaceableCollection[E any] interface {
	MutableCollection[E]
	Append(e E)
	Insert(e E, at int)
	RemoveAt(i int) E
	RemoveAll()
}

// SliceOf wraps a Go slice as a read-only Sequence.
type SliceOf[E any] []E

// All iterates the slice.
func (s SliceOf[E]) All() iter.Seq[E] { return slices.Values(s) }

// Count returns the slice length.
func (s SliceOf[E]) Count() int { return len(s) }

// At returns the element at i.
func (s SliceOf[E]) At(i int) E {
	if i < 0 || i >= len(s) {
		outOfBounds("at", i, len(s))
	}
	return s[i]
}

// IsEmpty reports whether the slice has no elements.
func (s SliceOf[E]) IsEmpty() bool { return len(s) == 0 }

// Map returns an Array of transform applied to every element.
func Map[E, T any](seq Sequence[E], transform func(E) T) *Array[T] {
	out := newArrayCap[T](underestimatedCount(seq))
	for e := range seq.All() {
		out.appendRaw(transform(e))
	}
	return out
}

// CompactMap keeps the transformed elements whose ok result is true.
func CompactMap[E, T any](seq Sequence[E], transform func(E) (T, bool)) *Array[T] {
	out := NewArray[T]()
	for e := range seq.All() {
		if t, ok := transform(e); ok {
			out.appendRaw(t)
		}
	}
	return out
}

// FlatMap concatenates the sequences produced by transform.
func FlatMap[E, T any](seq Sequence[E], transform func(E) Sequence[T]) *Array[T] {
	out := NewArray[T]()
	for e := range seq.All() {
		for t := range transform(e).All() {
			out.appendRaw(t)
		}
	}
	return out
}

// Filter returns the elements satisfying pred, in order.
func Filter[E any](seq Sequence[E], pred func(E) bool) *Array[E] {
	out := NewArray[E]()
	for e := range seq.All() {
		if pred(e) {
			out.appendRaw(e)
		}
	}
	return out
}

// Reduce folds the sequence from the left.
func Reduce[E, R any](seq Sequence[E], initial R, next func(R, E) R) R {
	acc := initial
	for e := range seq.All() {
		acc = next(acc, e)
	}
	return acc
}

// ReduceInto folds the sequence into a mutable accumulator.
func ReduceInto[E, R any](seq Sequence[E], initial R, update func(*R, E)) R {
	acc := initial
	for e := range seq.All() {
		update(&acc, e)
	}
	return acc
}

// ForEach calls body for every element.
func ForEach[E any](seq Sequence[E], body func(E)) {
	for e := range seq.All() {
		body(e)
	}
}

// ContainsWhere reports whether any element satisfies pred.
func ContainsWhere[E any](seq Sequence[E], pred func(E) bool) bool {
	for e := range seq.All() {
		if pred(e) {
			return true
		}
	}
	return false
}

// ContainsElement reports whether an element equal to x exists.
func ContainsElement[E any](seq Sequence[E], x E) bool {
	return ContainsWhere(seq, func(e E) bool { return EqualValues(e, x) })
}

// AllSatisfy reports whether every element satisfies pred.
func AllSatisfy[E any](seq Sequence[E], pred func(E) bool) bool {
	for e := range seq.All() {
		if !pred(e) {
			return false
		}
	}
	return true
}

// FirstWhere returns the first element satisfying pred.
func FirstWhere[E any](seq Sequence[E], pred func(E) bool) (E, bool) {
	for e := range seq.All() {
		if pred(e) {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// CountWhere counts the elements satisfying pred.
func CountWhere[E any](seq Sequence[E], pred func(E) bool) int {
	n := 0
	for e := range seq.All() {
		if pred(e) {
			n++
		}
	}
	return n
}

// Min returns the smallest element under less.
func Min[E any](seq Sequence[E], less func(a, b E) bool) (E, bool) {
	var best E
	found := false
	for e := range seq.All() {
		if !found || less(e, best) {
			best, found = e, true
		}
	}
	return best, found
}

// Max returns the largest element under less. Ties keep the last one.
func Max[E any](seq Sequence[E], less func(a, b E) bool) (E, bool) {
	var best E
	found := false
	for e := range seq.All() {
		if !found || !less(e, best) {
			best, found = e, true
		}
	}
	return best, found
}

// MinOrdered is Min for naturally ordered elements.
func MinOrdered[E cmp.Ordered](seq Sequence[E]) (E, bool) {
	return Min(seq, cmp.Less[E])
}

// MaxOrdered is Max for naturally ordered elements.
func MaxOrdered[E cmp.Ordered](seq Sequence[E]) (E, bool) {
	return Max(seq, cmp.Less[E])
}

// Sorted returns the elements in a stable order under less.
func Sorted[E any](seq Sequence[E], less func(a, b E) bool) *Array[E] {
	out := ArrayFrom(seq)
	out.Sort(less)
	return out
}

// SortedOrdered is Sorted for naturally ordered elements.
func SortedOrdered[E cmp.Ordered](seq Sequence[E]) *Array[E] {
	return Sorted(seq, cmp.Less[E])
}

// Reversed returns the elements in reverse order.
func Reversed[E any](seq Sequence[E]) *Array[E] {
	out := ArrayFrom(seq)
	out.Reverse()
	return out
}

// Enumerated pairs every element with its offset.
func Enumerated[E any](seq Sequence[E]) iter.Seq2[int, E] {
	return func(yield func(int, E) bool) {
		i := 0
		for e := range seq.All() {
			if !yield(i, e) {
				return
			}
			i++
		}
	}
}

// Zip pairs up elements of two sequences, stopping at the shorter.
func Zip[A, B any](a Sequence[A], b Sequence[B]) *Array[Pair[A, B]] {
	out := NewArray[Pair[A, B]]()
	next, stop := iter.Pull(b.All())
	defer stop()
	for x := range a.All() {
		y, ok := next()
		if !ok {
			break
		}
		out.appendRaw(Pair[A, B]{Key: x, Value: y})
	}
	return out
}

// Prefix returns at most the first n elements.
func Prefix[E any](seq Sequence[E], n int) *Array[E] {
	if n < 0 {
		precondition("prefix", "can't take a prefix of negative length")
	}
	out := NewArray[E]()
	if n == 0 {
		return out
	}
	for e := range seq.All() {
		out.appendRaw(e)
		if out.Count() == n {
			break
		}
	}
	return out
}

// Suffix returns at most the last n elements.
func Suffix[E any](seq Sequence[E], n int) *Array[E] {
	if n < 0 {
		precondition("suffix", "can't take a suffix of negative length")
	}
	all := ArrayFrom(seq)
	if n >= all.Count() {
		return all
	}
	return ArrayFrom[E](all.SliceFrom(all.Count() - n))
}

// DropFirst skips the first n elements.
func DropFirst[E any](seq Sequence[E], n int) *Array[E] {
	if n < 0 {
		precondition("dropFirst", "can't drop a negative number of elements")
	}
	out := NewArray[E]()
	i := 0
	for e := range seq.All() {
		if i >= n {
			out.appendRaw(e)
		}
		i++
	}
	return out
}

// DropLast drops the last n elements.
func DropLast[E any](seq Sequence[E], n int) *Array[E] {
	if n < 0 {
		precondition("dropLast", "can't drop a negative number of elements")
	}
	all := ArrayFrom(seq)
	if n >= all.Count() {
		return NewArray[E]()
	}
	return ArrayFrom[E](all.Slice(0, all.Count()-n))
}

// ElementsEqual compares two sequences element by element.
func ElementsEqual[E any](a, b Sequence[E]) bool {
	next, stop := iter.Pull(b.All())
	defer stop()
	for x := range a.All() {
		y, ok := next()
		if !ok || !EqualValues(x, y) {
			return false
		}
	}
	_, more := next()
	return !more
}

// Joined concatenates string elements with a separator.
func Joined(seq Sequence[string], separator string) string {
	var sb strings.Builder
	first := true
	for s := range seq.All() {
		if !first {
			sb.WriteString(separator)
		}
		sb.WriteString(s)
		first = false
	}
	return sb.String()
}

// ReverseInPlace reverses a MutableCollection through SetAt. Other
// collections fail with PanicUnsupported.
func ReverseInPlace[E any](c Collection[E]) {
	if a, ok := c.(*Array[E]); ok {
		a.Reverse()
		return
	}
	mc := asMutable(c, "reverse")
	for i, j := 0, mc.Count()-1; i < j; i, j = i+1, j-1 {
		swapVia(mc, i, j)
	}
}

// SortInPlace sorts a MutableCollection through SetAt.
func SortInPlace[E any](c Collection[E], less func(a, b E) bool) {
	if a, ok := c.(*Array[E]); ok {
		a.Sort(less)
		return
	}
	mc := asMutable(c, "sort")
	sorted := Sorted[E](mc, less)
	for i := range sorted.Count() {
		mc.SetAt(i, sorted.At(i))
	}
}

// SwapAt exchanges two positions of a MutableCollection.
func SwapAt[E any](c Collection[E], i, j int) {
	mc := asMutable(c, "swapAt")
	n := mc.Count()
	if i < 0 || i >= n {
		outOfBounds("swapAt", i, n)
	}
	if j < 0 || j >= n {
		outOfBounds("swapAt", j, n)
	}
	swapVia(mc, i, j)
}

func swapVia[E any](mc MutableCollection[E], i, j int) {
	if i == j {
		return
	}
	x, y := mc.At(i), mc.At(j)
	mc.SetAt(i, y)
	mc.SetAt(j, x)
}

func asMutable[E any](c Collection[E], op string) MutableCollection[E] {
	mc, ok := c.(MutableCollection[E])
	if !ok {
		unsupported(op, "collection is read-only")
	}
	return mc
}

func underestimatedCount[E any](seq Sequence[E]) int {
	if c, ok := seq.(interface{ Count() int }); ok {
		return c.Count()
	}
	return 0
}
