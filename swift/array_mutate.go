package swift

import (
	"cmp"
	"slices"
)

// Append adds e to the end.
func (a *Array[E]) Append(e E) {
	ls := a.willMutateStorage("append")
	defer a.didMutateStorage()
	ls.elems = append(ls.elems, Sref(e, nil))
}

// AppendContentsOf appends every element of seq. Appending an Array to
// itself appends a snapshot of its current elements.
func (a *Array[E]) AppendContentsOf(seq Sequence[E]) {
	if seq == nil {
		return
	}
	incoming := ArrayFrom(seq).window()
	ls := a.willMutateStorage("appendContentsOf")
	defer a.didMutateStorage()
	ls.elems = append(ls.elems, incoming...)
}

// Insert places e at position at, shifting later elements up.
func (a *Array[E]) Insert(e E, at int) {
	n := a.Count()
	if at < 0 || at > n {
		outOfBounds("insert", at, n)
	}
	ls := a.willMutateStorage("insert")
	defer a.didMutateStorage()
	ls.insertAt(at, Sref(e, nil))
}

// InsertContentsOf inserts every element of seq at position at.
func (a *Array[E]) InsertContentsOf(seq Sequence[E], at int) {
	n := a.Count()
	if at < 0 || at > n {
		outOfBounds("insertContentsOf", at, n)
	}
	incoming := ArrayFrom(seq).window()
	ls := a.willMutateStorage("insertContentsOf")
	defer a.didMutateStorage()
	ls.insertAt(at, incoming...)
}

// RemoveAt removes and returns the element at i.
func (a *Array[E]) RemoveAt(i int) E {
	n := a.Count()
	if i < 0 || i >= n {
		outOfBounds("removeAt", i, n)
	}
	ls := a.willMutateStorage("removeAt")
	defer a.didMutateStorage()
	e := ls.elems[i]
	ls.deleteRange(i, i+1)
	return Sref(e, nil)
}

// RemoveSubrange removes the elements in [lo, hi).
func (a *Array[E]) RemoveSubrange(lo, hi int) {
	n := a.Count()
	if lo < 0 || hi > n || lo > hi {
		rangeOutOfBounds("removeSubrange", lo, hi, n)
	}
	ls := a.willMutateStorage("removeSubrange")
	defer a.didMutateStorage()
	ls.deleteRange(lo, hi)
}

// ReplaceSubrange replaces [lo, hi) with the elements of seq.
func (a *Array[E]) ReplaceSubrange(lo, hi int, seq Sequence[E]) {
	n := a.Count()
	if lo < 0 || hi > n || lo > hi {
		rangeOutOfBounds("replaceSubrange", lo, hi, n)
	}
	incoming := ArrayFrom(seq).window()
	ls := a.willMutateStorage("replaceSubrange")
	defer a.didMutateStorage()
	ls.elems = slices.Replace(ls.elems, lo, hi, incoming...)
}

// RemoveAll removes every element. The store is replaced rather than
// forked when it is shared.
func (a *Array[E]) RemoveAll() {
	if a.storage.sliced {
		unsupported("removeAll", "cannot mutate an array slice")
	}
	a.WillMutate()
	defer a.DidMutate()
	a.storage.backing = newListStore[E](0)
	a.storage.shared = false
}

// RemoveAllKeepingCapacity empties the Array, reusing an owned store.
func (a *Array[E]) RemoveAllKeepingCapacity() {
	ls := a.willMutateStorage("removeAll")
	defer a.didMutateStorage()
	ls.deleteRange(0, len(ls.elems))
}

// RemoveAllWhere removes every element satisfying pred, firing a single
// write-back for the whole operation.
func (a *Array[E]) RemoveAllWhere(pred func(E) bool) {
	a.list()
	if a.storage.sliced {
		unsupported("removeAll", "cannot mutate an array slice")
	}
	a.WillMutate()
	defer a.DidMutate()
	for i := a.Count() - 1; i >= 0; i-- {
		if pred(Sref(a.window()[i], nil)) {
			a.RemoveAt(i)
		}
	}
}

// RemoveFirst removes and returns the first element. The Array must not be
// empty.
func (a *Array[E]) RemoveFirst() E {
	if a.IsEmpty() {
		emptyCollection("removeFirst")
	}
	return a.RemoveAt(0)
}

// RemoveFirstN removes the first k elements.
func (a *Array[E]) RemoveFirstN(k int) {
	n := a.Count()
	if k < 0 || k > n {
		precondition("removeFirst", "can't remove more items from a collection than it contains")
	}
	a.RemoveSubrange(0, k)
}

// RemoveLast removes and returns the last element. The Array must not be
// empty.
func (a *Array[E]) RemoveLast() E {
	n := a.Count()
	if n == 0 {
		emptyCollection("removeLast")
	}
	return a.RemoveAt(n - 1)
}

// RemoveLastN removes the last k elements.
func (a *Array[E]) RemoveLastN(k int) {
	n := a.Count()
	if k < 0 || k > n {
		precondition("removeLast", "can't remove more items from a collection than it contains")
	}
	a.RemoveSubrange(n-k, n)
}

// PopFirst removes and returns the first element if there is one.
func (a *Array[E]) PopFirst() (E, bool) {
	if a.IsEmpty() {
		var zero E
		return zero, false
	}
	return a.RemoveAt(0), true
}

// PopLast removes and returns the last element if there is one.
func (a *Array[E]) PopLast() (E, bool) {
	n := a.Count()
	if n == 0 {
		var zero E
		return zero, false
	}
	return a.RemoveAt(n - 1), true
}

// SwapAt exchanges the elements at i and j.
func (a *Array[E]) SwapAt(i, j int) {
	n := a.Count()
	if i < 0 || i >= n {
		outOfBounds("swapAt", i, n)
	}
	if j < 0 || j >= n {
		outOfBounds("swapAt", j, n)
	}
	if i == j {
		return
	}
	ls := a.willMutateStorage("swapAt")
	defer a.didMutateStorage()
	ls.elems[i], ls.elems[j] = ls.elems[j], ls.elems[i]
}

// Sort orders the elements by less. The sort is stable.
func (a *Array[E]) Sort(less func(x, y E) bool) {
	ls := a.willMutateStorage("sort")
	defer a.didMutateStorage()
	slices.SortStableFunc(ls.elems, func(x, y E) int {
		switch {
		case less(x, y):
			return -1
		case less(y, x):
			return 1
		default:
			return 0
		}
	})
}

// Reverse reverses the elements in place.
func (a *Array[E]) Reverse() {
	ls := a.willMutateStorage("reverse")
	defer a.didMutateStorage()
	slices.Reverse(ls.elems)
}

// Shuffle permutes the elements with the system generator.
func (a *Array[E]) Shuffle() {
	a.ShuffleUsing(SystemRandom)
}

// ShuffleUsing permutes the elements with g. Each position from the start
// is swapped with a uniformly chosen position at or after it.
func (a *Array[E]) ShuffleUsing(g RandomNumberGenerator) {
	ls := a.willMutateStorage("shuffle")
	defer a.didMutateStorage()
	elems := ls.elems
	for cur, amount := 0, len(elems); amount > 1; cur, amount = cur+1, amount-1 {
		j := cur + RandomIndex(g, amount)
		elems[cur], elems[j] = elems[j], elems[cur]
	}
}

// ReserveCapacity grows the owned store so n elements fit without
// reallocation. A request the store already satisfies does nothing.
func (a *Array[E]) ReserveCapacity(n int) {
	if a.storage.sliced {
		unsupported("reserveCapacity", "cannot mutate an array slice")
	}
	ls := a.list()
	if n <= a.Count() || (n <= cap(ls.elems) && !a.storage.shared && !ls.readOnly()) {
		return
	}
	ls = a.willMutateStorage("reserveCapacity")
	defer a.didMutateStorage()
	ls.elems = slices.Grow(ls.elems, n-len(ls.elems))
}

// Sorted returns a sorted copy; the receiver is unchanged.
func (a *Array[E]) Sorted(less func(x, y E) bool) *Array[E] {
	out := ArrayFrom[E](a)
	out.Sort(less)
	return out
}

// Shuffled returns a shuffled copy; the receiver is unchanged.
func (a *Array[E]) Shuffled() *Array[E] {
	return a.ShuffledUsing(SystemRandom)
}

// ShuffledUsing returns a copy shuffled with g.
func (a *Array[E]) ShuffledUsing(g RandomNumberGenerator) *Array[E] {
	out := ArrayFrom[E](a)
	out.ShuffleUsing(g)
	return out
}

// Reversed returns a reversed copy; the receiver is unchanged.
func (a *Array[E]) Reversed() *Array[E] {
	out := ArrayFrom[E](a)
	out.Reverse()
	return out
}

// SortAscending sorts naturally ordered elements in place.
func SortAscending[E cmp.Ordered](a *Array[E]) {
	a.Sort(cmp.Less[E])
}

// SortedAscending returns the elements of seq in ascending order.
func SortedAscending[E cmp.Ordered](seq Sequence[E]) *Array[E] {
	return SortedOrdered(seq)
}
