package swift

import (
	"fmt"
	"iter"
	"strings"
)

// Array is an ordered, copy-on-write value container. Handles are used
// through pointers; a value copy is made with Sref or SCopy, never by
// copying the pointer.
type Array[E any] struct {
	storage cowStorage[*listStore[E]]
	mut     MutationState
}

// NewArray returns an empty, privately owned Array.
func NewArray[E any]() *Array[E] {
	return newArrayCap[E](0)
}

func newArrayCap[E any](capacity int) *Array[E] {
	return &Array[E]{storage: cowStorage[*listStore[E]]{backing: newListStore[E](capacity), label: "array"}}
}

func newArrayStore[E any](ls *listStore[E], shared bool) *Array[E] {
	return &Array[E]{storage: cowStorage[*listStore[E]]{backing: ls, shared: shared, label: "array"}}
}

// ArrayOf builds an Array from literal elements.
func ArrayOf[E any](elems ...E) *Array[E] {
	a := newArrayCap[E](len(elems))
	for _, e := range elems {
		a.appendRaw(e)
	}
	return a
}

// Repeating builds an Array holding count copies of v over a read-only
// store. The first mutation forks it into an owned list.
func Repeating[E any](v E, count int) *Array[E] {
	if count < 0 {
		precondition("repeating", "can't construct Array with count < 0")
	}
	elems := make([]E, count)
	for i := range elems {
		elems[i] = Sref(v, nil)
	}
	return newArrayStore(&listStore[E]{elems: elems, readonly: true}, false)
}

// ArrayFrom copies the elements of any sequence into a new Array.
func ArrayFrom[E any](seq Sequence[E]) *Array[E] {
	if seq == nil {
		return NewArray[E]()
	}
	out := newArrayCap[E](underestimatedCount(seq))
	for e := range seq.All() {
		out.appendRaw(e)
	}
	return out
}

// AdoptArray builds an Array without copying when src is a root Array: the
// new handle takes src's storage in O(1). With shared set both handles are
// marked shared and fork on their next mutation; without it the caller
// gives up src. Other sequences and slices are copied.
func AdoptArray[E any](seq Sequence[E], shared bool) *Array[E] {
	src, ok := seq.(*Array[E])
	if !ok || src == nil || src.storage.sliced {
		return ArrayFrom(seq)
	}
	a := &Array[E]{}
	if shared {
		a.storage = src.storage.share()
	} else {
		a.storage = src.storage
	}
	return a
}

// list returns the read view of the backing store.
func (a *Array[E]) list() *listStore[E] {
	if a.storage.backing == nil {
		a.storage.backing = newListStore[E](0)
		a.storage.label = "array"
	}
	return a.storage.backing
}

// window returns the live elements of this handle.
func (a *Array[E]) window() []E {
	ls := a.list()
	lo, hi := a.storage.bounds()
	return ls.elems[lo:hi]
}

// willMutateStorage opens a mutation bracket and returns an owned store.
func (a *Array[E]) willMutateStorage(op string) *listStore[E] {
	a.list()
	ls := a.storage.willMutateStorage(op)
	a.WillMutate()
	return ls
}

// didMutateStorage closes the bracket opened by willMutateStorage.
func (a *Array[E]) didMutateStorage() {
	a.DidMutate()
}

// appendRaw appends to an Array nobody observes yet.
func (a *Array[E]) appendRaw(e E) {
	ls := a.storage.willMutateStorage("append")
	ls.elems = append(ls.elems, Sref(e, nil))
}

// SCopy returns a handle sharing this Array's storage.
func (a *Array[E]) SCopy() MutableStruct {
	a.list()
	return &Array[E]{storage: a.storage.share()}
}

// Copy is SCopy with the concrete type.
func (a *Array[E]) Copy() *Array[E] {
	return a.SCopy().(*Array[E])
}

// SetSUpdate implements MutableStruct.
func (a *Array[E]) SetSUpdate(fn func(MutableStruct)) { a.mut.SetUpdate(fn) }

// WillMutate implements MutableStruct.
func (a *Array[E]) WillMutate() { a.mut.Begin() }

// DidMutate implements MutableStruct.
func (a *Array[E]) DidMutate() { a.mut.End(a) }

// Count returns the number of elements.
func (a *Array[E]) Count() int {
	a.list()
	return a.storage.count()
}

// IsEmpty reports whether the Array has no elements.
func (a *Array[E]) IsEmpty() bool { return a.Count() == 0 }

// IsSlice reports whether this handle is a read-only slice view.
func (a *Array[E]) IsSlice() bool { return a.storage.sliced }

// At returns the element at i. Mutating the result writes it back into
// this Array.
func (a *Array[E]) At(i int) E {
	w := a.window()
	if i < 0 || i >= len(w) {
		outOfBounds("at", i, len(w))
	}
	return Sref(w[i], func(v E) { a.SetAt(i, v) })
}

// SetAt replaces the element at i.
func (a *Array[E]) SetAt(i int, v E) {
	n := a.Count()
	if i < 0 || i >= n {
		outOfBounds("setAt", i, n)
	}
	ls := a.willMutateStorage("setAt")
	defer a.didMutateStorage()
	ls.elems[i] = Sref(v, nil)
}

// First returns the first element.
func (a *Array[E]) First() (E, bool) {
	w := a.window()
	if len(w) == 0 {
		var zero E
		return zero, false
	}
	return Sref(w[0], nil), true
}

// Last returns the last element.
func (a *Array[E]) Last() (E, bool) {
	w := a.window()
	if len(w) == 0 {
		var zero E
		return zero, false
	}
	return Sref(w[len(w)-1], nil), true
}

// All iterates copies of the elements.
func (a *Array[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range a.window() {
			if !yield(Sref(e, nil)) {
				return
			}
		}
	}
}

// Backward iterates copies of the elements from the end.
func (a *Array[E]) Backward() iter.Seq[E] {
	return func(yield func(E) bool) {
		w := a.window()
		for i := len(w) - 1; i >= 0; i-- {
			if !yield(Sref(w[i], nil)) {
				return
			}
		}
	}
}

// Indices iterates the valid positions.
func (a *Array[E]) Indices() iter.Seq[int] {
	return func(yield func(int) bool) {
		n := a.Count()
		for i := range n {
			if !yield(i) {
				return
			}
		}
	}
}

// Slice returns a read-only view of [lo, hi). The view keeps reading the
// elements it saw even after this Array is mutated.
func (a *Array[E]) Slice(lo, hi int) *Array[E] {
	n := a.Count()
	if lo < 0 || hi > n || lo > hi {
		rangeOutOfBounds("slice", lo, hi, n)
	}
	return &Array[E]{storage: a.storage.willSliceStorage(lo, hi, false)}
}

// SliceFrom returns a read-only view from lo through the end of the store.
func (a *Array[E]) SliceFrom(lo int) *Array[E] {
	n := a.Count()
	if lo < 0 || lo > n {
		rangeOutOfBounds("slice", lo, n, n)
	}
	return &Array[E]{storage: a.storage.willSliceStorage(lo, n, true)}
}

// SliceTo returns a read-only view of [0, hi).
func (a *Array[E]) SliceTo(hi int) *Array[E] {
	return a.Slice(0, hi)
}

// FirstIndex returns the position of the first element satisfying pred.
func (a *Array[E]) FirstIndex(pred func(E) bool) (int, bool) {
	for i, e := range a.window() {
		if pred(Sref(e, nil)) {
			return i, true
		}
	}
	return -1, false
}

// LastIndex returns the position of the last element satisfying pred.
func (a *Array[E]) LastIndex(pred func(E) bool) (int, bool) {
	w := a.window()
	for i := len(w) - 1; i >= 0; i-- {
		if pred(Sref(w[i], nil)) {
			return i, true
		}
	}
	return -1, false
}

// IndexOf returns the position of the first element equal to x.
func (a *Array[E]) IndexOf(x E) (int, bool) {
	return a.FirstIndex(func(e E) bool { return EqualValues(e, x) })
}

// Contains reports whether an element equal to x exists.
func (a *Array[E]) Contains(x E) bool {
	_, ok := a.IndexOf(x)
	return ok
}

// Concat returns a new Array holding a's elements followed by b's. Neither
// operand changes.
func (a *Array[E]) Concat(b Sequence[E]) *Array[E] {
	out := newArrayCap[E](a.Count() + underestimatedCount(b))
	for _, e := range a.window() {
		out.appendRaw(e)
	}
	if b != nil {
		for e := range b.All() {
			out.appendRaw(e)
		}
	}
	return out
}

// Equal reports whether both Arrays hold equal elements in the same order.
func (a *Array[E]) Equal(b *Array[E]) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	wa, wb := a.window(), b.window()
	if len(wa) != len(wb) {
		return false
	}
	if len(wa) > 0 && &wa[0] == &wb[0] {
		return true
	}
	for i := range wa {
		if !EqualValues(wa[i], wb[i]) {
			return false
		}
	}
	return true
}

// EqualTo implements Equatable.
func (a *Array[E]) EqualTo(other any) bool {
	b, ok := other.(*Array[E])
	return ok && a.Equal(b)
}

// HashInto implements Hashable over the ordered element sequence.
func (a *Array[E]) HashInto(h *Hasher) {
	w := a.window()
	h.CombineUint64(uint64(len(w)))
	for _, e := range w {
		h.Combine(e)
	}
}

// String renders the Array like a Swift array literal.
func (a *Array[E]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.window() {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeElement(&sb, e)
	}
	sb.WriteByte(']')
	return sb.String()
}

// CheckInvariants validates the storage window and the mutation depth.
func (a *Array[E]) CheckInvariants() error {
	a.list()
	if err := a.storage.checkWindow(); err != nil {
		return err
	}
	if d := a.mut.Depth(); d != 0 {
		return fmt.Errorf("array idle with mutation depth %d", d)
	}
	return nil
}

func writeElement(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case string:
		fmt.Fprintf(sb, "%q", x)
	case fmt.Stringer:
		sb.WriteString(x.String())
	default:
		fmt.Fprint(sb, x)
	}
}
