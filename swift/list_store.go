package swift

import "slices"

// listStore is the linear backing store of Array and IntSet. A read-only
// store (built by Repeating or adopted from the host) is never written;
// the first mutation forks it.
type listStore[E any] struct {
	elems    []E
	readonly bool
}

func newListStore[E any](capacity int) *listStore[E] {
	return &listStore[E]{elems: make([]E, 0, capacity)}
}

func (l *listStore[E]) clone() *listStore[E] {
	out := make([]E, len(l.elems), max(cap(l.elems), len(l.elems)))
	copy(out, l.elems)
	return &listStore[E]{elems: out}
}

func (l *listStore[E]) size() int {
	return len(l.elems)
}

func (l *listStore[E]) readOnly() bool {
	return l.readonly
}

func (l *listStore[E]) insertAt(i int, es ...E) {
	l.elems = slices.Insert(l.elems, i, es...)
}

func (l *listStore[E]) deleteRange(lo, hi int) {
	l.elems = slices.Delete(l.elems, lo, hi)
}
