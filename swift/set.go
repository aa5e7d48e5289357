package swift

import (
	"fmt"
	"iter"
	"strings"
)

// Set is a copy-on-write collection of unique elements. Iteration follows
// insertion order; equality ignores it.
type Set[E comparable] struct {
	storage cowStorage[*orderedMap[E, struct{}]]
	mut     MutationState
}

// NewSet returns an empty, privately owned Set.
func NewSet[E comparable]() *Set[E] {
	return newSetCap[E](0)
}

func newSetCap[E comparable](capacity int) *Set[E] {
	return &Set[E]{storage: cowStorage[*orderedMap[E, struct{}]]{backing: newOrderedMap[E, struct{}](capacity), label: "set"}}
}

// SetOf builds a Set from literal elements; repeats collapse.
func SetOf[E comparable](elems ...E) *Set[E] {
	return SetFrom[E](SliceOf[E](elems))
}

// SetFrom builds a Set from any sequence.
func SetFrom[E comparable](seq Sequence[E]) *Set[E] {
	s := newSetCap[E](underestimatedCount(seq))
	if seq == nil {
		return s
	}
	m := s.mapStore()
	for e := range seq.All() {
		m.put(Sref(e, nil), struct{}{})
	}
	return s
}

// asSet returns seq as a Set for membership tests, building one only when
// seq is some other sequence.
func asSet[E comparable](seq Sequence[E]) *Set[E] {
	if s, ok := seq.(*Set[E]); ok && s != nil {
		return s
	}
	return SetFrom(seq)
}

func (s *Set[E]) mapStore() *orderedMap[E, struct{}] {
	if s.storage.backing == nil {
		s.storage.backing = newOrderedMap[E, struct{}](0)
		s.storage.label = "set"
	}
	return s.storage.backing
}

func (s *Set[E]) window() []mapEntry[E, struct{}] {
	m := s.mapStore()
	lo, hi := s.storage.bounds()
	return m.entries[lo:hi]
}

func (s *Set[E]) lookup(e E) int {
	pos, _ := s.mapStore().find(e)
	if pos < 0 {
		return -1
	}
	lo, hi := s.storage.bounds()
	if pos < lo || pos >= hi {
		return -1
	}
	return pos
}

func (s *Set[E]) willMutateStorage(op string) *orderedMap[E, struct{}] {
	s.mapStore()
	m := s.storage.willMutateStorage(op)
	s.WillMutate()
	return m
}

func (s *Set[E]) didMutateStorage() {
	s.DidMutate()
}

// SCopy returns a handle sharing this Set's storage.
func (s *Set[E]) SCopy() MutableStruct {
	s.mapStore()
	return &Set[E]{storage: s.storage.share()}
}

// Copy is SCopy with the concrete type.
func (s *Set[E]) Copy() *Set[E] {
	return s.SCopy().(*Set[E])
}

// SetSUpdate implements MutableStruct.
func (s *Set[E]) SetSUpdate(fn func(MutableStruct)) { s.mut.SetUpdate(fn) }

// WillMutate implements MutableStruct.
func (s *Set[E]) WillMutate() { s.mut.Begin() }

// DidMutate implements MutableStruct.
func (s *Set[E]) DidMutate() { s.mut.End(s) }

// Count returns the number of elements.
func (s *Set[E]) Count() int {
	s.mapStore()
	return s.storage.count()
}

// IsEmpty reports whether the Set has no elements.
func (s *Set[E]) IsEmpty() bool { return s.Count() == 0 }

// IsSlice reports whether this handle is a read-only slice view.
func (s *Set[E]) IsSlice() bool { return s.storage.sliced }

// Contains reports whether an element equal to e is present.
func (s *Set[E]) Contains(e E) bool {
	return s.lookup(e) >= 0
}

// Insert adds e if no equal element is present. It reports whether e was
// inserted and returns the member equal to e after the call.
func (s *Set[E]) Insert(e E) (bool, E) {
	if pos := s.lookup(e); pos >= 0 {
		return false, Sref(s.mapStore().entries[pos].key, nil)
	}
	m := s.willMutateStorage("insert")
	defer s.didMutateStorage()
	m.put(Sref(e, nil), struct{}{})
	return true, e
}

// Remove removes the element equal to e and returns the removed member.
func (s *Set[E]) Remove(e E) (E, bool) {
	if s.storage.sliced {
		unsupported("remove", "cannot mutate a set slice")
	}
	pos := s.lookup(e)
	if pos < 0 {
		var zero E
		return zero, false
	}
	m := s.willMutateStorage("remove")
	defer s.didMutateStorage()
	return Sref(m.removeAt(pos).key, nil), true
}

// Update stores e, replacing an equal member in place. It returns the
// member that was replaced.
func (s *Set[E]) Update(e E) (E, bool) {
	pos := s.lookup(e)
	m := s.willMutateStorage("update")
	defer s.didMutateStorage()
	if pos < 0 {
		m.put(Sref(e, nil), struct{}{})
		var zero E
		return zero, false
	}
	old := m.entries[pos].key
	m.replaceKey(pos, Sref(e, nil), struct{}{})
	return Sref(old, nil), true
}

// RemoveAll removes every element.
func (s *Set[E]) RemoveAll() {
	if s.storage.sliced {
		unsupported("removeAll", "cannot mutate a set slice")
	}
	s.WillMutate()
	defer s.DidMutate()
	s.storage.backing = newOrderedMap[E, struct{}](0)
	s.storage.shared = false
}

// RemoveAt removes the element at position i.
func (s *Set[E]) RemoveAt(i int) E {
	n := s.Count()
	if i < 0 || i >= n {
		outOfBounds("removeAt", i, n)
	}
	m := s.willMutateStorage("removeAt")
	defer s.didMutateStorage()
	return Sref(m.removeAt(i).key, nil)
}

// PopFirst removes and returns the first element in iteration order.
func (s *Set[E]) PopFirst() (E, bool) {
	if s.IsEmpty() {
		var zero E
		return zero, false
	}
	return s.RemoveAt(0), true
}

// First returns the first element in iteration order.
func (s *Set[E]) First() (E, bool) {
	w := s.window()
	if len(w) == 0 {
		var zero E
		return zero, false
	}
	return Sref(w[0].key, nil), true
}

// At returns the element at position i.
func (s *Set[E]) At(i int) E {
	w := s.window()
	if i < 0 || i >= len(w) {
		outOfBounds("at", i, len(w))
	}
	return Sref(w[i].key, nil)
}

// All iterates copies of the elements.
func (s *Set[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range s.window() {
			if !yield(Sref(e.key, nil)) {
				return
			}
		}
	}
}

// Slice returns a read-only view of the elements at positions [lo, hi).
func (s *Set[E]) Slice(lo, hi int) *Set[E] {
	n := s.Count()
	if lo < 0 || hi > n || lo > hi {
		rangeOutOfBounds("slice", lo, hi, n)
	}
	return &Set[E]{storage: s.storage.willSliceStorage(lo, hi, false)}
}

// Filter returns a new Set with the elements satisfying pred.
func (s *Set[E]) Filter(pred func(E) bool) *Set[E] {
	out := NewSet[E]()
	m := out.mapStore()
	for _, e := range s.window() {
		if pred(Sref(e.key, nil)) {
			m.put(Sref(e.key, nil), struct{}{})
		}
	}
	return out
}

// Equal reports whether both Sets hold equal elements.
func (s *Set[E]) Equal(o *Set[E]) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || s.Count() != o.Count() {
		return false
	}
	for _, e := range s.window() {
		if !o.Contains(e.key) {
			return false
		}
	}
	return true
}

// EqualTo implements Equatable.
func (s *Set[E]) EqualTo(other any) bool {
	o, ok := other.(*Set[E])
	return ok && s.Equal(o)
}

// HashInto implements Hashable. The hash ignores element order.
func (s *Set[E]) HashInto(h *Hasher) {
	unorderedHash(h, s.Count(), s.All())
}

// String renders the Set like a Swift array literal.
func (s *Set[E]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range s.window() {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeElement(&sb, e.key)
	}
	sb.WriteByte(']')
	return sb.String()
}

// CheckInvariants validates uniqueness, the hash index, the storage window
// and the mutation depth.
func (s *Set[E]) CheckInvariants() error {
	m := s.mapStore()
	if err := s.storage.checkWindow(); err != nil {
		return err
	}
	if err := m.check(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	if d := s.mut.Depth(); d != 0 {
		return fmt.Errorf("set idle with mutation depth %d", d)
	}
	return nil
}
