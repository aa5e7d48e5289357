package swift

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"fortio.org/safecast"
)

// Range is the half-open integer interval [Lower, Upper).
type Range struct {
	Lower int
	Upper int
}

// RangeOf builds a Range, failing when upper < lower.
func RangeOf(lower, upper int) Range {
	if upper < lower {
		precondition("range", fmt.Sprintf("range requires lowerBound <= upperBound, got %d..<%d", lower, upper))
	}
	return Range{Lower: lower, Upper: upper}
}

// IsEmpty reports whether the range holds no integers.
func (r Range) IsEmpty() bool { return r.Upper <= r.Lower }

// Count returns the number of integers in the range.
func (r Range) Count() int {
	if r.IsEmpty() {
		return 0
	}
	n, err := safecast.Conv[int](uint64(r.Upper) - uint64(r.Lower))
	if err != nil {
		precondition("range", fmt.Sprintf("range %d..<%d is too large: %v", r.Lower, r.Upper, err))
	}
	return n
}

// Contains reports whether x lies in the range.
func (r Range) Contains(x int) bool { return x >= r.Lower && x < r.Upper }

// String renders the range as lower..<upper.
func (r Range) String() string { return fmt.Sprintf("%d..<%d", r.Lower, r.Upper) }

// IntSet is a copy-on-write set of integers kept sorted, so ordered and
// range queries are binary searches.
type IntSet struct {
	storage cowStorage[*listStore[int]]
	mut     MutationState
}

// NewIntSet returns an empty IntSet.
func NewIntSet() *IntSet {
	return &IntSet{storage: cowStorage[*listStore[int]]{backing: newListStore[int](0), label: "intset"}}
}

// IntSetOf builds an IntSet from literal integers.
func IntSetOf(xs ...int) *IntSet {
	s := NewIntSet()
	ls := s.list()
	ls.elems = slices.Clone(xs)
	slices.Sort(ls.elems)
	ls.elems = slices.Compact(ls.elems)
	return s
}

// IntSetRange builds an IntSet holding every integer in r.
func IntSetRange(r Range) *IntSet {
	s := NewIntSet()
	s.list().elems = rangeValues(r)
	return s
}

func rangeValues(r Range) []int {
	out := make([]int, 0, r.Count())
	for x := r.Lower; x < r.Upper; x++ {
		out = append(out, x)
	}
	return out
}

func (s *IntSet) list() *listStore[int] {
	if s.storage.backing == nil {
		s.storage.backing = newListStore[int](0)
		s.storage.label = "intset"
	}
	return s.storage.backing
}

func (s *IntSet) elems() []int {
	return s.list().elems
}

func (s *IntSet) willMutateStorage(op string) *listStore[int] {
	s.list()
	ls := s.storage.willMutateStorage(op)
	s.WillMutate()
	return ls
}

func (s *IntSet) didMutateStorage() {
	s.DidMutate()
}

// SCopy returns a handle sharing this IntSet's storage.
func (s *IntSet) SCopy() MutableStruct {
	s.list()
	return &IntSet{storage: s.storage.share()}
}

// Copy is SCopy with the concrete type.
func (s *IntSet) Copy() *IntSet {
	return s.SCopy().(*IntSet)
}

// SetSUpdate implements MutableStruct.
func (s *IntSet) SetSUpdate(fn func(MutableStruct)) { s.mut.SetUpdate(fn) }

// WillMutate implements MutableStruct.
func (s *IntSet) WillMutate() { s.mut.Begin() }

// DidMutate implements MutableStruct.
func (s *IntSet) DidMutate() { s.mut.End(s) }

// Count returns the number of members.
func (s *IntSet) Count() int { return len(s.elems()) }

// IsEmpty reports whether the set has no members.
func (s *IntSet) IsEmpty() bool { return s.Count() == 0 }

// At returns the i-th smallest member.
func (s *IntSet) At(i int) int {
	es := s.elems()
	if i < 0 || i >= len(es) {
		outOfBounds("at", i, len(es))
	}
	return es[i]
}

// All iterates the members in ascending order.
func (s *IntSet) All() iter.Seq[int] {
	return slices.Values(s.elems())
}

// Contains reports whether x is a member.
func (s *IntSet) Contains(x int) bool {
	_, found := slices.BinarySearch(s.elems(), x)
	return found
}

// ContainsRange reports whether every integer in r is a member. The empty
// range is always contained.
func (s *IntSet) ContainsRange(r Range) bool {
	if r.IsEmpty() {
		return true
	}
	es := s.elems()
	lo, found := slices.BinarySearch(es, r.Lower)
	if !found {
		return false
	}
	last := lo + r.Count() - 1
	return last < len(es) && es[last] == r.Upper-1
}

// CountIn returns how many members lie in r.
func (s *IntSet) CountIn(r Range) int {
	if r.IsEmpty() {
		return 0
	}
	es := s.elems()
	lo, _ := slices.BinarySearch(es, r.Lower)
	hi, _ := slices.BinarySearch(es, r.Upper)
	return hi - lo
}

// Insert adds x and reports whether it was new.
func (s *IntSet) Insert(x int) bool {
	i, found := slices.BinarySearch(s.elems(), x)
	if found {
		return false
	}
	ls := s.willMutateStorage("insert")
	defer s.didMutateStorage()
	ls.insertAt(i, x)
	return true
}

// InsertRange adds every integer in r.
func (s *IntSet) InsertRange(r Range) {
	if r.IsEmpty() || s.ContainsRange(r) {
		return
	}
	values := rangeValues(r)
	es := s.elems()
	lo, _ := slices.BinarySearch(es, r.Lower)
	hi, _ := slices.BinarySearch(es, r.Upper)
	ls := s.willMutateStorage("insertRange")
	defer s.didMutateStorage()
	ls.elems = slices.Replace(ls.elems, lo, hi, values...)
}

// Remove deletes x and reports whether it was a member.
func (s *IntSet) Remove(x int) bool {
	i, found := slices.BinarySearch(s.elems(), x)
	if !found {
		return false
	}
	ls := s.willMutateStorage("remove")
	defer s.didMutateStorage()
	ls.deleteRange(i, i+1)
	return true
}

// RemoveRange deletes every member in r.
func (s *IntSet) RemoveRange(r Range) {
	if s.CountIn(r) == 0 {
		return
	}
	es := s.elems()
	lo, _ := slices.BinarySearch(es, r.Lower)
	hi, _ := slices.BinarySearch(es, r.Upper)
	ls := s.willMutateStorage("removeRange")
	defer s.didMutateStorage()
	ls.deleteRange(lo, hi)
}

// RemoveAll deletes every member.
func (s *IntSet) RemoveAll() {
	s.WillMutate()
	defer s.DidMutate()
	s.storage.backing = newListStore[int](0)
	s.storage.shared = false
}

// First returns the smallest member.
func (s *IntSet) First() (int, bool) {
	es := s.elems()
	if len(es) == 0 {
		return 0, false
	}
	return es[0], true
}

// Last returns the largest member.
func (s *IntSet) Last() (int, bool) {
	es := s.elems()
	if len(es) == 0 {
		return 0, false
	}
	return es[len(es)-1], true
}

// IntegerGreaterThan returns the smallest member > x.
func (s *IntSet) IntegerGreaterThan(x int) (int, bool) {
	es := s.elems()
	i, found := slices.BinarySearch(es, x)
	if found {
		i++
	}
	if i >= len(es) {
		return 0, false
	}
	return es[i], true
}

// IntegerGreaterThanOrEqualTo returns the smallest member >= x.
func (s *IntSet) IntegerGreaterThanOrEqualTo(x int) (int, bool) {
	es := s.elems()
	i, _ := slices.BinarySearch(es, x)
	if i >= len(es) {
		return 0, false
	}
	return es[i], true
}

// IntegerLessThan returns the largest member < x.
func (s *IntSet) IntegerLessThan(x int) (int, bool) {
	es := s.elems()
	i, _ := slices.BinarySearch(es, x)
	if i == 0 {
		return 0, false
	}
	return es[i-1], true
}

// IntegerLessThanOrEqualTo returns the largest member <= x.
func (s *IntSet) IntegerLessThanOrEqualTo(x int) (int, bool) {
	es := s.elems()
	i, found := slices.BinarySearch(es, x)
	if found {
		return es[i], true
	}
	if i == 0 {
		return 0, false
	}
	return es[i-1], true
}

// Union returns the members of either set.
func (s *IntSet) Union(o *IntSet) *IntSet {
	a, b := s.elems(), o.elems()
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	r := NewIntSet()
	r.list().elems = out
	return r
}

// Intersection returns the members of both sets.
func (s *IntSet) Intersection(o *IntSet) *IntSet {
	a, b := s.elems(), o.elems()
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	r := NewIntSet()
	r.list().elems = out
	return r
}

// Equal reports whether both sets hold the same members.
func (s *IntSet) Equal(o *IntSet) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil {
		return false
	}
	return slices.Equal(s.elems(), o.elems())
}

// EqualTo implements Equatable.
func (s *IntSet) EqualTo(other any) bool {
	o, ok := other.(*IntSet)
	return ok && s.Equal(o)
}

// HashInto implements Hashable. Members are sorted, so the ordered hash is
// already order-independent.
func (s *IntSet) HashInto(h *Hasher) {
	es := s.elems()
	h.CombineUint64(uint64(len(es)))
	for _, x := range es {
		h.CombineUint64(uint64(x))
	}
}

// String renders the members like an array literal.
func (s *IntSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range s.elems() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, x)
	}
	sb.WriteByte(']')
	return sb.String()
}

// CheckInvariants verifies that members are strictly ascending.
func (s *IntSet) CheckInvariants() error {
	es := s.elems()
	for i := 1; i < len(es); i++ {
		if es[i-1] >= es[i] {
			return fmt.Errorf("intset members out of order at %d: %d >= %d", i, es[i-1], es[i])
		}
	}
	if d := s.mut.Depth(); d != 0 {
		return fmt.Errorf("intset idle with mutation depth %d", d)
	}
	return nil
}
