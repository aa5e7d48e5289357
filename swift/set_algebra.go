package swift

// Union returns the elements of s followed by the new elements of other.
func (s *Set[E]) Union(other Sequence[E]) *Set[E] {
	out := s.Filter(func(E) bool { return true })
	m := out.mapStore()
	for e := range other.All() {
		m.put(Sref(e, nil), struct{}{})
	}
	return out
}

// Intersection returns the elements of s that other also holds.
func (s *Set[E]) Intersection(other Sequence[E]) *Set[E] {
	o := asSet(other)
	return s.Filter(o.Contains)
}

// Subtracting returns the elements of s that other does not hold.
func (s *Set[E]) Subtracting(other Sequence[E]) *Set[E] {
	o := asSet(other)
	return s.Filter(func(e E) bool { return !o.Contains(e) })
}

// SymmetricDifference returns the elements held by exactly one side.
func (s *Set[E]) SymmetricDifference(other Sequence[E]) *Set[E] {
	o := asSet(other)
	out := s.Filter(func(e E) bool { return !o.Contains(e) })
	m := out.mapStore()
	for _, e := range o.window() {
		if !s.Contains(e.key) {
			m.put(Sref(e.key, nil), struct{}{})
		}
	}
	return out
}

// FormUnion inserts every element of other.
func (s *Set[E]) FormUnion(other Sequence[E]) {
	incoming := ArrayFrom(other)
	m := s.willMutateStorage("formUnion")
	defer s.didMutateStorage()
	for _, e := range incoming.window() {
		m.put(Sref(e, nil), struct{}{})
	}
}

// FormIntersection keeps only the elements other also holds.
func (s *Set[E]) FormIntersection(other Sequence[E]) {
	s.replaceWith("formIntersection", s.Intersection(other))
}

// FormSymmetricDifference keeps the elements held by exactly one side.
func (s *Set[E]) FormSymmetricDifference(other Sequence[E]) {
	s.replaceWith("formSymmetricDifference", s.SymmetricDifference(other))
}

// Subtract removes every element other holds.
func (s *Set[E]) Subtract(other Sequence[E]) {
	s.replaceWith("subtract", s.Subtracting(other))
}

// replaceWith installs result's private store as s's store inside one
// mutation bracket.
func (s *Set[E]) replaceWith(op string, result *Set[E]) {
	if s.storage.sliced {
		unsupported(op, "cannot mutate a set slice")
	}
	s.WillMutate()
	defer s.DidMutate()
	s.storage.backing = result.mapStore()
	s.storage.shared = false
}

// IsSubset reports whether every element of s is in other.
func (s *Set[E]) IsSubset(other Sequence[E]) bool {
	o := asSet(other)
	if s.Count() > o.Count() {
		return false
	}
	for _, e := range s.window() {
		if !o.Contains(e.key) {
			return false
		}
	}
	return true
}

// IsStrictSubset reports whether s is a subset of other and smaller.
func (s *Set[E]) IsStrictSubset(other Sequence[E]) bool {
	o := asSet(other)
	return s.Count() < o.Count() && s.IsSubset(o)
}

// IsSuperset reports whether every element of other is in s.
func (s *Set[E]) IsSuperset(other Sequence[E]) bool {
	for e := range other.All() {
		if !s.Contains(e) {
			return false
		}
	}
	return true
}

// IsStrictSuperset reports whether s is a superset of other and larger.
func (s *Set[E]) IsStrictSuperset(other Sequence[E]) bool {
	o := asSet(other)
	return s.Count() > o.Count() && s.IsSuperset(o)
}

// IsDisjoint reports whether s and other have no element in common.
func (s *Set[E]) IsDisjoint(other Sequence[E]) bool {
	for e := range other.All() {
		if s.Contains(e) {
			return false
		}
	}
	return true
}
