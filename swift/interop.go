package swift

import "slices"

// ArrayFromSlice wraps a Go slice. With nocopy the Array adopts s in O(1)
// and treats it as shared, so the first mutation through the Array forks
// and s is never written. Without nocopy the elements are copied.
func ArrayFromSlice[E any](s []E, nocopy bool) *Array[E] {
	if !nocopy {
		return ArrayFrom[E](SliceOf[E](s))
	}
	return newArrayStore(&listStore[E]{elems: s}, true)
}

// ToSlice returns the elements as a Go slice. With nocopy the slice aliases
// the storage, which is marked shared so later mutations through the Array
// fork instead of changing the returned slice. The caller must not write to
// a nocopy slice.
func (a *Array[E]) ToSlice(nocopy bool) []E {
	w := a.window()
	if nocopy {
		a.storage.shared = true
		return w[:len(w):len(w)]
	}
	out := make([]E, len(w))
	for i, e := range w {
		out[i] = Sref(e, nil)
	}
	return out
}

// DictionaryFromMap copies a Go map. Go map order is unspecified, so the
// iteration order of the result is too.
func DictionaryFromMap[K comparable, V any](m map[K]V) *Dictionary[K, V] {
	d := newDictionaryCap[K, V](len(m))
	store := d.mapStore()
	for k, v := range m {
		store.put(Sref(k, nil), Sref(v, nil))
	}
	return d
}

// ToMap copies the entries into a Go map.
func (d *Dictionary[K, V]) ToMap() map[K]V {
	w := d.window()
	out := make(map[K]V, len(w))
	for _, e := range w {
		out[e.key] = Sref(e.value, nil)
	}
	return out
}

// SetFromSlice copies a Go slice into a Set.
func SetFromSlice[E comparable](s []E) *Set[E] {
	return SetFrom[E](SliceOf[E](s))
}

// ToSlice returns the elements in iteration order.
func (s *Set[E]) ToSlice() []E {
	return slices.Collect(s.All())
}

// SetFromMap builds a Set from the keys of a Go set-style map.
func SetFromMap[E comparable](m map[E]struct{}) *Set[E] {
	s := newSetCap[E](len(m))
	store := s.mapStore()
	for e := range m {
		store.put(Sref(e, nil), struct{}{})
	}
	return s
}

// ToMap returns the elements as a Go set-style map.
func (s *Set[E]) ToMap() map[E]struct{} {
	out := make(map[E]struct{}, s.Count())
	for _, e := range s.window() {
		out[e.key] = struct{}{}
	}
	return out
}

// ToSlice returns the members in ascending order.
func (s *IntSet) ToSlice() []int {
	return slices.Clone(s.elems())
}
