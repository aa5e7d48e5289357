package swift

import (
	"fmt"
	"iter"
	"strings"
)

// Dictionary is a copy-on-write key-value container. Iteration follows
// insertion order, which is stable between mutations but carries no
// meaning for equality.
type Dictionary[K comparable, V any] struct {
	storage cowStorage[*orderedMap[K, V]]
	mut     MutationState
}

// NewDictionary returns an empty, privately owned Dictionary.
func NewDictionary[K comparable, V any]() *Dictionary[K, V] {
	return newDictionaryCap[K, V](0)
}

func newDictionaryCap[K comparable, V any](capacity int) *Dictionary[K, V] {
	return &Dictionary[K, V]{storage: cowStorage[*orderedMap[K, V]]{backing: newOrderedMap[K, V](capacity), label: "dictionary"}}
}

// DictionaryOf builds a Dictionary from literal pairs. Duplicate keys fail
// with PanicDuplicateKey.
func DictionaryOf[K comparable, V any](pairs ...Pair[K, V]) *Dictionary[K, V] {
	return UniqueKeysWithValues[K, V](SliceOf[Pair[K, V]](pairs))
}

// UniqueKeysWithValues builds a Dictionary from a sequence of pairs whose
// keys must all differ.
func UniqueKeysWithValues[K comparable, V any](seq Sequence[Pair[K, V]]) *Dictionary[K, V] {
	d := newDictionaryCap[K, V](underestimatedCount(seq))
	m := d.mapStore()
	for p := range seq.All() {
		if _, existed := m.put(Sref(p.Key, nil), Sref(p.Value, nil)); existed {
			fail(PanicDuplicateKey, "uniqueKeysWithValues", fmt.Sprintf("duplicate key %v", p.Key))
		}
	}
	return d
}

// DictionaryFromPairs builds a Dictionary from pairs, letting combine pick
// the value when a key repeats.
func DictionaryFromPairs[K comparable, V any](seq Sequence[Pair[K, V]], combine func(current, next V) V) *Dictionary[K, V] {
	d := newDictionaryCap[K, V](underestimatedCount(seq))
	d.mergeRaw(seq, combine)
	return d
}

// DictionaryGrouping groups the elements of seq by key. Each group keeps
// the order the elements arrived in.
func DictionaryGrouping[K comparable, E any](seq Sequence[E], key func(E) K) *Dictionary[K, *Array[E]] {
	d := NewDictionary[K, *Array[E]]()
	m := d.mapStore()
	for e := range seq.All() {
		k := key(e)
		pos, _ := m.find(k)
		if pos < 0 {
			m.put(Sref(k, nil), ArrayOf(e))
			continue
		}
		m.entries[pos].value.appendRaw(e)
	}
	return d
}

// mapStore returns the backing map, creating it for a zero Dictionary.
func (d *Dictionary[K, V]) mapStore() *orderedMap[K, V] {
	if d.storage.backing == nil {
		d.storage.backing = newOrderedMap[K, V](0)
		d.storage.label = "dictionary"
	}
	return d.storage.backing
}

func (d *Dictionary[K, V]) window() []mapEntry[K, V] {
	m := d.mapStore()
	lo, hi := d.storage.bounds()
	return m.entries[lo:hi]
}

// lookup returns the store position of k if it is visible through this
// handle's window.
func (d *Dictionary[K, V]) lookup(k K) int {
	pos, _ := d.mapStore().find(k)
	if pos < 0 {
		return -1
	}
	lo, hi := d.storage.bounds()
	if pos < lo || pos >= hi {
		return -1
	}
	return pos
}

func (d *Dictionary[K, V]) willMutateStorage(op string) *orderedMap[K, V] {
	d.mapStore()
	m := d.storage.willMutateStorage(op)
	d.WillMutate()
	return m
}

func (d *Dictionary[K, V]) didMutateStorage() {
	d.DidMutate()
}

func (d *Dictionary[K, V]) mergeRaw(seq Sequence[Pair[K, V]], combine func(current, next V) V) {
	m := d.mapStore()
	for p := range seq.All() {
		pos, _ := m.find(p.Key)
		if pos < 0 {
			m.put(Sref(p.Key, nil), Sref(p.Value, nil))
			continue
		}
		m.entries[pos].value = Sref(combine(Sref(m.entries[pos].value, nil), p.Value), nil)
	}
}

// SCopy returns a handle sharing this Dictionary's storage.
func (d *Dictionary[K, V]) SCopy() MutableStruct {
	d.mapStore()
	return &Dictionary[K, V]{storage: d.storage.share()}
}

// Copy is SCopy with the concrete type.
func (d *Dictionary[K, V]) Copy() *Dictionary[K, V] {
	return d.SCopy().(*Dictionary[K, V])
}

// SetSUpdate implements MutableStruct.
func (d *Dictionary[K, V]) SetSUpdate(fn func(MutableStruct)) { d.mut.SetUpdate(fn) }

// WillMutate implements MutableStruct.
func (d *Dictionary[K, V]) WillMutate() { d.mut.Begin() }

// DidMutate implements MutableStruct.
func (d *Dictionary[K, V]) DidMutate() { d.mut.End(d) }

// Count returns the number of entries.
func (d *Dictionary[K, V]) Count() int {
	d.mapStore()
	return d.storage.count()
}

// IsEmpty reports whether the Dictionary has no entries.
func (d *Dictionary[K, V]) IsEmpty() bool { return d.Count() == 0 }

// IsSlice reports whether this handle is a read-only slice view.
func (d *Dictionary[K, V]) IsSlice() bool { return d.storage.sliced }

// Get returns the value for k. Mutating the returned value writes it back
// under k.
func (d *Dictionary[K, V]) Get(k K) (V, bool) {
	pos := d.lookup(k)
	if pos < 0 {
		var zero V
		return zero, false
	}
	return Sref(d.mapStore().entries[pos].value, func(v V) { d.Set(k, v) }), true
}

// GetDefault returns the value for k, or def() when k is absent. Reading
// never inserts; mutating the returned value writes it back under k, which
// is how a missing key gets its first value. def is only called when k is
// absent.
func (d *Dictionary[K, V]) GetDefault(k K, def func() V) V {
	if v, ok := d.Get(k); ok {
		return v
	}
	return Sref(def(), func(v V) { d.Set(k, v) })
}

// Set upserts k. An existing key keeps its position.
func (d *Dictionary[K, V]) Set(k K, v V) {
	m := d.willMutateStorage("set")
	defer d.didMutateStorage()
	m.put(Sref(k, nil), Sref(v, nil))
}

// Assign is the optional form of Set: ok=false removes k.
func (d *Dictionary[K, V]) Assign(k K, v V, ok bool) {
	if !ok {
		d.RemoveValue(k)
		return
	}
	d.Set(k, v)
}

// SetDefault is the write half of the default accessor. It stores v under
// k; def is never evaluated by a write.
func (d *Dictionary[K, V]) SetDefault(k K, def func() V, v V) {
	d.Set(k, v)
}

// UpdateDefault reads k with a default, applies fn and stores the result.
// def is only called when k is absent.
func (d *Dictionary[K, V]) UpdateDefault(k K, def func() V, fn func(V) V) {
	var cur V
	if pos := d.lookup(k); pos >= 0 {
		cur = Sref(d.mapStore().entries[pos].value, nil)
	} else {
		cur = def()
	}
	d.Set(k, fn(cur))
}

// UpdateValue stores v under k and returns the value it replaced.
func (d *Dictionary[K, V]) UpdateValue(v V, k K) (V, bool) {
	m := d.willMutateStorage("updateValue")
	defer d.didMutateStorage()
	old, ok := m.put(Sref(k, nil), Sref(v, nil))
	return Sref(old, nil), ok
}

// RemoveValue removes k and returns its value.
func (d *Dictionary[K, V]) RemoveValue(k K) (V, bool) {
	if d.storage.sliced {
		unsupported("removeValue", "cannot mutate a dictionary slice")
	}
	pos := d.lookup(k)
	if pos < 0 {
		var zero V
		return zero, false
	}
	m := d.willMutateStorage("removeValue")
	defer d.didMutateStorage()
	return Sref(m.removeAt(pos).value, nil), true
}

// RemoveAt removes the entry at position i.
func (d *Dictionary[K, V]) RemoveAt(i int) Pair[K, V] {
	n := d.Count()
	if i < 0 || i >= n {
		outOfBounds("removeAt", i, n)
	}
	m := d.willMutateStorage("removeAt")
	defer d.didMutateStorage()
	e := m.removeAt(i)
	return srefPair(e.key, e.value)
}

// RemoveAll removes every entry.
func (d *Dictionary[K, V]) RemoveAll() {
	if d.storage.sliced {
		unsupported("removeAll", "cannot mutate a dictionary slice")
	}
	d.WillMutate()
	defer d.DidMutate()
	d.storage.backing = newOrderedMap[K, V](0)
	d.storage.shared = false
}

// RemoveAllWhere removes every entry satisfying pred with one write-back.
func (d *Dictionary[K, V]) RemoveAllWhere(pred func(K, V) bool) {
	if d.storage.sliced {
		unsupported("removeAll", "cannot mutate a dictionary slice")
	}
	d.WillMutate()
	defer d.DidMutate()
	for i := d.Count() - 1; i >= 0; i-- {
		e := d.window()[i]
		if pred(Sref(e.key, nil), Sref(e.value, nil)) {
			d.RemoveAt(i)
		}
	}
}

// ContainsKey reports whether k is present.
func (d *Dictionary[K, V]) ContainsKey(k K) bool {
	return d.lookup(k) >= 0
}

// IndexOfKey returns the position of k.
func (d *Dictionary[K, V]) IndexOfKey(k K) (int, bool) {
	pos := d.lookup(k)
	if pos < 0 {
		return -1, false
	}
	lo, _ := d.storage.bounds()
	return pos - lo, true
}

// At returns the entry at position i. Key and value are copied
// independently; neither writes back.
func (d *Dictionary[K, V]) At(i int) Pair[K, V] {
	w := d.window()
	if i < 0 || i >= len(w) {
		outOfBounds("at", i, len(w))
	}
	return srefPair(w[i].key, w[i].value)
}

// All iterates copies of the entries as pairs.
func (d *Dictionary[K, V]) All() iter.Seq[Pair[K, V]] {
	return func(yield func(Pair[K, V]) bool) {
		for _, e := range d.window() {
			if !yield(srefPair(e.key, e.value)) {
				return
			}
		}
	}
}

// Entries iterates copies of the entries as key, value.
func (d *Dictionary[K, V]) Entries() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, e := range d.window() {
			if !yield(Sref(e.key, nil), Sref(e.value, nil)) {
				return
			}
		}
	}
}

// First returns the first entry in iteration order.
func (d *Dictionary[K, V]) First() (Pair[K, V], bool) {
	w := d.window()
	if len(w) == 0 {
		return Pair[K, V]{}, false
	}
	return srefPair(w[0].key, w[0].value), true
}

// PopFirst removes and returns the first entry.
func (d *Dictionary[K, V]) PopFirst() (Pair[K, V], bool) {
	if d.IsEmpty() {
		return Pair[K, V]{}, false
	}
	return d.RemoveAt(0), true
}

// Slice returns a read-only view of the entries at positions [lo, hi).
func (d *Dictionary[K, V]) Slice(lo, hi int) *Dictionary[K, V] {
	n := d.Count()
	if lo < 0 || hi > n || lo > hi {
		rangeOutOfBounds("slice", lo, hi, n)
	}
	return &Dictionary[K, V]{storage: d.storage.willSliceStorage(lo, hi, false)}
}

// Filter returns a new Dictionary with the entries satisfying pred.
func (d *Dictionary[K, V]) Filter(pred func(K, V) bool) *Dictionary[K, V] {
	out := NewDictionary[K, V]()
	m := out.mapStore()
	for _, e := range d.window() {
		k, v := Sref(e.key, nil), Sref(e.value, nil)
		if pred(k, v) {
			m.put(Sref(e.key, nil), Sref(e.value, nil))
		}
	}
	return out
}

// Merge folds other into d. For keys present in both, combine decides the
// stored value.
func (d *Dictionary[K, V]) Merge(other Sequence[Pair[K, V]], combine func(current, next V) V) {
	incoming := ArrayFrom(other)
	d.willMutateStorage("merge")
	defer d.didMutateStorage()
	d.mergeRaw(incoming, combine)
}

// Merging returns d merged with other; d is unchanged.
func (d *Dictionary[K, V]) Merging(other Sequence[Pair[K, V]], combine func(current, next V) V) *Dictionary[K, V] {
	out := d.Filter(func(K, V) bool { return true })
	out.mergeRaw(other, combine)
	return out
}

// Equal reports whether both Dictionaries hold the same key-value pairs,
// in any order.
func (d *Dictionary[K, V]) Equal(o *Dictionary[K, V]) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || d.Count() != o.Count() {
		return false
	}
	om := o.mapStore()
	for _, e := range d.window() {
		pos := o.lookup(e.key)
		if pos < 0 || !EqualValues(e.value, om.entries[pos].value) {
			return false
		}
	}
	return true
}

// EqualTo implements Equatable.
func (d *Dictionary[K, V]) EqualTo(other any) bool {
	o, ok := other.(*Dictionary[K, V])
	return ok && d.Equal(o)
}

// HashInto implements Hashable. The hash ignores entry order.
func (d *Dictionary[K, V]) HashInto(h *Hasher) {
	unorderedHash(h, d.Count(), d.All())
}

// String renders the Dictionary like a Swift dictionary literal.
func (d *Dictionary[K, V]) String() string {
	w := d.window()
	if len(w) == 0 {
		return "[:]"
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range w {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeElement(&sb, e.key)
		sb.WriteString(": ")
		writeElement(&sb, e.value)
	}
	sb.WriteByte(']')
	return sb.String()
}

// CheckInvariants validates key uniqueness, the hash index, the storage
// window and the mutation depth.
func (d *Dictionary[K, V]) CheckInvariants() error {
	m := d.mapStore()
	if err := d.storage.checkWindow(); err != nil {
		return err
	}
	if err := m.check(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}
	if depth := d.mut.Depth(); depth != 0 {
		return fmt.Errorf("dictionary idle with mutation depth %d", depth)
	}
	return nil
}

// MapValues returns a Dictionary with the same keys and transformed values.
func MapValues[K comparable, V, T any](d *Dictionary[K, V], transform func(V) T) *Dictionary[K, T] {
	out := newDictionaryCap[K, T](d.Count())
	m := out.mapStore()
	for _, e := range d.window() {
		m.put(Sref(e.key, nil), Sref(transform(Sref(e.value, nil)), nil))
	}
	return out
}

// CompactMapValues keeps the keys whose transformed value has ok set.
func CompactMapValues[K comparable, V, T any](d *Dictionary[K, V], transform func(V) (T, bool)) *Dictionary[K, T] {
	out := NewDictionary[K, T]()
	m := out.mapStore()
	for _, e := range d.window() {
		if t, ok := transform(Sref(e.value, nil)); ok {
			m.put(Sref(e.key, nil), Sref(t, nil))
		}
	}
	return out
}
