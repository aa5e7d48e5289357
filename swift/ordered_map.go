package swift

import (
	"fmt"
	"slices"
)

type mapEntry[K comparable, V any] struct {
	key   K
	value V
	hash  uint64
}

// orderedMap is the backing store of Dictionary and Set: entries in
// insertion order plus a hash index of entry positions. Removal shifts the
// tail so iteration order stays insertion order.
type orderedMap[K comparable, V any] struct {
	entries []mapEntry[K, V]
	index   map[uint64][]int
}

func newOrderedMap[K comparable, V any](capacity int) *orderedMap[K, V] {
	return &orderedMap[K, V]{
		entries: make([]mapEntry[K, V], 0, capacity),
		index:   make(map[uint64][]int, capacity),
	}
}

func (m *orderedMap[K, V]) clone() *orderedMap[K, V] {
	out := &orderedMap[K, V]{
		entries: slices.Clone(m.entries),
		index:   make(map[uint64][]int, len(m.index)),
	}
	for h, bucket := range m.index {
		out.index[h] = slices.Clone(bucket)
	}
	return out
}

func (m *orderedMap[K, V]) size() int {
	return len(m.entries)
}

func (m *orderedMap[K, V]) readOnly() bool {
	return false
}

// find returns the position of k, or -1, along with k's hash.
func (m *orderedMap[K, V]) find(k K) (int, uint64) {
	h := keyHash(k)
	for _, pos := range m.index[h] {
		if keysEqual(m.entries[pos].key, k) {
			return pos, h
		}
	}
	return -1, h
}

// put upserts k. An existing entry keeps its position and its original key.
func (m *orderedMap[K, V]) put(k K, v V) (old V, existed bool) {
	pos, h := m.find(k)
	if pos >= 0 {
		old = m.entries[pos].value
		m.entries[pos].value = v
		return old, true
	}
	m.entries = append(m.entries, mapEntry[K, V]{key: k, value: v, hash: h})
	m.index[h] = append(m.index[h], len(m.entries)-1)
	return old, false
}

// replaceKey overwrites both key and value of an existing entry.
func (m *orderedMap[K, V]) replaceKey(pos int, k K, v V) {
	m.entries[pos].key = k
	m.entries[pos].value = v
}

// removeAt deletes the entry at pos and shifts later positions down.
func (m *orderedMap[K, V]) removeAt(pos int) mapEntry[K, V] {
	e := m.entries[pos]
	m.unindex(e.hash, pos)
	m.entries = slices.Delete(m.entries, pos, pos+1)
	for i := pos; i < len(m.entries); i++ {
		bucket := m.index[m.entries[i].hash]
		for j, p := range bucket {
			if p == i+1 {
				bucket[j] = i
				break
			}
		}
	}
	return e
}

func (m *orderedMap[K, V]) unindex(h uint64, pos int) {
	bucket := m.index[h]
	for i, p := range bucket {
		if p == pos {
			bucket = slices.Delete(bucket, i, i+1)
			break
		}
	}
	if len(bucket) == 0 {
		delete(m.index, h)
		return
	}
	m.index[h] = bucket
}

func (m *orderedMap[K, V]) clear() {
	m.entries = m.entries[:0]
	clear(m.index)
}

// check verifies that every entry is indexed exactly once and no two
// entries have equal keys.
func (m *orderedMap[K, V]) check() error {
	seen := 0
	for h, bucket := range m.index {
		for _, pos := range bucket {
			if pos < 0 || pos >= len(m.entries) {
				return fmt.Errorf("index bucket %x points at %d, size %d", h, pos, len(m.entries))
			}
			if m.entries[pos].hash != h {
				return fmt.Errorf("entry %d indexed under wrong hash", pos)
			}
			seen++
		}
	}
	if seen != len(m.entries) {
		return fmt.Errorf("index holds %d positions for %d entries", seen, len(m.entries))
	}
	for i := range m.entries {
		if p, _ := m.find(m.entries[i].key); p != i {
			return fmt.Errorf("entry %d resolves to position %d", i, p)
		}
	}
	return nil
}
