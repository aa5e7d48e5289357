package swift

import "fmt"

// Pair is a key-value tuple. Dictionaries present themselves as collections
// of Pairs and Zip produces them.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// PairOf builds a Pair.
func PairOf[K, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

// EqualTo implements Equatable.
func (p Pair[K, V]) EqualTo(other any) bool {
	o, ok := other.(Pair[K, V])
	return ok && EqualValues(p.Key, o.Key) && EqualValues(p.Value, o.Value)
}

// HashInto implements Hashable.
func (p Pair[K, V]) HashInto(h *Hasher) {
	h.Combine(p.Key)
	h.Combine(p.Value)
}

// String renders the pair as a tuple.
func (p Pair[K, V]) String() string {
	return fmt.Sprintf("(%v, %v)", p.Key, p.Value)
}

func srefPair[K, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: Sref(k, nil), Value: Sref(v, nil)}
}
