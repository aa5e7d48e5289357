package swift

import (
	"iter"
	"strings"
)

// DictionaryKeys is a read-only projection of a Dictionary's keys. It holds
// a value copy of the Dictionary, so later mutations of the source are not
// visible through it.
type DictionaryKeys[K comparable, V any] struct {
	d *Dictionary[K, V]
}

// Keys returns the keys in iteration order.
func (d *Dictionary[K, V]) Keys() DictionaryKeys[K, V] {
	return DictionaryKeys[K, V]{d: d.Copy()}
}

// Count returns the number of keys.
func (k DictionaryKeys[K, V]) Count() int { return k.d.Count() }

// IsEmpty reports whether there are no keys.
func (k DictionaryKeys[K, V]) IsEmpty() bool { return k.d.IsEmpty() }

// At returns the key at position i.
func (k DictionaryKeys[K, V]) At(i int) K { return k.d.At(i).Key }

// Contains reports whether key is present, in constant time.
func (k DictionaryKeys[K, V]) Contains(key K) bool { return k.d.ContainsKey(key) }

// All iterates the keys.
func (k DictionaryKeys[K, V]) All() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range k.d.Entries() {
			if !yield(key) {
				return
			}
		}
	}
}

// String renders the keys like an array literal.
func (k DictionaryKeys[K, V]) String() string { return projectionString(k.All()) }

// DictionaryValues is a read-only projection of a Dictionary's values.
type DictionaryValues[K comparable, V any] struct {
	d *Dictionary[K, V]
}

// Values returns the values in iteration order.
func (d *Dictionary[K, V]) Values() DictionaryValues[K, V] {
	return DictionaryValues[K, V]{d: d.Copy()}
}

// Count returns the number of values.
func (v DictionaryValues[K, V]) Count() int { return v.d.Count() }

// IsEmpty reports whether there are no values.
func (v DictionaryValues[K, V]) IsEmpty() bool { return v.d.IsEmpty() }

// At returns the value at position i.
func (v DictionaryValues[K, V]) At(i int) V { return v.d.At(i).Value }

// All iterates the values.
func (v DictionaryValues[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, val := range v.d.Entries() {
			if !yield(val) {
				return
			}
		}
	}
}

// String renders the values like an array literal.
func (v DictionaryValues[K, V]) String() string { return projectionString(v.All()) }

func projectionString[E any](seq iter.Seq[E]) string {
	var sb strings.Builder
	sb.WriteByte('[')
	first := true
	for e := range seq {
		if !first {
			sb.WriteString(", ")
		}
		writeElement(&sb, e)
		first = false
	}
	sb.WriteByte(']')
	return sb.String()
}
