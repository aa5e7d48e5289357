package swift

import (
	"fmt"
	"hash/maphash"
	"iter"
	"reflect"
)

// Equatable values decide equality themselves instead of using ==.
type Equatable interface {
	EqualTo(other any) bool
}

// Hashable values feed their identity-defining state into a Hasher.
// Values that are equal must hash equally.
type Hashable interface {
	Equatable
	HashInto(h *Hasher)
}

var hashSeed = maphash.MakeSeed()

// Hasher accumulates hash input for one value. Hashes are stable within a
// process and differ across processes.
type Hasher struct {
	h maphash.Hash
}

// NewHasher returns a Hasher using the process seed.
func NewHasher() *Hasher {
	h := &Hasher{}
	h.h.SetSeed(hashSeed)
	return h
}

// Combine mixes v into the hash.
func (h *Hasher) Combine(v any) {
	if hv, ok := v.(Hashable); ok {
		hv.HashInto(h)
		return
	}
	if v == nil {
		h.h.WriteByte(0)
		return
	}
	if !reflect.TypeOf(v).Comparable() {
		unsupported("hash", fmt.Sprintf("value of type %T is not hashable", v))
	}
	maphash.WriteComparable(&h.h, v)
}

// CombineUint64 mixes a raw integer into the hash.
func (h *Hasher) CombineUint64(u uint64) {
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(u >> (8 * i))
	}
	h.h.Write(buf[:])
}

// Finalize returns the accumulated hash.
func (h *Hasher) Finalize() uint64 {
	return h.h.Sum64()
}

// HashValue hashes a single value with a fresh Hasher.
func HashValue(v any) uint64 {
	h := NewHasher()
	h.Combine(v)
	return h.Finalize()
}

// EqualValues compares two values with Equatable when available, == for
// comparable types, and a deep comparison otherwise.
func EqualValues(a, b any) bool {
	if ea, ok := a.(Equatable); ok {
		return ea.EqualTo(b)
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// keyHash and keysEqual are the hashing rules used by the ordered backing
// map. Hashable keys use their own rules so nested containers work as keys.
func keyHash[K comparable](k K) uint64 {
	if hk, ok := any(k).(Hashable); ok && !isNilHashable(hk) {
		h := NewHasher()
		hk.HashInto(h)
		return h.Finalize()
	}
	return maphash.Comparable(hashSeed, k)
}

func keysEqual[K comparable](a, b K) bool {
	if ea, ok := any(a).(Hashable); ok && !isNilHashable(ea) {
		return ea.EqualTo(b)
	}
	return a == b
}

func isNilHashable(h Hashable) bool {
	rv := reflect.ValueOf(h)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// unorderedHash combines per-element hashes so the result does not depend
// on iteration order.
func unorderedHash[E any](h *Hasher, count int, seq iter.Seq[E]) {
	var sum uint64
	for e := range seq {
		sum += HashValue(e)
	}
	h.CombineUint64(uint64(count))
	h.CombineUint64(sum)
}
