package swift

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// cborEncMode uses canonical options so equal containers encode to equal
// bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("swift: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// EncodeCBOR encodes v in canonical CBOR.
func EncodeCBOR(v any) ([]byte, error) {
	return cborEncMode.Marshal(v)
}

// DecodeCBOR decodes CBOR data into v.
func DecodeCBOR(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}

// wirePair is the encoded shape of a Dictionary entry.
type wirePair[K, V any] struct {
	_     struct{} `cbor:",toarray"`
	Key   K
	Value V
}

// decodeTarget rejects decoding into a slice view.
func decodeTarget(sliced bool, label string) error {
	if sliced {
		return fmt.Errorf("swift: decode %s: %w", label, &Error{Code: PanicUnsupported, Op: "decode", Message: "cannot decode into a slice"})
	}
	return nil
}

// maxPrealloc bounds the capacity a decoder reserves from a length header.
// Longer payloads grow by append as their elements actually arrive.
const maxPrealloc = 1024

// decodeLen checks a msgpack array header. A nil header counts as empty.
func decodeLen(n int, label string) (count, prealloc int, err error) {
	if n < 0 {
		return 0, 0, nil
	}
	if _, err := safecast.Conv[uint32](n); err != nil {
		return 0, 0, fmt.Errorf("swift: decode %s: length %d: %w", label, n, err)
	}
	return n, min(n, maxPrealloc), nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (a *Array[E]) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := a.window()
	if err := enc.EncodeArrayLen(len(w)); err != nil {
		return err
	}
	for _, e := range w {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("swift: encode array element: %w", err)
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder. The decoded elements
// replace the contents in one mutation.
func (a *Array[E]) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := decodeTarget(a.storage.sliced, "array"); err != nil {
		return err
	}
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("swift: decode array: %w", err)
	}
	n, prealloc, err := decodeLen(n, "array")
	if err != nil {
		return err
	}
	elems := make([]E, 0, prealloc)
	for range n {
		var e E
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("swift: decode array element: %w", err)
		}
		elems = append(elems, e)
	}
	a.replaceElements(elems)
	return nil
}

// MarshalCBOR implements cbor.Marshaler.
func (a *Array[E]) MarshalCBOR() ([]byte, error) {
	w := a.window()
	if w == nil {
		w = []E{}
	}
	return cborEncMode.Marshal(w)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (a *Array[E]) UnmarshalCBOR(data []byte) error {
	if err := decodeTarget(a.storage.sliced, "array"); err != nil {
		return err
	}
	var elems []E
	if err := cbor.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("swift: decode array: %w", err)
	}
	a.replaceElements(elems)
	return nil
}

func (a *Array[E]) replaceElements(elems []E) {
	a.WillMutate()
	defer a.DidMutate()
	a.storage = cowStorage[*listStore[E]]{backing: &listStore[E]{elems: elems}, label: "array"}
}

// EncodeMsgpack implements msgpack.CustomEncoder. Entries are written as an
// array of [key, value] pairs in iteration order.
func (d *Dictionary[K, V]) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := d.window()
	if err := enc.EncodeArrayLen(len(w)); err != nil {
		return err
	}
	for _, e := range w {
		if err := enc.EncodeArrayLen(2); err != nil {
			return err
		}
		if err := enc.Encode(e.key); err != nil {
			return fmt.Errorf("swift: encode dictionary key: %w", err)
		}
		if err := enc.Encode(e.value); err != nil {
			return fmt.Errorf("swift: encode dictionary value: %w", err)
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Dictionary[K, V]) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := decodeTarget(d.storage.sliced, "dictionary"); err != nil {
		return err
	}
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("swift: decode dictionary: %w", err)
	}
	n, prealloc, err := decodeLen(n, "dictionary")
	if err != nil {
		return err
	}
	pairs := make([]wirePair[K, V], 0, prealloc)
	for range n {
		l, err := dec.DecodeArrayLen()
		if err != nil {
			return fmt.Errorf("swift: decode dictionary entry: %w", err)
		}
		if l != 2 {
			return fmt.Errorf("swift: decode dictionary entry: want 2 fields, got %d", l)
		}
		var p wirePair[K, V]
		if err := dec.Decode(&p.Key); err != nil {
			return fmt.Errorf("swift: decode dictionary key: %w", err)
		}
		if err := dec.Decode(&p.Value); err != nil {
			return fmt.Errorf("swift: decode dictionary value: %w", err)
		}
		pairs = append(pairs, p)
	}
	return d.replaceEntries(pairs)
}

// MarshalCBOR implements cbor.Marshaler.
func (d *Dictionary[K, V]) MarshalCBOR() ([]byte, error) {
	w := d.window()
	pairs := make([]wirePair[K, V], len(w))
	for i, e := range w {
		pairs[i] = wirePair[K, V]{Key: e.key, Value: e.value}
	}
	return cborEncMode.Marshal(pairs)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (d *Dictionary[K, V]) UnmarshalCBOR(data []byte) error {
	if err := decodeTarget(d.storage.sliced, "dictionary"); err != nil {
		return err
	}
	var pairs []wirePair[K, V]
	if err := cbor.Unmarshal(data, &pairs); err != nil {
		return fmt.Errorf("swift: decode dictionary: %w", err)
	}
	return d.replaceEntries(pairs)
}

func (d *Dictionary[K, V]) replaceEntries(pairs []wirePair[K, V]) error {
	m := newOrderedMap[K, V](len(pairs))
	for _, p := range pairs {
		if _, existed := m.put(p.Key, p.Value); existed {
			return fmt.Errorf("swift: decode dictionary: %w", &Error{Code: PanicDuplicateKey, Op: "decode", Message: fmt.Sprintf("duplicate key %v", p.Key)})
		}
	}
	d.WillMutate()
	defer d.DidMutate()
	d.storage = cowStorage[*orderedMap[K, V]]{backing: m, label: "dictionary"}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s *Set[E]) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := s.window()
	if err := enc.EncodeArrayLen(len(w)); err != nil {
		return err
	}
	for _, e := range w {
		if err := enc.Encode(e.key); err != nil {
			return fmt.Errorf("swift: encode set element: %w", err)
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder. Repeated elements
// collapse.
func (s *Set[E]) DecodeMsgpack(dec *msgpack.Decoder) error {
	if err := decodeTarget(s.storage.sliced, "set"); err != nil {
		return err
	}
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("swift: decode set: %w", err)
	}
	n, prealloc, err := decodeLen(n, "set")
	if err != nil {
		return err
	}
	elems := make([]E, 0, prealloc)
	for range n {
		var e E
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("swift: decode set element: %w", err)
		}
		elems = append(elems, e)
	}
	s.replaceElements(elems)
	return nil
}

// MarshalCBOR implements cbor.Marshaler.
func (s *Set[E]) MarshalCBOR() ([]byte, error) {
	w := s.window()
	elems := make([]E, len(w))
	for i, e := range w {
		elems[i] = e.key
	}
	return cborEncMode.Marshal(elems)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (s *Set[E]) UnmarshalCBOR(data []byte) error {
	if err := decodeTarget(s.storage.sliced, "set"); err != nil {
		return err
	}
	var elems []E
	if err := cbor.Unmarshal(data, &elems); err != nil {
		return fmt.Errorf("swift: decode set: %w", err)
	}
	s.replaceElements(elems)
	return nil
}

func (s *Set[E]) replaceElements(elems []E) {
	m := newOrderedMap[E, struct{}](len(elems))
	for _, e := range elems {
		m.put(e, struct{}{})
	}
	s.WillMutate()
	defer s.DidMutate()
	s.storage = cowStorage[*orderedMap[E, struct{}]]{backing: m, label: "set"}
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (s *IntSet) EncodeMsgpack(enc *msgpack.Encoder) error {
	es := s.elems()
	if err := enc.EncodeArrayLen(len(es)); err != nil {
		return err
	}
	for _, x := range es {
		if err := enc.EncodeInt(int64(x)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (s *IntSet) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return fmt.Errorf("swift: decode intset: %w", err)
	}
	n, prealloc, err := decodeLen(n, "intset")
	if err != nil {
		return err
	}
	xs := make([]int, 0, prealloc)
	for range n {
		x, err := dec.DecodeInt()
		if err != nil {
			return fmt.Errorf("swift: decode intset member: %w", err)
		}
		xs = append(xs, x)
	}
	s.replaceMembers(xs)
	return nil
}

// MarshalCBOR implements cbor.Marshaler.
func (s *IntSet) MarshalCBOR() ([]byte, error) {
	es := s.elems()
	if es == nil {
		es = []int{}
	}
	return cborEncMode.Marshal(es)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (s *IntSet) UnmarshalCBOR(data []byte) error {
	var xs []int
	if err := cbor.Unmarshal(data, &xs); err != nil {
		return fmt.Errorf("swift: decode intset: %w", err)
	}
	s.replaceMembers(xs)
	return nil
}

func (s *IntSet) replaceMembers(xs []int) {
	slices.Sort(xs)
	xs = slices.Compact(xs)
	s.WillMutate()
	defer s.DidMutate()
	s.storage = cowStorage[*listStore[int]]{backing: &listStore[int]{elems: xs}, label: "intset"}
}
