package swift_test

import (
	"bytes"
	"errors"
	"slices"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"swiftcore/swift"
)

func TestMsgpackRoundTrip(t *testing.T) {
	nested := swift.ArrayOf(swift.ArrayOf(1, 2), swift.NewArray[int](), swift.ArrayOf(3))
	data, err := msgpack.Marshal(nested)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := swift.NewArray[*swift.Array[int]]()
	if err := msgpack.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !out.Equal(nested) {
		t.Fatalf("round trip: %v vs %v", out, nested)
	}

	d := swift.DictionaryOf(swift.PairOf(3, "c"), swift.PairOf(1, "a"), swift.PairOf(2, "b"))
	data, err = msgpack.Marshal(d)
	if err != nil {
		t.Fatalf("marshal dictionary: %v", err)
	}
	var back swift.Dictionary[int, string]
	if err := msgpack.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal dictionary: %v", err)
	}
	if !back.Equal(d) || !slices.Equal(keysOf(&back), []int{3, 1, 2}) {
		t.Fatalf("dictionary round trip lost entries or order: %v", &back)
	}

	is := swift.IntSetOf(5, 1, 3)
	data, err = msgpack.Marshal(is)
	if err != nil {
		t.Fatalf("marshal intset: %v", err)
	}
	isBack := swift.NewIntSet()
	if err := msgpack.Unmarshal(data, isBack); err != nil || !isBack.Equal(is) {
		t.Fatalf("intset round trip: %v, %v", isBack, err)
	}
}

func TestMsgpackDecodeWritesBackOnce(t *testing.T) {
	data, err := msgpack.Marshal(swift.SetOf("x", "y"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := swift.NewSet[string]()
	fired := 0
	s.SetSUpdate(func(swift.MutableStruct) { fired++ })
	if err := msgpack.Unmarshal(data, s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if fired != 1 || !s.Equal(swift.SetOf("y", "x")) {
		t.Fatalf("decode fired %d updates, set %v", fired, s)
	}
}

func TestCBORRoundTripIsCanonical(t *testing.T) {
	a := swift.DictionaryOf(swift.PairOf("k", swift.SetOf(1, 2)))
	b := swift.DictionaryOf(swift.PairOf("k", swift.SetOf(1, 2)))
	da, err := swift.EncodeCBOR(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	db, err := swift.EncodeCBOR(b)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(da, db) {
		t.Fatalf("equal dictionaries encoded differently")
	}
	out := swift.NewDictionary[string, *swift.Set[int]]()
	if err := swift.DecodeCBOR(da, out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.Equal(a) {
		t.Fatalf("cbor round trip: %v vs %v", out, a)
	}

	arr := swift.ArrayOf("x", "y")
	data, err := swift.EncodeCBOR(arr)
	if err != nil {
		t.Fatalf("encode array: %v", err)
	}
	var arrBack swift.Array[string]
	if err := swift.DecodeCBOR(data, &arrBack); err != nil || !arrBack.Equal(arr) {
		t.Fatalf("array round trip: %v, %v", &arrBack, err)
	}
}

func TestDecodeRejectsDuplicateKeysAndSlices(t *testing.T) {
	type wire struct {
		_     struct{} `cbor:",toarray"`
		Key   string
		Value int
	}
	data, err := swift.EncodeCBOR([]wire{{Key: "a", Value: 1}, {Key: "a", Value: 2}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	d := swift.NewDictionary[string, int]()
	err = swift.DecodeCBOR(data, d)
	if !errors.Is(err, swift.ErrDuplicateKey) {
		t.Fatalf("duplicate keys decoded: %v", err)
	}

	good, err := swift.EncodeCBOR(swift.ArrayOf(1))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	view := swift.ArrayOf(1, 2, 3).Slice(0, 1)
	if err := swift.DecodeCBOR(good, view); !errors.Is(err, swift.ErrUnsupported) {
		t.Fatalf("decode into slice: %v", err)
	}
}

func TestDecodeRejectsUnbackedLengthHeaders(t *testing.T) {
	headers := [][]byte{
		{0xdd, 0x7f, 0xff, 0xff, 0xff},
		{0xdd, 0xff, 0xff, 0xff, 0xff},
		{0xdc, 0xff, 0xff},
	}
	for _, h := range headers {
		err := swift.Try(func() {
			if msgpack.Unmarshal(h, swift.NewArray[int]()) == nil {
				t.Fatalf("array decoded from % x", h)
			}
			if msgpack.Unmarshal(h, swift.NewDictionary[string, int]()) == nil {
				t.Fatalf("dictionary decoded from % x", h)
			}
			if msgpack.Unmarshal(h, swift.NewSet[int]()) == nil {
				t.Fatalf("set decoded from % x", h)
			}
			if msgpack.Unmarshal(h, swift.NewIntSet()) == nil {
				t.Fatalf("intset decoded from % x", h)
			}
		})
		if err != nil {
			t.Fatalf("decode of % x raised %v", h, err)
		}
	}

	long := swift.NewArray[int]()
	for i := range 3000 {
		long.Append(i)
	}
	data, err := msgpack.Marshal(long)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back := swift.NewArray[int]()
	if err := msgpack.Unmarshal(data, back); err != nil || !back.Equal(long) {
		t.Fatalf("long array round trip: %d elements, %v", back.Count(), err)
	}
}
