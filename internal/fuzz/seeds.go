package fuzztests

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"swiftcore/internal/propcheck"
	"swiftcore/swift"
)

const (
	maxProgramBytes = 4 << 10 // ops are two bytes each
	maxDecodeBytes  = 64 << 10
)

// addOpSeeds registers hand-written programs plus a few generated ones.
func addOpSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 1, 0, 2, 0, 3, 8, 0, 0, 4, 2, 1})
	f.Add([]byte{0, 9, 9, 0, 0, 7, 5, 0, 6, 0, 7, 1})
	for seed := range uint64(4) {
		g := propcheck.NewGen(seed, 32)
		program := make([]byte, 2*g.Len())
		for i := range program {
			program[i] = byte(g.IntN(256))
		}
		f.Add(program)
	}
}

// hugeHeaders declare far more elements than they carry.
var hugeHeaders = [][]byte{
	// msgpack array32
	{0xdd, 0x7f, 0xff, 0xff, 0xff},
	// msgpack array16
	{0xdc, 0xff, 0xff},
	// cbor array with a 64-bit length
	{0x9b, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff},
}

// addCodecSeeds registers valid encodings of generated containers in both
// wire formats, plus length headers no payload backs up.
func addCodecSeeds(f *testing.F) {
	f.Add([]byte{})
	for _, h := range hugeHeaders {
		f.Add(h)
	}
	for seed := range uint64(4) {
		g := propcheck.NewGen(seed, 8)
		for _, v := range []any{g.Dictionary(), g.IntArray(), g.IntSet(16), swift.IntSetOf(g.Ints(16)...)} {
			if data, err := msgpack.Marshal(v); err == nil {
				f.Add(data)
			}
			if data, err := swift.EncodeCBOR(v); err == nil {
				f.Add(data)
			}
		}
	}
}

func clamp(input []byte, limit int) []byte {
	if len(input) > limit {
		input = input[:limit]
	}
	return append([]byte(nil), input...)
}
