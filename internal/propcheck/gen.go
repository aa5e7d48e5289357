package propcheck

import (
	"hash/fnv"
	"math/rand/v2"
	"strconv"

	"fortio.org/safecast"

	"swiftcore/swift"
)

// Gen produces pseudo-random inputs for one case. All values derive from
// the case seed, so a failing case is reproduced by its seed and size.
type Gen struct {
	r    *rand.Rand
	seed uint64
	size int
}

// NewGen returns a generator for the given case seed. Collections it
// produces have at most size elements.
func NewGen(seed uint64, size int) *Gen {
	return &Gen{
		r:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
		size: max(size, 0),
	}
}

// CaseSeed derives the seed for case i of the named property.
func CaseSeed(runSeed uint64, property string, i int) uint64 {
	h := fnv.New64a()
	h.Write([]byte(property))
	idx, err := safecast.Conv[uint64](i)
	if err != nil {
		idx = 0
	}
	return runSeed ^ h.Sum64() ^ (idx * 0x9e3779b97f4a7c15)
}

func (g *Gen) Seed() uint64 { return g.seed }
func (g *Gen) Size() int    { return g.size }

// IntN returns a value in [0, n). n <= 0 yields 0.
func (g *Gen) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.IntN(n)
}

func (g *Gen) Bool() bool { return g.r.IntN(2) == 1 }

// Len returns a collection length in [0, size].
func (g *Gen) Len() int { return g.r.IntN(g.size + 1) }

// Ints returns up to size values drawn from [0, universe).
func (g *Gen) Ints(universe int) []int {
	out := make([]int, g.Len())
	for i := range out {
		out[i] = g.IntN(universe)
	}
	return out
}

// Index returns a valid index into a collection of length n, or 0 when n is 0.
func (g *Gen) Index(n int) int { return g.IntN(n) }

// Key returns a short string key.
func (g *Gen) Key() string {
	return "k" + strconv.Itoa(g.IntN(g.size*2+1))
}

func (g *Gen) IntArray() *swift.Array[int] {
	return swift.ArrayFromSlice(g.Ints(100), true)
}

// NestedArray returns an array of arrays with up to size rows.
func (g *Gen) NestedArray() *swift.Array[*swift.Array[int]] {
	rows := swift.NewArray[*swift.Array[int]]()
	for range g.Len() {
		rows.Append(g.IntArray())
	}
	return rows
}

func (g *Gen) IntSet(universe int) *swift.Set[int] {
	return swift.SetFromSlice(g.Ints(universe))
}

func (g *Gen) Dictionary() *swift.Dictionary[string, int] {
	d := swift.NewDictionary[string, int]()
	for range g.Len() {
		d.Set(g.Key(), g.IntN(1000))
	}
	return d
}

// Random adapts the generator to swift.RandomNumberGenerator.
func (g *Gen) Random() swift.RandomNumberGenerator { return genRandom{g} }

type genRandom struct{ g *Gen }

func (r genRandom) Next() uint64 { return r.g.r.Uint64() }
