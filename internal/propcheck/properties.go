package propcheck

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"swiftcore/internal/testkit"
	"swiftcore/swift"
)

var registry = []Property{
	{"array-independence", "mutating a copied array leaves the original unchanged", checkArrayIndependence},
	{"dictionary-independence", "mutating a copied dictionary leaves the original unchanged", checkDictionaryIndependence},
	{"set-independence", "mutating a copied set leaves the original unchanged", checkSetIndependence},
	{"deep-independence", "nested arrays copy deeply and write back directly", checkDeepIndependence},
	{"slice-divergence", "a closed slice keeps its window after the parent changes and rejects mutation", checkSliceDivergence},
	{"open-slice", "an open-ended slice reads through to the end of its store", checkOpenSlice},
	{"idempotent-copy", "an unmutated copy compares, iterates and hashes like the original", checkIdempotentCopy},
	{"dictionary-key-uniqueness", "assigning a key twice adds at most one entry", checkKeyUniqueness},
	{"set-algebra", "union, intersection and difference obey the set laws", checkSetAlgebra},
	{"literal-round-trip", "literal construction preserves count and elements", checkLiteralRoundTrip},
	{"shuffle-permutation", "shuffling yields a permutation of the input", checkShufflePermutation},
	{"default-accessor", "the default closure runs only for absent keys and reads never insert", checkDefaultAccessor},
	{"write-back-once", "a compound mutation of a nested value writes back exactly once", checkWriteBackOnce},
	{"intset-agreement", "IntSet behaves like Set[int] kept in ascending order", checkIntSetAgreement},
	{"codec-round-trip", "msgpack and CBOR encodings decode to equal containers", checkCodecRoundTrip},
	{"hash-consistency", "equal sets and dictionaries hash equally regardless of order", checkHashConsistency},
}

func mutateArray(g *Gen, a *swift.Array[int], model []int) []int {
	n := len(model)
	op := g.IntN(8)
	if n == 0 {
		op = g.IntN(2)
	}
	switch op {
	case 0:
		x := g.IntN(100)
		a.Append(x)
		return append(model, x)
	case 1:
		x, i := g.IntN(100), g.IntN(n+1)
		a.Insert(x, i)
		return slices.Insert(model, i, x)
	case 2:
		i := g.Index(n)
		a.RemoveAt(i)
		return slices.Delete(model, i, i+1)
	case 3:
		i, x := g.Index(n), g.IntN(100)
		a.SetAt(i, x)
		model[i] = x
		return model
	case 4:
		a.Reverse()
		slices.Reverse(model)
		return model
	case 5:
		swift.SortAscending(a)
		slices.Sort(model)
		return model
	case 6:
		even := func(x int) bool { return x%2 == 0 }
		a.RemoveAllWhere(even)
		return slices.DeleteFunc(model, even)
	default:
		i, j := g.Index(n), g.Index(n)
		a.SwapAt(i, j)
		model[i], model[j] = model[j], model[i]
		return model
	}
}

func checkArrayIndependence(g *Gen) error {
	a := g.IntArray()
	want := a.ToSlice(false)
	b := swift.Sref(a, nil)
	model := slices.Clone(want)
	for range g.Len() + 1 {
		model = mutateArray(g, b, model)
	}
	if got := a.ToSlice(false); !slices.Equal(got, want) {
		return fmt.Errorf("original changed to %v, want %v", got, want)
	}
	if got := b.ToSlice(false); !slices.Equal(got, model) {
		return fmt.Errorf("copy is %v, model %v", got, model)
	}
	return testkit.CheckInvariants(a, b)
}

func mutateDictionary(g *Gen, d *swift.Dictionary[string, int], model map[string]int) {
	k, v := g.Key(), g.IntN(1000)
	switch g.IntN(4) {
	case 0:
		d.Set(k, v)
		model[k] = v
	case 1:
		d.RemoveValue(k)
		delete(model, k)
	case 2:
		d.UpdateDefault(k, func() int { return 0 }, func(x int) int { return x + v })
		model[k] += v
	default:
		odd := func(_ string, x int) bool { return x%2 == 1 }
		d.RemoveAllWhere(odd)
		maps.DeleteFunc(model, odd)
	}
}

func checkDictionaryIndependence(g *Gen) error {
	d := g.Dictionary()
	want := d.ToMap()
	e := swift.Sref(d, nil)
	model := maps.Clone(want)
	for range g.Len() + 1 {
		mutateDictionary(g, e, model)
	}
	if got := d.ToMap(); !maps.Equal(got, want) {
		return fmt.Errorf("original changed to %v, want %v", got, want)
	}
	if got := e.ToMap(); !maps.Equal(got, model) {
		return fmt.Errorf("copy is %v, model %v", got, model)
	}
	return testkit.CheckInvariants(d, e)
}

func mutateSet(g *Gen, s *swift.Set[int], model map[int]struct{}) map[int]struct{} {
	universe := 2*g.Size() + 1
	switch g.IntN(5) {
	case 0:
		x := g.IntN(universe)
		s.Insert(x)
		model[x] = struct{}{}
	case 1:
		x := g.IntN(universe)
		s.Remove(x)
		delete(model, x)
	case 2:
		xs := g.Ints(universe)
		s.FormUnion(swift.SliceOf[int](xs))
		for _, x := range xs {
			model[x] = struct{}{}
		}
	case 3:
		xs := g.Ints(universe)
		s.Subtract(swift.SliceOf[int](xs))
		for _, x := range xs {
			delete(model, x)
		}
	default:
		xs := g.Ints(universe)
		s.FormIntersection(swift.SliceOf[int](xs))
		kept := make(map[int]struct{})
		for _, x := range xs {
			if _, ok := model[x]; ok {
				kept[x] = struct{}{}
			}
		}
		return kept
	}
	return model
}

func checkSetIndependence(g *Gen) error {
	s := g.IntSet(2*g.Size() + 1)
	want := s.ToMap()
	c := swift.Sref(s, nil)
	model := maps.Clone(want)
	for range g.Len() + 1 {
		model = mutateSet(g, c, model)
	}
	if got := s.ToMap(); !maps.Equal(got, want) {
		return fmt.Errorf("original changed to %v", s)
	}
	if got := c.ToMap(); !maps.Equal(got, model) {
		return fmt.Errorf("copy is %v, model %v", c, slices.Sorted(maps.Keys(model)))
	}
	return testkit.CheckInvariants(s, c)
}

func checkDeepIndependence(g *Gen) error {
	outer := g.NestedArray()
	if outer.IsEmpty() {
		outer.Append(g.IntArray())
	}
	i := g.Index(outer.Count())
	before := outer.At(i).ToSlice(false)
	x := g.IntN(100)

	outer2 := swift.Sref(outer, nil)
	outer2.At(i).Append(x)
	if got := outer.At(i).ToSlice(false); !slices.Equal(got, before) {
		return fmt.Errorf("row %d of original changed to %v, want %v", i, got, before)
	}
	if got := outer2.At(i).ToSlice(false); !slices.Equal(got, append(slices.Clone(before), x)) {
		return fmt.Errorf("row %d of copy is %v after appending %d to %v", i, got, x, before)
	}

	outer.At(i).Append(x)
	if got := outer.At(i).Count(); got != len(before)+1 {
		return fmt.Errorf("direct append to row %d not written back: count %d", i, got)
	}
	return testkit.CheckInvariants(outer, outer2)
}

func checkSliceDivergence(g *Gen) error {
	a := g.IntArray()
	a.Append(g.IntN(100))
	n := a.Count()
	lo := g.IntN(n + 1)
	hi := lo + g.IntN(n-lo+1)
	s := a.Slice(lo, hi)
	want := a.ToSlice(false)[lo:hi]

	a.Append(g.IntN(100))
	if lo < hi {
		a.SetAt(lo, -1)
	}
	if got := s.ToSlice(false); !slices.Equal(got, want) {
		return fmt.Errorf("slice %d..<%d reads %v after parent mutation, want %v", lo, hi, got, want)
	}
	if err := swift.Try(func() { s.Append(1) }); !errors.Is(err, swift.ErrUnsupported) {
		return fmt.Errorf("append to slice: %v", err)
	}
	if lo < hi {
		if err := swift.Try(func() { s.SetAt(0, 1) }); !errors.Is(err, swift.ErrUnsupported) {
			return fmt.Errorf("assignment through slice: %v", err)
		}
	}
	return testkit.CheckInvariants(a, s)
}

func checkOpenSlice(g *Gen) error {
	a := g.IntArray()
	n := a.Count()
	lo := g.IntN(n + 1)
	tail := a.SliceFrom(lo)
	sub := tail.SliceFrom(0)
	want := a.ToSlice(false)[lo:]
	if tail.Count() != n-lo {
		return fmt.Errorf("open slice from %d of %d elements has count %d", lo, n, tail.Count())
	}

	a.Append(g.IntN(100))
	for _, view := range []*swift.Array[int]{tail, sub} {
		if got := view.ToSlice(false); !slices.Equal(got, want) {
			return fmt.Errorf("open slice from %d reads %v, want %v", lo, got, want)
		}
	}

	closed := a.Slice(lo, n)
	if got := closed.SliceFrom(0).Count(); got != n-lo {
		return fmt.Errorf("open slice of closed window %d..<%d has count %d", lo, n, got)
	}
	return testkit.CheckInvariants(a, tail, sub, closed)
}

func checkIdempotentCopy(g *Gen) error {
	a := g.IntArray()
	ac := a.Copy()
	if !a.Equal(ac) || !swift.ElementsEqual[int](a, ac) || swift.HashValue(a) != swift.HashValue(ac) {
		return fmt.Errorf("array copy %v differs from %v", ac, a)
	}
	d := g.Dictionary()
	dc := d.Copy()
	if !d.Equal(dc) || !slices.Equal(slices.Collect(d.All()), slices.Collect(dc.All())) {
		return fmt.Errorf("dictionary copy %v differs from %v", dc, d)
	}
	s := g.IntSet(100)
	sc := swift.Sref(s, nil)
	if !s.Equal(sc) || !slices.Equal(s.ToSlice(), sc.ToSlice()) || swift.HashValue(s) != swift.HashValue(sc) {
		return fmt.Errorf("set copy %v differs from %v", sc, s)
	}
	return nil
}

func checkKeyUniqueness(g *Gen) error {
	d := g.Dictionary()
	before := d.Count()
	k := g.Key()
	v1, v2 := g.IntN(1000), g.IntN(1000)
	d.Set(k, v1)
	d.Set(k, v2)
	if d.Count() > before+1 {
		return fmt.Errorf("count grew from %d to %d", before, d.Count())
	}
	if v, ok := d.Get(k); !ok || v != v2 {
		return fmt.Errorf("d[%q] = %d, %v; want %d", k, v, ok, v2)
	}
	keys := slices.Collect(d.Keys().All())
	if len(keys) != len(d.ToMap()) {
		return fmt.Errorf("duplicate keys in %v", keys)
	}
	return testkit.CheckInvariants(d)
}

func checkSetAlgebra(g *Gen) error {
	universe := 2*g.Size() + 1
	a, b := g.IntSet(universe), g.IntSet(universe)
	switch {
	case !a.Union(b).Equal(b.Union(a)):
		return fmt.Errorf("union not commutative for %v, %v", a, b)
	case !a.Intersection(b).IsSubset(a):
		return fmt.Errorf("%v ∩ %v not a subset of the left side", a, b)
	case !a.Subtracting(b).IsDisjoint(b):
		return fmt.Errorf("%v - %v not disjoint with %v", a, b, b)
	case !a.IsSubset(a.Union(b)):
		return fmt.Errorf("%v not a subset of its union with %v", a, b)
	}
	sym := a.SymmetricDifference(b)
	if !sym.Equal(a.Union(b).Subtracting(a.Intersection(b))) {
		return fmt.Errorf("symmetric difference of %v, %v is %v", a, b, sym)
	}
	inPlace := a.Copy()
	inPlace.FormSymmetricDifference(b)
	if !inPlace.Equal(sym) {
		return fmt.Errorf("in-place symmetric difference %v, want %v", inPlace, sym)
	}
	return testkit.CheckInvariants(a, b, sym, inPlace)
}

func checkLiteralRoundTrip(g *Gen) error {
	fixed := swift.ArrayOf(1, 2, 3)
	if fixed.Count() != 3 || fixed.At(1) != 2 {
		return fmt.Errorf("literal [1, 2, 3] reads %v", fixed)
	}
	xs := g.Ints(100)
	a := swift.ArrayOf(xs...)
	if a.Count() != len(xs) {
		return fmt.Errorf("literal of %d elements has count %d", len(xs), a.Count())
	}
	for i, x := range xs {
		if a.At(i) != x {
			return fmt.Errorf("literal %v reads %d at %d", xs, a.At(i), i)
		}
	}
	counts := swift.DictionaryFromPairs(
		swift.Map(swift.SliceOf[int](xs), func(x int) swift.Pair[int, int] { return swift.PairOf(x, 1) }),
		func(cur, next int) int { return cur + next },
	)
	total := swift.Reduce(counts.Values(), 0, func(acc, n int) int { return acc + n })
	if total != len(xs) || counts.Count() != swift.SetOf(xs...).Count() {
		return fmt.Errorf("counting %v gave %v", xs, counts)
	}
	return nil
}

func checkShufflePermutation(g *Gen) error {
	a := g.IntArray()
	want := swift.SortedAscending[int](a).ToSlice(false)
	b := a.ShuffledUsing(g.Random())
	a.ShuffleUsing(g.Random())
	for _, got := range []*swift.Array[int]{a, b} {
		if sorted := swift.SortedAscending[int](got).ToSlice(false); !slices.Equal(sorted, want) {
			return fmt.Errorf("shuffle %v is not a permutation of %v", got, want)
		}
	}
	return nil
}

func checkDefaultAccessor(g *Gen) error {
	d := g.Dictionary()
	k := g.Key()
	calls := 0
	def := func() int {
		calls++
		return -1
	}
	present := d.ContainsKey(k)
	before := d.Count()

	v := d.GetDefault(k, def)
	switch {
	case present && calls != 0:
		return fmt.Errorf("default evaluated for present key %q", k)
	case !present && (calls != 1 || v != -1):
		return fmt.Errorf("absent key %q: %d default calls, value %d", k, calls, v)
	case d.Count() != before:
		return fmt.Errorf("default read inserted %q", k)
	}

	calls = 0
	d.UpdateDefault(k, def, func(x int) int { return x + 1 })
	if present == (calls == 1) {
		return fmt.Errorf("update of %q (present %v) evaluated default %d times", k, present, calls)
	}
	calls = 0
	d.SetDefault(k, def, 7)
	if calls != 0 {
		return fmt.Errorf("default write evaluated the default")
	}
	if got, ok := d.Get(k); !ok || got != 7 {
		return fmt.Errorf("d[%q] = %d, %v after default write", k, got, ok)
	}
	return testkit.CheckInvariants(d)
}

func checkWriteBackOnce(g *Gen) error {
	outer := g.NestedArray()
	if outer.IsEmpty() {
		outer.Append(g.IntArray())
	}
	fired := 0
	outer.SetSUpdate(func(swift.MutableStruct) { fired++ })
	i := g.Index(outer.Count())

	inner := outer.At(i)
	inner.RemoveAllWhere(func(x int) bool { return x%2 == 0 })
	if fired != 1 {
		return fmt.Errorf("removeAll(where:) on row %d fired %d write-backs", i, fired)
	}
	fired = 0
	inner.AppendContentsOf(swift.SliceOf[int]{1, 2, 3})
	if fired != 1 {
		return fmt.Errorf("append(contentsOf:) on row %d fired %d write-backs", i, fired)
	}
	if !outer.At(i).Equal(inner) {
		return fmt.Errorf("row %d is %v, mutated handle %v", i, outer.At(i), inner)
	}

	d := swift.NewDictionary[string, *swift.Array[int]]()
	k := g.Key()
	d.Set(k, g.IntArray())
	n := d.GetDefault(k, swift.NewArray[int]).Count()
	v, _ := d.Get(k)
	v.Append(g.IntN(100))
	if got, _ := d.Get(k); got.Count() != n+1 {
		return fmt.Errorf("append through d[%q] not written back", k)
	}
	return testkit.CheckInvariants(outer, d)
}

func checkIntSetAgreement(g *Gen) error {
	universe := 2*g.Size() + 1
	is, gs := swift.NewIntSet(), swift.NewSet[int]()
	for range 2 * g.Len() {
		x := g.IntN(universe)
		if g.IntN(3) == 0 {
			if is.Remove(x) != gs.Contains(x) {
				return fmt.Errorf("remove(%d) disagreed", x)
			}
			gs.Remove(x)
			continue
		}
		inserted, _ := gs.Insert(x)
		if is.Insert(x) != inserted {
			return fmt.Errorf("insert(%d) disagreed", x)
		}
	}
	want := swift.SortedAscending[int](gs).ToSlice(false)
	if got := is.ToSlice(); !slices.Equal(got, want) {
		return fmt.Errorf("intset %v, set %v", got, want)
	}
	x := g.IntN(universe)
	idx, _ := slices.BinarySearch(want, x+1)
	got, ok := is.IntegerGreaterThan(x)
	if ok != (idx < len(want)) || ok && got != want[idx] {
		return fmt.Errorf("integerGreaterThan(%d) = %d, %v in %v", x, got, ok, want)
	}
	return testkit.CheckInvariants(is, gs)
}

func checkCodecRoundTrip(g *Gen) error {
	nested := g.NestedArray()
	data, err := msgpack.Marshal(nested)
	if err != nil {
		return err
	}
	arr := swift.NewArray[*swift.Array[int]]()
	if err := msgpack.Unmarshal(data, arr); err != nil {
		return err
	}
	if !arr.Equal(nested) {
		return fmt.Errorf("msgpack round trip of %v gave %v", nested, arr)
	}

	d := g.Dictionary()
	data, err = swift.EncodeCBOR(d)
	if err != nil {
		return err
	}
	dict := swift.NewDictionary[string, int]()
	if err := swift.DecodeCBOR(data, dict); err != nil {
		return err
	}
	if !slices.Equal(slices.Collect(dict.All()), slices.Collect(d.All())) {
		return fmt.Errorf("cbor round trip of %v gave %v", d, dict)
	}

	is := swift.IntSetOf(g.Ints(1000)...)
	data, err = msgpack.Marshal(is)
	if err != nil {
		return err
	}
	back := swift.NewIntSet()
	if err := msgpack.Unmarshal(data, back); err != nil {
		return err
	}
	if !back.Equal(is) {
		return fmt.Errorf("msgpack round trip of %v gave %v", is, back)
	}
	return testkit.CheckInvariants(arr, dict, back)
}

func checkHashConsistency(g *Gen) error {
	xs := g.Ints(50)
	rev := slices.Clone(xs)
	slices.Reverse(rev)
	a, b := swift.SetFromSlice(xs), swift.SetFromSlice(rev)
	if !a.Equal(b) || swift.HashValue(a) != swift.HashValue(b) {
		return fmt.Errorf("sets %v and %v differ", a, b)
	}
	d := g.Dictionary()
	pairs := slices.Collect(d.All())
	slices.Reverse(pairs)
	e := swift.DictionaryOf(pairs...)
	if !d.Equal(e) || swift.HashValue(d) != swift.HashValue(e) {
		return fmt.Errorf("dictionaries %v and %v differ", d, e)
	}
	return nil
}
