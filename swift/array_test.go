package swift_test

import (
	"errors"
	"slices"
	"testing"

	"swiftcore/internal/testkit"
	"swiftcore/internal/trace"
	"swiftcore/swift"
)

func ints(a *swift.Array[int]) []int {
	return a.ToSlice(false)
}

func TestArrayCopyIsIndependent(t *testing.T) {
	a := swift.ArrayOf(1, 2)
	b := swift.Sref(a, nil)
	b.Append(3)
	if a.Count() != 2 || b.Count() != 3 {
		t.Fatalf("counts after append: a=%d b=%d", a.Count(), b.Count())
	}
	testkit.MustHold(t, a, b)
}

func TestArrayMutationsLeaveCopyUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*swift.Array[int])
	}{
		{"append", func(a *swift.Array[int]) { a.Append(9) }},
		{"setAt", func(a *swift.Array[int]) { a.SetAt(0, 9) }},
		{"insert", func(a *swift.Array[int]) { a.Insert(9, 1) }},
		{"removeAt", func(a *swift.Array[int]) { a.RemoveAt(1) }},
		{"removeAll", func(a *swift.Array[int]) { a.RemoveAll() }},
		{"removeAllKeepingCapacity", func(a *swift.Array[int]) { a.RemoveAllKeepingCapacity() }},
		{"removeAllWhere", func(a *swift.Array[int]) { a.RemoveAllWhere(func(x int) bool { return x > 1 }) }},
		{"sort", func(a *swift.Array[int]) { a.Sort(func(x, y int) bool { return x > y }) }},
		{"reverse", func(a *swift.Array[int]) { a.Reverse() }},
		{"swapAt", func(a *swift.Array[int]) { a.SwapAt(0, 2) }},
		{"replaceSubrange", func(a *swift.Array[int]) { a.ReplaceSubrange(0, 2, swift.SliceOf[int]{7}) }},
		{"removeFirst", func(a *swift.Array[int]) { a.RemoveFirst() }},
		{"removeLastN", func(a *swift.Array[int]) { a.RemoveLastN(2) }},
		{"popLast", func(a *swift.Array[int]) { a.PopLast() }},
		{"appendContentsOf", func(a *swift.Array[int]) { a.AppendContentsOf(a) }},
		{"shuffle", func(a *swift.Array[int]) { a.ShuffleUsing(swift.NewSeededRandom(3)) }},
		{"reserveCapacity", func(a *swift.Array[int]) { a.ReserveCapacity(64) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := swift.ArrayOf(1, 2, 3)
			b := a.Copy()
			tt.mutate(b)
			if got := ints(a); !slices.Equal(got, []int{1, 2, 3}) {
				t.Fatalf("original changed: %v", got)
			}
			testkit.MustHold(t, a, b)
		})
	}
}

func TestArrayReserveCapacityBelowCountIsNoOp(t *testing.T) {
	a := swift.ArrayOf(1, 2, 3)
	b := a.Copy()
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	swift.SetTracer(ring)
	defer swift.SetTracer(nil)

	if err := swift.Try(func() {
		b.ReserveCapacity(0)
		b.ReserveCapacity(-1)
		b.ReserveCapacity(3)
	}); err != nil {
		t.Fatalf("ReserveCapacity below count: %v", err)
	}
	if n := len(ring.Filter(trace.ScopeStorage)); n != 0 {
		t.Fatalf("no-op reserve touched storage: %d events", n)
	}
	b.ReserveCapacity(10)
	b.Append(4)
	if !slices.Equal(ints(a), []int{1, 2, 3}) || !slices.Equal(ints(b), []int{1, 2, 3, 4}) {
		t.Fatalf("a=%v b=%v", a, b)
	}
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { a.Slice(0, 1).ReserveCapacity(8) })
}

func TestArrayNestedWriteBack(t *testing.T) {
	outer := swift.ArrayOf(swift.ArrayOf(1))
	outer2 := swift.Sref(outer, nil)

	outer2.At(0).Append(2)
	if got := ints(outer.At(0)); !slices.Equal(got, []int{1}) {
		t.Fatalf("copy's nested mutation leaked into original: %v", got)
	}
	if got := ints(outer2.At(0)); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("nested mutation not written back to copy: %v", got)
	}

	outer.At(0).Append(3)
	if got := ints(outer.At(0)); !slices.Equal(got, []int{1, 3}) {
		t.Fatalf("direct nested mutation not visible: %v", got)
	}
	if got := ints(outer2.At(0)); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("original's nested mutation leaked into copy: %v", got)
	}
}

func TestArrayReadCopyDoesNotWriteBackUntilMutated(t *testing.T) {
	outer := swift.ArrayOf(swift.ArrayOf(1, 2))
	inner := swift.Sref(outer.At(0), nil)
	inner.Append(3)
	if outer.At(0).Count() != 2 {
		t.Fatalf("unbound copy wrote back: %v", outer)
	}
	first, _ := outer.First()
	first.Append(4)
	if outer.At(0).Count() != 2 {
		t.Fatalf("First() result wrote back: %v", outer)
	}
}

func TestArraySliceAliasingThenDivergence(t *testing.T) {
	arr := swift.NewArray[int]()
	for i := range 10 {
		arr.Append(i)
	}
	s := arr.Slice(2, 5)
	if got := ints(s); !slices.Equal(got, []int{2, 3, 4}) {
		t.Fatalf("slice reads %v", got)
	}
	arr.Append(10)
	arr.SetAt(3, 99)
	if got := ints(s); !slices.Equal(got, []int{2, 3, 4}) {
		t.Fatalf("slice changed after parent mutation: %v", got)
	}
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { s.Append(1) })
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { s.SetAt(0, 1) })
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { s.RemoveAll() })
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { s.RemoveAllWhere(func(int) bool { return true }) })
	testkit.MustHold(t, arr, s)
}

func TestArraySliceOfSlice(t *testing.T) {
	arr := swift.ArrayOf(0, 1, 2, 3, 4, 5, 6)
	s := arr.Slice(1, 6)
	ss := s.Slice(1, 3)
	if got := ints(ss); !slices.Equal(got, []int{2, 3}) {
		t.Fatalf("nested slice reads %v", got)
	}
	open := s.SliceFrom(3)
	if got := ints(open); !slices.Equal(got, []int{4, 5}) {
		t.Fatalf("open slice of closed slice reads %v", got)
	}
	tail := arr.SliceFrom(5)
	if got := ints(tail); !slices.Equal(got, []int{5, 6}) {
		t.Fatalf("open slice reads %v", got)
	}
	arr.Append(7)
	if got := ints(tail); !slices.Equal(got, []int{5, 6}) {
		t.Fatalf("open slice saw growth of a forked parent: %v", got)
	}
}

func TestArrayIdempotentCopy(t *testing.T) {
	a := swift.ArrayOf("x", "y", "z")
	c := a.Copy()
	if !a.Equal(c) || !swift.ElementsEqual[string](a, c) {
		t.Fatalf("copy differs: %v vs %v", a, c)
	}
}

func TestArrayLiteralRoundTrip(t *testing.T) {
	a := swift.ArrayOf(1, 2, 3)
	if a.Count() != 3 || a.At(1) != 2 {
		t.Fatalf("literal: count=%d at(1)=%d", a.Count(), a.At(1))
	}
	if got := a.String(); got != "[1, 2, 3]" {
		t.Fatalf("String() = %q", got)
	}
	if got := swift.ArrayOf("a").String(); got != `["a"]` {
		t.Fatalf("String() = %q", got)
	}
}

func TestArrayBoundsAndEmptyFailures(t *testing.T) {
	a := swift.ArrayOf(1)
	testkit.ExpectPanic(t, swift.PanicOutOfBounds, func() { a.At(1) })
	testkit.ExpectPanic(t, swift.PanicOutOfBounds, func() { a.At(-1) })
	testkit.ExpectPanic(t, swift.PanicOutOfBounds, func() { a.Insert(0, 3) })
	testkit.ExpectPanic(t, swift.PanicOutOfBounds, func() { a.Slice(0, 2) })
	testkit.ExpectPanic(t, swift.PanicPrecondition, func() { a.RemoveFirstN(2) })
	testkit.ExpectPanic(t, swift.PanicPrecondition, func() { swift.Repeating(0, -1) })

	empty := swift.NewArray[int]()
	testkit.ExpectPanic(t, swift.PanicEmptyCollection, func() { empty.RemoveFirst() })
	testkit.ExpectPanic(t, swift.PanicEmptyCollection, func() { empty.RemoveLast() })
	if _, ok := empty.PopLast(); ok {
		t.Fatalf("PopLast on empty reported a value")
	}
	if _, ok := empty.First(); ok {
		t.Fatalf("First on empty reported a value")
	}

	err := swift.Try(func() { a.At(5) })
	if !errors.Is(err, swift.ErrOutOfBounds) {
		t.Fatalf("errors.Is(ErrOutOfBounds) false for %v", err)
	}
	if errors.Is(err, swift.ErrEmptyCollection) {
		t.Fatalf("out-of-bounds matched empty-collection sentinel")
	}
	testkit.MustHold(t, a, empty)
}

func TestArrayFailedMutationLeavesHandleUsable(t *testing.T) {
	a := swift.ArrayOf(1, 2)
	b := a.Copy()
	_ = swift.Try(func() { b.RemoveAt(7) })
	b.Append(3)
	if a.Count() != 2 || b.Count() != 3 {
		t.Fatalf("after failed remove: a=%v b=%v", a, b)
	}
	testkit.MustHold(t, a, b)
}

func TestArrayRepeatingForksOnFirstWrite(t *testing.T) {
	r := swift.Repeating(0, 3)
	c := r.Copy()
	r.SetAt(1, 5)
	if got := ints(r); !slices.Equal(got, []int{0, 5, 0}) {
		t.Fatalf("repeating after write: %v", got)
	}
	if got := ints(c); !slices.Equal(got, []int{0, 0, 0}) {
		t.Fatalf("copy of repeating changed: %v", got)
	}
}

func TestArrayAdopt(t *testing.T) {
	a := swift.ArrayOf(1, 2)
	b := swift.AdoptArray[int](a, true)
	b.Append(3)
	if a.Count() != 2 || b.Count() != 3 {
		t.Fatalf("shared adoption: a=%v b=%v", a, b)
	}
	c := swift.AdoptArray[int](swift.SliceOf[int]{4, 5}, false)
	if got := ints(c); !slices.Equal(got, []int{4, 5}) {
		t.Fatalf("adopt of non-array sequence: %v", got)
	}
}

func TestArrayEditing(t *testing.T) {
	a := swift.ArrayOf(1, 2, 3, 4, 5)
	a.InsertContentsOf(swift.SliceOf[int]{8, 9}, 1)
	if got := ints(a); !slices.Equal(got, []int{1, 8, 9, 2, 3, 4, 5}) {
		t.Fatalf("insertContentsOf: %v", got)
	}
	a.RemoveSubrange(1, 3)
	a.ReplaceSubrange(0, 2, swift.SliceOf[int]{7, 7, 7})
	if got := ints(a); !slices.Equal(got, []int{7, 7, 7, 3, 4, 5}) {
		t.Fatalf("replaceSubrange: %v", got)
	}
	if x := a.RemoveLast(); x != 5 {
		t.Fatalf("RemoveLast = %d", x)
	}
	a.RemoveFirstN(3)
	if got := ints(a); !slices.Equal(got, []int{3, 4}) {
		t.Fatalf("removeFirstN: %v", got)
	}
	if x, ok := a.PopFirst(); !ok || x != 3 {
		t.Fatalf("PopFirst = %d, %v", x, ok)
	}
	if i, ok := swift.ArrayOf(1, 2, 1).LastIndex(func(x int) bool { return x == 1 }); !ok || i != 2 {
		t.Fatalf("LastIndex = %d, %v", i, ok)
	}
	if !swift.ArrayOf(1, 2).Contains(2) || swift.ArrayOf(1, 2).Contains(3) {
		t.Fatalf("Contains wrong")
	}
}

func TestArraySortIsStable(t *testing.T) {
	type item struct {
		key int
		tag string
	}
	a := swift.ArrayOf(item{2, "a"}, item{1, "b"}, item{2, "c"}, item{1, "d"})
	a.Sort(func(x, y item) bool { return x.key < y.key })
	var tags []string
	for it := range a.All() {
		tags = append(tags, it.tag)
	}
	if !slices.Equal(tags, []string{"b", "d", "a", "c"}) {
		t.Fatalf("sort not stable: %v", tags)
	}
}

func TestArrayShufflePreservesMultiset(t *testing.T) {
	for seed := range uint64(20) {
		a := swift.ArrayOf(1, 1, 2, 3, 5, 8, 13, 13)
		s := a.ShuffledUsing(swift.NewSeededRandom(seed))
		if !swift.SetFrom[int](a).Equal(swift.SetFrom[int](s)) {
			t.Fatalf("seed %d: element sets differ: %v vs %v", seed, a, s)
		}
		if !swift.SortedAscending[int](s).Equal(swift.SortedAscending[int](a)) {
			t.Fatalf("seed %d: not a permutation: %v", seed, s)
		}
	}
}

func TestArrayConcatLeavesOperands(t *testing.T) {
	a, b := swift.ArrayOf(1), swift.ArrayOf(2, 3)
	c := a.Concat(b)
	if got := ints(c); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("concat: %v", got)
	}
	if a.Count() != 1 || b.Count() != 2 {
		t.Fatalf("operands changed: %v %v", a, b)
	}
}

func TestArrayEqualityAndHash(t *testing.T) {
	a := swift.ArrayOf(swift.ArrayOf(1), swift.ArrayOf(2, 3))
	b := swift.ArrayOf(swift.ArrayOf(1), swift.ArrayOf(2, 3))
	if !a.Equal(b) || swift.HashValue(a) != swift.HashValue(b) {
		t.Fatalf("equal nested arrays disagree")
	}
	b.At(1).Append(4)
	if a.Equal(b) {
		t.Fatalf("arrays still equal after nested append")
	}
}

func TestArrayZeroValueIsUsable(t *testing.T) {
	var a swift.Array[int]
	if !a.IsEmpty() {
		t.Fatalf("zero Array not empty")
	}
	a.Append(1)
	if a.Count() != 1 {
		t.Fatalf("zero Array append: %v", &a)
	}
}

func TestArrayHostInterop(t *testing.T) {
	s := []int{1, 2, 3}
	a := swift.ArrayFromSlice(s, true)
	a.SetAt(0, 9)
	if s[0] != 1 {
		t.Fatalf("nocopy adoption wrote through to host slice: %v", s)
	}

	out := a.ToSlice(true)
	a.SetAt(1, 7)
	if out[1] != 2 {
		t.Fatalf("nocopy export observed later mutation: %v", out)
	}

	c := swift.ArrayFromSlice(s, false)
	s[2] = 42
	if c.At(2) != 3 {
		t.Fatalf("copying import aliased host slice")
	}
}
