package swift_test

import (
	"iter"
	"slices"
	"strconv"
	"testing"

	"swiftcore/internal/testkit"
	"swiftcore/swift"
)

// countdown is a user-defined Sequence with no Count method.
type countdown int

func (c countdown) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := int(c); i > 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

func TestDefaultAlgorithms(t *testing.T) {
	xs := swift.SliceOf[int]{3, 1, 4, 1, 5, 9, 2, 6}

	strs := swift.Map(xs, strconv.Itoa)
	if got := swift.Joined(strs, ","); got != "3,1,4,1,5,9,2,6" {
		t.Fatalf("Map/Joined = %q", got)
	}
	evens := swift.Filter(xs, func(x int) bool { return x%2 == 0 })
	if !slices.Equal(evens.ToSlice(false), []int{4, 2, 6}) {
		t.Fatalf("Filter = %v", evens)
	}
	if sum := swift.Reduce(xs, 0, func(acc, x int) int { return acc + x }); sum != 31 {
		t.Fatalf("Reduce = %d", sum)
	}
	hist := swift.ReduceInto(xs, map[int]int{}, func(m *map[int]int, x int) { (*m)[x]++ })
	if hist[1] != 2 {
		t.Fatalf("ReduceInto = %v", hist)
	}
	if lo, _ := swift.MinOrdered[int](xs); lo != 1 {
		t.Fatalf("MinOrdered = %d", lo)
	}
	if hi, _ := swift.MaxOrdered[int](xs); hi != 9 {
		t.Fatalf("MaxOrdered = %d", hi)
	}
	if _, ok := swift.MinOrdered[int](swift.SliceOf[int]{}); ok {
		t.Fatalf("MinOrdered of empty reported a value")
	}
	if n := swift.CountWhere(xs, func(x int) bool { return x > 4 }); n != 3 {
		t.Fatalf("CountWhere = %d", n)
	}
	if x, ok := swift.FirstWhere(xs, func(x int) bool { return x > 4 }); !ok || x != 5 {
		t.Fatalf("FirstWhere = %d, %v", x, ok)
	}
	if !swift.ContainsElement(xs, 9) || swift.AllSatisfy(xs, func(x int) bool { return x < 9 }) {
		t.Fatalf("ContainsElement/AllSatisfy wrong")
	}
	if got := swift.SortedOrdered[int](xs).ToSlice(false); !slices.Equal(got, []int{1, 1, 2, 3, 4, 5, 6, 9}) {
		t.Fatalf("SortedOrdered = %v", got)
	}
	if got := swift.Reversed[int](xs).ToSlice(false); got[0] != 6 || got[7] != 3 {
		t.Fatalf("Reversed = %v", got)
	}
	if got := swift.Prefix[int](xs, 3).ToSlice(false); !slices.Equal(got, []int{3, 1, 4}) {
		t.Fatalf("Prefix = %v", got)
	}
	if got := swift.Suffix[int](xs, 2).ToSlice(false); !slices.Equal(got, []int{2, 6}) {
		t.Fatalf("Suffix = %v", got)
	}
	if got := swift.DropFirst[int](xs, 6).ToSlice(false); !slices.Equal(got, []int{2, 6}) {
		t.Fatalf("DropFirst = %v", got)
	}
	if got := swift.DropLast[int](xs, 6).ToSlice(false); !slices.Equal(got, []int{3, 1}) {
		t.Fatalf("DropLast = %v", got)
	}
	if xs[0] != 3 {
		t.Fatalf("algorithms mutated their input")
	}
}

func TestAlgorithmsOnUserSequence(t *testing.T) {
	var seq swift.Sequence[int] = countdownSeq(4)
	if got := swift.ArrayFrom(seq).ToSlice(false); !slices.Equal(got, []int{4, 3, 2, 1}) {
		t.Fatalf("ArrayFrom = %v", got)
	}
	pairs := swift.Zip[int, string](seq, swift.SliceOf[string]{"a", "b"})
	if pairs.Count() != 2 || pairs.At(1) != swift.PairOf(3, "b") {
		t.Fatalf("Zip = %v", pairs)
	}
	flat := swift.FlatMap(swift.SliceOf[int]{1, 2}, func(n int) swift.Sequence[int] { return countdownSeq(n) })
	if got := flat.ToSlice(false); !slices.Equal(got, []int{1, 2, 1}) {
		t.Fatalf("FlatMap = %v", got)
	}
	small := swift.CompactMap(seq, func(n int) (string, bool) { return strconv.Itoa(n), n < 3 })
	if got := small.ToSlice(false); !slices.Equal(got, []string{"2", "1"}) {
		t.Fatalf("CompactMap = %v", got)
	}
	var idx []int
	for i, v := range swift.Enumerated(seq) {
		if 4-i != v {
			t.Fatalf("Enumerated pair (%d, %d)", i, v)
		}
		idx = append(idx, i)
	}
	if len(idx) != 4 {
		t.Fatalf("Enumerated yielded %d pairs", len(idx))
	}
	if !swift.ElementsEqual[int](seq, swift.ArrayOf(4, 3, 2, 1)) || swift.ElementsEqual[int](seq, swift.ArrayOf(4, 3)) {
		t.Fatalf("ElementsEqual wrong")
	}
}

func countdownSeq(n int) swift.Sequence[int] {
	return countdown(n)
}

func TestMutatingDefaults(t *testing.T) {
	a := swift.ArrayOf(1, 2, 3)
	swift.ReverseInPlace[int](a)
	swift.SwapAt[int](a, 0, 2)
	if got := a.ToSlice(false); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("ReverseInPlace+SwapAt = %v", got)
	}
	swift.SortInPlace[int](a, func(x, y int) bool { return x > y })
	if got := a.ToSlice(false); !slices.Equal(got, []int{3, 2, 1}) {
		t.Fatalf("SortInPlace = %v", got)
	}
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { swift.SortInPlace[int](swift.SliceOf[int]{2, 1}, func(x, y int) bool { return x < y }) })
	testkit.ExpectPanic(t, swift.PanicUnsupported, func() { swift.ReverseInPlace[int](swift.IntSetOf(1, 2)) })
	testkit.ExpectPanic(t, swift.PanicOutOfBounds, func() { swift.SwapAt[int](a, 0, 3) })
}

func TestRandomHelpers(t *testing.T) {
	g1, g2 := swift.NewSeededRandom(42), swift.NewSeededRandom(42)
	for range 10 {
		if g1.Next() != g2.Next() {
			t.Fatalf("seeded generators diverged")
		}
	}
	for range 100 {
		if i := swift.RandomIndex(g1, 7); i < 0 || i >= 7 {
			t.Fatalf("RandomIndex out of range: %d", i)
		}
	}
	if _, ok := swift.RandomElement[int](swift.NewArray[int](), g1); ok {
		t.Fatalf("RandomElement of empty reported a value")
	}
	testkit.ExpectPanic(t, swift.PanicPrecondition, func() { swift.RandomIndex(g1, 0) })
}
