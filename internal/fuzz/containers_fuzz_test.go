package fuzztests

import (
	"maps"
	"slices"
	"testing"

	"swiftcore/internal/testkit"
	"swiftcore/swift"
)

type arraySnapshot struct {
	handle *swift.Array[int]
	want   []int
}

func FuzzArrayOps(f *testing.F) {
	addOpSeeds(f)
	f.Fuzz(func(t *testing.T, program []byte) {
		program = clamp(program, maxProgramBytes)
		a := swift.NewArray[int]()
		var model []int
		var frozen []arraySnapshot

		for pc := 0; pc+1 < len(program); pc += 2 {
			op, arg := program[pc]%10, int(program[pc+1])
			n := len(model)
			if n == 0 && op > 1 && op < 9 {
				op = 0
			}
			switch op {
			case 0:
				a.Append(arg)
				model = append(model, arg)
			case 1:
				i := arg % (n + 1)
				a.Insert(arg, i)
				model = slices.Insert(model, i, arg)
			case 2:
				i := arg % n
				if got := a.RemoveAt(i); got != model[i] {
					t.Fatalf("pc %d: RemoveAt(%d) = %d, want %d", pc, i, got, model[i])
				}
				model = slices.Delete(model, i, i+1)
			case 3:
				i := arg % n
				a.SetAt(i, arg)
				model[i] = arg
			case 4:
				a.Reverse()
				slices.Reverse(model)
			case 5:
				swift.SortAscending(a)
				slices.Sort(model)
			case 6:
				pred := func(x int) bool { return x%(arg%7+2) == 0 }
				a.RemoveAllWhere(pred)
				model = slices.DeleteFunc(model, pred)
			case 7:
				lo := arg % (n + 1)
				frozen = append(frozen, arraySnapshot{a.SliceFrom(lo), slices.Clone(model[lo:])})
			case 8:
				i, j := arg%n, (arg/7)%n
				lo, hi := min(i, j), max(i, j)
				frozen = append(frozen, arraySnapshot{a.Slice(lo, hi), slices.Clone(model[lo:hi])})
			default:
				frozen = append(frozen, arraySnapshot{swift.Sref(a, nil), slices.Clone(model)})
			}
			if got := a.ToSlice(false); !slices.Equal(got, model) {
				t.Fatalf("pc %d (op %d): array %v, model %v", pc, op, got, model)
			}
		}
		for i, s := range frozen {
			if got := s.handle.ToSlice(false); !slices.Equal(got, s.want) {
				t.Fatalf("snapshot %d changed: %v, want %v", i, got, s.want)
			}
			if err := testkit.CheckInvariants(s.handle); err != nil {
				t.Fatalf("snapshot %d: %v", i, err)
			}
		}
		if err := testkit.CheckInvariants(a); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzDictionaryOps(f *testing.F) {
	addOpSeeds(f)
	f.Fuzz(func(t *testing.T, program []byte) {
		program = clamp(program, maxProgramBytes)
		d := swift.NewDictionary[int, int]()
		model := map[int]int{}
		var order []int
		var copies []*swift.Dictionary[int, int]
		var wants []map[int]int

		for pc := 0; pc+1 < len(program); pc += 2 {
			op, arg := program[pc]%6, int(program[pc+1])
			k := arg % 16
			switch op {
			case 0, 1:
				d.Set(k, arg)
				if _, ok := model[k]; !ok {
					order = append(order, k)
				}
				model[k] = arg
			case 2:
				d.RemoveValue(k)
				if _, ok := model[k]; ok {
					order = slices.DeleteFunc(order, func(x int) bool { return x == k })
				}
				delete(model, k)
			case 3:
				d.UpdateDefault(k, func() int { return 0 }, func(v int) int { return v + 1 })
				if _, ok := model[k]; !ok {
					order = append(order, k)
				}
				model[k]++
			case 4:
				if v := d.GetDefault(k, func() int { return -1 }); v != -1 && v != model[k] {
					t.Fatalf("pc %d: GetDefault(%d) = %d, want %d", pc, k, v, model[k])
				}
			default:
				copies = append(copies, swift.Sref(d, nil))
				wants = append(wants, maps.Clone(model))
			}
			if got := d.ToMap(); !maps.Equal(got, model) {
				t.Fatalf("pc %d (op %d): dictionary %v, model %v", pc, op, d, model)
			}
			if got := slices.Collect(d.Keys().All()); !slices.Equal(got, order) {
				t.Fatalf("pc %d: key order %v, want %v", pc, got, order)
			}
		}
		for i, c := range copies {
			if got := c.ToMap(); !maps.Equal(got, wants[i]) {
				t.Fatalf("copy %d changed: %v, want %v", i, got, wants[i])
			}
		}
		if err := testkit.CheckInvariants(d); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzIntSetOps(f *testing.F) {
	addOpSeeds(f)
	f.Fuzz(func(t *testing.T, program []byte) {
		program = clamp(program, maxProgramBytes)
		is, gs := swift.NewIntSet(), swift.NewSet[int]()
		for pc := 0; pc+1 < len(program); pc += 2 {
			op, arg := program[pc]%4, int(program[pc+1])
			lo, hi := arg%32, arg%32+int(program[pc]>>4)
			switch op {
			case 0:
				is.Insert(arg)
				gs.Insert(arg)
			case 1:
				is.Remove(arg)
				gs.Remove(arg)
			case 2:
				is.InsertRange(swift.RangeOf(lo, hi))
				for x := range hi - lo {
					gs.Insert(lo + x)
				}
			default:
				is.RemoveRange(swift.RangeOf(lo, hi))
				gs.Subtract(swift.ArrayFromSlice(rangeInts(lo, hi), true))
			}
		}
		want := swift.SortedAscending[int](gs).ToSlice(false)
		if got := is.ToSlice(); !slices.Equal(got, want) {
			t.Fatalf("intset %v, set %v", got, want)
		}
		if err := testkit.CheckInvariants(is, gs); err != nil {
			t.Fatal(err)
		}
	})
}

func rangeInts(lo, hi int) []int {
	out := make([]int, 0, max(hi-lo, 0))
	for x := lo; x < hi; x++ {
		out = append(out, x)
	}
	return out
}
