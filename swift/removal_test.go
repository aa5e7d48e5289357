package swift_test

import (
	"slices"
	"testing"

	"swiftcore/swift"
)

func TestArrayRemovedElementIsIndependent(t *testing.T) {
	tests := []struct {
		name   string
		remove func(*swift.Array[*swift.Array[int]]) *swift.Array[int]
	}{
		{"removeAt", func(a *swift.Array[*swift.Array[int]]) *swift.Array[int] { return a.RemoveAt(0) }},
		{"removeFirst", func(a *swift.Array[*swift.Array[int]]) *swift.Array[int] { return a.RemoveFirst() }},
		{"removeLast", func(a *swift.Array[*swift.Array[int]]) *swift.Array[int] { return a.RemoveLast() }},
		{"popFirst", func(a *swift.Array[*swift.Array[int]]) *swift.Array[int] { row, _ := a.PopFirst(); return row }},
		{"popLast", func(a *swift.Array[*swift.Array[int]]) *swift.Array[int] { row, _ := a.PopLast(); return row }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outer := swift.ArrayOf(swift.ArrayOf(1))
			outer2 := outer.Copy()
			row := tt.remove(outer)
			row.Append(2)
			if got := ints(outer2.At(0)); !slices.Equal(got, []int{1}) {
				t.Fatalf("copy changed through removed element: %v", got)
			}
		})
	}
}

func TestArrayPredicatesSeeCopies(t *testing.T) {
	outer := swift.ArrayOf(swift.ArrayOf(1), swift.ArrayOf(2))
	outer2 := outer.Copy()
	grow := func(row *swift.Array[int]) bool {
		row.Append(9)
		return false
	}
	outer.FirstIndex(grow)
	outer.LastIndex(grow)
	outer.RemoveAllWhere(grow)
	for i := range 2 {
		if outer.At(i).Count() != 1 || outer2.At(i).Count() != 1 {
			t.Fatalf("predicate wrote into storage: %v / %v", outer, outer2)
		}
	}
}

func TestDictionaryRemovedValueIsIndependent(t *testing.T) {
	tests := []struct {
		name   string
		remove func(*swift.Dictionary[string, *swift.Array[int]]) *swift.Array[int]
	}{
		{"removeValue", func(d *swift.Dictionary[string, *swift.Array[int]]) *swift.Array[int] {
			v, _ := d.RemoveValue("a")
			return v
		}},
		{"updateValue", func(d *swift.Dictionary[string, *swift.Array[int]]) *swift.Array[int] {
			v, _ := d.UpdateValue(swift.ArrayOf(7), "a")
			return v
		}},
		{"removeAt", func(d *swift.Dictionary[string, *swift.Array[int]]) *swift.Array[int] { return d.RemoveAt(0).Value }},
		{"popFirst", func(d *swift.Dictionary[string, *swift.Array[int]]) *swift.Array[int] {
			p, _ := d.PopFirst()
			return p.Value
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := swift.DictionaryOf(swift.PairOf("a", swift.ArrayOf(1)))
			d2 := d.Copy()
			tt.remove(d).Append(2)
			if v, _ := d2.Get("a"); !slices.Equal(ints(v), []int{1}) {
				t.Fatalf("copy changed: %v", d2)
			}
		})
	}
}

func TestDictionaryPredicatesSeeCopies(t *testing.T) {
	d := swift.DictionaryOf(swift.PairOf("a", swift.ArrayOf(1)))
	d2 := d.Copy()
	grow := func(_ string, v *swift.Array[int]) bool {
		v.Append(9)
		return true
	}
	kept := d.Filter(grow)
	if v, _ := kept.Get("a"); v.Count() != 1 {
		t.Fatalf("filter stored the predicate's mutation: %v", kept)
	}
	d.RemoveAllWhere(grow)
	if v, _ := d2.Get("a"); v.Count() != 1 || !d.IsEmpty() {
		t.Fatalf("after RemoveAllWhere: d=%v d2=%v", d, d2)
	}
}

func TestSetRemovedMemberIsIndependent(t *testing.T) {
	tests := []struct {
		name   string
		remove func(*swift.Set[*swift.Array[int]]) *swift.Array[int]
	}{
		{"remove", func(s *swift.Set[*swift.Array[int]]) *swift.Array[int] {
			e, _ := s.Remove(swift.ArrayOf(1))
			return e
		}},
		{"update", func(s *swift.Set[*swift.Array[int]]) *swift.Array[int] {
			e, _ := s.Update(swift.ArrayOf(1))
			return e
		}},
		{"removeAt", func(s *swift.Set[*swift.Array[int]]) *swift.Array[int] { return s.RemoveAt(0) }},
		{"popFirst", func(s *swift.Set[*swift.Array[int]]) *swift.Array[int] {
			e, _ := s.PopFirst()
			return e
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := swift.NewSet[*swift.Array[int]]()
			s.Insert(swift.ArrayOf(1))
			s2 := s.Copy()
			tt.remove(s).Append(2)
			if !s2.Contains(swift.ArrayOf(1)) || s2.Contains(swift.ArrayOf(1, 2)) {
				t.Fatalf("copy changed: %v", s2)
			}
		})
	}
}
