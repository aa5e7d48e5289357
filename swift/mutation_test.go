package swift_test

import (
	"slices"
	"testing"

	"swiftcore/internal/trace"
	"swiftcore/swift"
)

// point is a generated-style value type holding a nested container.
type point struct {
	x, y int
	tags *swift.Array[string]
	mut  swift.MutationState
}

func (p *point) SCopy() swift.MutableStruct {
	return &point{x: p.x, y: p.y, tags: swift.Sref(p.tags, nil)}
}
func (p *point) SetSUpdate(fn func(swift.MutableStruct)) { p.mut.SetUpdate(fn) }
func (p *point) WillMutate()                             { p.mut.Begin() }
func (p *point) DidMutate()                              { p.mut.End(p) }

func (p *point) moveBy(dx, dy int) {
	p.WillMutate()
	defer p.DidMutate()
	p.setX(p.x + dx)
	p.setY(p.y + dy)
}

func (p *point) setX(x int) {
	p.WillMutate()
	defer p.DidMutate()
	p.x = x
}

func (p *point) setY(y int) {
	p.WillMutate()
	defer p.DidMutate()
	p.y = y
}

func TestWriteBackFiresOncePerOuterMutation(t *testing.T) {
	fired := 0
	a := swift.ArrayOf(4, 3, 2, 1)
	a.SetSUpdate(func(swift.MutableStruct) { fired++ })

	a.RemoveAllWhere(func(x int) bool { return x%2 == 0 })
	if fired != 1 {
		t.Fatalf("RemoveAllWhere fired %d write-backs", fired)
	}
	a.Sort(func(x, y int) bool { return x < y })
	if fired != 2 {
		t.Fatalf("Sort fired %d write-backs in total", fired)
	}
	a.RemoveFirstN(1)
	if fired != 3 {
		t.Fatalf("RemoveFirstN fired %d write-backs in total", fired)
	}
}

func TestUserValueTypeWriteBack(t *testing.T) {
	pts := swift.ArrayOf(&point{tags: swift.NewArray[string]()})
	updates := 0
	pts.SetSUpdate(func(swift.MutableStruct) { updates++ })

	pts.At(0).moveBy(2, 3)
	got := pts.At(0)
	if got.x != 2 || got.y != 3 {
		t.Fatalf("point after moveBy: (%d, %d)", got.x, got.y)
	}
	if updates != 1 {
		t.Fatalf("nested moveBy propagated %d updates", updates)
	}

	cp := swift.Sref(pts, nil)
	cp.At(0).setX(10)
	if pts.At(0).x != 2 {
		t.Fatalf("copy's point mutation leaked: x=%d", pts.At(0).x)
	}
}

func TestSrefIdentityForPlainValues(t *testing.T) {
	if swift.Sref(5, nil) != 5 {
		t.Fatalf("Sref changed a plain value")
	}
	var nilArr *swift.Array[int]
	if swift.Sref(nilArr, nil) != nil {
		t.Fatalf("Sref of nil handle is not nil")
	}
	a := swift.ArrayOf(1)
	if swift.Sref(a, nil) == a {
		t.Fatalf("Sref returned the same handle")
	}
}

func TestMutationDepthReturnsToZero(t *testing.T) {
	var m swift.MutationState
	calls := 0
	m.SetUpdate(func(swift.MutableStruct) { calls++ })
	m.Begin()
	m.Begin()
	m.End(nil)
	if calls != 0 || m.Depth() != 1 {
		t.Fatalf("inner End fired: calls=%d depth=%d", calls, m.Depth())
	}
	m.End(nil)
	if calls != 1 || m.Depth() != 0 {
		t.Fatalf("outer End: calls=%d depth=%d", calls, m.Depth())
	}
}

func TestStorageEventsReachTracer(t *testing.T) {
	ring := trace.NewRingTracer(256, trace.LevelDebug)
	swift.SetTracer(ring)
	defer swift.SetTracer(nil)

	outer := swift.ArrayOf(swift.ArrayOf(1))
	_ = outer.Slice(0, 1)
	outer.At(0).Append(2)

	var names []string
	for _, ev := range ring.Filter(trace.ScopeStorage) {
		names = append(names, ev.Name)
	}
	for _, want := range []string{"slice:array", "fork:array", "writeback"} {
		if !slices.Contains(names, want) {
			t.Fatalf("missing %q in storage events %v", want, names)
		}
	}
}

func TestStorageEventsSilentBelowDebug(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelCase)
	swift.SetTracer(ring)
	defer swift.SetTracer(nil)

	a := swift.ArrayOf(1)
	b := a.Copy()
	b.Append(2)
	if n := len(ring.Snapshot()); n != 0 {
		t.Fatalf("got %d events at case level", n)
	}
}
