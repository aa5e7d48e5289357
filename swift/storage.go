package swift

import "fmt"

// store is a concrete backing store: a list, an ordered map or an ordered
// set. Stores are always referenced through a pointer so handles can share
// them.
type store[S any] interface {
	comparable
	clone() S
	size() int
	readOnly() bool
}

// cowStorage separates the logical element sequence of a handle from the
// backing store it reads. A root handle sees the whole store; a slice sees
// [start, end) of it, where an open end tracks the store length.
type cowStorage[S store[S]] struct {
	backing S
	shared  bool
	sliced  bool
	start   int
	end     int
	openEnd bool
	label   string
}

// bounds returns the effective [lo, hi) window over the backing store.
func (c *cowStorage[S]) bounds() (int, int) {
	if !c.sliced {
		return 0, c.backing.size()
	}
	return c.start, c.effectiveEnd()
}

// effectiveEnd recomputes an open end from the current store length. A
// closed end is the value captured when the slice was made.
func (c *cowStorage[S]) effectiveEnd() int {
	if c.openEnd {
		return c.backing.size()
	}
	return c.end
}

func (c *cowStorage[S]) count() int {
	lo, hi := c.bounds()
	return hi - lo
}

// willMutateStorage returns a backing store this handle owns exclusively,
// forking it first when it is shared or read-only. Slices cannot mutate.
func (c *cowStorage[S]) willMutateStorage(op string) S {
	if c.sliced {
		unsupported(op, fmt.Sprintf("cannot mutate a %s slice", c.label))
	}
	if c.shared || c.backing.readOnly() {
		c.backing = c.backing.clone()
		c.shared = false
		traceStorage("fork:"+c.label, op, c.backing.size())
	}
	return c.backing
}

// share marks the storage shared and returns a second view of it.
func (c *cowStorage[S]) share() cowStorage[S] {
	c.shared = true
	return *c
}

// willSliceStorage returns a read-only window relative to this handle's own
// window. The parent becomes shared so its next mutation forks instead of
// writing through the slice.
func (c *cowStorage[S]) willSliceStorage(lo, hi int, open bool) cowStorage[S] {
	c.shared = true
	base, baseHi := c.bounds()
	view := cowStorage[S]{
		backing: c.backing,
		shared:  true,
		sliced:  true,
		start:   base + lo,
		label:   c.label,
	}
	switch {
	case open && (!c.sliced || c.openEnd):
		view.openEnd = true
	case open:
		view.end = baseHi
	default:
		view.end = base + hi
	}
	traceStorage("slice:"+c.label, fmt.Sprintf("%d..<%d", view.start, view.effectiveEnd()), view.count())
	return view
}

// checkWindow validates the window against the store.
func (c *cowStorage[S]) checkWindow() error {
	lo, hi := c.bounds()
	if lo < 0 || hi < lo || hi > c.backing.size() {
		return fmt.Errorf("%s window %d..<%d outside store of size %d", c.label, lo, hi, c.backing.size())
	}
	return nil
}
