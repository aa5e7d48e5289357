package swift

import "reflect"

// MutableStruct is the copy-on-write contract every emulated value type
// implements. Generated structs implement it the same way the built-in
// containers do.
type MutableStruct interface {
	// SCopy returns a new handle sharing the current storage. Both handles
	// fork on their next mutation.
	SCopy() MutableStruct
	// SetSUpdate installs the callback fired after the outermost mutation.
	SetSUpdate(fn func(MutableStruct))
	// WillMutate opens a mutation bracket.
	WillMutate()
	// DidMutate closes a mutation bracket.
	DidMutate()
}

// MutationState is the bookkeeping half of MutableStruct. Embed it and
// forward WillMutate to Begin and DidMutate to End(self).
type MutationState struct {
	update func(MutableStruct)
	depth  int
}

// Begin increments the nesting depth.
func (m *MutationState) Begin() {
	m.depth++
}

// End decrements the nesting depth and fires the update callback when the
// outermost bracket closes.
func (m *MutationState) End(self MutableStruct) {
	if m.depth > 0 {
		m.depth--
	}
	if m.depth == 0 && m.update != nil {
		traceWriteBack(self)
		m.update(self)
	}
}

// SetUpdate replaces the update callback. A nil callback means no owner
// needs to hear about mutations.
func (m *MutationState) SetUpdate(fn func(MutableStruct)) {
	m.update = fn
}

// HasUpdate reports whether an owner is listening.
func (m *MutationState) HasUpdate() bool {
	return m.update != nil
}

// Depth returns the current nesting depth.
func (m *MutationState) Depth() int {
	return m.depth
}

// Sref normalizes a value crossing a container boundary. Plain values are
// returned as is. Mutation-tracked values are replaced by an SCopy whose
// update callback is onUpdate (nil on write paths).
func Sref[T any](v T, onUpdate func(T)) T {
	ms, ok := any(v).(MutableStruct)
	if !ok || isNilHandle(ms) {
		return v
	}
	c := ms.SCopy()
	if onUpdate != nil {
		c.SetSUpdate(func(changed MutableStruct) {
			onUpdate(changed.(T))
		})
	}
	return c.(T)
}

func isNilHandle(ms MutableStruct) bool {
	rv := reflect.ValueOf(ms)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
