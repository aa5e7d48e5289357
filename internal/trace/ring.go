package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N events in memory (circular buffer) so a
// failing property can be explained after the fact.
type RingTracer struct {
	mu       sync.RWMutex
	events   []Event
	capacity int
	head     int  // next write position
	full     bool // has wrapped around
	level    Level
}

// NewRingTracer creates a new RingTracer with specified capacity.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}

	return &RingTracer{
		events:   make([]Event, capacity),
		capacity: capacity,
		level:    level,
	}
}

// Emit adds an event to the ring buffer.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.head] = stored
	t.head = (t.head + 1) % t.capacity

	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns a copy of all stored events in chronological order.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.full {
		// Not wrapped yet - return [0:head]
		result := make([]Event, t.head)
		copy(result, t.events[:t.head])
		return result
	}

	// Wrapped - return [head:capacity] + [0:head]
	result := make([]Event, t.capacity)
	copy(result, t.events[t.head:])
	copy(result[t.capacity-t.head:], t.events[:t.head])
	return result
}

// Filter returns the stored events of one scope in chronological order.
func (t *RingTracer) Filter(scope Scope) []Event {
	all := t.Snapshot()
	out := all[:0]
	for _, ev := range all {
		if ev.Scope == scope {
			out = append(out, ev)
		}
	}
	return out
}

// Subtree returns the stored events of the given spans and of every span
// begun beneath them, in chronological order. Events whose ancestors were
// already evicted from the ring are dropped.
func (t *RingTracer) Subtree(roots ...uint64) []Event {
	keep := make(map[uint64]bool, len(roots))
	for _, id := range roots {
		if id != 0 {
			keep[id] = true
		}
	}
	var out []Event
	for _, ev := range t.Snapshot() {
		switch {
		case ev.SpanID != 0 && keep[ev.SpanID]:
		case ev.ParentID != 0 && keep[ev.ParentID]:
			if ev.SpanID != 0 {
				keep[ev.SpanID] = true
			}
		default:
			continue
		}
		out = append(out, ev)
	}
	return out
}

// FailedProperties returns the IDs of property spans that have a failure
// recorded at or below them.
func (t *RingTracer) FailedProperties() []uint64 {
	events := t.Snapshot()
	parent := make(map[uint64]uint64)
	scope := make(map[uint64]Scope)
	for _, ev := range events {
		if ev.Kind == KindSpanBegin {
			parent[ev.SpanID] = ev.ParentID
			scope[ev.SpanID] = ev.Scope
		}
	}
	seen := make(map[uint64]bool)
	var ids []uint64
	for _, ev := range events {
		if ev.Scope != ScopeFailure {
			continue
		}
		for id := ev.ParentID; id != 0; id = parent[id] {
			if scope[id] == ScopeProperty {
				if !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
				break
			}
		}
	}
	return ids
}

// DumpFailures writes the subtrees of failed properties, or every stored
// event when no failure can be traced to a property span.
func (t *RingTracer) DumpFailures(w io.Writer, format Format) error {
	ids := t.FailedProperties()
	if len(ids) == 0 {
		return t.Dump(w, format)
	}
	events := t.Subtree(ids...)
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

// Dump writes all events to the provided writer in the specified format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()

	for i := range events {
		data := FormatEvent(&events[i], format)
		if _, err := w.Write(data); err != nil {
			return err
		}
	}

	return nil
}

// Flush is a no-op for RingTracer since everything is in memory.
func (t *RingTracer) Flush() error {
	return nil
}

// Close is a no-op for RingTracer.
func (t *RingTracer) Close() error {
	return nil
}

// Level returns the current tracing level.
func (t *RingTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *RingTracer) Enabled() bool {
	return t.level > LevelOff
}
