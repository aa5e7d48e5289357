package swift

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"swiftcore/internal/trace"
)

type tracerBox struct {
	t trace.Tracer
}

var storageTracer atomic.Pointer[tracerBox]

// SetTracer installs the tracer that receives storage events (forks,
// slices, write-backs). Events are only built when the tracer admits
// trace.ScopeStorage. Passing nil restores the nop tracer.
func SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	storageTracer.Store(&tracerBox{t: t})
}

func currentTracer() (trace.Tracer, bool) {
	box := storageTracer.Load()
	if box == nil || !box.t.Enabled() || !box.t.Level().ShouldEmit(trace.ScopeStorage) {
		return nil, false
	}
	return box.t, true
}

func traceStorage(name, op string, size int) {
	t, ok := currentTracer()
	if !ok {
		return
	}
	trace.Point(t, trace.ScopeStorage, name, op, map[string]string{"size": strconv.Itoa(size)})
}

func traceWriteBack(v MutableStruct) {
	t, ok := currentTracer()
	if !ok {
		return
	}
	trace.Point(t, trace.ScopeStorage, "writeback", fmt.Sprintf("%T", v), nil)
}
