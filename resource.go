package adbc

import (
	"fmt"
	"runtime"
	"sync/atomic"
)

// resourceKind describes one native handle kind: the destructor the garbage
// collector falls back to when a handle was never explicitly released, and a
// counter of currently live native allocations for that kind.
//
// Kinds are registered once during package init and are read-only afterwards.
type resourceKind[T any] struct {
	name    string
	destroy func(*T)
	live    atomic.Int64
}

var registeredKinds = make(map[string]struct{})

// registerResourceKind runs at package init, before any operation on the kind
// can execute. A duplicate registration means the registry is inconsistent
// and nothing may run, so it panics.
func registerResourceKind[T any](name string, destroy func(*T)) *resourceKind[T] {
	if _, dup := registeredKinds[name]; dup {
		panic(fmt.Sprintf("adbc: resource kind %q registered twice", name))
	}
	registeredKinds[name] = struct{}{}
	return &resourceKind[T]{name: name, destroy: destroy}
}

// resource owns a single heap-allocated native struct. raw is nil once the
// handle has been released; a nil raw never reaches the driver manager.
type resource[T any] struct {
	kind *resourceKind[T]
	raw  *T
}

// allocate returns a tracked wrapper around a zero-initialized native struct.
// The finalizer only matters for wrappers the caller never releases: every
// explicit release path nils raw first, turning the finalizer into a no-op.
func (k *resourceKind[T]) allocate() *resource[T] {
	r := &resource[T]{kind: k, raw: new(T)}
	k.live.Add(1)
	runtime.SetFinalizer(r, (*resource[T]).finalize)
	return r
}

func (r *resource[T]) finalize() {
	if r.raw == nil {
		return
	}
	r.kind.destroy(r.raw)
	r.raw = nil
	r.kind.live.Add(-1)
}

// free drops the native allocation once the handle is gone, either after a
// successful release or when construction failed. Clearing the finalizer
// keeps it from running against the dead handle.
func (r *resource[T]) free() {
	r.raw = nil
	r.kind.live.Add(-1)
	runtime.SetFinalizer(r, nil)
}

// Live reports how many native handles of this kind are currently allocated.
func (k *resourceKind[T]) Live() int64 {
	return k.live.Load()
}
