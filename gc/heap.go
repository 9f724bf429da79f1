// Package gc implements the runtime's mark-and-sweep heap: a set of
// GC-managed objects reached through indirect handles, so that an
// object's layout can be rewritten in place (by package mapper, on
// reload) while user code still holds references to it.
//
// The heap does not scan native stacks; all rooting is explicit, through
// Handle.Root/Unroot, exactly as spec.md §4.5 describes the host-facing
// gc_root/gc_unroot pair.
package gc

import (
	"sync"

	"github.com/mun-lang/mun/types"
)

// object is the GC-internal record for one allocation. A Handle's
// identity IS a *object pointer — stable for the object's lifetime —
// while the object's own fields (typ, data, gcRefs) are the part the
// memory mapper rewrites in place on a reload. This collapses the
// spec's separate "outer pointer / inner pointer" into one Go-managed
// struct; see Handle.Rewrite's doc comment for why that still preserves the
// spec's handle-identity invariant.
type object struct {
	typ    *types.Descriptor
	data   []byte
	gcRefs map[uint32]*Handle // byte offset -> referenced object, for every Gc-kind struct field reachable at any nesting depth

	mark uint64
	root int32

	deletedType bool // true once the type that created this object is no longer in the live type table
}

// Handle is the host-facing reference to one GC object: a pointer whose
// identity is stable for as long as the handle is rooted or reachable,
// even across a reload that rewrites the object's layout.
type Handle struct {
	heap *Heap
	obj  *object
}

// Heap is a mark-and-sweep collector guarded by one mutex for allocation
// and root-count changes, plus a stop-the-world flag for collection —
// exactly the two sub-resources spec.md §5 calls out as using
// fine-grained locking, everything else in the runtime being
// single-threaded with respect to the façade.
type Heap struct {
	mu    sync.Mutex
	stw   bool
	epoch uint64

	objects map[*object]struct{}

	allocated uint64
	freed     uint64
}

// NewHeap returns an empty heap.
func NewHeap() *Heap {
	return &Heap{objects: make(map[*object]struct{})}
}

// Alloc allocates a zeroed block of t.Layout.Size bytes and returns a
// fresh, unrooted handle to it. t.Layout.Align is not applied to the
// block.
func (h *Heap) Alloc(t *types.Descriptor) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	obj := &object{
		typ:    t,
		data:   make([]byte, t.Layout.Size),
		gcRefs: make(map[uint32]*Handle),
	}
	h.objects[obj] = struct{}{}
	h.allocated++
	return &Handle{heap: h, obj: obj}
}

// Type returns the handle's current type descriptor. This changes across
// a reload that remaps the handle to a new layout.
func (h *Handle) Type() *types.Descriptor {
	return h.obj.typ
}

// Root increments the handle's root count; an object with root > 0
// (or reachable from one) survives collection.
func (h *Handle) Root() {
	h.heap.mu.Lock()
	h.obj.root++
	h.heap.mu.Unlock()
}

// Unroot decrements the handle's root count.
func (h *Handle) Unroot() {
	h.heap.mu.Lock()
	if h.obj.root > 0 {
		h.obj.root--
	}
	h.heap.mu.Unlock()
}

// Stats is a snapshot of heap bookkeeping, useful for diagnostics and the
// host CLI's load subcommand; present in the upstream runtime's
// diagnostics surface though not named as a spec.md operation.
type Stats struct {
	Live      int
	Allocated uint64
	Freed     uint64
}

func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{Live: len(h.objects), Allocated: h.allocated, Freed: h.freed}
}
